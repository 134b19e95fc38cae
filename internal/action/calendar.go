package action

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/scrypster/cos/pkg/types"
)

const icsTimeFormat = "20060102T150405Z"

// defaultEventHour is used when the input names no time.
const defaultEventHour = 14

var clockTime = regexp.MustCompile(`(?i)^(\d{1,2})(?::(\d{2}))?\s*(am|pm)?$`)

// Event is a single calendar entry.
type Event struct {
	Title       string
	Description string
	Start       time.Time
	Duration    time.Duration
	Attendees   []string
	Stamp       time.Time
}

// newEvent derives an event from the input and its entities. The first
// date entity sets the day (tomorrow when absent) and eventClock picks the
// hour.
func newEvent(input string, entities []types.ExtractedEntity, now time.Time) Event {
	var attendees []string
	for _, p := range types.FilterEntities(entities, types.EntityPerson) {
		attendees = append(attendees, p.Value)
	}

	day := now.AddDate(0, 0, 1)
	if d, ok := types.FirstEntity(entities, types.EntityDate); ok {
		day = resolveDay(d.Key(), now)
	}
	hour, minute := eventClock(entities)

	return Event{
		Title:       eventTitle(input, attendees),
		Description: fmt.Sprintf("Auto-generated from: %q", input),
		Start:       time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, now.Location()),
		Duration:    time.Hour,
		Attendees:   attendees,
		Stamp:       now,
	}
}

func eventTitle(input string, attendees []string) string {
	lower := strings.ToLower(input)
	switch {
	case len(attendees) > 0:
		return "Meeting with " + attendees[0]
	case strings.Contains(lower, "meeting"):
		return "Team Meeting"
	case strings.Contains(lower, "call"):
		return "Phone Call"
	default:
		return "Scheduled Event"
	}
}

// resolveDay maps a date entity to a calendar day relative to now.
// Unrecognised forms fall back to tomorrow.
func resolveDay(date string, now time.Time) time.Time {
	switch date {
	case "today":
		return now
	case "tomorrow":
		return now.AddDate(0, 0, 1)
	case "yesterday":
		return now.AddDate(0, 0, -1)
	}
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if strings.ToLower(wd.String()) == date {
			ahead := (int(wd) - int(now.Weekday()) + 7) % 7
			if ahead == 0 {
				ahead = 7
			}
			return now.AddDate(0, 0, ahead)
		}
	}
	return now.AddDate(0, 0, 1)
}

// eventClock returns the first time entity that reads as a clock time with
// am/pm or a colon, so a bare "12" from "12/5/2025" does not win over "3pm".
// A bare hour is used only when nothing better exists.
func eventClock(entities []types.ExtractedEntity) (hour, minute int) {
	hour = defaultEventHour
	bare := false
	for _, t := range types.FilterEntities(entities, types.EntityTime) {
		h, m, ok := parseClock(t.Value)
		if !ok {
			continue
		}
		lower := strings.ToLower(t.Value)
		if strings.Contains(lower, ":") || strings.HasSuffix(lower, "am") || strings.HasSuffix(lower, "pm") {
			return h, m
		}
		if !bare {
			hour, minute, bare = h, m, true
		}
	}
	return hour, minute
}

func parseClock(s string) (hour, minute int, ok bool) {
	m := clockTime.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, 0, false
	}
	hour, _ = strconv.Atoi(m[1])
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	switch strings.ToLower(m[3]) {
	case "pm":
		if hour < 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}
	if hour > 23 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}

// ICS renders the event as a VCALENDAR document with CRLF line endings.
func (e Event) ICS() string {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//COS//Intent Calendar//EN",
		"BEGIN:VEVENT",
		fmt.Sprintf("UID:%d@cos.local", e.Stamp.UnixNano()),
		"DTSTAMP:" + e.Stamp.UTC().Format(icsTimeFormat),
		"DTSTART:" + e.Start.UTC().Format(icsTimeFormat),
		"DTEND:" + e.Start.Add(e.Duration).UTC().Format(icsTimeFormat),
		"SUMMARY:" + icsEscape(e.Title),
		"DESCRIPTION:" + icsEscape(e.Description),
	}
	for _, a := range e.Attendees {
		lines = append(lines, "ATTENDEE;CN="+icsEscape(a)+":mailto:invalid@cos.local")
	}
	lines = append(lines, "END:VEVENT", "END:VCALENDAR")
	return strings.Join(lines, "\r\n") + "\r\n"
}

var icsEscaper = strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\n", `\n`)

func icsEscape(s string) string {
	return icsEscaper.Replace(s)
}
