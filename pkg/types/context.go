package types

import "time"

// TimeOfDay buckets the local hour.
type TimeOfDay string

// Time of day constants
const (
	Morning   TimeOfDay = "morning"
	Afternoon TimeOfDay = "afternoon"
	Evening   TimeOfDay = "evening"
	Night     TimeOfDay = "night"
)

// TimeOfDayAt buckets t: morning before 12, afternoon before 17,
// evening before 21, night otherwise.
func TimeOfDayAt(t time.Time) TimeOfDay {
	switch h := t.Hour(); {
	case h < 12:
		return Morning
	case h < 17:
		return Afternoon
	case h < 21:
		return Evening
	default:
		return Night
	}
}

// SessionState resets on every process start.
type SessionState struct {
	StartTime        time.Time `json:"startTime"`
	Interactions     int       `json:"interactions"`
	DominantCategory string    `json:"dominantCategory"`
}

// UserPatterns persist across sessions.
type UserPatterns struct {
	PreferredTimes    []string   `json:"preferredTimes"`
	CommonTopics      []string   `json:"commonTopics"`
	WorkflowSequences [][]string `json:"workflowSequences"`
}

// EnvironmentContext is derived from the clock.
type EnvironmentContext struct {
	TimeOfDay TimeOfDay `json:"timeOfDay"`
	DayOfWeek string    `json:"dayOfWeek"`
	IsWeekend bool      `json:"isWeekend"`
}

// EnvironmentAt derives the environment for t.
func EnvironmentAt(t time.Time) EnvironmentContext {
	wd := t.Weekday()
	return EnvironmentContext{
		TimeOfDay: TimeOfDayAt(t),
		DayOfWeek: wd.String(),
		IsWeekend: wd == time.Saturday || wd == time.Sunday,
	}
}

// ContextData is the rolling summary of recent inputs plus session and
// environment state.
type ContextData struct {
	// RecentInputs holds the newest input first.
	RecentInputs       []string           `json:"recentInputs"`
	CurrentSession     SessionState       `json:"currentSession"`
	UserPatterns       UserPatterns       `json:"userPatterns"`
	EnvironmentContext EnvironmentContext `json:"environmentContext"`
}

// NewContextData returns an empty context with a fresh session at now.
func NewContextData(now time.Time) ContextData {
	c := ContextData{
		RecentInputs: []string{},
		UserPatterns: UserPatterns{
			PreferredTimes:    []string{},
			CommonTopics:      []string{},
			WorkflowSequences: [][]string{},
		},
	}
	c.ResetSession(now)
	c.EnvironmentContext = EnvironmentAt(now)
	return c
}

// ResetSession starts a new session at now.
func (c *ContextData) ResetSession(now time.Time) {
	c.CurrentSession = SessionState{
		StartTime:        now,
		Interactions:     0,
		DominantCategory: CategoryGeneral,
	}
}

// PushInput prepends input, evicting the oldest beyond MaxRecentInputs.
func (c *ContextData) PushInput(input string) {
	next := make([]string, 0, MaxRecentInputs)
	next = append(next, input)
	for _, s := range c.RecentInputs {
		if len(next) == MaxRecentInputs {
			break
		}
		next = append(next, s)
	}
	c.RecentInputs = next
}

// AddTopics merges topics into CommonTopics without duplicates. Once the
// list is over MaxCommonTopics it is truncated to the first entries, so new
// topics past the cap are dropped rather than older ones evicted.
func (c *ContextData) AddTopics(topics ...string) {
	for _, topic := range topics {
		if !containsString(c.UserPatterns.CommonTopics, topic) {
			c.UserPatterns.CommonTopics = append(c.UserPatterns.CommonTopics, topic)
		}
	}
	if len(c.UserPatterns.CommonTopics) > MaxCommonTopics {
		c.UserPatterns.CommonTopics = c.UserPatterns.CommonTopics[:MaxCommonTopics]
	}
}

// AddPreferredTime records a time-of-day bucket the user has been active in.
func (c *ContextData) AddPreferredTime(tod TimeOfDay) {
	if !containsString(c.UserPatterns.PreferredTimes, string(tod)) {
		c.UserPatterns.PreferredTimes = append(c.UserPatterns.PreferredTimes, string(tod))
	}
}

// Clone returns a deep copy.
func (c ContextData) Clone() ContextData {
	out := c
	out.RecentInputs = append([]string(nil), c.RecentInputs...)
	out.UserPatterns.PreferredTimes = append([]string(nil), c.UserPatterns.PreferredTimes...)
	out.UserPatterns.CommonTopics = append([]string(nil), c.UserPatterns.CommonTopics...)
	out.UserPatterns.WorkflowSequences = make([][]string, len(c.UserPatterns.WorkflowSequences))
	for i, seq := range c.UserPatterns.WorkflowSequences {
		out.UserPatterns.WorkflowSequences[i] = append([]string(nil), seq...)
	}
	return out
}

// Normalize repairs a blob decoded from an older or partial save.
func (c *ContextData) Normalize() {
	if c.RecentInputs == nil {
		c.RecentInputs = []string{}
	}
	if len(c.RecentInputs) > MaxRecentInputs {
		c.RecentInputs = c.RecentInputs[:MaxRecentInputs]
	}
	if c.UserPatterns.PreferredTimes == nil {
		c.UserPatterns.PreferredTimes = []string{}
	}
	if c.UserPatterns.CommonTopics == nil {
		c.UserPatterns.CommonTopics = []string{}
	}
	if len(c.UserPatterns.CommonTopics) > MaxCommonTopics {
		c.UserPatterns.CommonTopics = c.UserPatterns.CommonTopics[:MaxCommonTopics]
	}
	if c.UserPatterns.WorkflowSequences == nil {
		c.UserPatterns.WorkflowSequences = [][]string{}
	}
	if c.CurrentSession.DominantCategory == "" {
		c.CurrentSession.DominantCategory = CategoryGeneral
	}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
