package action

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrypster/cos/pkg/types"
)

// monday9am is Monday 2024-01-15 09:00 UTC.
var monday9am = time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

func newTestExecutor() *Executor {
	return NewExecutor(WithClock(func() time.Time { return monday9am }))
}

func TestExecute_ScheduleBuildsCalendar(t *testing.T) {
	intent := types.Intent{
		Category: string(types.ActionSchedule),
		Domain:   types.DomainGeneral,
		Entities: []types.ExtractedEntity{
			types.NewEntity(types.EntityPerson, "Sarah"),
			types.NewEntity(types.EntityDate, "tomorrow"),
			types.NewEntity(types.EntityTime, "2pm"),
		},
	}

	a := newTestExecutor().Execute(intent, "schedule meeting with Sarah tomorrow at 2pm")

	assert.Equal(t, KindCalendar, a.Kind)
	assert.Equal(t, "general_event.ics", a.Filename)
	assert.Equal(t, MIMECalendar, a.MIMEType)
	assert.True(t, strings.HasPrefix(a.Content, "BEGIN:VCALENDAR\r\n"))
	assert.Contains(t, a.Content, "DTSTART:20240116T140000Z\r\n")
	assert.Contains(t, a.Content, "DTEND:20240116T150000Z\r\n")
	assert.Contains(t, a.Content, "SUMMARY:Meeting with Sarah\r\n")
	assert.Contains(t, a.Content, "ATTENDEE;CN=Sarah:")
	assert.True(t, strings.HasSuffix(a.Content, "END:VCALENDAR\r\n"))
}

func TestEventClock(t *testing.T) {
	tests := []struct {
		name     string
		times    []string
		wantHour int
		wantMin  int
	}{
		{"none", nil, defaultEventHour, 0},
		{"meridiem beats bare hour", []string{"12", "3pm"}, 15, 0},
		{"colon beats bare hour", []string{"5", "10:30"}, 10, 30},
		{"bare hour alone", []string{"9"}, 9, 0},
		{"out of range skipped", []string{"25", "11am"}, 11, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var entities []types.ExtractedEntity
			for _, v := range tt.times {
				entities = append(entities, types.NewEntity(types.EntityTime, v))
			}
			h, m := eventClock(entities)
			assert.Equal(t, tt.wantHour, h)
			assert.Equal(t, tt.wantMin, m)
		})
	}
}

func TestExecute_ScheduleIgnoresDateDigits(t *testing.T) {
	intent := types.Intent{
		Category: string(types.ActionSchedule),
		Entities: []types.ExtractedEntity{
			types.NewEntity(types.EntityTime, "12"),
			types.NewEntity(types.EntityTime, "3pm"),
		},
	}

	a := newTestExecutor().Execute(intent, "meet on 12/5/2025 at 3pm")

	assert.Contains(t, a.Content, "DTSTART:20240116T150000Z\r\n")
}

func TestExecute_PlanningCategoryWithoutEntities(t *testing.T) {
	a := newTestExecutor().Execute(types.Intent{Category: types.CategoryPlanning}, "set up a call")

	assert.Equal(t, KindCalendar, a.Kind)
	assert.Contains(t, a.Content, "SUMMARY:Phone Call\r\n")
	assert.Contains(t, a.Content, "DTSTART:20240116T140000Z\r\n")
}

func TestExecute_CommunicateBuildsMailto(t *testing.T) {
	intent := types.Intent{Category: string(types.ActionCommunicate), Domain: types.DomainBusiness}

	a := newTestExecutor().Execute(intent, "email the client about Q3 & budget")

	assert.Equal(t, KindMailto, a.Kind)
	require.True(t, strings.HasPrefix(a.URL, "mailto:?subject="))
	assert.NotContains(t, a.URL, "+")

	parsed, err := url.Parse(a.URL)
	require.NoError(t, err)
	q := parsed.Query()
	assert.Equal(t, "Follow-up: email the client about Q3 & budget", q.Get("subject"))
	assert.Contains(t, q.Get("body"), "Hi client,")
	assert.Empty(t, a.Content)
}

func TestExecute_MarkdownKinds(t *testing.T) {
	tests := []struct {
		category string
		domain   types.Domain
		input    string
		filename string
		heading  string
	}{
		{string(types.ActionLearn), types.DomainChemistry, "study for chemistry exam", "chemistry_study_plan.md", "# chemistry Study Plan"},
		{types.CategoryResearch, "", "read papers", "general_study_plan.md", "# general Study Plan"},
		{string(types.ActionCreate), types.DomainDataScience, "Build a Café dashboard!", "data_science_build_a_cafe_dashboard.md", "# data science Creation Plan"},
		{string(types.ActionAnalyze), types.DomainBusiness, "check revenue", "business_analysis.md", "# business Analysis Report"},
		{string(types.ActionOrganize), types.DomainGeneral, "tidy my desk", "general_organization_plan.md", "# general Organization Plan"},
		{types.CategoryGeneral, types.DomainGeneral, "hmm", "general_action_plan.md", "# general Action Plan"},
	}
	x := newTestExecutor()
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			a := x.Execute(types.Intent{Category: tt.category, Domain: tt.domain}, tt.input)

			assert.Equal(t, KindFile, a.Kind)
			assert.Equal(t, tt.filename, a.Filename)
			assert.Equal(t, MIMEMarkdown, a.MIMEType)
			assert.True(t, strings.HasPrefix(a.Content, tt.heading), a.Content)
			assert.Contains(t, a.Content, tt.input)
		})
	}
}

func TestExecutePrediction(t *testing.T) {
	x := newTestExecutor()

	a := x.ExecutePrediction("Email templates")
	assert.Equal(t, "email_templates_1705309200.md", a.Filename)
	assert.Contains(t, a.Content, "## Meeting Request")

	a = x.ExecutePrediction("Photosynthesis study guide")
	assert.Equal(t, "photosynthesis_study_guide_1705309200.md", a.Filename)
	assert.True(t, strings.HasPrefix(a.Content, "# Photosynthesis study guide\n"))
}

func TestArtifact_Save(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	a := newTestExecutor().Execute(types.Intent{Category: "organize"}, "sort files")

	path, err := a.Save(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "general_organization_plan.md"), path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, a.Content, string(raw))

	_, err = Artifact{Kind: KindMailto, URL: "mailto:?subject=x"}.Save(dir)
	assert.ErrorIs(t, err, ErrNothingToSave)
}
