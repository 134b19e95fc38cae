package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/scrypster/cos/pkg/types"
)

func values(entities []types.ExtractedEntity, t types.EntityType) []string {
	var out []string
	for _, e := range types.FilterEntities(entities, t) {
		out = append(out, e.Value)
	}
	return out
}

func TestExtractEntities_MeetingRequest(t *testing.T) {
	e := NewExtractor()
	got := e.ExtractEntities("schedule meeting with Sarah tomorrow at 2pm")

	assert.Equal(t, []string{"Sarah"}, values(got, types.EntityPerson))
	assert.Equal(t, []string{"tomorrow"}, values(got, types.EntityDate))
	assert.Equal(t, []string{"2pm"}, values(got, types.EntityTime))
	assert.Contains(t, values(got, types.EntityTopic), "meeting")
}

func TestExtractEntities_Empty(t *testing.T) {
	got := NewExtractor().ExtractEntities("")
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestExtractEntities_NameDenylist(t *testing.T) {
	got := NewExtractor().ExtractEntities("learn React with Python")
	assert.Empty(t, values(got, types.EntityPerson))
	assert.Contains(t, values(got, types.EntityTopic), "react")
	assert.Contains(t, values(got, types.EntityTopic), "python")
}

func TestExtractEntities_ShortCapitalisedWordsAreNotNames(t *testing.T) {
	got := NewExtractor().ExtractEntities("Hi there")
	assert.NotContains(t, values(got, types.EntityPerson), "Hi")
}

func TestExtractEntities_Dates(t *testing.T) {
	got := NewExtractor().ExtractEntities("due friday, review on march 3 and ship 12/05/2025")
	dates := values(got, types.EntityDate)
	assert.Contains(t, dates, "friday")
	assert.Contains(t, dates, "march 3")
	assert.Contains(t, dates, "12/05/2025")
}

func TestExtractEntities_TimeIsPermissive(t *testing.T) {
	got := NewExtractor().ExtractEntities("buy 3 apples at 10:30 AM")
	times := values(got, types.EntityTime)
	assert.Contains(t, times, "3")
	assert.Contains(t, times, "10:30 AM")
}

func TestExtractEntities_Files(t *testing.T) {
	got := NewExtractor().ExtractEntities("open notes.md and report.XLSX")
	assert.Equal(t, []string{".md", ".XLSX"}, values(got, types.EntityFile))

	for _, f := range types.FilterEntities(got, types.EntityFile) {
		assert.Equal(t, f.Key(), f.Normalized)
	}
}

func TestExtractEntities_NoDeduplication(t *testing.T) {
	got := NewExtractor().ExtractEntities("Alice met Alice")
	assert.Equal(t, []string{"Alice", "Alice"}, values(got, types.EntityPerson))
}

func TestExtractEntities_FailingMatcherReturnsPartialResult(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	defaults := DefaultMatchers()

	e := NewExtractor(
		WithLogger(zap.New(core)),
		WithMatchers(
			defaults[0],
			Matcher{Name: "broken", Match: func(string) []types.ExtractedEntity { panic("boom") }},
			defaults[1],
		),
	)

	var got []types.ExtractedEntity
	require.NotPanics(t, func() {
		got = e.ExtractEntities("call Sarah tomorrow")
	})

	assert.Equal(t, []string{"Sarah"}, values(got, types.EntityPerson))
	assert.Empty(t, values(got, types.EntityDate), "matchers after the failure do not run")

	entries := logs.FilterMessage("entity extraction failed, returning partial result").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "broken", entries[0].ContextMap()["matcher"])
}
