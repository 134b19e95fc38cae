package engine

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/scrypster/cos/internal/storage"
	"github.com/scrypster/cos/internal/storage/memory"
	"github.com/scrypster/cos/pkg/types"
)

// monday9am is a weekday morning.
var monday9am = time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return monday9am }

type panickingExtractor struct{}

func (panickingExtractor) ExtractEntities(string) []types.ExtractedEntity {
	panic("extractor exploded")
}

func newTestEngine(t *testing.T, cfg Config) (*CognitiveEngine, *storage.Repository) {
	t.Helper()
	repo := storage.NewRepository(memory.NewKVStore(), nil)
	ids := 0
	e, err := Open(context.Background(), repo, cfg, Deps{
		Clock: fixedClock,
		NewID: func() string { ids++; return fmt.Sprintf("id-%d", ids) },
	})
	require.NoError(t, err)
	return e, repo
}

func TestProcessInput_EmptyReturnsNil(t *testing.T) {
	e, _ := newTestEngine(t, DefaultConfig())

	assert.Nil(t, e.ProcessInput(context.Background(), ""))
	assert.Nil(t, e.ProcessInput(context.Background(), "   \t\n"))
}

func TestProcessInput_UniversalWithMorningDefaults(t *testing.T) {
	e, _ := newTestEngine(t, DefaultConfig())

	intent := e.ProcessInput(context.Background(), "schedule meeting with Sarah tomorrow at 2pm")

	require.NotNil(t, intent)
	assert.Equal(t, string(types.ActionSchedule), intent.Category)
	assert.Equal(t, types.DomainGeneral, intent.Domain)
	assert.InDelta(t, 0.7, intent.Confidence, 1e-9)
	assert.Equal(t, "Schedule new event (optimal morning planning time)", intent.Suggestion)
	assert.Equal(t, "calendar", intent.Icon)

	person, ok := types.FirstEntity(intent.Entities, types.EntityPerson)
	require.True(t, ok)
	assert.Equal(t, "Sarah", person.Value)
}

func TestProcessInput_Modes(t *testing.T) {
	fast, _ := newTestEngine(t, Config{Mode: ModeFast, AutomationThreshold: 3})
	intent := fast.ProcessInput(context.Background(), "email the design team")
	require.NotNil(t, intent)
	assert.Equal(t, string(types.ActionCommunicate), intent.Category)
	assert.LessOrEqual(t, intent.Confidence, 0.95)

	category, _ := newTestEngine(t, Config{Mode: ModeCategory, AutomationThreshold: 3})
	intent = category.ProcessInput(context.Background(), "research machine learning papers")
	require.NotNil(t, intent)
	assert.Equal(t, types.CategoryResearch, intent.Category)
}

func TestProcessInput_ExtractionPanicReturnsFallback(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	e, err := New(Deps{Extractor: panickingExtractor{}, Clock: fixedClock, Logger: zap.New(core)}, DefaultConfig())
	require.NoError(t, err)

	intent := e.ProcessInput(context.Background(), "anything at all")

	require.NotNil(t, intent)
	assert.Equal(t, types.CategoryGeneral, intent.Category)
	assert.Equal(t, 0.5, intent.Confidence)
	assert.Equal(t, "Process this thought", intent.Suggestion)
	assert.Equal(t, "brain", intent.Icon)
	assert.Empty(t, intent.Entities)
	assert.Equal(t, 1, logs.FilterMessage("error processing input, using fallback intent").Len())
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(Deps{}, Config{Mode: "psychic", AutomationThreshold: 3})
	assert.Error(t, err)

	_, err = New(Deps{}, Config{Mode: ModeFast})
	assert.Error(t, err)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeUniversal, m)

	m, err = ParseMode("category")
	require.NoError(t, err)
	assert.Equal(t, ModeCategory, m)

	_, err = ParseMode("slow")
	assert.Error(t, err)
}

func TestAcceptIntent_PersistsHistoryAndContext(t *testing.T) {
	ctx := context.Background()
	e, repo := newTestEngine(t, DefaultConfig())

	intent := e.ProcessInput(ctx, "learn about react hooks")
	require.NotNil(t, intent)

	entry, err := e.AcceptIntent(ctx, "learn about react hooks", *intent)
	require.NoError(t, err)
	assert.Equal(t, "id-1", entry.ID)
	assert.Equal(t, intent.Category, entry.Intent)
	assert.Equal(t, monday9am, entry.Timestamp)

	prefs, err := repo.LoadPreferences(ctx)
	require.NoError(t, err)
	require.Len(t, prefs.IntentHistory, 1)
	assert.Equal(t, "learn about react hooks", prefs.IntentHistory[0].Text)
	assert.True(t, prefs.LastActivity.Equal(monday9am))

	data, err := repo.LoadContext(ctx, monday9am)
	require.NoError(t, err)
	assert.Equal(t, []string{"learn about react hooks"}, data.RecentInputs)
	assert.Equal(t, 1, data.CurrentSession.Interactions)
}

func TestAcceptIntent_HistoryIsBounded(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t, DefaultConfig())

	for i := 0; i < types.MaxHistoryEntries+7; i++ {
		_, err := e.AcceptIntent(ctx, fmt.Sprintf("input %d", i), types.Intent{Category: "create", Confidence: 0.6})
		require.NoError(t, err)
	}

	prefs := e.Preferences()
	require.Len(t, prefs.IntentHistory, types.MaxHistoryEntries)
	assert.Equal(t, "input 7", prefs.IntentHistory[0].Text)
}

func TestOpen_RestoresPersistedState(t *testing.T) {
	ctx := context.Background()
	e, repo := newTestEngine(t, DefaultConfig())
	_, err := e.AcceptIntent(ctx, "review the budget", types.Intent{Category: "analyze", Confidence: 0.8})
	require.NoError(t, err)

	reopened, err := Open(ctx, repo, DefaultConfig(), Deps{Clock: fixedClock})
	require.NoError(t, err)

	prefs := reopened.Preferences()
	require.Len(t, prefs.IntentHistory, 1)
	assert.Equal(t, "review the budget", prefs.IntentHistory[0].Text)
	assert.Equal(t, []string{"review the budget"}, reopened.Context().Snapshot().RecentInputs)
	assert.Zero(t, reopened.Context().Snapshot().CurrentSession.Interactions)
}

func TestUpdateLearningData_AutomationCandidate(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zap.InfoLevel)
	repo := storage.NewRepository(memory.NewKVStore(), nil)
	e, err := Open(ctx, repo, Config{Mode: ModeUniversal, AutomationThreshold: 2}, Deps{Clock: fixedClock, Logger: zap.New(core)})
	require.NoError(t, err)

	require.NoError(t, e.UpdateLearningData(ctx, "plan my week", "schedule", types.FeedbackPositive))
	assert.Zero(t, logs.FilterMessage("automation candidate").Len())

	require.NoError(t, e.UpdateLearningData(ctx, "plan my day", "schedule", types.FeedbackNegative))
	assert.Zero(t, logs.FilterMessage("automation candidate").Len())

	require.NoError(t, e.UpdateLearningData(ctx, "plan my month", "schedule", types.FeedbackPositive))
	candidates := logs.FilterMessage("automation candidate").All()
	require.Len(t, candidates, 1)
	assert.Equal(t, "schedule", candidates[0].ContextMap()["category"])

	prefs, err := repo.LoadPreferences(ctx)
	require.NoError(t, err)
	assert.Len(t, prefs.LearningData, 3)
}

func TestUpdateLearningData_Validation(t *testing.T) {
	e, _ := newTestEngine(t, DefaultConfig())

	assert.Error(t, e.UpdateLearningData(context.Background(), "x", "create", types.Feedback("meh")))
	assert.Error(t, e.UpdateLearningData(context.Background(), "x", "", types.FeedbackPositive))
}

func TestContextualSuggestions_PassThrough(t *testing.T) {
	e, _ := newTestEngine(t, DefaultConfig())

	assert.Equal(t, e.Context().ContextualSuggestions(), e.ContextualSuggestions())
	assert.Contains(t, e.ContextualSuggestions(), "plan today's tasks")
}
