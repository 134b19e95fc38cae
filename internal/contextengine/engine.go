// Package contextengine keeps the rolling context summary: recent inputs,
// the current session, long-lived user patterns and the clock-derived
// environment. It produces contextual suggestions and smart-default
// enrichments for freshly classified intents.
package contextengine

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/scrypster/cos/internal/classify"
	"github.com/scrypster/cos/internal/logging"
	"github.com/scrypster/cos/pkg/types"
)

// MaxSuggestions caps ContextualSuggestions.
const MaxSuggestions = 5

// SaveFunc persists a context snapshot.
type SaveFunc func(ctx context.Context, data types.ContextData) error

// Engine owns one ContextData value. All methods are safe for concurrent use.
type Engine struct {
	mu     sync.RWMutex
	data   types.ContextData
	now    func() time.Time
	save   SaveFunc
	logger *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock injects the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithSaveFunc sets the hook called after every update.
func WithSaveFunc(fn SaveFunc) Option {
	return func(e *Engine) { e.save = fn }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New creates an engine seeded with previously persisted data. The session
// is reset and the environment derived from the clock; patterns carry over.
func New(data types.ContextData, opts ...Option) *Engine {
	e := &Engine{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = logging.OrNop(e.logger).Named("context")

	now := e.now()
	e.data = data.Clone()
	e.data.Normalize()
	e.data.ResetSession(now)
	e.data.EnvironmentContext = types.EnvironmentAt(now)
	return e
}

// UpdateContext records an accepted input and its intent, then persists the
// result. The in-memory update always applies; the returned error is only
// from the save hook.
func (e *Engine) UpdateContext(ctx context.Context, input string, intent types.Intent) error {
	e.mu.Lock()
	now := e.now()

	e.data.PushInput(input)
	e.data.CurrentSession.Interactions++
	e.data.CurrentSession.DominantCategory = dominantCategory(e.data.RecentInputs)

	var topics []string
	for _, ent := range types.FilterEntities(intent.Entities, types.EntityTopic) {
		topics = append(topics, ent.Value)
	}
	e.data.AddTopics(topics...)

	e.data.EnvironmentContext = types.EnvironmentAt(now)
	e.data.AddPreferredTime(e.data.EnvironmentContext.TimeOfDay)

	snapshot := e.data.Clone()
	e.mu.Unlock()

	e.logger.Debug("context updated",
		zap.Int("interactions", snapshot.CurrentSession.Interactions),
		zap.String("dominant", snapshot.CurrentSession.DominantCategory),
		zap.Int("topics", len(snapshot.UserPatterns.CommonTopics)))

	return e.persist(ctx, snapshot)
}

// ContextualSuggestions derives up to MaxSuggestions hints from the time of
// day, the dominant session category and recent inputs. It does not mutate
// state, so repeated calls without an update return the same list.
func (e *Engine) ContextualSuggestions() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	env := e.data.EnvironmentContext
	topics := e.data.UserPatterns.CommonTopics
	var out []string

	switch {
	case env.TimeOfDay == types.Morning && !env.IsWeekend:
		out = append(out, "plan today's tasks", "check calendar for meetings", "review daily goals")
	case env.TimeOfDay == types.Evening:
		out = append(out, "review today's progress", "plan tomorrow", "study session")
	}

	if e.data.CurrentSession.DominantCategory == types.CategoryResearch && len(topics) > 0 {
		out = append(out,
			"continue studying "+topics[0],
			fmt.Sprintf("research advanced %s topics", topics[0]))
	}

	for _, in := range e.data.RecentInputs {
		if strings.Contains(strings.ToLower(in), "exam") {
			out = append(out, "create exam study schedule", "find practice problems", "review weak topics")
			break
		}
	}

	if len(out) > MaxSuggestions {
		out = out[:MaxSuggestions]
	}
	return out
}

// SmartDefaults returns the fields of intent that context would change.
// Planning intents in the morning and research intents that touch a known
// topic get a suffix on their suggestion.
func (e *Engine) SmartDefaults(intent types.Intent) types.IntentPatch {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var patch types.IntentPatch

	if isPlanning(intent.Category) && e.data.EnvironmentContext.TimeOfDay == types.Morning {
		s := intent.Suggestion + " (optimal morning planning time)"
		patch.Suggestion = &s
	}

	if isResearch(intent.Category) {
		if topic, ok := relatedTopic(e.data.UserPatterns.CommonTopics, intent.Entities); ok {
			s := fmt.Sprintf("%s (building on your %s knowledge)", intent.Suggestion, topic)
			patch.Suggestion = &s
		}
	}
	return patch
}

// Snapshot returns a deep copy of the current context.
func (e *Engine) Snapshot() types.ContextData {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.data.Clone()
}

// Clear discards all context, including persisted patterns.
func (e *Engine) Clear(ctx context.Context) error {
	e.mu.Lock()
	e.data = types.NewContextData(e.now())
	snapshot := e.data.Clone()
	e.mu.Unlock()

	e.logger.Info("context cleared")
	return e.persist(ctx, snapshot)
}

func (e *Engine) persist(ctx context.Context, data types.ContextData) error {
	if e.save == nil {
		return nil
	}
	if err := e.save(ctx, data); err != nil {
		e.logger.Warn("failed to persist context", zap.Error(err))
		return fmt.Errorf("contextengine: save: %w", err)
	}
	return nil
}

// dominantCategory is the most frequent quick category among inputs. Ties go
// to the category seen first, scanning newest first.
func dominantCategory(inputs []string) string {
	if len(inputs) == 0 {
		return types.CategoryGeneral
	}
	counts := make(map[string]int)
	var order []string
	for _, in := range inputs {
		c := classify.QuickCategory(in)
		if counts[c] == 0 {
			order = append(order, c)
		}
		counts[c]++
	}
	best := order[0]
	for _, c := range order[1:] {
		if counts[c] > counts[best] {
			best = c
		}
	}
	return best
}

func isPlanning(category string) bool {
	return category == types.CategoryPlanning || category == string(types.ActionSchedule)
}

func isResearch(category string) bool {
	return category == types.CategoryResearch || category == string(types.ActionLearn)
}

// relatedTopic returns the first common topic contained in any entity value.
func relatedTopic(topics []string, entities []types.ExtractedEntity) (string, bool) {
	for _, topic := range topics {
		t := strings.ToLower(topic)
		for _, ent := range entities {
			if strings.Contains(strings.ToLower(ent.Value), t) {
				return topic, true
			}
		}
	}
	return "", false
}
