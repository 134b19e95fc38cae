package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/scrypster/cos/internal/classify"
	"github.com/scrypster/cos/internal/contextengine"
	"github.com/scrypster/cos/internal/extract"
	"github.com/scrypster/cos/internal/logging"
	"github.com/scrypster/cos/internal/storage"
	"github.com/scrypster/cos/pkg/types"
)

// CognitiveEngine sequences extraction, classification and context
// enrichment, and owns the user's preferences. It is safe for concurrent
// use; preference writes are serialized.
type CognitiveEngine struct {
	config Config

	extractor  EntityExtractor
	classifier *classify.Classifier
	scorer     *classify.CategoryScorer
	context    *contextengine.Engine
	repo       *storage.Repository

	mu    sync.Mutex
	prefs *types.UserPreferences

	now    func() time.Time
	newID  func() string
	logger *zap.Logger
}

// New creates an engine from already loaded state. Use Open to load state
// from a repository.
func New(deps Deps, cfg Config) (*CognitiveEngine, error) {
	if cfg.Mode == "" {
		cfg.Mode = ModeUniversal
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.OrNop(deps.Logger)
	e := &CognitiveEngine{
		config:     cfg,
		extractor:  deps.Extractor,
		classifier: classify.NewClassifier(logger),
		scorer:     classify.NewCategoryScorer(),
		context:    deps.Context,
		repo:       deps.Repository,
		prefs:      deps.Preferences,
		now:        deps.Clock,
		newID:      deps.NewID,
		logger:     logger.Named("engine"),
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.newID == nil {
		e.newID = uuid.NewString
	}
	if e.extractor == nil {
		e.extractor = extract.NewExtractor(extract.WithLogger(logger))
	}
	if e.prefs == nil {
		e.prefs = types.NewUserPreferences()
	}
	e.prefs.Normalize()
	if e.context == nil {
		opts := []contextengine.Option{
			contextengine.WithClock(e.now),
			contextengine.WithLogger(logger),
		}
		if e.repo != nil {
			opts = append(opts, contextengine.WithSaveFunc(e.repo.SaveContext))
		}
		e.context = contextengine.New(types.NewContextData(e.now()), opts...)
	}

	e.logger.Info("cognitive engine initialized",
		zap.String("mode", string(cfg.Mode)),
		zap.Int("history", len(e.prefs.IntentHistory)))
	return e, nil
}

// Open loads preferences and context from repo and creates an engine that
// persists back to it. Load failures are logged and the engine starts from
// defaults, so Open only fails on an invalid config.
func Open(ctx context.Context, repo *storage.Repository, cfg Config, deps Deps) (*CognitiveEngine, error) {
	logger := logging.OrNop(deps.Logger)
	now := deps.Clock
	if now == nil {
		now = time.Now
	}

	prefs, err := repo.LoadPreferences(ctx)
	if err != nil {
		logger.Warn("failed to load preferences, starting fresh", zap.Error(err))
	}
	data, err := repo.LoadContext(ctx, now())
	if err != nil {
		logger.Warn("failed to load context, starting fresh", zap.Error(err))
	}

	deps.Repository = repo
	deps.Preferences = prefs
	deps.Context = contextengine.New(data,
		contextengine.WithClock(now),
		contextengine.WithSaveFunc(repo.SaveContext),
		contextengine.WithLogger(logger))
	return New(deps, cfg)
}

// Mode returns the classification mode.
func (e *CognitiveEngine) Mode() Mode {
	return e.config.Mode
}

// Context returns the context engine.
func (e *CognitiveEngine) Context() *contextengine.Engine {
	return e.context
}

// ProcessInput classifies text and applies context smart defaults. It
// returns nil for empty or whitespace-only input. A failure inside
// extraction or classification yields FallbackIntent, never an error.
func (e *CognitiveEngine) ProcessInput(ctx context.Context, text string) *types.Intent {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	intent, err := e.classify(text)
	if err != nil {
		e.logger.Error("error processing input, using fallback intent", zap.Error(err))
		fallback := FallbackIntent()
		return &fallback
	}

	enriched := intent.Merge(e.context.SmartDefaults(intent))
	e.logger.Debug("intent classified",
		zap.String("category", enriched.Category),
		zap.String("domain", string(enriched.Domain)),
		zap.Float64("confidence", enriched.Confidence),
		zap.Int("entities", len(enriched.Entities)))
	return &enriched
}

func (e *CognitiveEngine) classify(text string) (intent types.Intent, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("engine: classification panicked: %v", r)
		}
	}()

	entities := e.extractor.ExtractEntities(text)
	switch e.config.Mode {
	case ModeFast:
		intent = e.classifier.ClassifyFast(text, entities).Intent(entities)
	case ModeCategory:
		intent = e.scorer.Score(text, entities)
	default:
		intent = e.classifier.Classify(text, entities).Intent(entities)
	}
	if err := intent.Validate(); err != nil {
		return types.Intent{}, fmt.Errorf("engine: %w", err)
	}
	return intent, nil
}

// AcceptIntent records that the user acted on intent: the history gains an
// entry, the context engine is updated and both are persisted. The
// in-memory state always changes; persistence errors are returned joined.
func (e *CognitiveEngine) AcceptIntent(ctx context.Context, text string, intent types.Intent) (types.IntentHistoryEntry, error) {
	now := e.now()
	entry := types.IntentHistoryEntry{
		ID:         e.newID(),
		Text:       text,
		Intent:     intent.Category,
		Confidence: types.ClampConfidence(intent.Confidence),
		Timestamp:  now,
		Entities:   intent.Entities,
	}
	if entry.Entities == nil {
		entry.Entities = []types.ExtractedEntity{}
	}

	var errs []error
	if err := e.context.UpdateContext(ctx, text, intent); err != nil {
		errs = append(errs, err)
	}

	e.mu.Lock()
	e.prefs.AppendHistory(entry)
	e.prefs.LastActivity = now
	err := e.savePreferences(ctx)
	e.mu.Unlock()
	if err != nil {
		errs = append(errs, err)
	}

	e.logger.Info("intent accepted",
		zap.String("id", entry.ID),
		zap.String("category", entry.Intent),
		zap.Float64("confidence", entry.Confidence))
	return entry, errors.Join(errs...)
}

// UpdateLearningData records a feedback tuple. When positive feedback for
// the category reaches the automation threshold an automation candidate is
// logged; nothing is retrained.
func (e *CognitiveEngine) UpdateLearningData(ctx context.Context, text, category string, feedback types.Feedback) error {
	if !feedback.IsValid() {
		return fmt.Errorf("engine: invalid feedback %q", feedback)
	}
	if category == "" {
		return errors.New("engine: category is required")
	}

	e.mu.Lock()
	e.prefs.AppendLearning(types.LearningData{
		Text:      text,
		Intent:    category,
		Feedback:  feedback,
		Timestamp: e.now(),
	})
	positives := e.prefs.PositiveFeedbackCount(category)
	err := e.savePreferences(ctx)
	e.mu.Unlock()

	e.logger.Info("feedback recorded",
		zap.String("category", category),
		zap.String("feedback", string(feedback)))
	if feedback == types.FeedbackPositive && positives >= e.config.AutomationThreshold {
		e.logger.Info("automation candidate",
			zap.String("category", category),
			zap.Int("positive_feedback", positives),
			zap.String("insight", fmt.Sprintf("Consider creating an automation for %q tasks", category)))
	}
	return err
}

// ContextualSuggestions returns the context engine's suggestions.
func (e *CognitiveEngine) ContextualSuggestions() []string {
	return e.context.ContextualSuggestions()
}

// Preferences returns a copy of the current preferences.
func (e *CognitiveEngine) Preferences() types.UserPreferences {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := *e.prefs
	out.IntentHistory = append([]types.IntentHistoryEntry(nil), e.prefs.IntentHistory...)
	out.LearningData = append([]types.LearningData(nil), e.prefs.LearningData...)
	return out
}

// savePreferences must be called with e.mu held.
func (e *CognitiveEngine) savePreferences(ctx context.Context) error {
	if e.repo == nil {
		return nil
	}
	if err := e.repo.SavePreferences(ctx, e.prefs); err != nil {
		e.logger.Warn("failed to persist preferences", zap.Error(err))
		return fmt.Errorf("engine: save preferences: %w", err)
	}
	return nil
}
