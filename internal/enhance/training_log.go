package enhance

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/scrypster/cos/internal/logging"
	"github.com/scrypster/cos/internal/storage"
)

// MaxTrainingExamples bounds the training log; the oldest examples are
// evicted first.
const MaxTrainingExamples = 1000

// TrainingExample is one input/elaboration pair.
type TrainingExample struct {
	Input     string    `json:"input"`
	Output    string    `json:"output"`
	Timestamp time.Time `json:"timestamp"`
}

// TrainingLog keeps elaborations for later export. With a nil repository it
// is in-memory only.
type TrainingLog struct {
	mu       sync.Mutex
	repo     *storage.Repository
	examples []TrainingExample
	now      func() time.Time
	logger   *zap.Logger
}

// NewTrainingLog loads any saved examples from repo. A backend error is
// returned together with a usable, empty log.
func NewTrainingLog(ctx context.Context, repo *storage.Repository, logger *zap.Logger) (*TrainingLog, error) {
	t := &TrainingLog{
		repo:     repo,
		examples: []TrainingExample{},
		now:      time.Now,
		logger:   logging.OrNop(logger).Named("training"),
	}
	if repo == nil {
		return t, nil
	}
	var saved []TrainingExample
	ok, err := repo.LoadJSON(ctx, storage.KeyTrainingData, &saved)
	if err != nil {
		return t, err
	}
	if ok && saved != nil {
		if len(saved) > MaxTrainingExamples {
			saved = saved[len(saved)-MaxTrainingExamples:]
		}
		t.examples = saved
	}
	return t, nil
}

// Record appends an example and persists the log.
func (t *TrainingLog) Record(ctx context.Context, input, output string) error {
	t.mu.Lock()
	t.examples = append(t.examples, TrainingExample{Input: input, Output: output, Timestamp: t.now()})
	if len(t.examples) > MaxTrainingExamples {
		t.examples = append([]TrainingExample(nil), t.examples[len(t.examples)-MaxTrainingExamples:]...)
	}
	snapshot := append([]TrainingExample(nil), t.examples...)
	t.mu.Unlock()

	if t.repo == nil {
		return nil
	}
	if err := t.repo.SaveJSON(ctx, storage.KeyTrainingData, snapshot); err != nil {
		return fmt.Errorf("enhance: save training data: %w", err)
	}
	return nil
}

// Examples returns a copy of the log, oldest first.
func (t *TrainingLog) Examples() []TrainingExample {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]TrainingExample, len(t.examples))
	copy(out, t.examples)
	return out
}

// Len returns the number of logged examples.
func (t *TrainingLog) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.examples)
}

// Export renders the log as indented JSON.
func (t *TrainingLog) Export() ([]byte, error) {
	out, err := json.MarshalIndent(t.Examples(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("enhance: export training data: %w", err)
	}
	return out, nil
}

// Clear empties the log and removes the persisted copy.
func (t *TrainingLog) Clear(ctx context.Context) error {
	t.mu.Lock()
	n := len(t.examples)
	t.examples = []TrainingExample{}
	t.mu.Unlock()

	t.logger.Info("training data cleared", zap.Int("examples", n))
	if t.repo == nil {
		return nil
	}
	return t.repo.Delete(ctx, storage.KeyTrainingData)
}
