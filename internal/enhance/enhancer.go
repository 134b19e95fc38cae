// Package enhance produces a free-text elaboration for user input. An
// optional remote generator races a deterministic local fallback; the local
// path always answers, so callers never see an error.
package enhance

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/scrypster/cos/internal/llm"
	"github.com/scrypster/cos/internal/logging"
)

// DefaultFallbackDelay is how long the remote generator gets before the
// local answer is used.
const DefaultFallbackDelay = 1500 * time.Millisecond

// ErrNoGenerator is reported in Elaboration.RemoteErr when no generator is
// configured.
var ErrNoGenerator = errors.New("enhance: no text generator configured")

// Source says which side of the race produced an elaboration.
type Source string

// Elaboration sources
const (
	SourceRemote Source = "remote"
	SourceLocal  Source = "local"
)

// Elaboration is the result of Elaborate.
type Elaboration struct {
	Text    string        `json:"text"`
	Source  Source        `json:"source"`
	Elapsed time.Duration `json:"elapsed"`

	// RemoteErr explains why the remote answer was not used, if it lost.
	RemoteErr error `json:"-"`
}

// Enhancer runs the remote/local race.
type Enhancer struct {
	generator llm.TextGenerator
	delay     time.Duration
	training  *TrainingLog
	logger    *zap.Logger
}

// Option configures an Enhancer.
type Option func(*Enhancer)

// WithFallbackDelay overrides DefaultFallbackDelay.
func WithFallbackDelay(d time.Duration) Option {
	return func(e *Enhancer) {
		if d > 0 {
			e.delay = d
		}
	}
}

// WithTrainingLog records every elaboration.
func WithTrainingLog(t *TrainingLog) Option {
	return func(e *Enhancer) { e.training = t }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Enhancer) { e.logger = l }
}

// New creates an Enhancer. A nil generator makes every call local.
func New(generator llm.TextGenerator, opts ...Option) *Enhancer {
	e := &Enhancer{generator: generator, delay: DefaultFallbackDelay}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = logging.OrNop(e.logger).Named("enhance")
	return e
}

type remoteResult struct {
	text string
	err  error
}

// Elaborate returns the remote answer if it arrives before the fallback
// delay, and the local answer otherwise. When the local side wins, the
// remote call's context is cancelled and its late result is discarded.
func (e *Enhancer) Elaborate(ctx context.Context, input string) Elaboration {
	start := time.Now()
	out := e.race(ctx, input)
	out.Elapsed = time.Since(start)

	e.logger.Debug("elaboration complete",
		zap.String("source", string(out.Source)),
		zap.Duration("elapsed", out.Elapsed),
		zap.NamedError("remote_error", out.RemoteErr))

	if e.training != nil {
		if err := e.training.Record(ctx, input, out.Text); err != nil {
			e.logger.Warn("failed to record training example", zap.Error(err))
		}
	}
	return out
}

func (e *Enhancer) race(ctx context.Context, input string) Elaboration {
	local := func(err error) Elaboration {
		return Elaboration{Text: SmartFallback(input), Source: SourceLocal, RemoteErr: err}
	}
	if e.generator == nil {
		return local(ErrNoGenerator)
	}

	remoteCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	prompt := llm.ElaborationPrompt(input)
	// Buffered so the remote goroutine can always deliver and exit, even
	// after it has lost the race.
	results := make(chan remoteResult, 1)
	go func() {
		text, err := e.generator.Complete(remoteCtx, prompt)
		results <- remoteResult{text: text, err: err}
	}()

	timer := time.NewTimer(e.delay)
	defer timer.Stop()

	select {
	case r := <-results:
		if r.err != nil {
			return local(r.err)
		}
		text, err := llm.ParseCompletion(r.text, prompt)
		if err != nil {
			return local(err)
		}
		return Elaboration{Text: text, Source: SourceRemote}
	case <-timer.C:
		cancel()
		return local(context.DeadlineExceeded)
	case <-ctx.Done():
		cancel()
		return local(ctx.Err())
	}
}
