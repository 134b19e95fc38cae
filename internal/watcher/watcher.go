package watcher

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/scrypster/cos/internal/action"
	"github.com/scrypster/cos/internal/logging"
)

// State is the watcher's position in Idle → Detecting → Suggesting → Idle.
type State int

// Watcher states
const (
	StateIdle State = iota
	StateDetecting
	StateSuggesting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDetecting:
		return "detecting"
	case StateSuggesting:
		return "suggesting"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Panel renders suggestions. Show replaces whatever is displayed.
// Implementations must not call back into the Watcher.
type Panel interface {
	Show(pc PageContext, info SiteInfo, predictions []string)
	Hide()
}

// ErrAlreadyStarted is returned by Start on a running watcher.
var ErrAlreadyStarted = errors.New("watcher: already started")

// Watcher turns page context changes into suggestions on a Panel.
type Watcher struct {
	source    Source
	panel     Panel
	predictor *Predictor
	executor  *action.Executor
	logger    *zap.Logger

	mu          sync.Mutex
	state       State
	current     PageContext
	currentKey  string
	seen        bool
	predictions []string
	stop        func()
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithPredictor replaces the default predictor.
func WithPredictor(p *Predictor) Option {
	return func(w *Watcher) { w.predictor = p }
}

// WithExecutor sets the executor used by ExecutePrediction.
func WithExecutor(x *action.Executor) Option {
	return func(w *Watcher) { w.executor = x }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) { w.logger = l }
}

// New creates an idle watcher. source may be nil when contexts are pushed
// with Observe.
func New(source Source, panel Panel, opts ...Option) *Watcher {
	w := &Watcher{source: source, panel: panel}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = logging.OrNop(w.logger).Named("watcher")
	if w.predictor == nil {
		w.predictor = NewPredictor()
	}
	if w.executor == nil {
		w.executor = action.NewExecutor(action.WithLogger(w.logger))
	}
	return w
}

// Start subscribes to the source.
func (w *Watcher) Start(ctx context.Context) error {
	if w.source == nil {
		return errors.New("watcher: no source configured")
	}
	w.mu.Lock()
	if w.stop != nil {
		w.mu.Unlock()
		return ErrAlreadyStarted
	}
	w.mu.Unlock()

	stop, err := w.source.Subscribe(ctx, w.Observe)
	if err != nil {
		return fmt.Errorf("watcher: subscribe: %w", err)
	}

	w.mu.Lock()
	w.stop = stop
	w.mu.Unlock()
	return nil
}

// Stop ends the subscription and closes the panel.
func (w *Watcher) Stop() {
	w.mu.Lock()
	stop := w.stop
	w.stop = nil
	w.mu.Unlock()

	if stop != nil {
		stop()
	}
	w.Close()
}

// Observe handles one page context. A context whose string matches the
// last one is ignored; any other context replaces the panel content.
func (w *Watcher) Observe(pc PageContext) {
	w.mu.Lock()
	defer w.mu.Unlock()

	key := pc.String()
	if w.seen && key == w.currentKey {
		return
	}
	w.seen = true
	w.current, w.currentKey = pc, key
	w.analyzeLocked()
}

// Refresh re-runs prediction for the current context.
func (w *Watcher) Refresh() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.seen {
		w.analyzeLocked()
	}
}

func (w *Watcher) analyzeLocked() {
	w.transitionLocked(StateDetecting)
	predictions := w.predictor.Predict(w.current)
	info := w.predictor.SiteInfo(w.current)
	w.predictions = predictions

	w.logger.Debug("context detected",
		zap.String("site", info.Site),
		zap.String("url", w.current.URL),
		zap.Strings("predictions", predictions))

	if len(predictions) == 0 {
		w.hideLocked()
		return
	}
	if w.panel != nil {
		w.panel.Show(w.current, info, append([]string(nil), predictions...))
	}
	w.transitionLocked(StateSuggesting)
}

// Close hides the panel and returns to Idle. The last context is kept, so
// observing it again does not reopen the panel.
func (w *Watcher) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.hideLocked()
}

func (w *Watcher) hideLocked() {
	if w.state == StateSuggesting && w.panel != nil {
		w.panel.Hide()
	}
	w.transitionLocked(StateIdle)
}

func (w *Watcher) transitionLocked(to State) {
	if w.state == to {
		return
	}
	w.logger.Debug("watcher state changed",
		zap.Stringer("from", w.state),
		zap.Stringer("to", to))
	w.state = to
}

// State returns the current state.
func (w *Watcher) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Predictions returns the suggestions for the current context.
func (w *Watcher) Predictions() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.predictions...)
}

// ExecutePrediction builds the markdown artifact for a prediction.
func (w *Watcher) ExecutePrediction(prediction string) action.Artifact {
	return w.executor.ExecutePrediction(prediction)
}
