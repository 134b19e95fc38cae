package engine

import (
	"sync"
	"time"
)

// Debounce window bounds.
const (
	DefaultDebounceWindow = 400 * time.Millisecond
	MinDebounceWindow     = 300 * time.Millisecond
	MaxDebounceWindow     = 500 * time.Millisecond
)

// Debouncer delays a call until input has been quiet for the window, so a
// burst of keystrokes is classified once, with the last text.
type Debouncer struct {
	window time.Duration
	fn     func(text string)

	mu      sync.Mutex
	timer   *time.Timer
	pending string
	seq     uint64
	stopped bool
}

// NewDebouncer creates a debouncer calling fn. A zero window uses
// DefaultDebounceWindow; others are clamped to [MinDebounceWindow,
// MaxDebounceWindow].
func NewDebouncer(window time.Duration, fn func(text string)) *Debouncer {
	switch {
	case window == 0:
		window = DefaultDebounceWindow
	case window < MinDebounceWindow:
		window = MinDebounceWindow
	case window > MaxDebounceWindow:
		window = MaxDebounceWindow
	}
	return &Debouncer{window: window, fn: fn}
}

// Window returns the effective window.
func (d *Debouncer) Window() time.Duration {
	return d.window
}

// Submit replaces the pending text and restarts the window.
func (d *Debouncer) Submit(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = text
	d.seq++
	seq := d.seq
	d.timer = time.AfterFunc(d.window, func() { d.fire(seq) })
}

// Flush runs the pending call now, if any.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer == nil || d.stopped {
		d.mu.Unlock()
		return
	}
	d.timer.Stop()
	d.fireLocked()
}

// Stop drops any pending call. Later submissions are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func (d *Debouncer) fire(seq uint64) {
	d.mu.Lock()
	// A newer Submit or a Stop won the lock first.
	if seq != d.seq || d.stopped {
		d.mu.Unlock()
		return
	}
	d.fireLocked()
}

// fireLocked is called with d.mu held and releases it before calling fn.
func (d *Debouncer) fireLocked() {
	text := d.pending
	d.timer = nil
	d.seq++
	d.mu.Unlock()
	d.fn(text)
}
