// Package watcher observes the host's page context (title and URL) and
// proactively suggests artifacts for it. The host supplies context through a
// Source; suggestions are rendered through a Panel.
package watcher

import (
	"context"
	"errors"
	"sync"
	"time"
)

// PageContext is what the host is currently showing.
type PageContext struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// String is the context string compared between observations.
func (p PageContext) String() string {
	return p.Title + " " + p.URL
}

// Source delivers page contexts. Subscribe calls fn for each observed
// context, from a single goroutine, until stop is called or ctx ends. stop
// blocks until no further calls to fn will happen.
type Source interface {
	Subscribe(ctx context.Context, fn func(PageContext)) (stop func(), err error)
}

// DefaultPollInterval is how often a PollSource samples its getter.
const DefaultPollInterval = 100 * time.Millisecond

// PollSource samples a getter on a fixed interval and emits only when the
// context string changes.
type PollSource struct {
	Get      func() (PageContext, error)
	Interval time.Duration
}

// NewPollSource creates a PollSource. A non-positive interval uses
// DefaultPollInterval.
func NewPollSource(get func() (PageContext, error), interval time.Duration) *PollSource {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &PollSource{Get: get, Interval: interval}
}

// Subscribe implements Source. The first successful sample is emitted
// immediately; getter errors are skipped.
func (s *PollSource) Subscribe(ctx context.Context, fn func(PageContext)) (func(), error) {
	if s.Get == nil {
		return nil, errors.New("watcher: poll source has no getter")
	}
	interval := s.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		var last string
		seen := false
		sample := func() {
			pc, err := s.Get()
			if err != nil {
				return
			}
			if key := pc.String(); !seen || key != last {
				seen, last = true, key
				fn(pc)
			}
		}

		sample()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sample()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}, nil
}
