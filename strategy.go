package web2pdf

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// completionStrategy detects that a rendering surface has finished loading a
// document, so export can safely begin. Single-use: created, armed against one
// load, resolved exactly once, discarded.
//
// Lifecycle: Prepare is called before navigation is issued, Start once it has
// been. Both are idempotent; calling either twice is a no-op. Done is closed
// exactly once, no matter how many times the underlying completion condition
// is observed.
type completionStrategy interface {
	Prepare(s renderSurface) error
	Start(s renderSurface) error
	Done() <-chan struct{}
	// Stop releases timers and bindings. Safe to call multiple times and
	// after resolution.
	Stop()
}

// Compile-time interface checks.
var (
	_ completionStrategy = (*pollingStrategy)(nil)
	_ completionStrategy = (*signalStrategy)(nil)
)

// awaitCompletion blocks until the strategy resolves or the context expires.
// A deadline expiry is reported as ErrLoadTimeout: a stalled document becomes
// a reported failure instead of hanging the render forever.
func awaitCompletion(ctx context.Context, st completionStrategy) error {
	select {
	case <-st.Done():
		return nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ErrLoadTimeout
		}
		return ctx.Err()
	}
}

// resolver is the shared exactly-once core of both strategy variants.
type resolver struct {
	once sync.Once
	done chan struct{}
}

func (r *resolver) resolve() {
	r.once.Do(func() { close(r.done) })
}

func (r *resolver) Done() <-chan struct{} {
	return r.done
}

// pollingStrategy checks the surface's loading state on a fixed-interval
// ticker and resolves on the first tick where the document is no longer
// loading. It cannot distinguish "finished" from "stalled"; the caller's
// timeout covers the latter.
type pollingStrategy struct {
	resolver
	interval time.Duration
	started  atomic.Bool
	quit     chan struct{}
	stopOnce sync.Once
}

func newPollingStrategy(interval time.Duration) *pollingStrategy {
	p := &pollingStrategy{
		interval: interval,
		quit:     make(chan struct{}),
	}
	p.done = make(chan struct{})
	return p
}

// Prepare is a no-op: polling must not begin before navigation is issued,
// otherwise the blank surface's idle state would resolve it immediately.
func (p *pollingStrategy) Prepare(renderSurface) error { return nil }

// Start launches the polling loop. Idempotent.
func (p *pollingStrategy) Start(s renderSurface) error {
	if !p.started.CompareAndSwap(false, true) {
		return nil
	}

	go func() {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-p.quit:
				return
			case <-ticker.C:
				loading, err := s.Loading()
				if err != nil {
					// The surface may be mid-navigation; keep polling
					// until it answers or the render is torn down.
					continue
				}
				if !loading {
					p.resolve()
					return
				}
			}
		}
	}()

	return nil
}

func (p *pollingStrategy) Stop() {
	p.stopOnce.Do(func() { close(p.quit) })
}

// signalStrategy exposes a one-shot binding into the page's script context
// before navigation; the document resolves the strategy by calling it once it
// considers itself ready. Content that never signals never resolves, which is
// why the render wraps the wait in a timeout.
type signalStrategy struct {
	resolver
	name   string
	armed  atomic.Bool
	mu     sync.Mutex
	unbind func()
}

func newSignalStrategy(name string) *signalStrategy {
	s := &signalStrategy{name: name}
	s.done = make(chan struct{})
	return s
}

// Prepare installs the ready binding. Must run before navigation so the
// document can call it at any point during load. Idempotent.
func (s *signalStrategy) Prepare(surface renderSurface) error {
	if !s.armed.CompareAndSwap(false, true) {
		return nil
	}

	stop, err := surface.BindSignal(s.name, s.resolve)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.unbind = stop
	s.mu.Unlock()
	return nil
}

// Start is a no-op: the binding installed by Prepare does all the work.
func (s *signalStrategy) Start(renderSurface) error { return nil }

func (s *signalStrategy) Stop() {
	s.mu.Lock()
	unbind := s.unbind
	s.unbind = nil
	s.mu.Unlock()

	if unbind != nil {
		unbind()
	}
}
