// File: consumer/runner.go
// Package consumer drives a batched poller on a dedicated goroutine.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// A Runner owns its poller; handlers run on the runner goroutine, one
// event at a time, in publish order. Idle polls back off adaptively so
// a quiet ring costs no CPU beyond the floor latency.

package consumer

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/momentics/hioload-disruptor/affinity"
	"github.com/momentics/hioload-disruptor/api"
	"github.com/momentics/hioload-disruptor/batch"
)

// RunnerConfig tunes one consumer loop.
type RunnerConfig struct {
	// PinCPU binds the loop to a core; negative leaves it floating.
	PinCPU int
	// MinBackoff is the first idle sleep; each further idle poll doubles
	// it up to MaxBackoff. Any served event resets it.
	MinBackoff time.Duration
	MaxBackoff time.Duration
}

// DefaultRunnerConfig returns the tuning used by the facade.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		PinCPU:     -1,
		MinBackoff: time.Microsecond,
		MaxBackoff: time.Millisecond,
	}
}

// Runner polls batches and feeds a handler until stopped.
type Runner[T any] struct {
	poller  *batch.Poller[T]
	handler api.Handler[T]
	cfg     RunnerConfig

	running atomic.Int32
	stopped atomic.Int32
	stopCh  chan struct{}
	done    chan struct{}

	handled  atomic.Int64
	failures atomic.Int64

	mu      sync.Mutex
	lastErr error
}

// NewRunner pairs a poller with a handler. The runner takes sole
// ownership of the poller; polling it elsewhere breaks batch order.
func NewRunner[T any](p *batch.Poller[T], h api.Handler[T], cfg RunnerConfig) *Runner[T] {
	if cfg.MinBackoff <= 0 {
		cfg.MinBackoff = time.Microsecond
	}
	if cfg.MaxBackoff < cfg.MinBackoff {
		cfg.MaxBackoff = cfg.MinBackoff
	}
	return &Runner[T]{
		poller:  p,
		handler: h,
		cfg:     cfg,
		stopCh:  make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start launches the polling loop. A Runner is single use: any second
// Start, including one after Stop, reports api.ErrRunnerStarted.
func (r *Runner[T]) Start() error {
	if !r.running.CompareAndSwap(0, 1) {
		return api.ErrRunnerStarted
	}
	go r.run()
	return nil
}

// Stop halts the loop and waits for the runner goroutine to exit. It is
// a no-op on a runner that was never started or is already stopped.
func (r *Runner[T]) Stop() {
	if r.running.Load() == 0 {
		return
	}
	if !r.stopped.CompareAndSwap(0, 1) {
		return
	}
	close(r.stopCh)
	<-r.done
}

// Handled returns the number of events the handler accepted.
func (r *Runner[T]) Handled() int64 { return r.handled.Load() }

// Failures returns the number of poll or handler errors so far.
func (r *Runner[T]) Failures() int64 { return r.failures.Load() }

// Err returns the most recent poll or handler error, nil when clean.
func (r *Runner[T]) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}

func (r *Runner[T]) setErr(err error) {
	r.mu.Lock()
	r.lastErr = err
	r.mu.Unlock()
	r.failures.Add(1)
}

func (r *Runner[T]) run() {
	defer close(r.done)

	if r.cfg.PinCPU >= 0 {
		// Best effort: an unpinnable loop still serves events.
		if err := affinity.Pin(r.cfg.PinCPU); err != nil {
			r.setErr(err)
		} else {
			defer affinity.Unpin()
		}
	}

	idle := r.cfg.MinBackoff
	for {
		select {
		case <-r.stopCh:
			return
		default:
		}

		v, ok, err := r.poller.Poll()
		switch {
		case err != nil:
			r.setErr(err)
			idle = r.sleep(idle)
		case ok:
			idle = r.cfg.MinBackoff
			if herr := r.handler.Handle(v); herr != nil {
				r.setErr(herr)
			} else {
				r.handled.Add(1)
			}
		default:
			idle = r.sleep(idle)
		}
	}
}

// sleep waits out the current idle interval and returns the next one,
// doubled up to the configured ceiling.
func (r *Runner[T]) sleep(cur time.Duration) time.Duration {
	select {
	case <-r.stopCh:
		return cur
	case <-time.After(cur):
	}
	next := cur * 2
	if next > r.cfg.MaxBackoff {
		next = r.cfg.MaxBackoff
	}
	return next
}
