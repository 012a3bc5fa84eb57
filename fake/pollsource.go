// Package fake
// Author: momentics <momentics@gmail.com>
//
// Fake implementations for testing and development.
// Provides predictable, controllable behavior for the polling contracts.

package fake

import (
	"sync"

	"github.com/momentics/hioload-disruptor/api"
)

// PollSource is a fake implementation of api.PollSource for testing.
// Values queued with Feed are handed to the callback on the next Poll,
// respecting the callback's room signal the way a real ring poller does.
type PollSource[T any] struct {
	mu      sync.Mutex
	pending []T
	seq     int64
	polls   int
	pollErr error
	gapped  bool
}

var _ api.PollSource[int] = (*PollSource[int])(nil)

// NewPollSource creates an empty fake source.
func NewPollSource[T any]() *PollSource[T] {
	return &PollSource[T]{
		pending: make([]T, 0),
	}
}

// Poll implements api.PollSource.Poll.
func (f *PollSource[T]) Poll(fn api.PollFunc[T]) (api.PollState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.polls++

	if f.pollErr != nil {
		return api.PollIdle, f.pollErr
	}
	if f.gapped {
		return api.PollGap, nil
	}
	if len(f.pending) == 0 {
		return api.PollIdle, nil
	}

	for len(f.pending) > 0 {
		v := f.pending[0]
		more, err := fn(v, f.seq, len(f.pending) == 1)
		if err != nil {
			return api.PollProcessing, err
		}
		f.pending = f.pending[1:]
		f.seq++
		if !more {
			break
		}
	}
	return api.PollProcessing, nil
}

// Feed queues values for subsequent polls.
func (f *PollSource[T]) Feed(values ...T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending = append(f.pending, values...)
}

// SetPollError configures the source to fail every Poll until cleared
// with SetPollError(nil).
func (f *PollSource[T]) SetPollError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pollErr = err
}

// SetGapped makes the source report PollGap instead of serving data,
// simulating a claimed-but-unpublished hole in the ring.
func (f *PollSource[T]) SetGapped(gapped bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gapped = gapped
}

// Polls returns how many times Poll has been called.
func (f *PollSource[T]) Polls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.polls
}

// PendingLen returns the number of values not yet delivered.
func (f *PollSource[T]) PendingLen() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pending)
}
