// File: batch/poller_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package batch

import (
	"errors"
	"testing"

	"github.com/momentics/hioload-disruptor/api"
)

// scriptedSource hands out queued values one drain at a time, counting
// drains and optionally failing mid-drain.
type scriptedSource struct {
	pending []int
	seq     int64
	calls   int
	failAt  int // Fail before delivering the n-th entry of a drain
	failErr error
}

func (s *scriptedSource) Poll(fn api.PollFunc[int]) (api.PollState, error) {
	s.calls++
	if len(s.pending) == 0 {
		return api.PollIdle, nil
	}
	delivered := 0
	for len(s.pending) > 0 {
		if s.failErr != nil && delivered == s.failAt {
			err := s.failErr
			s.failErr = nil
			return api.PollProcessing, err
		}
		more, err := fn(s.pending[0], s.seq, len(s.pending) == 1)
		if err != nil {
			return api.PollProcessing, err
		}
		s.pending = s.pending[1:]
		s.seq++
		delivered++
		if !more {
			break
		}
	}
	return api.PollProcessing, nil
}

func TestNewPollerClampsBatchSize(t *testing.T) {
	src := &scriptedSource{}
	for _, tc := range []struct {
		in, want int
	}{
		{0, DefaultBatchSize},
		{-5, DefaultBatchSize},
		{1, 1},
		{40, 40},
	} {
		p := NewPoller[int](src, tc.in)
		if got := p.BatchSize(); got != tc.want {
			t.Fatalf("batch size for %d = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestPollEmptySourceDrainsOncePerCall(t *testing.T) {
	src := &scriptedSource{}
	p := NewPoller[int](src, 8)

	for i := 1; i <= 3; i++ {
		v, ok, err := p.Poll()
		if err != nil {
			t.Fatalf("poll %d: %v", i, err)
		}
		if ok {
			t.Fatalf("poll %d returned value %d from empty source", i, v)
		}
		if src.calls != i {
			t.Fatalf("after poll %d: %d drains, want exactly %d", i, src.calls, i)
		}
	}
}

// While the local store holds entries, Poll must not touch the source.
func TestPollServesLocallyWithoutSource(t *testing.T) {
	src := &scriptedSource{pending: []int{1, 2, 3}}
	p := NewPoller[int](src, 8)

	for _, want := range []int{1, 2, 3} {
		v, ok, err := p.Poll()
		if err != nil || !ok || v != want {
			t.Fatalf("poll = %d/%v/%v, want %d", v, ok, err, want)
		}
		if src.calls != 1 {
			t.Fatalf("source drained %d times while store held entries", src.calls)
		}
	}
	if got := p.Available(); got != 0 {
		t.Fatalf("available after batch served = %d", got)
	}

	// Store dry again: the next poll goes back to the source.
	if _, ok, _ := p.Poll(); ok {
		t.Fatal("poll found entry in drained source")
	}
	if src.calls != 2 {
		t.Fatalf("drains = %d, want 2", src.calls)
	}
}

// A drain stops appending exactly when the store fills; the overflow
// panic must never fire through the poller path.
func TestDrainStopsAtBatchCapacity(t *testing.T) {
	src := &scriptedSource{pending: []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}}
	p := NewPoller[int](src, 4)

	v, ok, err := p.Poll()
	if err != nil || !ok || v != 0 {
		t.Fatalf("first poll = %d/%v/%v", v, ok, err)
	}
	if got := p.Available(); got != 3 {
		t.Fatalf("buffered after first poll = %d, want 3", got)
	}
	if got := len(src.pending); got != 6 {
		t.Fatalf("source still pending %d, want 6", got)
	}

	var out []int
	out = append(out, v)
	for {
		v, ok, err := p.Poll()
		if err != nil {
			t.Fatalf("poll: %v", err)
		}
		if !ok {
			break
		}
		out = append(out, v)
	}
	if len(out) != 10 {
		t.Fatalf("received %d entries, want 10", len(out))
	}
	for i, v := range out {
		if v != i {
			t.Fatalf("entry %d = %d, order broken: %v", i, v, out)
		}
	}
}

func TestSourceErrorPropagatesKeepingPartialBatch(t *testing.T) {
	boom := errors.New("ring poll failed")
	src := &scriptedSource{pending: []int{1, 2, 3, 4}, failAt: 2, failErr: boom}
	p := NewPoller[int](src, 8)

	if _, ok, err := p.Poll(); ok || !errors.Is(err, boom) {
		t.Fatalf("poll = ok=%v err=%v, want failure %v", ok, err, boom)
	}
	if got := p.Available(); got != 2 {
		t.Fatalf("buffered after failed drain = %d, want 2", got)
	}

	// The partial batch is served from the store, no source contact.
	for _, want := range []int{1, 2} {
		v, ok, err := p.Poll()
		if err != nil || !ok || v != want {
			t.Fatalf("poll = %d/%v/%v, want %d", v, ok, err, want)
		}
	}
	if src.calls != 1 {
		t.Fatalf("drains = %d, want 1 until partial batch served", src.calls)
	}

	// Recovery: the remaining source entries arrive on later drains.
	var rest []int
	for {
		v, ok, err := p.Poll()
		if err != nil {
			t.Fatalf("recovery poll: %v", err)
		}
		if !ok {
			break
		}
		rest = append(rest, v)
	}
	if len(rest) != 2 || rest[0] != 3 || rest[1] != 4 {
		t.Fatalf("recovered entries = %v, want [3 4]", rest)
	}
}

func TestPollerViaMockSource(t *testing.T) {
	served := false
	src := &api.MockPollSource[int]{
		PollFn: func(fn api.PollFunc[int]) (api.PollState, error) {
			if served {
				return api.PollIdle, nil
			}
			served = true
			fn(7, 0, true)
			return api.PollProcessing, nil
		},
	}
	p := NewPoller[int](src, 4)
	v, ok, err := p.Poll()
	if err != nil || !ok || v != 7 {
		t.Fatalf("poll = %d/%v/%v, want 7", v, ok, err)
	}
	if _, ok, _ := p.Poll(); ok {
		t.Fatal("mock source served twice")
	}
}
