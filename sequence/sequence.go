// File: sequence/sequence.go
// Package sequence implements padded atomic sequence counters.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// A Sequence marks a position in the publish order of a shared ring: the
// ring cursor tracks the highest claimed sequence, and every consumer owns
// one gating sequence recording the highest entry it has passed. Counters
// are padded to a full cache line so producer and consumer positions never
// false-share.

package sequence

import "sync/atomic"

// Initial is the value of a freshly allocated sequence: one before the
// first valid position, so an untouched consumer starts at entry 0.
const Initial int64 = -1

// Sequence is a cache-line isolated monotonic counter.
type Sequence struct {
	_     [64]byte // Padding for hot/cold separation
	value atomic.Int64
	_     [56]byte // Padding to keep neighbours off this line
}

// New allocates a sequence starting at initial.
func New(initial int64) *Sequence {
	s := &Sequence{}
	s.value.Store(initial)
	return s
}

// Get returns the current value.
func (s *Sequence) Get() int64 {
	return s.value.Load()
}

// Set publishes a new value with release semantics.
func (s *Sequence) Set(v int64) {
	s.value.Store(v)
}

// IncrementAndGet advances the counter by one and returns the new value.
func (s *Sequence) IncrementAndGet() int64 {
	return s.value.Add(1)
}

// AddAndGet advances the counter by n and returns the new value.
func (s *Sequence) AddAndGet(n int64) int64 {
	return s.value.Add(n)
}

// CompareAndSet installs next if the counter still holds current.
func (s *Sequence) CompareAndSet(current, next int64) bool {
	return s.value.CompareAndSwap(current, next)
}

// Minimum returns the smallest value across seqs, or fallback when seqs is
// empty. Producers use it to compute the gating boundary over all
// registered consumers.
func Minimum(fallback int64, seqs []*Sequence) int64 {
	min := fallback
	for _, s := range seqs {
		if v := s.Get(); v < min {
			min = v
		}
	}
	return min
}
