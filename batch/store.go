// File: batch/store.go
// Package batch implements consumer-local event batching over a poll
// source.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// A Store buffers one batch of drained events between polls; a Poller
// refills it from the shared ring only when it runs dry. Both are owned
// by a single consumer goroutine and are NOT thread-safe.

package batch

import "github.com/momentics/hioload-disruptor/api"

// Store is a fixed-capacity FIFO with two cursors: writeBound marks the
// end of the entries appended this epoch, readCursor the next entry to
// hand out. Draining the last entry resets both to zero, so an epoch
// never wraps and entries always come back in append order.
type Store[T any] struct {
	items      []T
	writeBound int
	readCursor int
}

var _ api.BatchStore[int] = (*Store[int])(nil)

// NewStore allocates a store holding at most capacity entries.
func NewStore[T any](capacity int) *Store[T] {
	if capacity < 1 {
		panic("batch: store capacity must be positive")
	}
	return &Store[T]{items: make([]T, capacity)}
}

// Available returns the number of entries appended but not yet taken.
func (s *Store[T]) Available() int {
	return s.writeBound - s.readCursor
}

// Cap returns the fixed epoch capacity.
func (s *Store[T]) Cap() int {
	return len(s.items)
}

// Append adds item behind writeBound and reports whether room remains
// for another. Appending to a full store is a contract violation on the
// caller's side and panics with api.ErrBatchOverflow: the refill
// callback must stop as soon as Append returns false.
func (s *Store[T]) Append(item T) bool {
	if s.writeBound >= len(s.items) {
		panic(api.ErrBatchOverflow)
	}
	s.items[s.writeBound] = item
	s.writeBound++
	return s.writeBound < len(s.items)
}

// TakeNext hands out the oldest pending entry. When the take empties the
// store, both cursors reset so the next epoch starts at slot zero.
func (s *Store[T]) TakeNext() (T, bool) {
	var item T
	ok := false
	if s.readCursor < s.writeBound {
		item = s.items[s.readCursor]
		s.readCursor++
		ok = true
	}
	if s.readCursor > 0 && s.readCursor >= s.writeBound {
		s.readCursor = 0
		s.writeBound = 0
	}
	return item, ok
}
