// File: api/poll.go
// Package api defines the poll-mode consumption contract.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// A PollSource scans entries published since the consumer's last position and
// hands them to a callback in sequence order. It never parks the calling
// goroutine; an empty scan reports PollIdle and returns immediately.

package api

// PollState reports the outcome of a single poll pass.
type PollState int

const (
	// PollIdle means no new entries were available.
	PollIdle PollState = iota
	// PollGap means a producer has claimed a slot ahead of the consumer but
	// has not published it yet; nothing can be consumed until it lands.
	PollGap
	// PollProcessing means at least one entry was handed to the callback.
	PollProcessing
)

func (s PollState) String() string {
	switch s {
	case PollIdle:
		return "idle"
	case PollGap:
		return "gap"
	case PollProcessing:
		return "processing"
	default:
		return "unknown"
	}
}

// PollFunc receives one published entry. value is a copy of the slot data and
// remains valid after the call; seq is the entry's publish sequence;
// endOfBatch marks the last entry of the current scan. Returning false stops
// the pass early. A non-nil error aborts the pass and propagates to the
// Poll caller; entries already accepted stay consumed.
type PollFunc[T any] func(value T, seq int64, endOfBatch bool) (bool, error)

// PollSource is the consumer-side surface of a shared event buffer.
// Implementations advance the consumer's gating sequence past every entry the
// callback accepted, which may unblock producers gated on this consumer.
type PollSource[T any] interface {
	// Poll performs exactly one non-blocking scan, invoking fn once per
	// available entry in increasing sequence order.
	Poll(fn PollFunc[T]) (PollState, error)
}
