// File: api/ring.go
// Author: momentics <momentics@gmail.com>
//
// Producer-side surface of a shared event buffer: two-phase claim/commit
// publication over monotonically increasing sequences.

package api

// Sequencer hands out slots to producers. Claim and Publish form a two-phase
// protocol: claim a sequence, write the slot, then publish. Multiple producer
// goroutines may claim concurrently; the implementation serializes claims
// into a total order and gates them on registered consumer progress.
type Sequencer[T any] interface {
	// Claim reserves the next sequence, spinning while the buffer is gated.
	Claim() int64
	// ClaimN reserves n contiguous sequences and returns the highest.
	ClaimN(n int) int64
	// WriteSlot stores v into the slot addressed by a claimed sequence.
	WriteSlot(seq int64, v T)
	// Publish commits one claimed sequence, making it visible to consumers.
	Publish(seq int64)
	// PublishRange commits the inclusive range [lo, hi] in one step.
	PublishRange(lo, hi int64)
}
