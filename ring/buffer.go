// File: ring/buffer.go
// Package ring implements the shared multi-producer event buffer.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Buffer is a fixed-capacity power-of-two ring. Producers claim sequences
// with a CAS loop gated on the slowest registered consumer, write their
// slot, then publish it through a per-slot availability round. Consumers
// attach through NewPoller, which registers the poller position as a
// gating sequence so unread entries are never overwritten.

package ring

import (
	"math/bits"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/momentics/hioload-disruptor/api"
	"github.com/momentics/hioload-disruptor/sequence"
)

// Buffer is the shared ring. All methods are safe for concurrent use by
// multiple producers and multiple pollers.
type Buffer[T any] struct {
	capacity int64
	mask     int64
	shift    uint

	slots []T
	avail []atomic.Int32 // Round marker per slot: seq>>shift once published

	_      [64]byte // Padding for hot/cold separation
	cursor *sequence.Sequence
	gate   atomic.Int64 // Cached minimum of gating sequences
	_      [64]byte

	mu     sync.Mutex // Guards copy-on-write of the gating set
	gating atomic.Pointer[[]*sequence.Sequence]
}

var _ api.Sequencer[int] = (*Buffer[int])(nil)

// New allocates a ring with the given capacity.
// Capacity must be a power of two.
func New[T any](capacity int) *Buffer[T] {
	if capacity < 1 || capacity&(capacity-1) != 0 {
		panic("ring: capacity must be a power of two")
	}
	b := &Buffer[T]{
		capacity: int64(capacity),
		mask:     int64(capacity) - 1,
		shift:    uint(bits.TrailingZeros64(uint64(capacity))),
		slots:    make([]T, capacity),
		avail:    make([]atomic.Int32, capacity),
		cursor:   sequence.New(sequence.Initial),
	}
	for i := range b.avail {
		b.avail[i].Store(-1)
	}
	b.gate.Store(sequence.Initial)
	empty := make([]*sequence.Sequence, 0)
	b.gating.Store(&empty)
	return b
}

// Cap returns the fixed slot count.
func (b *Buffer[T]) Cap() int { return int(b.capacity) }

// Cursor returns the highest claimed sequence. Entries above the highest
// published sequence may still be in flight.
func (b *Buffer[T]) Cursor() int64 { return b.cursor.Get() }

// GatingMinimum returns the position of the slowest registered consumer,
// or the cursor itself when no consumer is attached.
func (b *Buffer[T]) GatingMinimum() int64 {
	return sequence.Minimum(b.cursor.Get(), *b.gating.Load())
}

// Claim reserves the next free sequence, blocking (spinning) while the
// ring is full.
func (b *Buffer[T]) Claim() int64 { return b.ClaimN(1) }

// ClaimN reserves n consecutive sequences and returns the highest one.
// The caller owns sequences hi-n+1 through hi until it publishes them.
func (b *Buffer[T]) ClaimN(n int) int64 {
	if n < 1 || int64(n) > b.capacity {
		panic("ring: claim batch must be 1..capacity")
	}
	span := int64(n)
	for {
		current := b.cursor.Get()
		next := current + span
		if !b.hasRoom(next) {
			runtime.Gosched()
			continue
		}
		if b.cursor.CompareAndSet(current, next) {
			return next
		}
	}
}

// TryClaim reserves the next free sequence without blocking. It returns
// api.ErrRingFull when the slowest consumer still occupies the slot.
func (b *Buffer[T]) TryClaim() (int64, error) {
	for {
		current := b.cursor.Get()
		next := current + 1
		if !b.hasRoom(next) {
			return 0, api.ErrRingFull
		}
		if b.cursor.CompareAndSet(current, next) {
			return next, nil
		}
	}
}

// hasRoom reports whether claiming up to next would not overwrite an
// entry some consumer has yet to read. It refreshes the cached gating
// minimum only when the cheap check fails.
func (b *Buffer[T]) hasRoom(next int64) bool {
	wrap := next - b.capacity
	if wrap <= b.gate.Load() {
		return true
	}
	min := sequence.Minimum(b.cursor.Get(), *b.gating.Load())
	b.gate.Store(min)
	return wrap <= min
}

// WriteSlot stores v into the slot owned by seq. The caller must hold the
// claim for seq and must not have published it yet.
func (b *Buffer[T]) WriteSlot(seq int64, v T) {
	b.slots[seq&b.mask] = v
}

// Get returns the value at seq. Only sequences at or below the highest
// published sequence hold stable data.
func (b *Buffer[T]) Get(seq int64) T {
	return b.slots[seq&b.mask]
}

// Publish makes seq visible to consumers. The slot write must precede it.
func (b *Buffer[T]) Publish(seq int64) {
	b.avail[seq&b.mask].Store(int32(seq >> b.shift))
}

// PublishRange publishes every sequence in [lo, hi] in order.
func (b *Buffer[T]) PublishRange(lo, hi int64) {
	for seq := lo; seq <= hi; seq++ {
		b.Publish(seq)
	}
}

// HighestPublished returns the last sequence in [lo, hi] with no
// unpublished entry before it, or lo-1 when lo itself is still in
// flight. When hi < lo it returns hi.
func (b *Buffer[T]) HighestPublished(lo, hi int64) int64 {
	for seq := lo; seq <= hi; seq++ {
		if b.avail[seq&b.mask].Load() != int32(seq>>b.shift) {
			return seq - 1
		}
	}
	return hi
}

// AddGating registers seq as a consumer position producers must not
// overrun. The sequence is seeded to the current cursor before it becomes
// visible, so a consumer attached mid-stream starts at the newest entry
// instead of stalling producers on slots the ring has already recycled.
func (b *Buffer[T]) AddGating(seq *sequence.Sequence) {
	b.mu.Lock()
	defer b.mu.Unlock()
	seq.Set(b.cursor.Get())
	old := *b.gating.Load()
	next := make([]*sequence.Sequence, len(old)+1)
	copy(next, old)
	next[len(old)] = seq
	b.gating.Store(&next)
}

// RemoveGating detaches a consumer position. Producers stop waiting for
// it on their next gating refresh.
func (b *Buffer[T]) RemoveGating(seq *sequence.Sequence) {
	b.mu.Lock()
	defer b.mu.Unlock()
	old := *b.gating.Load()
	next := make([]*sequence.Sequence, 0, len(old))
	for _, s := range old {
		if s != seq {
			next = append(next, s)
		}
	}
	b.gating.Store(&next)
}

// NewPoller attaches a consumer cursor to the ring and returns a poller
// over it. Attached before production begins, the poller observes every
// event; attached mid-stream, only events published after registration.
func (b *Buffer[T]) NewPoller() *Poller[T] {
	seq := sequence.New(sequence.Initial)
	b.AddGating(seq)
	return &Poller[T]{ring: b, seq: seq}
}
