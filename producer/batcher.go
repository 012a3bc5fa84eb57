// File: producer/batcher.go
// Package producer implements batched publication into the shared ring.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// A Batcher stages events in a local FIFO and moves them into the ring
// as claimed spans, so a burst costs one claim per span instead of one
// per event. Staging is owned by a single goroutine; the ring side is
// safe against other producers because span claims are atomic.

package producer

import (
	"github.com/eapache/queue"

	"github.com/momentics/hioload-disruptor/api"
)

// DefaultSpan bounds how many staged events one claim may cover when the
// caller does not choose a span.
const DefaultSpan = 16

// Batcher accumulates events destined for a Sequencer.
type Batcher[T any] struct {
	seq    api.Sequencer[T]
	staged *queue.Queue
	span   int
}

// NewBatcher builds a batcher over seq. maxSpan caps the entries claimed
// per flush span; a non-positive value falls back to DefaultSpan. The
// span must not exceed the ring capacity: once that many events are
// staged, the oversized claim panics inside Flush.
func NewBatcher[T any](seq api.Sequencer[T], maxSpan int) *Batcher[T] {
	if maxSpan < 1 {
		maxSpan = DefaultSpan
	}
	return &Batcher[T]{
		seq:    seq,
		staged: queue.New(),
		span:   maxSpan,
	}
}

// Stage queues v locally. Nothing reaches the ring until Flush.
func (pb *Batcher[T]) Stage(v T) {
	pb.staged.Add(v)
}

// Len returns the number of staged events awaiting a flush.
func (pb *Batcher[T]) Len() int {
	return pb.staged.Length()
}

// Span returns the per-flush claim bound.
func (pb *Batcher[T]) Span() int {
	return pb.span
}

// Flush publishes every staged event and returns how many were moved.
// Events are claimed span by span, written in staging order, then
// published as a contiguous range, so consumers observe the whole span
// only once its last entry is committed.
func (pb *Batcher[T]) Flush() int {
	moved := 0
	for pb.staged.Length() > 0 {
		n := pb.staged.Length()
		if n > pb.span {
			n = pb.span
		}
		hi := pb.seq.ClaimN(n)
		lo := hi - int64(n) + 1
		for s := lo; s <= hi; s++ {
			pb.seq.WriteSlot(s, pb.staged.Remove().(T))
		}
		pb.seq.PublishRange(lo, hi)
		moved += n
	}
	return moved
}
