// File: batch/poller.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package batch

import "github.com/momentics/hioload-disruptor/api"

// DefaultBatchSize is used when a poller is built with a non-positive
// batch size.
const DefaultBatchSize = 20

// Poller serves events one at a time out of a local Store, refilling it
// from the underlying poll source only when the store is empty. While
// the store holds entries, Poll never touches the source, so in-flight
// batches are immune to ring churn. Owned by a single goroutine.
type Poller[T any] struct {
	source api.PollSource[T]
	store  *Store[T]
	fill   api.PollFunc[T] // Bound once to avoid a closure per refill
}

// NewPoller wraps source with a local batch of up to batchSize entries.
// A non-positive batchSize falls back to DefaultBatchSize.
func NewPoller[T any](source api.PollSource[T], batchSize int) *Poller[T] {
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}
	p := &Poller[T]{
		source: source,
		store:  NewStore[T](batchSize),
	}
	p.fill = func(v T, seq int64, endOfBatch bool) (bool, error) {
		return p.store.Append(v), nil
	}
	return p
}

// BatchSize returns the epoch capacity of the local store.
func (p *Poller[T]) BatchSize() int {
	return p.store.Cap()
}

// Available returns the number of locally buffered entries the next
// polls will serve without touching the source.
func (p *Poller[T]) Available() int {
	return p.store.Available()
}

// Poll returns the next event, or ok=false when neither the local store
// nor the source has anything ready. An empty store triggers exactly one
// drain pass over the source, appending while the store has room; a
// source failure propagates unchanged and keeps whatever the pass
// already buffered.
func (p *Poller[T]) Poll() (item T, ok bool, err error) {
	if p.store.Available() > 0 {
		item, ok = p.store.TakeNext()
		return item, ok, nil
	}
	if _, err = p.source.Poll(p.fill); err != nil {
		var zero T
		return zero, false, err
	}
	item, ok = p.store.TakeNext()
	return item, ok, nil
}
