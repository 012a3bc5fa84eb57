// File: ring/poller.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package ring

import (
	"github.com/momentics/hioload-disruptor/api"
	"github.com/momentics/hioload-disruptor/sequence"
)

// Poller drains published entries for one consumer. It is owned by a
// single goroutine; the ring itself stays shared.
type Poller[T any] struct {
	ring *Buffer[T]
	seq  *sequence.Sequence
}

var _ api.PollSource[int] = (*Poller[int])(nil)

// Sequence exposes the consumer cursor, mainly for state probes.
func (p *Poller[T]) Sequence() *sequence.Sequence { return p.seq }

// Close detaches the poller from the ring. After Close the consumer no
// longer gates producers and the poller must not be used again.
func (p *Poller[T]) Close() {
	p.ring.RemoveGating(p.seq)
}

// Poll hands every contiguously published entry past the consumer cursor
// to fn, stopping early when fn reports no more demand or fails.
//
// The cursor advances over each entry fn accepted, so an entry whose fn
// call failed is delivered again on the next Poll. States:
//
//	PollProcessing: at least one entry was handed to fn.
//	PollGap:        entries are claimed ahead of the cursor but the next
//	                one is not yet published.
//	PollIdle:       nothing new.
func (p *Poller[T]) Poll(fn api.PollFunc[T]) (api.PollState, error) {
	current := p.seq.Get()
	next := current + 1
	avail := p.ring.HighestPublished(next, p.ring.Cursor())

	if next <= avail {
		processed := current
		var err error
		for next <= avail {
			var more bool
			more, err = fn(p.ring.Get(next), next, next == avail)
			if err != nil {
				break
			}
			processed = next
			next++
			if !more {
				break
			}
		}
		p.seq.Set(processed)
		return api.PollProcessing, err
	}
	if p.ring.Cursor() >= next {
		return api.PollGap, nil
	}
	return api.PollIdle, nil
}
