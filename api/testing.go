// Package api
// Author: momentics
//
// Mock/testing utilities for all core contracts; extendable for new interfaces.

package api

// MockPollSource is a test and mock-friendly implementation of PollSource.
type MockPollSource[T any] struct {
	PollFn func(fn PollFunc[T]) (PollState, error)
}

func (m *MockPollSource[T]) Poll(fn PollFunc[T]) (PollState, error) { return m.PollFn(fn) }

// MockSequencer is a test and mock-friendly implementation of Sequencer.
type MockSequencer[T any] struct {
	ClaimFn        func() int64
	ClaimNFn       func(n int) int64
	WriteSlotFn    func(seq int64, v T)
	PublishFn      func(seq int64)
	PublishRangeFn func(lo, hi int64)
}

func (m *MockSequencer[T]) Claim() int64              { return m.ClaimFn() }
func (m *MockSequencer[T]) ClaimN(n int) int64        { return m.ClaimNFn(n) }
func (m *MockSequencer[T]) WriteSlot(seq int64, v T)  { m.WriteSlotFn(seq, v) }
func (m *MockSequencer[T]) Publish(seq int64)         { m.PublishFn(seq) }
func (m *MockSequencer[T]) PublishRange(lo, hi int64) { m.PublishRangeFn(lo, hi) }

// Extend with mocks for all additional core contracts as architecture evolves.
