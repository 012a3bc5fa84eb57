// Package fake
// Author: momentics <momentics@gmail.com>
//
// Recording handler fake for consumer loop tests.

package fake

import (
	"sync"

	"github.com/momentics/hioload-disruptor/api"
)

// Handler is a fake api.Handler that records every value it receives.
type Handler[T any] struct {
	mu        sync.Mutex
	values    []T
	handleErr func(T) error
}

var _ api.Handler[int] = (*Handler[int])(nil)

// NewHandler creates a recording handler that accepts everything.
func NewHandler[T any]() *Handler[T] {
	return &Handler[T]{
		values: make([]T, 0),
	}
}

// Handle implements api.Handler.Handle. Rejected values are not
// recorded.
func (h *Handler[T]) Handle(value T) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.handleErr != nil {
		if err := h.handleErr(value); err != nil {
			return err
		}
	}
	h.values = append(h.values, value)
	return nil
}

// SetHandleError installs a per-value rejection rule; nil accepts all.
func (h *Handler[T]) SetHandleError(fn func(T) error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handleErr = fn
}

// Values returns a copy of everything recorded so far.
func (h *Handler[T]) Values() []T {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]T, len(h.values))
	copy(out, h.values)
	return out
}

// Len returns the recorded value count.
func (h *Handler[T]) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.values)
}
