// File: api/handler.go
// Package api defines Handler interface.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// Handler processes items served by a consumer loop.
type Handler[T any] interface {
	Handle(value T) error
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc[T any] func(value T) error

// Handle implements Handler.
func (f HandlerFunc[T]) Handle(value T) error { return f(value) }
