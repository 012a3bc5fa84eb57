// File: adapters/handler_adapter.go
// Package adapters
// Author: momentics <momentics@gmail.com>
//
// Handler middleware glue for consumer loops.

package adapters

import (
	"fmt"
	"log"

	"github.com/momentics/hioload-disruptor/api"
)

// Middleware decorates a handler without changing its contract.
type Middleware[T any] func(api.Handler[T]) api.Handler[T]

// MiddlewareHandler wraps a base Handler and applies middleware in chain.
type MiddlewareHandler[T any] struct {
	handler    api.Handler[T]
	middleware []Middleware[T]
}

// NewMiddlewareHandler creates a new MiddlewareHandler for the given base handler.
func NewMiddlewareHandler[T any](handler api.Handler[T]) *MiddlewareHandler[T] {
	return &MiddlewareHandler[T]{
		handler:    handler,
		middleware: make([]Middleware[T], 0),
	}
}

// Use appends a middleware to the chain.
func (m *MiddlewareHandler[T]) Use(mw Middleware[T]) *MiddlewareHandler[T] {
	m.middleware = append(m.middleware, mw)
	return m
}

// Handle applies all middleware then calls the base handler.
func (m *MiddlewareHandler[T]) Handle(value T) error {
	handler := m.handler
	for i := len(m.middleware) - 1; i >= 0; i-- {
		handler = m.middleware[i](handler)
	}
	return handler.Handle(value)
}

// LoggingMiddleware logs failed handler invocations.
func LoggingMiddleware[T any](next api.Handler[T]) api.Handler[T] {
	return api.HandlerFunc[T](func(value T) error {
		err := next.Handle(value)
		if err != nil {
			log.Printf("[handler] %T rejected: %v", value, err)
		}
		return err
	})
}

// RecoveryMiddleware converts a handler panic into an error so one bad
// event cannot take down the consumer loop.
func RecoveryMiddleware[T any](next api.Handler[T]) api.Handler[T] {
	return api.HandlerFunc[T](func(value T) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("handler panic: %v", r)
			}
		}()
		return next.Handle(value)
	})
}

// MetricsMiddleware counts processed and failed events in Control stats.
func MetricsMiddleware[T any](control api.Control) Middleware[T] {
	return func(next api.Handler[T]) api.Handler[T] {
		return api.HandlerFunc[T](func(value T) error {
			err := next.Handle(value)
			if err != nil {
				control.AddMetric("handler.failed", 1)
			} else {
				control.AddMetric("handler.processed", 1)
			}
			return err
		})
	}
}
