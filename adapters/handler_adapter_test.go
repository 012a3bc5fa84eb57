package adapters_test

import (
	"errors"
	"testing"

	"github.com/momentics/hioload-disruptor/adapters"
	"github.com/momentics/hioload-disruptor/api"
)

func TestMiddlewareOrderAndDelivery(t *testing.T) {
	var trace []string
	base := api.HandlerFunc[int](func(v int) error {
		trace = append(trace, "base")
		return nil
	})
	tag := func(name string) adapters.Middleware[int] {
		return func(next api.Handler[int]) api.Handler[int] {
			return api.HandlerFunc[int](func(v int) error {
				trace = append(trace, name)
				return next.Handle(v)
			})
		}
	}

	h := adapters.NewMiddlewareHandler[int](base).Use(tag("outer")).Use(tag("inner"))
	if err := h.Handle(1); err != nil {
		t.Fatal(err)
	}
	want := []string{"outer", "inner", "base"}
	for i, s := range want {
		if trace[i] != s {
			t.Fatalf("trace = %v, want %v", trace, want)
		}
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	h := adapters.RecoveryMiddleware[int](api.HandlerFunc[int](func(v int) error {
		panic("bad event")
	}))
	err := h.Handle(3)
	if err == nil {
		t.Fatal("panic not converted to error")
	}
}

func TestMetricsMiddleware(t *testing.T) {
	ctrl := adapters.NewControlAdapter()
	reject := errors.New("no")
	h := adapters.NewMiddlewareHandler[int](api.HandlerFunc[int](func(v int) error {
		if v < 0 {
			return reject
		}
		return nil
	})).Use(adapters.MetricsMiddleware[int](ctrl))

	for _, v := range []int{1, 2, -1} {
		_ = h.Handle(v)
	}
	stats := ctrl.Stats()
	if stats["handler.processed"].(int64) != 2 {
		t.Fatalf("processed = %v, want 2", stats["handler.processed"])
	}
	if stats["handler.failed"].(int64) != 1 {
		t.Fatalf("failed = %v, want 1", stats["handler.failed"])
	}
}
