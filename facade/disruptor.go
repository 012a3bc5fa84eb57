// File: facade/disruptor.go
// Unified facade layer for the hioload-disruptor library.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// This file defines the Disruptor struct, which aggregates the core
// components of the library behind a single facade. It owns the shared
// ring, wires batched pollers and consumer loops to it, and exposes the
// control plane for dynamic config, metrics, and debug probes. Hot
// paths can bypass the facade and work against the ring directly; the
// facade methods add bookkeeping, not semantics.

package facade

import (
	"log"
	"runtime"
	"sync"

	"github.com/sugawarayuuta/sonnet"

	"github.com/momentics/hioload-disruptor/adapters"
	"github.com/momentics/hioload-disruptor/api"
	"github.com/momentics/hioload-disruptor/batch"
	"github.com/momentics/hioload-disruptor/consumer"
	"github.com/momentics/hioload-disruptor/control"
	"github.com/momentics/hioload-disruptor/producer"
	"github.com/momentics/hioload-disruptor/ring"
)

// Config holds parameters immutable per run.
// All fields influence the initialization of internal components and cannot
// be changed at runtime except via the Control interface which triggers hot-reload.
type Config struct {
	RingCapacity  int  // Slots in the shared ring, must be a power of two
	BatchSize     int  // Entries per consumer batch epoch
	FlushSpan     int  // Staged events claimed per producer flush span
	CPUAffinity   bool // Pin consumer loops to cores, round-robin
	EnableMetrics bool // Count publish/consume activity in Control
	EnableDebug   bool // Register ring and consumer state probes
}

// DefaultConfig returns default configuration values.
// These sane defaults support typical use cases without extensive tuning.
func DefaultConfig() *Config {
	return &Config{
		RingCapacity:  1024,                   // 1024 entries in the shared ring
		BatchSize:     batch.DefaultBatchSize, // 20 entries per consumer epoch
		FlushSpan:     producer.DefaultSpan,   // 16 staged events per flush claim
		CPUAffinity:   false,                  // Leave consumer loops floating
		EnableMetrics: true,                   // Enable built-in counters
		EnableDebug:   true,                   // Enable debug probes
	}
}

// consumerEntry tracks one managed consumer loop and its ring tap.
type consumerEntry[T any] struct {
	name   string
	runner *consumer.Runner[T]
	tap    *ring.Poller[T]
}

// Disruptor is the main facade type.
// It implements api.GracefulShutdown to allow unified shutdown logic.
type Disruptor[T any] struct {
	ring    *ring.Buffer[T] // Shared multi-producer event buffer
	control api.Control     // Dynamic config and metrics interface
	config  *Config         // Immutable configuration

	mu        sync.Mutex // Protects lifecycle state below
	started   bool
	stopped   bool
	consumers []*consumerEntry[T]
	taps      []*ring.Poller[T] // Unmanaged pollers, detached on Stop
	nextCPU   int
}

// Ensure compliance with api.GracefulShutdown.
var _ api.GracefulShutdown = (*Disruptor[int])(nil)

// New constructs a Disruptor with the given configuration. It allocates
// the shared ring, initializes the control adapter, publishes the
// effective configuration for observability, and registers ring state
// probes.
func New[T any](cfg *Config) (*Disruptor[T], error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	// Work on a copy: defaults applied here must not mutate the caller's struct.
	c := *cfg
	if c.RingCapacity < 1 || c.RingCapacity&(c.RingCapacity-1) != 0 {
		return nil, api.NewError(api.ErrCodeInvalidArgument,
			"ring capacity must be a power of two").
			WithContext("capacity", c.RingCapacity)
	}
	if c.BatchSize < 1 {
		c.BatchSize = batch.DefaultBatchSize
	}
	if c.FlushSpan < 1 {
		c.FlushSpan = producer.DefaultSpan
	}
	if c.FlushSpan > c.RingCapacity {
		c.FlushSpan = c.RingCapacity
	}

	d := &Disruptor[T]{
		ring:    ring.New[T](c.RingCapacity),
		control: adapters.NewControlAdapter(),
		config:  &c,
	}

	// Expose configuration values via Control for observability and hot-reload.
	d.control.SetConfig(map[string]any{
		control.KeyRingCapacity: c.RingCapacity,
		control.KeyBatchSize:    c.BatchSize,
		control.KeyFlushSpan:    c.FlushSpan,
		control.KeyCPUAffinity:  c.CPUAffinity,
	})
	d.control.OnReload(func() {
		log.Printf("[facade] config reloaded")
	})

	if c.EnableDebug {
		d.control.RegisterDebugProbe("ring.capacity", func() any { return d.ring.Cap() })
		d.control.RegisterDebugProbe("ring.cursor", func() any { return d.ring.Cursor() })
		d.control.RegisterDebugProbe("ring.gating_min", func() any { return d.ring.GatingMinimum() })
		d.control.RegisterDebugProbe("ring.backlog", func() any {
			return d.ring.Cursor() - d.ring.GatingMinimum()
		})
	}
	return d, nil
}

// Start flags the facade as running and enables metrics if configured.
// Subsequent calls to Start() have no effect.
func (d *Disruptor[T]) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return api.ErrFacadeStopped
	}
	if d.started {
		return nil
	}
	if d.config.EnableMetrics {
		d.control.SetMetric("metrics.enabled", true)
	}
	d.started = true
	log.Printf("[facade] started: ring=%d batch=%d flush_span=%d",
		d.config.RingCapacity, d.config.BatchSize, d.config.FlushSpan)
	return nil
}

// Publish claims the next slot, writes v, and makes it visible to every
// attached poller. It blocks while the ring is full. The returned
// sequence is the event's position in publish order.
func (d *Disruptor[T]) Publish(v T) int64 {
	seq := d.ring.Claim()
	d.ring.WriteSlot(seq, v)
	d.ring.Publish(seq)
	if d.config.EnableMetrics {
		d.control.AddMetric("events.published", 1)
	}
	return seq
}

// TryPublish is Publish without blocking: it reports api.ErrRingFull
// when the slowest consumer still occupies the next slot.
func (d *Disruptor[T]) TryPublish(v T) (int64, error) {
	seq, err := d.ring.TryClaim()
	if err != nil {
		if d.config.EnableMetrics {
			d.control.AddMetric("events.rejected", 1)
		}
		return 0, err
	}
	d.ring.WriteSlot(seq, v)
	d.ring.Publish(seq)
	if d.config.EnableMetrics {
		d.control.AddMetric("events.published", 1)
	}
	return seq, nil
}

// NewBatcher returns a staging batcher over the shared ring for burst
// publication. Each batcher belongs to a single producer goroutine.
func (d *Disruptor[T]) NewBatcher() *producer.Batcher[T] {
	return producer.NewBatcher[T](d.ring, d.config.FlushSpan)
}

// NewBatchedPoller attaches a new consumer position to the ring and
// wraps it in a local batch of batchSize entries. A non-positive
// batchSize falls back to the configured default. The caller polls it
// from a single goroutine; the facade detaches it on Stop.
func (d *Disruptor[T]) NewBatchedPoller(batchSize int) (*batch.Poller[T], error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return nil, api.ErrFacadeStopped
	}
	if batchSize < 1 {
		batchSize = d.config.BatchSize
	}
	tap := d.ring.NewPoller()
	d.taps = append(d.taps, tap)
	if d.config.EnableMetrics {
		d.control.AddMetric("consumers.attached", 1)
	}
	return batch.NewPoller[T](tap, batchSize), nil
}

// StartConsumer attaches a named consumer loop that feeds handler from
// its own batched poller. With CPUAffinity enabled, loops are pinned
// round-robin across cores in start order.
func (d *Disruptor[T]) StartConsumer(name string, handler api.Handler[T]) (*consumer.Runner[T], error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return nil, api.ErrFacadeStopped
	}

	rcfg := consumer.DefaultRunnerConfig()
	if d.config.CPUAffinity {
		rcfg.PinCPU = d.nextCPU % runtime.NumCPU()
		d.nextCPU++
	}

	tap := d.ring.NewPoller()
	r := consumer.NewRunner[T](batch.NewPoller[T](tap, d.config.BatchSize), handler, rcfg)
	if err := r.Start(); err != nil {
		tap.Close()
		return nil, err
	}
	d.consumers = append(d.consumers, &consumerEntry[T]{name: name, runner: r, tap: tap})

	if d.config.EnableDebug {
		d.control.RegisterDebugProbe("consumer."+name+".sequence", func() any { return tap.Sequence().Get() })
		d.control.RegisterDebugProbe("consumer."+name+".handled", func() any { return r.Handled() })
		d.control.RegisterDebugProbe("consumer."+name+".failures", func() any { return r.Failures() })
	}
	if d.config.EnableMetrics {
		d.control.AddMetric("consumers.attached", 1)
	}
	log.Printf("[facade] consumer %q started (pin=%d)", name, rcfg.PinCPU)
	return r, nil
}

// Stop halts every managed consumer loop, detaches all pollers so
// producers are no longer gated by them, and marks the facade stopped.
// A stopped facade rejects new consumers; calling Stop() again is a
// no-op.
func (d *Disruptor[T]) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return nil
	}
	for _, c := range d.consumers {
		c.runner.Stop()
		c.tap.Close()
		log.Printf("[facade] consumer %q stopped: handled=%d failures=%d",
			c.name, c.runner.Handled(), c.runner.Failures())
	}
	for _, tap := range d.taps {
		tap.Close()
	}
	d.consumers = nil
	d.taps = nil
	d.started = false
	d.stopped = true
	log.Printf("[facade] stopped")
	return nil
}

// Shutdown implements api.GracefulShutdown by delegating to Stop().
func (d *Disruptor[T]) Shutdown() error {
	return d.Stop()
}

// GetControl returns the Control interface for dynamic config and metrics.
func (d *Disruptor[T]) GetControl() api.Control {
	return d.control
}

// GetRing exposes the shared ring for producers that claim and publish
// directly, bypassing facade bookkeeping.
func (d *Disruptor[T]) GetRing() *ring.Buffer[T] {
	return d.ring
}

// StateJSON serializes the effective config together with metrics and
// probe output into one document for diagnostics endpoints.
func (d *Disruptor[T]) StateJSON() ([]byte, error) {
	return sonnet.Marshal(map[string]any{
		"config": d.control.GetConfig(),
		"stats":  d.control.Stats(),
	})
}
