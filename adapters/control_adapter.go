// Package adapters
// Author: momentics <momentics@gmail.com>
//
// Control adapter implementing api.Control interface using control package primitives.

package adapters

import (
	"fmt"
	"sync/atomic"

	"github.com/momentics/hioload-disruptor/api"
	"github.com/momentics/hioload-disruptor/control"
)

type ControlAdapter struct {
	config  *control.ConfigStore
	metrics *control.MetricsRegistry
	debug   *control.DebugProbes
}

// reloadHookSeq numbers listener registrations across all adapters in
// the process; the global hook registry replaces entries by name, so
// names must never repeat between adapters.
var reloadHookSeq atomic.Int64

var _ api.Control = (*ControlAdapter)(nil)

func NewControlAdapter() *ControlAdapter {
	adapter := &ControlAdapter{
		config:  control.NewConfigStore(),
		metrics: control.NewMetricsRegistry(),
		debug:   control.NewDebugProbes(),
	}
	control.RegisterPlatformProbes(adapter.debug)
	return adapter
}

func (c *ControlAdapter) GetConfig() map[string]any {
	return c.config.GetSnapshot()
}

func (c *ControlAdapter) SetConfig(cfg map[string]any) error {
	c.config.SetConfig(cfg)
	return nil
}

func (c *ControlAdapter) LoadConfigJSON(data []byte) error {
	return c.config.LoadJSON(data)
}

// Stats merges counters with debug probe output; probe keys carry a
// "debug." prefix so scrapers can tell them apart.
func (c *ControlAdapter) Stats() map[string]any {
	stats := c.metrics.GetSnapshot()
	debugStats := c.debug.DumpState()
	combined := make(map[string]any)
	for k, v := range stats {
		combined[k] = v
	}
	for k, v := range debugStats {
		combined["debug."+k] = v
	}
	return combined
}

func (c *ControlAdapter) OnReload(fn func()) {
	c.config.OnReload(fn)
	name := fmt.Sprintf("control.listener.%d", reloadHookSeq.Add(1))
	control.RegisterReloadHook(name, fn)
}

func (c *ControlAdapter) SetMetric(key string, value any) {
	c.metrics.Set(key, value)
}

func (c *ControlAdapter) AddMetric(key string, delta int64) int64 {
	return c.metrics.Add(key, delta)
}

func (c *ControlAdapter) RegisterDebugProbe(name string, fn func() any) {
	c.debug.RegisterProbe(name, fn)
}

func (c *ControlAdapter) DumpState() map[string]any {
	return c.debug.DumpState()
}
