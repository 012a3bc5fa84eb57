// control/debug.go
// Author: momentics <momentics@gmail.com>
//
// Runtime debug handler and probe reflector for internal inspection.
// The facade registers ring cursors, gating positions and consumer
// counters here so a live pipeline can be inspected without stopping it.

package control

import (
	"sync"

	"github.com/sugawarayuuta/sonnet"
)

// DebugProbes holds registered probe functions.
type DebugProbes struct {
	mu     sync.RWMutex
	probes map[string]func() any
}

// NewDebugProbes creates a probe registry.
func NewDebugProbes() *DebugProbes {
	return &DebugProbes{
		probes: make(map[string]func() any),
	}
}

// RegisterProbe inserts a named debug hook. Probes must be cheap and
// safe to call from any goroutine; they read atomics, never lock the
// hot path.
func (dp *DebugProbes) RegisterProbe(name string, fn func() any) {
	dp.mu.Lock()
	defer dp.mu.Unlock()
	dp.probes[name] = fn
}

// Probes lists registered probe names.
func (dp *DebugProbes) Probes() []string {
	dp.mu.RLock()
	defer dp.mu.RUnlock()
	names := make([]string, 0, len(dp.probes))
	for k := range dp.probes {
		names = append(names, k)
	}
	return names
}

// DumpState returns output of all probes.
func (dp *DebugProbes) DumpState() map[string]any {
	dp.mu.RLock()
	defer dp.mu.RUnlock()
	out := make(map[string]any)
	for k, fn := range dp.probes {
		out[k] = fn()
	}
	return out
}

// DumpJSON serializes the probe outputs in one pass.
func (dp *DebugProbes) DumpJSON() ([]byte, error) {
	return sonnet.Marshal(dp.DumpState())
}
