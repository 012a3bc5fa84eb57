// File: api/control.go
// Package api defines Control interface.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// Control manages dynamic config, runtime metrics, and debug probes for a
// running pipeline.
type Control interface {
	GetConfig() map[string]any
	SetConfig(cfg map[string]any) error
	LoadConfigJSON(data []byte) error
	Stats() map[string]any
	OnReload(fn func())
	SetMetric(key string, value any)
	AddMetric(key string, delta int64) int64
	RegisterDebugProbe(name string, fn func() any)
	DumpState() map[string]any
}
