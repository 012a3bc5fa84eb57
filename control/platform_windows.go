//go:build windows
// +build windows

// control/platform_windows.go
// Author: momentics <momentics@gmail.com>
//
// Windows-specific metrics/debug introspection points.

package control

import (
	"runtime"
)

// RegisterPlatformProbes sets Windows-specific debug probes. Affinity
// width reporting is unavailable here; GOMAXPROCS stands in as the
// effective parallelism bound.
func RegisterPlatformProbes(dp *DebugProbes) {
	dp.RegisterProbe("platform.cpus", func() any {
		return runtime.NumCPU()
	})
	dp.RegisterProbe("platform.maxprocs", func() any {
		return runtime.GOMAXPROCS(0)
	})
}
