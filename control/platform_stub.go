//go:build !linux && !windows
// +build !linux,!windows

// control/platform_stub.go
// Author: momentics <momentics@gmail.com>

package control

import "runtime"

// RegisterPlatformProbes provides the portable probe subset on
// platforms without a dedicated integration.
func RegisterPlatformProbes(dp *DebugProbes) {
	dp.RegisterProbe("platform.cpus", func() any {
		return runtime.NumCPU()
	})
}
