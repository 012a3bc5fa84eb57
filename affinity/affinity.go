// File: affinity/affinity.go
// Package affinity pins consumer goroutines to CPU cores.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Pinning a hot polling loop to one core keeps its ring and batch state
// in that core's cache. Support is best-effort: on platforms without a
// usable affinity call, Pin reports api.ErrNotSupported and callers run
// unpinned.

package affinity

import (
	"fmt"
	"runtime"
)

// Pin binds the calling goroutine to cpu. The goroutine is locked to its
// OS thread first, so the binding holds for the goroutine's lifetime.
// Callers that stop polling should release the thread with Unpin.
func Pin(cpu int) error {
	if cpu < 0 || cpu >= runtime.NumCPU() {
		return fmt.Errorf("affinity: cpu %d out of range [0,%d)", cpu, runtime.NumCPU())
	}
	runtime.LockOSThread()
	if err := setAffinity(cpu); err != nil {
		runtime.UnlockOSThread()
		return fmt.Errorf("affinity: pin to cpu %d: %w", cpu, err)
	}
	return nil
}

// Unpin releases the OS thread locked by a successful Pin.
func Unpin() {
	runtime.UnlockOSThread()
}
