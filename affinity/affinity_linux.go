// File: affinity/affinity_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

//go:build linux

package affinity

import "golang.org/x/sys/unix"

// setAffinity restricts the calling thread (pid 0) to a single core.
func setAffinity(cpu int) error {
	var set unix.CPUSet
	set.Zero()
	set.Set(cpu)
	return unix.SchedSetaffinity(0, &set)
}
