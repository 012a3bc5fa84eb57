// File: affinity/affinity_windows.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

//go:build windows

package affinity

import "syscall"

var (
	kernel32              = syscall.NewLazyDLL("kernel32.dll")
	procGetCurrentThread  = kernel32.NewProc("GetCurrentThread")
	procSetThreadAffinity = kernel32.NewProc("SetThreadAffinityMask")
)

func setAffinity(cpu int) error {
	thread, _, _ := procGetCurrentThread.Call()
	mask := uintptr(1) << uint(cpu)
	prev, _, callErr := procSetThreadAffinity.Call(thread, mask)
	if prev == 0 {
		return callErr
	}
	return nil
}
