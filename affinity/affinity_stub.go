// File: affinity/affinity_stub.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

//go:build !linux && !windows

package affinity

import "github.com/momentics/hioload-disruptor/api"

func setAffinity(cpu int) error {
	return api.ErrNotSupported
}
