//go:build !linux && !windows

// File: affinity/affinity_stub.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package affinity

import "github.com/momentics/ksync/api"

// pinPlatform is a stub for platforms without thread affinity support.
func pinPlatform(int) error {
	return api.ErrNotSupported
}
