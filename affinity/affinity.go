// File: affinity/affinity.go
// Package affinity pins the calling OS thread to a logical CPU.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Platform-neutral API; platform implementations live in separate files
// guarded by build tags. Callers are expected to hold runtime.LockOSThread
// for the pin to stay meaningful.

package affinity

// Pin binds the current OS thread to the given logical CPU.
// On unsupported platforms it returns an error and the thread stays
// unpinned.
func Pin(cpuID int) error {
	return pinPlatform(cpuID)
}
