// File: api/interrupt.go
// Package api defines the contracts and error taxonomy of the ksync library.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// InterruptController is the hook through which SpinMutex masks interrupts
// around its critical sections. On a real core this maps to cli/sti style
// flags handling; in userspace the no-op adapter is used.
//
// Disable and Restore always run on the same thread, paired by the guard:
//
//	enabled := ic.Disable()
//	// ... critical section ...
//	ic.Restore(enabled)
//
// Restore re-enables interrupts only if they were enabled at Disable time,
// so nested guards unwind to the original state.
type InterruptController interface {
	// Disable masks interrupts and reports whether they were enabled before.
	Disable() (wasEnabled bool)
	// Restore re-enables interrupts if wasEnabled is true.
	Restore(wasEnabled bool)
}
