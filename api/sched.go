// File: api/sched.go
// Package api defines the contracts and error taxonomy of the ksync library.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

import "time"

// Parker is a single-use park/wake token for one thread of execution.
//
// Unpark is sticky: if it runs before Park, the next Park returns
// immediately. This is what makes the register-then-sleep pattern in
// SignalSlot race-free.
type Parker interface {
	// Park blocks the calling thread until Unpark has been called.
	Park()
	// Unpark releases a current or future Park call. It never blocks and is
	// safe to call from any thread.
	Unpark()
}

// ThreadScheduler is the hook through which the synchronization core reaches
// the surrounding thread scheduler. In a kernel this is the real scheduler;
// in userspace the goroutine-backed adapter is used.
//
// It is injected explicitly into every blocking primitive instead of living
// in a package-level singleton, so independent subsystems can carry
// independent scheduling policies.
type ThreadScheduler interface {
	// NewParker returns a fresh park token for the calling thread.
	NewParker() Parker
	// Yield gives up the processor without sleeping.
	Yield()
	// Sleep blocks the calling thread for at least d.
	Sleep(d time.Duration)
}
