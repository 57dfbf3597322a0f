// File: core/ksync/backoff.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package ksync

import "runtime"

// backoffCeiling caps the spin phase at 1<<6 = 64 iterations per wait.
const backoffCeiling = 6

// Backoff is a capped exponential busy-wait used between failed attempts in
// spin loops. Each Wait doubles the number of spin iterations until the
// ceiling, after which it yields the processor instead of burning it.
// The zero value is ready to use; Reset starts a fresh ramp.
type Backoff struct {
	step uint32
}

// Reset restarts the ramp, for callers that reuse one Backoff across
// separate acquisition attempts.
func (b *Backoff) Reset() {
	b.step = 0
}

// Wait burns an exponentially growing number of spin iterations, then
// degrades to yielding once the ceiling is reached.
func (b *Backoff) Wait() {
	if b.step < backoffCeiling {
		for i := uint32(1) << b.step; i > 0; i-- {
			cpuRelax()
		}
		b.step++
		return
	}
	runtime.Gosched()
}
