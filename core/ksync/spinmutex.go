// File: core/ksync/spinmutex.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package ksync

import "github.com/momentics/ksync/api"

// SpinMutex guards a value with a Spinlock plus an interrupt guard.
//
// The interrupt guard is taken before spinning, so once the critical section
// starts the holding core cannot be re-entered by an interrupt handler
// contending for the same lock. Other cores keep spinning; that is intended.
//
// Contract: safe to use inside interrupt handlers; must never be held across
// a blocking call; not reentrant.
type SpinMutex[T any] struct {
	lock Spinlock
	intr api.InterruptController
	data T
}

// NewSpinMutex creates a SpinMutex around data. intr is the interrupt-guard
// hook; pass the adapters no-op controller in userspace.
func NewSpinMutex[T any](data T, intr api.InterruptController) *SpinMutex[T] {
	return &SpinMutex[T]{intr: intr, data: data}
}

// Lock disables interrupts, spins until the lock is held and returns the
// guard. The guard must be released with Unlock on every exit path.
func (m *SpinMutex[T]) Lock() *SpinMutexGuard[T] {
	wasEnabled := m.intr.Disable()
	m.lock.Lock()
	return &SpinMutexGuard[T]{mutex: m, wasEnabled: wasEnabled}
}

// TryLock attempts to take the lock without spinning. On failure the
// interrupt state is restored immediately and ok is false.
func (m *SpinMutex[T]) TryLock() (g *SpinMutexGuard[T], ok bool) {
	wasEnabled := m.intr.Disable()
	if !m.lock.TryLock() {
		m.intr.Restore(wasEnabled)
		return nil, false
	}
	return &SpinMutexGuard[T]{mutex: m, wasEnabled: wasEnabled}, true
}

// ForceUnlock releases the underlying lock without touching the interrupt
// state. The caller must guarantee correct pairing.
func (m *SpinMutex[T]) ForceUnlock() {
	m.lock.ForceUnlock()
}

// SpinMutexGuard grants access to the protected value until Unlock.
// It must not be handed to another thread.
type SpinMutexGuard[T any] struct {
	mutex      *SpinMutex[T]
	wasEnabled bool
}

// Value returns the protected value. The pointer must not be retained past
// Unlock.
func (g *SpinMutexGuard[T]) Value() *T {
	return &g.mutex.data
}

// Unlock releases the lock and restores the interrupt state captured at
// acquisition.
func (g *SpinMutexGuard[T]) Unlock() {
	g.mutex.lock.ForceUnlock()
	g.mutex.intr.Restore(g.wasEnabled)
}
