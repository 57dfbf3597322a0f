// File: core/ksync/mutex.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package ksync

import "github.com/momentics/ksync/api"

// Mutex guards a value behind a BinarySemaphore, so a contended Lock parks
// the calling thread instead of spinning.
type Mutex[T any] struct {
	inner *BinarySemaphore
	data  T
}

// NewMutex creates a Mutex around data.
func NewMutex[T any](sched api.ThreadScheduler, data T) *Mutex[T] {
	return &Mutex[T]{inner: NewBinarySemaphore(sched), data: data}
}

// Lock blocks the calling thread until the mutex is held and returns the
// guard. Release the guard with Unlock on every exit path, including early
// returns; defer is the usual shape.
func (m *Mutex[T]) Lock() *MutexGuard[T] {
	m.inner.Lock()
	return &MutexGuard[T]{mutex: m}
}

// TryLock attempts to take the mutex without blocking. Under contention it
// returns api.ErrWouldBlock.
func (m *Mutex[T]) TryLock() (*MutexGuard[T], error) {
	if !m.inner.TryLock() {
		return nil, api.ErrWouldBlock
	}
	return &MutexGuard[T]{mutex: m}, nil
}

// MutexGuard grants exclusive access to the protected value until Unlock.
// The guard must stay on the thread that acquired it.
type MutexGuard[T any] struct {
	mutex *Mutex[T]
}

// Value returns the protected value. The pointer must not be retained past
// Unlock.
func (g *MutexGuard[T]) Value() *T {
	return &g.mutex.data
}

// Unlock releases the mutex.
func (g *MutexGuard[T]) Unlock() {
	g.mutex.inner.ForceUnlock()
}
