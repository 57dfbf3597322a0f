// File: core/ksync/spinlock.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package ksync

import "sync/atomic"

// Spinlock is a busy-wait mutual exclusion lock.
//
// It is not reentrant: re-acquiring from the holding thread deadlocks.
// Never hold a Spinlock across a blocking call (Semaphore.Wait, Mutex.Lock,
// RwLock.Read/Write); that can stall every thread spinning on it.
type Spinlock struct {
	state atomic.Bool
}

// TryLock attempts to acquire the lock without spinning.
func (l *Spinlock) TryLock() bool {
	return l.state.CompareAndSwap(false, true)
}

// Lock spins until the lock is acquired. Between attempts it watches the
// lock with a fresh capped-exponential backoff, so contended acquisition
// degrades gracefully instead of hammering the cache line.
func (l *Spinlock) Lock() {
	for !l.state.CompareAndSwap(false, true) {
		var backoff Backoff
		for l.state.Load() {
			backoff.Wait()
		}
	}
}

// ForceUnlock releases the lock. The caller must guarantee it pairs with a
// successful Lock or TryLock; unlocking a free lock has no effect.
func (l *Spinlock) ForceUnlock() {
	l.state.Store(false)
}

// Synchronized runs f while holding the lock.
func (l *Spinlock) Synchronized(f func()) {
	l.Lock()
	defer l.ForceUnlock()
	f()
}
