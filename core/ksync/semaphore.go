// File: core/ksync/semaphore.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package ksync

import (
	"sync/atomic"

	"github.com/momentics/ksync/api"
)

// Semaphore is a blocking counting semaphore built on a SignalSlot.
//
// Wait suspends the calling thread (not a cooperative task); see
// AsyncSemaphore for the non-blocking, waker-integrated variant.
// There is no fairness ordering among waiters, only eventual wake-up.
type Semaphore struct {
	value  atomic.Int64
	signal *SignalSlot
}

// NewSemaphore creates a semaphore with the given initial count.
func NewSemaphore(sched api.ThreadScheduler, value int) *Semaphore {
	s := &Semaphore{signal: NewSignalSlot(sched)}
	s.value.Store(int64(value))
	return s
}

// EstimatedValue returns the current count. It is advisory only: the value
// may be stale by the time the caller looks at it.
func (s *Semaphore) EstimatedValue() int {
	return int(s.value.Load())
}

// TryLock decrements the count if it is at least one.
func (s *Semaphore) TryLock() bool {
	for {
		v := s.value.Load()
		if v < 1 {
			return false
		}
		if s.value.CompareAndSwap(v, v-1) {
			return true
		}
	}
}

// Wait blocks the calling thread until a unit can be acquired.
// There is no cancellation or timeout; a waiting thread can only be released
// by a Signal.
func (s *Semaphore) Wait() {
	s.signal.WaitFor(s.TryLock)
}

// Signal releases one unit and wakes the parked waiter, if any.
// Safe to call from any thread.
func (s *Semaphore) Signal() {
	s.value.Add(1)
	s.signal.Signal()
}

// Synchronized acquires a unit around f.
func (s *Semaphore) Synchronized(f func()) {
	s.Wait()
	defer s.Signal()
	f()
}

// BinarySemaphore is the boolean analog of Semaphore; it backs Mutex.
type BinarySemaphore struct {
	locked atomic.Bool
	signal *SignalSlot
}

// NewBinarySemaphore creates an unlocked binary semaphore.
func NewBinarySemaphore(sched api.ThreadScheduler) *BinarySemaphore {
	return &BinarySemaphore{signal: NewSignalSlot(sched)}
}

// TryLock acquires the semaphore if it is free.
func (s *BinarySemaphore) TryLock() bool {
	return s.locked.CompareAndSwap(false, true)
}

// Lock blocks the calling thread until the semaphore is acquired.
func (s *BinarySemaphore) Lock() {
	s.signal.WaitFor(s.TryLock)
}

// ForceUnlock releases the semaphore and wakes the parked waiter, if any.
// It reports false when the semaphore was not locked. The caller must
// guarantee correct pairing with Lock or TryLock.
func (s *BinarySemaphore) ForceUnlock() bool {
	if !s.locked.CompareAndSwap(true, false) {
		return false
	}
	s.signal.Signal()
	return true
}

// Synchronized runs f while holding the semaphore.
func (s *BinarySemaphore) Synchronized(f func()) {
	s.Lock()
	defer s.ForceUnlock()
	f()
}
