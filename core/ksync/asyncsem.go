// File: core/ksync/asyncsem.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package ksync

import (
	"sync/atomic"

	"github.com/eapache/queue"

	"github.com/momentics/ksync/api"
)

// defaultWakerCapacity sizes the bounded waker ring when the caller does not
// specify one.
const defaultWakerCapacity = 16

// AsyncSemaphore is a counting semaphore integrated with the cooperative
// executor: instead of blocking a thread, a failed acquisition queues the
// task's waker and the task suspends by returning pending from its poll.
//
// Waiters are woken approximately in FIFO order, bounded by the underlying
// ring's cross-producer ordering; strict FIFO is not guaranteed under heavy
// contention.
type AsyncSemaphore struct {
	value  atomic.Int64
	wakers *Fifo[api.Waker]

	// Overflow spill for wakers that do not fit the bounded ring. Rarely
	// touched, so a Spinlock around the unbounded queue is enough.
	spillLock Spinlock
	spill     *queue.Queue
}

// NewAsyncSemaphore creates an async semaphore with the given initial count
// and the default waiter capacity.
func NewAsyncSemaphore(value int) *AsyncSemaphore {
	return NewAsyncSemaphoreCap(value, defaultWakerCapacity)
}

// NewAsyncSemaphoreCap creates an async semaphore sized for roughly capacity
// concurrent waiters before the spill list engages.
func NewAsyncSemaphoreCap(value, capacity int) *AsyncSemaphore {
	s := &AsyncSemaphore{
		wakers: NewFifo[api.Waker](capacity),
		spill:  queue.New(),
	}
	s.value.Store(int64(value))
	return s
}

// EstimatedValue returns the current count; advisory only.
func (s *AsyncSemaphore) EstimatedValue() int {
	return int(s.value.Load())
}

// TryLock decrements the count if it is at least one. It never queues a
// waker; use Poll from a future's poll method.
func (s *AsyncSemaphore) TryLock() bool {
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

// Poll attempts to acquire a unit on behalf of a polling task. On failure it
// queues w and returns false; the caller must then report pending. After
// queueing, the acquisition is retried once more to close the race with a
// concurrent Signal that ran between the failed attempt and the enqueue; the
// already-queued waker then at worst causes one spurious re-poll.
func (s *AsyncSemaphore) Poll(w api.Waker) bool {
	if s.TryLock() {
		return true
	}
	s.enqueueWaker(w)
	return s.TryLock()
}

// Wait returns a future that completes once a unit has been acquired.
func (s *AsyncSemaphore) Wait() api.Future {
	return &asyncSemWaiter{sem: s}
}

// Signal releases one unit and wakes exactly one queued waiter, if any.
// Safe to call from any thread or interrupt-free context.
func (s *AsyncSemaphore) Signal() {
	s.value.Add(1)
	if w := s.dequeueWaker(); w != nil {
		w.Wake()
	}
}

func (s *AsyncSemaphore) enqueueWaker(w api.Waker) {
	if s.wakers.Enqueue(w) {
		return
	}
	s.spillLock.Synchronized(func() {
		s.spill.Add(w)
	})
}

func (s *AsyncSemaphore) dequeueWaker() api.Waker {
	if w, ok := s.wakers.Dequeue(); ok {
		return w
	}
	var w api.Waker
	s.spillLock.Synchronized(func() {
		if s.spill.Length() > 0 {
			w = s.spill.Remove().(api.Waker)
		}
	})
	return w
}

type asyncSemWaiter struct {
	sem *AsyncSemaphore
}

func (f *asyncSemWaiter) Poll(w api.Waker) bool {
	return f.sem.Poll(w)
}
