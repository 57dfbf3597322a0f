// File: core/ksync/eventqueue.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package ksync

import "github.com/momentics/ksync/api"

// EventQueue couples a Fifo with a counting Semaphore so consumers can block
// on an empty queue instead of polling. Producers post from any thread.
type EventQueue[T any] struct {
	fifo *Fifo[T]
	sem  *Semaphore
}

// NewEventQueue creates an event queue holding up to capacity events.
func NewEventQueue[T any](sched api.ThreadScheduler, capacity int) *EventQueue[T] {
	return &EventQueue[T]{
		fifo: NewFifo[T](capacity),
		sem:  NewSemaphore(sched, 0),
	}
}

// Post enqueues an event and wakes a blocked consumer. It returns
// api.ErrQueueFull when the queue is at capacity; the event stays with the
// caller.
func (q *EventQueue[T]) Post(event T) error {
	if !q.fifo.Enqueue(event) {
		return api.ErrQueueFull
	}
	q.sem.Signal()
	return nil
}

// Get removes the oldest event without blocking.
func (q *EventQueue[T]) Get() (T, bool) {
	return q.fifo.Dequeue()
}

// Wait blocks the calling thread until an event is available.
func (q *EventQueue[T]) Wait() T {
	for {
		if v, ok := q.fifo.Dequeue(); ok {
			return v
		}
		q.sem.Wait()
	}
}

// AsyncEventQueue is the cooperative analog of EventQueue: consumers await
// events through the executor instead of blocking a thread.
type AsyncEventQueue[T any] struct {
	fifo *Fifo[T]
	sem  *AsyncSemaphore
}

// NewAsyncEventQueue creates an async event queue holding up to capacity
// events.
func NewAsyncEventQueue[T any](capacity int) *AsyncEventQueue[T] {
	return &AsyncEventQueue[T]{
		fifo: NewFifo[T](capacity),
		sem:  NewAsyncSemaphore(0),
	}
}

// Post enqueues an event and wakes one awaiting task. It returns
// api.ErrQueueFull when the queue is at capacity.
func (q *AsyncEventQueue[T]) Post(event T) error {
	if !q.fifo.Enqueue(event) {
		return api.ErrQueueFull
	}
	q.sem.Signal()
	return nil
}

// Get removes the oldest event without blocking or suspending.
func (q *AsyncEventQueue[T]) Get() (T, bool) {
	return q.fifo.Dequeue()
}

// Wait returns a future that completes once an event has been received and
// stored into dst.
func (q *AsyncEventQueue[T]) Wait(dst *T) api.Future {
	return &eventWaiter[T]{queue: q, dst: dst}
}

type eventWaiter[T any] struct {
	queue *AsyncEventQueue[T]
	dst   *T
}

func (f *eventWaiter[T]) Poll(w api.Waker) bool {
	for {
		if v, ok := f.queue.fifo.Dequeue(); ok {
			*f.dst = v
			return true
		}
		// Consume one post permit; suspend when none are available yet.
		if !f.queue.sem.Poll(w) {
			return false
		}
	}
}
