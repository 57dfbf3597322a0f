// File: core/ksync/fifo.go
// Package ksync implements the lock-free and blocking synchronization core.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Bounded MPMC ring buffer using per-slot sequence stamps, based on the
// pattern by Dmitry Vyukov for MPMC queues.

package ksync

import (
	"sync/atomic"

	"github.com/momentics/ksync/api"
)

// Compile-time interface compliance.
var _ api.Ring[any] = (*Fifo[any])(nil)

// Fifo is a bounded multi-producer/multi-consumer FIFO queue.
//
// The stamp stored in each slot encodes whether the slot is writable for the
// current lap, readable, or still owned by the previous lap, so no separate
// full/empty flags are needed and a stalled producer can never be confused
// with an empty slot (no ABA). Cursors only ever advance; the index wraps
// through the mask.
type Fifo[T any] struct {
	// Padding separates the hot cursors from each other and from the
	// read-mostly fields to avoid false sharing.
	_      [cacheLinePad]byte
	mask   uint64
	oneLap uint64
	slots  []slot[T]
	_      [cacheLinePad]byte
	tail   atomic.Uint64 // producers
	_      [cacheLinePad]byte
	head   atomic.Uint64 // consumers
	_      [cacheLinePad]byte
}

const cacheLinePad = 64

type slot[T any] struct {
	stamp atomic.Uint64
	value T
}

// NewFifo creates a bounded MPMC queue. The capacity is rounded up to a
// power of two, minimum 2; every slot is usable, so a queue of capacity C
// holds exactly C elements before Enqueue reports full.
func NewFifo[T any](capacity int) *Fifo[T] {
	size := uint64(2)
	for size < uint64(capacity) {
		size <<= 1
	}

	q := &Fifo[T]{
		mask:   size - 1,
		oneLap: size,
		slots:  make([]slot[T], size),
	}
	for i := range q.slots {
		// The initial stamp of each slot matches its index: writable on lap 0.
		q.slots[i].stamp.Store(uint64(i))
	}
	return q
}

// Enqueue pushes a value into the queue. It returns false only when the
// queue is full; the value then stays with the caller.
// Safe to call concurrently from any number of producers.
func (q *Fifo[T]) Enqueue(value T) bool {
	var backoff Backoff
	for {
		tail := q.tail.Load()
		s := &q.slots[tail&q.mask]

		diff := int64(s.stamp.Load()) - int64(tail)
		switch {
		case diff == 0:
			// Slot is writable for this lap; try to claim the position.
			if q.tail.CompareAndSwap(tail, tail+1) {
				s.value = value
				// Publish: stamp = tail+1 marks the slot readable.
				s.stamp.Store(tail + 1)
				return true
			}
		case diff < 0:
			// The consumer has not freed this slot yet: full.
			return false
		}
		// Lost the CAS or observed an intermediate stamp; back off and retry.
		backoff.Wait()
	}
}

// Dequeue pops the oldest value from the queue. ok is false only when the
// queue is empty. Safe to call concurrently from any number of consumers.
func (q *Fifo[T]) Dequeue() (value T, ok bool) {
	var backoff Backoff
	for {
		head := q.head.Load()
		s := &q.slots[head&q.mask]

		diff := int64(s.stamp.Load()) - int64(head+1)
		switch {
		case diff == 0:
			// Slot is readable; try to claim the position.
			if q.head.CompareAndSwap(head, head+1) {
				value = s.value
				var zero T
				s.value = zero // release the element for the collector
				// Free the slot for the next lap.
				s.stamp.Store(head + q.oneLap)
				return value, true
			}
		case diff < 0:
			// Head caught up with the producers: empty.
			return value, false
		}
		backoff.Wait()
	}
}

// Len returns the current number of queued items. The value is exact only
// when no producers or consumers are racing.
func (q *Fifo[T]) Len() int {
	head := q.head.Load()
	tail := q.tail.Load()
	if tail < head {
		return 0
	}
	return int(tail - head)
}

// Cap returns the fixed queue capacity.
func (q *Fifo[T]) Cap() int {
	return int(q.oneLap)
}
