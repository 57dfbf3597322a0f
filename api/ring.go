// File: api/ring.go
// Package api defines the contracts and error taxonomy of the ksync library.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// Ring is a bounded multi-producer/multi-consumer queue contract.
//
// Implementations guarantee no loss, no duplication and no ABA reuse of
// live elements, and exact FIFO order per slot lap. Relative order between
// racing producers is not deterministic.
type Ring[T any] interface {
	// Enqueue adds an item; returns false only when the ring is full.
	// On failure the value stays with the caller.
	Enqueue(item T) bool
	// Dequeue removes the oldest item; ok is false only when empty.
	Dequeue() (item T, ok bool)
	// Len returns the current number of items (approximate under contention).
	Len() int
	// Cap returns the fixed capacity.
	Cap() int
}
