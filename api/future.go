// File: api/future.go
// Package api defines the contracts and error taxonomy of the ksync library.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// Waker re-schedules a pending cooperative task for another poll.
//
// A Waker may be cloned freely (it is just an interface value) and may
// outlive the poll that handed it out. Waking a task that has already
// completed is a no-op.
type Waker interface {
	Wake()
}

// Future is a unit of cooperative work driven by an executor.
//
// Poll either completes the work and returns true, or arranges for w to be
// invoked once progress is possible and returns false. Returning false
// without registering w anywhere means the future is never polled again.
//
// Poll returning false is the only cooperative suspension point in the
// system: it parks the task, not the thread. Blocking primitives
// (Semaphore.Wait, Mutex.Lock, RwLock.Read/Write) suspend the whole thread
// and are a different, heavier mechanism layered underneath.
type Future interface {
	Poll(w Waker) (done bool)
}
