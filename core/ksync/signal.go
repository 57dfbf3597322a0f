// File: core/ksync/signal.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package ksync

import (
	"sync/atomic"
	"time"

	"github.com/momentics/ksync/api"
)

// maxSleepDoublings caps the polling fallback at 1ms << 7 = 128ms per retry.
const maxSleepDoublings = 7

// SignalSlot is a single-waiter park/wake primitive.
//
// Only one thread can be registered as parked at a time; additional
// contenders fall back to adaptive sleep polling. This keeps the footprint
// at one word instead of a dynamically sized wait queue, at a fairness cost:
// with more than one waiter only the registered one is woken directly, the
// rest converge through the backoff polling loop.
type SignalSlot struct {
	sched  api.ThreadScheduler
	parked atomic.Pointer[parkedWaiter]
}

type parkedWaiter struct {
	parker api.Parker
}

// NewSignalSlot creates a slot bound to the given scheduler hook.
func NewSignalSlot(sched api.ThreadScheduler) *SignalSlot {
	return &SignalSlot{sched: sched}
}

type sleepResult int

const (
	// sleepContended: another thread already holds the slot.
	sleepContended sleepResult = iota
	// sleepSatisfied: the predicate turned true before parking. Because
	// predicates may consume a resource (TryLock), this counts as success.
	sleepSatisfied
	// sleepWoken: parked and released by a Signal.
	sleepWoken
)

// WaitFor blocks the calling thread until pred returns true.
//
// The predicate is rechecked after registering as the parked waiter and
// before actually parking, so a Signal racing immediately ahead of the park
// can never be missed. Threads that lose the registration race sleep with
// exponential backoff (1ms doubling, capped) and recheck.
func (s *SignalSlot) WaitFor(pred func() bool) {
	for {
		if pred() {
			return
		}
		delta := 0
	inner:
		for {
			switch s.sleep(pred) {
			case sleepSatisfied:
				return
			case sleepWoken:
				if pred() {
					return
				}
				break inner // re-register
			case sleepContended:
				s.sched.Sleep(time.Millisecond << delta)
				if delta < maxSleepDoublings {
					delta++
				}
			}
		}
	}
}

// sleep registers the calling thread in the slot and parks it until the next
// Signal. It reports sleepContended without blocking when another thread is
// already registered. If pred turns true between registration and parking,
// the park is skipped.
func (s *SignalSlot) sleep(pred func() bool) sleepResult {
	w := &parkedWaiter{parker: s.sched.NewParker()}
	if !s.parked.CompareAndSwap(nil, w) {
		return sleepContended
	}
	if pred() {
		// The condition arrived while we registered. Withdraw if no one has
		// signalled us yet; a racing Signal just unparks a token nobody
		// sleeps on, which is harmless.
		s.parked.CompareAndSwap(w, nil)
		return sleepSatisfied
	}
	w.parker.Park()
	return sleepWoken
}

// Signal wakes the parked thread, if any, and reports whether one was woken.
func (s *SignalSlot) Signal() bool {
	w := s.parked.Swap(nil)
	if w == nil {
		return false
	}
	w.parker.Unpark()
	return true
}
