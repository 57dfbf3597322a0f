// File: core/ksync/asyncsem_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package ksync

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/momentics/ksync/fake"
)

func TestAsyncSemaphoreImmediateAcquire(t *testing.T) {
	s := NewAsyncSemaphore(1)
	w := fake.NewWaker()

	require.True(t, s.Poll(w), "Poll with a unit available must complete")
	require.EqualValues(t, 0, w.Wakes(), "no waker involvement on the fast path")
	require.Equal(t, 0, s.EstimatedValue())
}

func TestAsyncSemaphorePendingThenWoken(t *testing.T) {
	s := NewAsyncSemaphore(0)
	w := fake.NewWaker()

	require.False(t, s.Poll(w), "Poll with no units must report pending")

	s.Signal()
	require.EqualValues(t, 1, w.Wakes(), "Signal must wake the queued waiter")

	// The woken task re-polls and now gets the unit.
	require.True(t, s.Poll(w))
}

func TestAsyncSemaphoreWaitFuture(t *testing.T) {
	s := NewAsyncSemaphore(0)
	w := fake.NewWaker()

	fut := s.Wait()
	require.False(t, fut.Poll(w))
	s.Signal()
	require.True(t, fut.Poll(w))
}

// TestAsyncSemaphoreSignalWakesExactlyOne queues several waiters and checks
// each Signal releases one of them.
func TestAsyncSemaphoreSignalWakesExactlyOne(t *testing.T) {
	const waiters = 5

	s := NewAsyncSemaphore(0)
	wakers := make([]*fake.Waker, waiters)
	for i := range wakers {
		wakers[i] = fake.NewWaker()
		require.False(t, s.Poll(wakers[i]))
	}

	for round := 1; round <= waiters; round++ {
		s.Signal()
		total := int64(0)
		for _, w := range wakers {
			total += w.Wakes()
		}
		require.EqualValues(t, round, total, "after %d signals", round)
	}
}

// TestAsyncSemaphoreSpillOverflow exceeds the bounded waker ring and checks
// the spill list preserves every waiter.
func TestAsyncSemaphoreSpillOverflow(t *testing.T) {
	const waiters = 10

	// Ring of capacity 2; the rest of the wakers go through the spill list.
	s := NewAsyncSemaphoreCap(0, 2)
	wakers := make([]*fake.Waker, waiters)
	for i := range wakers {
		wakers[i] = fake.NewWaker()
		require.False(t, s.Poll(wakers[i]))
	}

	for i := 0; i < waiters; i++ {
		s.Signal()
	}

	total := int64(0)
	for _, w := range wakers {
		total += w.Wakes()
		require.LessOrEqual(t, w.Wakes(), int64(1), "a waiter must be woken at most once")
	}
	require.EqualValues(t, waiters, total, "every queued waiter must be woken")
}
