// File: core/task/executor_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package task

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/momentics/ksync/adapters"
	"github.com/momentics/ksync/api"
	"github.com/momentics/ksync/core/ksync"
)

// drive runs scheduling passes until the executor goes idle or the pass
// budget is exhausted.
func drive(e *Executor, passes int) {
	for i := 0; i < passes; i++ {
		if e.RunOnce() == 0 && e.TaskCount() == 0 {
			return
		}
	}
}

func TestExecutorRunsSpawnedTask(t *testing.T) {
	e := NewExecutor(adapters.NewGoScheduler())

	var ran atomic.Bool
	require.NoError(t, e.Spawn(New(FutureFunc(func(api.Waker) bool {
		ran.Store(true)
		return true
	}))))

	drive(e, 4)
	require.True(t, ran.Load())
	require.Equal(t, 0, e.TaskCount(), "completed task must be removed")
}

// TestExecutorSemaphoreHandoff is the end-to-end scenario: task A increments
// a counter and signals an AsyncSemaphore; task B awaits that semaphore and
// records completion.
func TestExecutorSemaphoreHandoff(t *testing.T) {
	e := NewExecutor(adapters.NewGoScheduler())
	sem := ksync.NewAsyncSemaphore(0)

	var counter atomic.Int64
	var bDone atomic.Bool

	wait := sem.Wait()
	taskB := New(FutureFunc(func(w api.Waker) bool {
		if !wait.Poll(w) {
			return false
		}
		bDone.Store(true)
		return true
	}))
	taskA := New(FutureFunc(func(api.Waker) bool {
		counter.Add(1)
		sem.Signal()
		return true
	}))

	require.NoError(t, e.Spawn(taskB))
	require.NoError(t, e.Spawn(taskA))

	drive(e, 16)

	require.True(t, bDone.Load(), "task B never observed the signal")
	require.EqualValues(t, 1, counter.Load())
	require.Equal(t, 0, e.TaskCount())
}

func TestExecutorSpawnBackpressure(t *testing.T) {
	e := NewExecutor(adapters.NewGoScheduler(), WithSpawnCapacity(2))

	idle := FutureFunc(func(api.Waker) bool { return true })
	require.NoError(t, e.Spawn(New(idle)))
	require.NoError(t, e.Spawn(New(idle)))
	require.ErrorIs(t, e.Spawn(New(idle)), api.ErrQueueFull)

	// Draining the spawn queue makes room again.
	drive(e, 4)
	require.NoError(t, e.Spawn(New(idle)))
}

// TestExecutorPendingTaskRequeuedByWaker checks that a pending task is only
// re-polled after its waker fires, and that the cached waker keeps working
// across polls.
func TestExecutorPendingTaskRequeuedByWaker(t *testing.T) {
	e := NewExecutor(adapters.NewGoScheduler())

	const pendingRounds = 3
	var polls atomic.Int64
	require.NoError(t, e.Spawn(New(FutureFunc(func(w api.Waker) bool {
		n := polls.Add(1)
		if n <= pendingRounds {
			// Arrange our own wake-up, then suspend.
			w.Wake()
			return false
		}
		return true
	}))))

	drive(e, 16)
	require.EqualValues(t, pendingRounds+1, polls.Load())
	require.Equal(t, 0, e.TaskCount())
}

func TestExecutorFreshlySpawnedTaskRunsSamePass(t *testing.T) {
	e := NewExecutor(adapters.NewGoScheduler())

	var ran atomic.Bool
	require.NoError(t, e.Spawn(New(FutureFunc(func(api.Waker) bool {
		ran.Store(true)
		return true
	}))))

	// One pass must both insert the spawned task and give it its first poll.
	e.RunOnce()
	require.True(t, ran.Load())
}

func TestExecutorDuplicateSpawnPanics(t *testing.T) {
	e := NewExecutor(adapters.NewGoScheduler())

	// A task that stays pending forever, so the first insert keeps it live.
	stuck := New(FutureFunc(func(api.Waker) bool { return false }))
	require.NoError(t, e.Spawn(stuck))
	e.RunOnce()

	require.NoError(t, e.Spawn(stuck))
	require.Panics(t, func() { e.RunOnce() },
		"re-inserting a live task id must be treated as a fatal programmer error")
}

func TestTaskIDsAreUnique(t *testing.T) {
	seen := make(map[ID]bool)
	noop := FutureFunc(func(api.Waker) bool { return true })
	for i := 0; i < 1_000; i++ {
		id := New(noop).ID()
		require.False(t, seen[id], "duplicate task id %d", id)
		seen[id] = true
	}
}
