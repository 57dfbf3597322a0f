// File: core/task/task.go
// Package task implements the cooperative waker-driven executor.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package task

import (
	"sync/atomic"

	"github.com/momentics/ksync/api"
)

// ID uniquely identifies a task within a process.
type ID uint64

var nextID atomic.Uint64

// Task is a unit of cooperative work: a unique id plus the future that
// drives it. A task is created by the caller, inserted by the executor's run
// loop and destroyed once its future completes.
type Task struct {
	id     ID
	future api.Future
}

// New wraps a future into a spawnable task.
func New(future api.Future) *Task {
	return &Task{
		id:     ID(nextID.Add(1)),
		future: future,
	}
}

// ID returns the task's identifier.
func (t *Task) ID() ID {
	return t.id
}

func (t *Task) poll(w api.Waker) bool {
	return t.future.Poll(w)
}

// FutureFunc adapts a plain poll function to the api.Future contract.
// Closures over local state make simple state-machine futures cheap to
// write without a dedicated type.
type FutureFunc func(w api.Waker) bool

// Poll implements api.Future.
func (f FutureFunc) Poll(w api.Waker) bool {
	return f(w)
}
