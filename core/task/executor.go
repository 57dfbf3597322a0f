// File: core/task/executor.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Single-threaded cooperative executor. Multiple kernel threads may spawn
// and wake tasks concurrently; exactly one thread drives Run.

package task

import (
	"fmt"
	"runtime"

	"github.com/momentics/ksync/affinity"
	"github.com/momentics/ksync/api"
	"github.com/momentics/ksync/core/ksync"
)

const (
	defaultReadyCapacity = 128
	defaultSpawnCapacity = 64
)

// Option customizes executor construction.
type Option func(*config)

type config struct {
	readyCapacity int
	spawnCapacity int
	pinnedCPU     int
}

// WithReadyCapacity sizes the ready queue. It bounds how many distinct wake
// notifications can be outstanding at once.
func WithReadyCapacity(n int) Option {
	return func(c *config) { c.readyCapacity = n }
}

// WithSpawnCapacity sizes the spawn queue. Spawn reports backpressure with
// api.ErrQueueFull once it fills up faster than the run loop drains it.
func WithSpawnCapacity(n int) Option {
	return func(c *config) { c.spawnCapacity = n }
}

// WithPinnedCPU pins the thread that calls Run to the given logical CPU.
// Pinning silently degrades to an unpinned run loop on platforms without
// affinity support.
func WithPinnedCPU(cpu int) Option {
	return func(c *config) { c.pinnedCPU = cpu }
}

// Executor drives cooperative tasks to completion.
//
// The ready queue carries ids of tasks whose wakers fired; the spawn queue
// decouples external Spawn callers from the task map, so spawning never
// takes a blocking lock and is safe from any core or interrupt-free context.
type Executor struct {
	tasks      *ksync.RwLock[map[ID]*Task]
	wakerCache *ksync.RwLock[map[ID]api.Waker]
	ready      *readyQueue
	spawnQueue *ksync.Fifo[*Task]
	pinnedCPU  int
}

// NewExecutor creates an executor bound to the given scheduler hook.
func NewExecutor(sched api.ThreadScheduler, opts ...Option) *Executor {
	cfg := config{
		readyCapacity: defaultReadyCapacity,
		spawnCapacity: defaultSpawnCapacity,
		pinnedCPU:     -1,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Executor{
		tasks:      ksync.NewRwLock(sched, make(map[ID]*Task)),
		wakerCache: ksync.NewRwLock(sched, make(map[ID]api.Waker)),
		ready: &readyQueue{
			fifo: ksync.NewFifo[ID](cfg.readyCapacity),
			sem:  ksync.NewSemaphore(sched, 0),
		},
		spawnQueue: ksync.NewFifo[*Task](cfg.spawnCapacity),
		pinnedCPU:  cfg.pinnedCPU,
	}
}

// Spawn hands a task to the executor. It never blocks: when the spawn queue
// is full it returns api.ErrQueueFull and the caller keeps the task.
// Safe to call from any thread, including concurrently with Run.
func (e *Executor) Spawn(t *Task) error {
	if !e.spawnQueue.Enqueue(t) {
		return api.ErrQueueFull
	}
	// Nudge the run loop in case it is blocked with an empty ready queue.
	// A surplus permit only costs one idle pass.
	e.ready.sem.Signal()
	return nil
}

// TaskCount returns the number of live tasks.
func (e *Executor) TaskCount() int {
	g := e.tasks.Read()
	n := len(*g.Value())
	g.Unlock()
	return n
}

// Run drives the executor on the calling thread and never returns.
// Each cycle polls every ready task, folds in freshly spawned tasks, gives
// those a first poll, then blocks until some waker signals readiness.
func (e *Executor) Run() {
	if e.pinnedCPU >= 0 {
		runtime.LockOSThread()
		_ = affinity.Pin(e.pinnedCPU)
	}
	for {
		e.RunOnce()
		e.ready.wait()
	}
}

// RunOnce performs a single scheduling pass without blocking and returns
// the number of polls performed. It is the building block for embedding the
// executor into an outer loop and for deterministic tests; Run is RunOnce
// plus blocking on the ready semaphore.
func (e *Executor) RunOnce() int {
	n := e.runReady()
	if e.drainSpawn() > 0 {
		// Freshly spawned tasks get their first poll in the same pass.
		n += e.runReady()
	}
	return n
}

// runReady polls every task whose id is sitting in the ready queue.
func (e *Executor) runReady() int {
	polled := 0
	for {
		id, ok := e.ready.pop()
		if !ok {
			return polled
		}

		tasksGuard := e.tasks.Write()
		wakersGuard := e.wakerCache.Write()
		tasks := *tasksGuard.Value()
		t, live := tasks[id]
		if !live {
			// Stale wake for a task that already completed; wakers
			// referencing it are inert.
			wakersGuard.Unlock()
			tasksGuard.Unlock()
			continue
		}

		wakers := *wakersGuard.Value()
		w, cached := wakers[id]
		if !cached {
			w = &taskWaker{id: id, ready: e.ready}
			wakers[id] = w
		}

		polled++
		if t.poll(w) {
			delete(tasks, id)
			delete(wakers, id)
		}
		wakersGuard.Unlock()
		tasksGuard.Unlock()
	}
}

// drainSpawn moves externally spawned tasks into the task map and marks
// them ready.
func (e *Executor) drainSpawn() int {
	spawned := 0
	for {
		t, ok := e.spawnQueue.Dequeue()
		if !ok {
			return spawned
		}
		e.insert(t)
		spawned++
	}
}

func (e *Executor) insert(t *Task) {
	g := e.tasks.Write()
	tasks := *g.Value()
	if _, exists := tasks[t.id]; exists {
		g.Unlock()
		panic(fmt.Sprintf("task: duplicate spawn of task id %d", t.id))
	}
	tasks[t.id] = t
	g.Unlock()

	if !e.ready.push(t.id) {
		panic("task: ready queue full")
	}
}

// readyQueue pairs the id ring with a semaphore so the run loop can block
// while idle.
type readyQueue struct {
	fifo *ksync.Fifo[ID]
	sem  *ksync.Semaphore
}

func (q *readyQueue) push(id ID) bool {
	if !q.fifo.Enqueue(id) {
		return false
	}
	q.sem.Signal()
	return true
}

func (q *readyQueue) pop() (ID, bool) {
	return q.fifo.Dequeue()
}

func (q *readyQueue) wait() {
	q.sem.Wait()
}

// taskWaker re-queues its task for polling. Shared by interface value, so
// clones handed to several futures all target the same queue.
type taskWaker struct {
	id    ID
	ready *readyQueue
}

// Wake implements api.Waker. An overfull ready queue means it was sized
// below the number of live tasks, which is a configuration error.
func (w *taskWaker) Wake() {
	if !w.ready.push(w.id) {
		panic("task: ready queue full")
	}
}
