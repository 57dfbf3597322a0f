// File: fake/scheduler.go
// Package fake provides trivial test doubles for the api hooks.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package fake

import (
	"runtime"
	"sync/atomic"
	"time"

	"github.com/momentics/ksync/api"
)

// Scheduler is an instrumented api.ThreadScheduler: parking and sleeping
// work for real (channels and yields) but every call is counted, so tests
// can assert which path a primitive took.
type Scheduler struct {
	ParkCalls   atomic.Int64
	UnparkCalls atomic.Int64
	SleepCalls  atomic.Int64
	YieldCalls  atomic.Int64
}

// NewScheduler returns a counting scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// NewParker implements api.ThreadScheduler.
func (s *Scheduler) NewParker() api.Parker {
	return &countingParker{sched: s, ch: make(chan struct{}, 1)}
}

// Yield implements api.ThreadScheduler without giving up time in tests.
func (s *Scheduler) Yield() {
	s.YieldCalls.Add(1)
	runtime.Gosched()
}

// Sleep implements api.ThreadScheduler. The duration is intentionally
// shortened: tests only care that the backoff path was taken, not that wall
// time passed.
func (s *Scheduler) Sleep(time.Duration) {
	s.SleepCalls.Add(1)
	runtime.Gosched()
}

type countingParker struct {
	sched *Scheduler
	ch    chan struct{}
}

func (p *countingParker) Park() {
	p.sched.ParkCalls.Add(1)
	<-p.ch
}

func (p *countingParker) Unpark() {
	p.sched.UnparkCalls.Add(1)
	select {
	case p.ch <- struct{}{}:
	default:
	}
}

// Waker is a counting api.Waker for polling tests.
type Waker struct {
	wakes atomic.Int64
}

// NewWaker returns a counting waker.
func NewWaker() *Waker {
	return &Waker{}
}

// Wake implements api.Waker.
func (w *Waker) Wake() {
	w.wakes.Add(1)
}

// Wakes returns how many times Wake has been invoked.
func (w *Waker) Wakes() int64 {
	return w.wakes.Load()
}
