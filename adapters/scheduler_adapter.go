// File: adapters/scheduler_adapter.go
// Package adapters provides default implementations of the api hooks for
// userspace processes.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package adapters

import (
	"runtime"
	"time"

	"github.com/momentics/ksync/api"
)

// Compile-time interface compliance.
var _ api.ThreadScheduler = (*GoScheduler)(nil)

// GoScheduler implements api.ThreadScheduler on top of the Go runtime:
// threads are goroutines, parking is a channel receive.
type GoScheduler struct{}

// NewGoScheduler returns a goroutine-backed scheduler hook.
func NewGoScheduler() *GoScheduler {
	return &GoScheduler{}
}

// NewParker returns a channel-based park token. Unpark before Park is never
// lost: the wake permit is buffered.
func (*GoScheduler) NewParker() api.Parker {
	return &chanParker{ch: make(chan struct{}, 1)}
}

// Yield gives up the processor to other runnable goroutines.
func (*GoScheduler) Yield() {
	runtime.Gosched()
}

// Sleep blocks the calling goroutine for at least d.
func (*GoScheduler) Sleep(d time.Duration) {
	time.Sleep(d)
}

type chanParker struct {
	ch chan struct{}
}

func (p *chanParker) Park() {
	<-p.ch
}

func (p *chanParker) Unpark() {
	select {
	case p.ch <- struct{}{}:
	default:
		// Permit already pending; a single buffered token is enough.
	}
}
