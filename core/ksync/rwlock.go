// File: core/ksync/rwlock.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package ksync

import (
	"math"
	"sync/atomic"

	"github.com/momentics/ksync/api"
)

// lockWord packs the whole reader/writer state into one atomic word:
// bit 0 is the writer flag, every reader adds 2. Writer and reader states
// are therefore mutually exclusive by construction and "unlocked" is the
// single value 0.
type lockWord struct {
	state atomic.Uint64
}

const (
	lockWriter  uint64 = 0b01
	lockReader  uint64 = 0b10
	maxLockWord        = math.MaxUint64 - lockReader
)

// tryRead registers one more reader unless a writer holds the word or the
// reader count would overflow into the writer bit.
func (w *lockWord) tryRead() error {
	for {
		cur := w.state.Load()
		if cur&lockWriter != 0 {
			return api.ErrWouldBlock
		}
		if cur > maxLockWord {
			return api.ErrTooManyReaders
		}
		if w.state.CompareAndSwap(cur, cur+lockReader) {
			return nil
		}
	}
}

// tryWrite claims the writer bit; it succeeds only from the fully unlocked
// state.
func (w *lockWord) tryWrite() error {
	if !w.state.CompareAndSwap(0, lockWriter) {
		return api.ErrWouldBlock
	}
	return nil
}

func (w *lockWord) unlockRead() {
	w.state.Add(^uint64(lockReader - 1)) // subtract one reader
}

func (w *lockWord) unlockWrite() {
	w.state.Store(0)
}

// isNeutral reports whether the word is fully unlocked.
func (w *lockWord) isNeutral() bool {
	return w.state.Load() == 0
}

// RwLock is a reader-writer lock: any number of concurrent readers or a
// single writer.
//
// There is no FIFO fairness between readers and writers; waiters converge
// through the SignalSlot's single-notify plus backoff polling. That is an
// intentional trade-off, not a defect.
type RwLock[T any] struct {
	word   lockWord
	signal *SignalSlot
	data   T
}

// NewRwLock creates an RwLock around data.
func NewRwLock[T any](sched api.ThreadScheduler, data T) *RwLock[T] {
	return &RwLock[T]{signal: NewSignalSlot(sched), data: data}
}

// Read blocks the calling thread until shared access is granted.
func (l *RwLock[T]) Read() *RwLockReadGuard[T] {
	l.signal.WaitFor(func() bool { return l.word.tryRead() == nil })
	return &RwLockReadGuard[T]{lock: l}
}

// TryRead attempts shared access without blocking. It returns
// api.ErrWouldBlock while a writer holds the lock and api.ErrTooManyReaders
// when the reader count is exhausted; the latter is not retryable by
// spinning alone.
func (l *RwLock[T]) TryRead() (*RwLockReadGuard[T], error) {
	if err := l.word.tryRead(); err != nil {
		return nil, err
	}
	return &RwLockReadGuard[T]{lock: l}, nil
}

// Write blocks the calling thread until exclusive access is granted.
func (l *RwLock[T]) Write() *RwLockWriteGuard[T] {
	l.signal.WaitFor(func() bool { return l.word.tryWrite() == nil })
	return &RwLockWriteGuard[T]{lock: l}
}

// TryWrite attempts exclusive access without blocking.
func (l *RwLock[T]) TryWrite() (*RwLockWriteGuard[T], error) {
	if err := l.word.tryWrite(); err != nil {
		return nil, err
	}
	return &RwLockWriteGuard[T]{lock: l}, nil
}

// release signals waiters once the word returns to neutral.
func (l *RwLock[T]) release() {
	if l.word.isNeutral() {
		l.signal.Signal()
	}
}

// RwLockReadGuard grants shared access until Unlock. Multiple read guards
// may be live at once.
type RwLockReadGuard[T any] struct {
	lock *RwLock[T]
}

// Value returns the protected value. Readers must treat it as immutable;
// the pointer must not be retained past Unlock.
func (g *RwLockReadGuard[T]) Value() *T {
	return &g.lock.data
}

// Unlock drops this reader.
func (g *RwLockReadGuard[T]) Unlock() {
	g.lock.word.unlockRead()
	g.lock.release()
}

// RwLockWriteGuard grants exclusive access until Unlock.
type RwLockWriteGuard[T any] struct {
	lock *RwLock[T]
}

// Value returns the protected value. The pointer must not be retained past
// Unlock.
func (g *RwLockWriteGuard[T]) Value() *T {
	return &g.lock.data
}

// Unlock drops the writer.
func (g *RwLockWriteGuard[T]) Unlock() {
	g.lock.word.unlockWrite()
	g.lock.release()
}
