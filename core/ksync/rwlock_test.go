// File: core/ksync/rwlock_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package ksync

import (
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/momentics/ksync/adapters"
	"github.com/momentics/ksync/api"
)

func TestRwLockReadersShareWritersExclude(t *testing.T) {
	l := NewRwLock(adapters.NewGoScheduler(), 1)

	r1, err := l.TryRead()
	require.NoError(t, err)
	r2, err := l.TryRead()
	require.NoError(t, err, "a second concurrent reader must be admitted")

	_, err = l.TryWrite()
	require.ErrorIs(t, err, api.ErrWouldBlock, "writer must not enter alongside readers")

	r1.Unlock()
	r2.Unlock()

	w, err := l.TryWrite()
	require.NoError(t, err)
	_, err = l.TryRead()
	require.ErrorIs(t, err, api.ErrWouldBlock, "reader must not enter alongside a writer")
	_, err = l.TryWrite()
	require.ErrorIs(t, err, api.ErrWouldBlock, "writers are exclusive against each other")
	w.Unlock()
}

func TestLockWordTooManyReaders(t *testing.T) {
	var w lockWord
	w.state.Store(math.MaxUint64 - 1) // saturated reader count, writer bit clear

	require.ErrorIs(t, w.tryRead(), api.ErrTooManyReaders)
}

// TestRwLockInstrumentedInvariant races readers and writers and checks the
// structural invariant: concurrent readers do overlap, while a writer is
// never live together with any other guard.
func TestRwLockInstrumentedInvariant(t *testing.T) {
	const (
		readers = 8
		writers = 2
		rounds  = 2_000
	)

	l := NewRwLock(adapters.NewGoScheduler(), 0)
	var (
		activeReaders  atomic.Int64
		maxReaders     atomic.Int64
		activeWriters  atomic.Int64
		invariantBroke atomic.Bool
	)

	var g errgroup.Group
	for i := 0; i < readers; i++ {
		g.Go(func() error {
			for j := 0; j < rounds; j++ {
				guard := l.Read()
				n := activeReaders.Add(1)
				for {
					m := maxReaders.Load()
					if n <= m || maxReaders.CompareAndSwap(m, n) {
						break
					}
				}
				if activeWriters.Load() != 0 {
					invariantBroke.Store(true)
				}
				activeReaders.Add(-1)
				guard.Unlock()
			}
			return nil
		})
	}
	for i := 0; i < writers; i++ {
		g.Go(func() error {
			for j := 0; j < rounds; j++ {
				guard := l.Write()
				if activeWriters.Add(1) > 1 || activeReaders.Load() != 0 {
					invariantBroke.Store(true)
				}
				*guard.Value()++
				activeWriters.Add(-1)
				guard.Unlock()
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	require.False(t, invariantBroke.Load(), "writer overlapped another guard")
	require.Greater(t, maxReaders.Load(), int64(1),
		"instrumentation never observed overlapping readers")

	guard := l.Read()
	defer guard.Unlock()
	require.EqualValues(t, writers*rounds, *guard.Value())
}

func TestRwLockWriteWaitsForReaders(t *testing.T) {
	l := NewRwLock(adapters.NewGoScheduler(), 0)

	r := l.Read()
	acquired := make(chan struct{})
	go func() {
		w := l.Write()
		close(acquired)
		w.Unlock()
	}()

	select {
	case <-acquired:
		t.Fatal("writer entered while a reader held the lock")
	case <-time.After(50 * time.Millisecond):
	}

	r.Unlock()
	select {
	case <-acquired:
	case <-time.After(5 * time.Second):
		t.Fatal("writer was not admitted after the reader unlocked")
	}
}
