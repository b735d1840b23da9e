package workers

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitExecutesJobs(t *testing.T) {
	wp := NewWorkerPool(4, 16)
	defer wp.Stop()

	var counter int64
	for i := 0; i < 10; i++ {
		require.True(t, wp.Submit(func() {
			atomic.AddInt64(&counter, 1)
		}))
	}
	wp.Wait()
	assert.Equal(t, int64(10), atomic.LoadInt64(&counter))
}

func TestSubmitDropsWhenQueueFull(t *testing.T) {
	// One worker, one slot. Block the worker, fill the slot, then the next
	// submit must be rejected rather than block.
	wp := NewWorkerPool(1, 1)

	release := make(chan struct{})
	started := make(chan struct{})
	require.True(t, wp.Submit(func() {
		close(started)
		<-release
	}))
	<-started

	require.True(t, wp.Submit(func() {})) // fills the buffer
	assert.False(t, wp.Submit(func() {}))

	close(release)
	wp.Wait()
	wp.Stop()
}

func TestRunBlocksUntilDone(t *testing.T) {
	wp := NewWorkerPool(2, 4)
	defer wp.Stop()

	var done atomic.Bool
	wp.Run(func() {
		time.Sleep(10 * time.Millisecond)
		done.Store(true)
	})
	assert.True(t, done.Load())
}

func TestRunFallsBackToCallerWhenSaturated(t *testing.T) {
	wp := NewWorkerPool(1, 1)

	release := make(chan struct{})
	started := make(chan struct{})
	wp.Submit(func() {
		close(started)
		<-release
	})
	<-started
	wp.Submit(func() {})

	// Pool is saturated; Run must still complete by executing inline.
	var ran atomic.Bool
	doneCh := make(chan struct{})
	go func() {
		wp.Run(func() { ran.Store(true) })
		close(doneCh)
	}()

	select {
	case <-doneCh:
	case <-time.After(time.Second):
		t.Fatal("Run blocked on a saturated pool instead of running inline")
	}
	assert.True(t, ran.Load())

	close(release)
	wp.Wait()
	wp.Stop()
}

func TestStopIsIdempotent(t *testing.T) {
	wp := NewWorkerPool(2, 4)

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			wp.Stop()
		}()
	}
	wg.Wait()
}
