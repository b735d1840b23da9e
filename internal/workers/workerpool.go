// Package workers provides a fixed-size pool for CPU-bound crypto work
// (PBKDF2, ECDSA recovery) so request handlers do not stall each other.
package workers

import (
	"sync"
)

// WorkerPool manages a pool of workers that execute jobs concurrently.
type WorkerPool struct {
	jobCh chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

// NewWorkerPool initializes a worker pool with a fixed number of workers.
func NewWorkerPool(workerCount, jobBufferSize int) *WorkerPool {
	wp := &WorkerPool{
		jobCh: make(chan func(), jobBufferSize),
	}
	for i := 0; i < workerCount; i++ {
		go wp.worker()
	}
	return wp
}

func (wp *WorkerPool) worker() {
	for job := range wp.jobCh {
		job()
	}
}

// Submit enqueues a job without blocking; it reports false when the queue
// is full and the job was dropped.
func (wp *WorkerPool) Submit(job func()) bool {
	wp.wg.Add(1)
	select {
	case wp.jobCh <- func() {
		defer wp.wg.Done()
		job()
	}:
		return true
	default:
		wp.wg.Done()
		return false
	}
}

// Run executes a job on the pool and blocks until it finishes, falling back
// to the caller's goroutine when the queue is full. Handlers use this to
// push key derivation and recovery math off the serving goroutine without
// changing their synchronous shape.
func (wp *WorkerPool) Run(job func()) {
	done := make(chan struct{})
	if !wp.Submit(func() {
		defer close(done)
		job()
	}) {
		job()
		return
	}
	<-done
}

// Wait blocks until all submitted jobs are completed.
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

// Stop closes the job channel and waits for in-flight jobs.
func (wp *WorkerPool) Stop() {
	wp.once.Do(func() {
		close(wp.jobCh)
		wp.wg.Wait()
	})
}
