// ABOUTME: Small worker pool for fanning out blocking per-file work
// ABOUTME: Used to probe audio tags for many files at once while keeping input order

package pool

import (
	"runtime"
	"sync"
)

// WorkerPool manages a fixed set of worker goroutines
type WorkerPool struct {
	workers  int
	taskChan chan func()
	workerWg sync.WaitGroup // tracks worker goroutines lifetime
	taskWg   sync.WaitGroup // tracks submitted tasks completion
}

// NewWorkerPool starts a pool with the given number of workers.
// workers <= 0 sizes the pool to the available CPUs.
func NewWorkerPool(workers, bufferSize int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	p := &WorkerPool{
		workers:  workers,
		taskChan: make(chan func(), bufferSize),
	}

	for range workers {
		p.workerWg.Add(1)

		go func() {
			defer p.workerWg.Done()

			for task := range p.taskChan {
				task()
				p.taskWg.Done()
			}
		}()
	}

	return p
}

// Workers returns the number of worker goroutines
func (p *WorkerPool) Workers() int {
	return p.workers
}

// Submit adds a task to the pool
// Blocks if the task channel is full
func (p *WorkerPool) Submit(task func()) {
	p.taskWg.Add(1)
	p.taskChan <- task
}

// Wait blocks until all submitted tasks have completed
func (p *WorkerPool) Wait() {
	p.taskWg.Wait()
}

// Close shuts down the worker pool and waits for all workers to exit
func (p *WorkerPool) Close() {
	close(p.taskChan)
	p.workerWg.Wait()
}

// Map applies fn to every input on a temporary pool and returns results in input order
func Map[T, R any](workers int, inputs []T, fn func(T) R) []R {
	results := make([]R, len(inputs))
	if len(inputs) == 0 {
		return results
	}

	if workers <= 0 || workers > len(inputs) {
		workers = min(runtime.NumCPU(), len(inputs))
	}

	p := NewWorkerPool(workers, len(inputs))
	defer p.Close()

	for i := range inputs {
		p.Submit(func() {
			results[i] = fn(inputs[i])
		})
	}

	p.Wait()

	return results
}
