package network

import "sync"

// workerPool runs projection pair-scan shards on a fixed set of goroutines.
// Pipeline correctness never depends on it; it exists purely for throughput
// on large person partitions.
type workerPool struct {
	taskQueue chan func()
	wg        sync.WaitGroup
	mu        sync.RWMutex
	closed    bool
}

func newWorkerPool(workers int) *workerPool {
	if workers <= 0 {
		workers = 1
	}
	pool := &workerPool{
		taskQueue: make(chan func(), workers*2),
	}
	for i := 0; i < workers; i++ {
		pool.wg.Add(1)
		go pool.worker()
	}
	return pool
}

func (wp *workerPool) worker() {
	defer wp.wg.Done()
	for task := range wp.taskQueue {
		task()
	}
}

// submit adds a task. Returns false if the pool is already closed.
func (wp *workerPool) submit(task func()) bool {
	wp.mu.RLock()
	defer wp.mu.RUnlock()
	if wp.closed {
		return false
	}
	wp.taskQueue <- task
	return true
}

// close stops accepting tasks and blocks until in-flight tasks finish.
func (wp *workerPool) close() {
	wp.mu.Lock()
	if wp.closed {
		wp.mu.Unlock()
		return
	}
	wp.closed = true
	close(wp.taskQueue)
	wp.mu.Unlock()

	wp.wg.Wait()
}
