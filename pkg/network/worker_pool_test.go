package network

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestWorkerPool_RunsAllTasks(t *testing.T) {
	pool := newWorkerPool(4)

	var counter int64
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		ok := pool.submit(func() {
			defer wg.Done()
			atomic.AddInt64(&counter, 1)
		})
		if !ok {
			t.Fatal("Submit failed on open pool")
		}
	}
	wg.Wait()
	pool.close()

	if counter != 100 {
		t.Errorf("Expected 100 tasks run, got %d", counter)
	}
}

func TestWorkerPool_SubmitAfterClose(t *testing.T) {
	pool := newWorkerPool(1)
	pool.close()

	if pool.submit(func() {}) {
		t.Error("Submit should fail after close")
	}
	// Closing again is a no-op.
	pool.close()
}

func TestWorkerPool_ZeroWorkersClampedToOne(t *testing.T) {
	pool := newWorkerPool(0)
	done := make(chan struct{})
	pool.submit(func() { close(done) })
	<-done
	pool.close()
}
