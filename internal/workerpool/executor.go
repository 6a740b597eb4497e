// File: internal/workerpool/executor.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Small background executor used to run hot-reload hooks and periodic
// metrics/debug snapshots off the poll loop goroutine, so a slow callback
// never delays proxy.Proxy.Poll. A fixed pool of goroutines drains a
// shared queue.Queue-backed FIFO.

package workerpool

import (
	"errors"
	"sync"

	"github.com/eapache/queue"
)

// ErrClosed is returned by Submit after Close.
var ErrClosed = errors.New("workerpool: executor is closed")

// TaskFunc is a unit of background work.
type TaskFunc func()

// Executor runs submitted tasks on a small fixed pool of goroutines,
// draining a single shared FIFO queue.
type Executor struct {
	mu      sync.Mutex
	queue   *queue.Queue
	workers []worker
	notify  chan struct{}
	stop    chan struct{}
}

type worker struct {
	exec *Executor
}

// NewExecutor starts numWorkers goroutines draining a shared task queue.
// numWorkers < 1 is treated as 1.
func NewExecutor(numWorkers int) *Executor {
	if numWorkers < 1 {
		numWorkers = 1
	}
	e := &Executor{
		queue:  queue.New(),
		notify: make(chan struct{}, 1),
		stop:   make(chan struct{}),
	}
	for i := 0; i < numWorkers; i++ {
		w := worker{exec: e}
		e.workers = append(e.workers, w)
		go w.run()
	}
	return e
}

// Submit enqueues task for asynchronous execution. Returns ErrClosed once
// Close has been called.
func (e *Executor) Submit(task TaskFunc) error {
	select {
	case <-e.stop:
		return ErrClosed
	default:
	}
	e.mu.Lock()
	e.queue.Add(task)
	e.mu.Unlock()
	select {
	case e.notify <- struct{}{}:
	default:
	}
	return nil
}

// NumWorkers reports the size of the worker pool.
func (e *Executor) NumWorkers() int {
	return len(e.workers)
}

// Close stops accepting new tasks. Workers drain whatever remains queued
// and then exit.
func (e *Executor) Close() {
	close(e.stop)
}

func (w *worker) run() {
	for {
		w.drain()
		select {
		case <-w.exec.stop:
			w.drain()
			return
		case <-w.exec.notify:
		}
	}
}

func (w *worker) drain() {
	for {
		w.exec.mu.Lock()
		if w.exec.queue.Length() == 0 {
			w.exec.mu.Unlock()
			return
		}
		item := w.exec.queue.Remove()
		w.exec.mu.Unlock()
		if task, ok := item.(TaskFunc); ok {
			task()
		}
	}
}
