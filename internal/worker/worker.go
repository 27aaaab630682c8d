// Package worker runs best-effort background jobs (last-login bookkeeping)
// off the request path.
package worker

import (
	"errors"
	"log/slog"
	"sync"
)

// ErrStopped is returned by Submit once Stop has been called.
var ErrStopped = errors.New("worker pool stopped")

// Task represents a unit of work executed by the pool.
type Task func()

// Pool defines a fixed-size worker pool.
type Pool interface {
	Submit(Task) error
	Stop()
}

// NewPool creates a pool with n workers. n<=0 defaults to 1. A panicking task
// is logged on logger and does not take its worker down.
func NewPool(n int, logger *slog.Logger) Pool {
	if n <= 0 {
		n = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	p := &pool{jobs: make(chan Task, n), logger: logger}
	p.wg.Add(n)
	for i := 0; i < n; i++ {
		go p.run()
	}
	return p
}

type pool struct {
	jobs   chan Task
	logger *slog.Logger
	wg     sync.WaitGroup

	mu      sync.RWMutex
	stopped bool
}

func (p *pool) run() {
	defer p.wg.Done()
	for job := range p.jobs {
		if job != nil {
			p.exec(job)
		}
	}
}

func (p *pool) exec(job Task) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("worker task panicked", slog.Any("panic", r))
		}
	}()
	job()
}

// Submit queues t; it blocks while every worker is busy and the queue is full.
func (p *pool) Submit(t Task) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return ErrStopped
	}
	p.jobs <- t
	return nil
}

// Stop drains queued tasks and waits for the workers to exit. Safe to call twice.
func (p *pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.jobs)
	p.mu.Unlock()
	p.wg.Wait()
}
