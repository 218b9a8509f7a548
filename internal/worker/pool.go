// Package worker runs request-scoped work on a fixed set of goroutines so
// CPU-heavy steps such as PDF extraction stay bounded under load.
package worker

import (
	"context"
	"errors"
	"sync"

	"leedsbot-backend/internal/logger"
)

// ErrStopped is returned by Submit after Stop.
var ErrStopped = errors.New("worker pool stopped")

type Pool struct {
	workerCount int
	tasks       chan func()
	stopChan    chan struct{}
	stopOnce    sync.Once
	wg          sync.WaitGroup
	log         *logger.Logger
}

func NewPool(workerCount int, log *logger.Logger) *Pool {
	if workerCount < 1 {
		workerCount = 1
	}
	return &Pool{
		workerCount: workerCount,
		tasks:       make(chan func()),
		stopChan:    make(chan struct{}),
		log:         log,
	}
}

func (p *Pool) Start() {
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	p.log.Debug("worker pool started", "workers", p.workerCount)
}

// Stop stops accepting tasks and waits for running ones to finish.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() { close(p.stopChan) })
	p.wg.Wait()
}

// Submit hands fn to an idle worker, blocking until one is free.
func (p *Pool) Submit(ctx context.Context, fn func()) error {
	select {
	case <-p.stopChan:
		return ErrStopped
	default:
	}

	select {
	case p.tasks <- fn:
		return nil
	case <-p.stopChan:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	for {
		select {
		case <-p.stopChan:
			p.log.Debug("worker shutting down", "worker", id)
			return
		case fn := <-p.tasks:
			p.run(id, fn)
		}
	}
}

func (p *Pool) run(id int, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("worker task panicked", "worker", id, "panic", r)
		}
	}()
	fn()
}
