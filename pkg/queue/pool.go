package queue

import (
	"context"
	"fmt"
	"sync"

	"classifieds/pkg/logger"
)

// Pool is the in-process watermark queue: a buffered channel drained by a
// fixed number of workers.
type Pool struct {
	jobs    chan WatermarkJob
	workers int
	logger  *logger.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.RWMutex
	closed  bool
	started bool
	wg      sync.WaitGroup
}

func NewPool(workers, size int, log *logger.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	if size < 1 {
		size = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		jobs:    make(chan WatermarkJob, size),
		workers: workers,
		logger:  log,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Publish enqueues without blocking the caller.
func (p *Pool) Publish(ctx context.Context, job WatermarkJob) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrQueueClosed
	}
	select {
	case p.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrQueueFull
	}
}

// Consume starts the workers. It may be called once.
func (p *Pool) Consume(handler Handler) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrQueueClosed
	}
	if p.started {
		return fmt.Errorf("pool already consuming")
	}
	p.started = true

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.work(i, handler)
	}
	p.logger.Info("[QUEUE] Started %d watermark workers (buffer=%d)", p.workers, cap(p.jobs))
	return nil
}

func (p *Pool) work(id int, handler Handler) {
	defer p.wg.Done()
	for job := range p.jobs {
		if err := runIsolated(p.ctx, handler, job); err != nil {
			p.logger.Error("[QUEUE] worker=%d asset=%s path=%s: %v", id, job.AssetID, job.Path, err)
		}
	}
}

// Shutdown stops accepting jobs and waits for queued ones to drain. When ctx
// expires first, running jobs are cancelled. Jobs queued on a pool that never
// started consuming are dropped and logged.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.jobs)
		if !p.started && len(p.jobs) > 0 {
			p.logger.Warn("[QUEUE] Shutdown before workers started, dropping %d queued watermark jobs", len(p.jobs))
		}
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.cancel()
		return nil
	case <-ctx.Done():
		p.cancel()
		return ctx.Err()
	}
}

func (p *Pool) Len() int {
	return len(p.jobs)
}
