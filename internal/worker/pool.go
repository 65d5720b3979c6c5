package worker

import (
	"context"
	"sync"

	"github.com/osse101/PrizeKiosk_Go/internal/logger"
)

// Job represents a task to be executed by a worker
type Job interface {
	Process(ctx context.Context) error
}

// JobFunc adapts a function to the Job interface
type JobFunc func(ctx context.Context) error

// Process calls f(ctx)
func (f JobFunc) Process(ctx context.Context) error { return f(ctx) }

// Pool represents a worker pool
type Pool struct {
	workers  int
	jobQueue chan Job
	wg       sync.WaitGroup
	quit     chan struct{}
	stopOnce sync.Once
}

// NewPool creates a new worker pool. Non-positive sizes fall back to one
// worker and an unbuffered queue.
func NewPool(workers int, queueSize int) *Pool {
	return &Pool{
		workers:  max(1, workers),
		jobQueue: make(chan Job, max(0, queueSize)),
		quit:     make(chan struct{}),
	}
}

// Start starts the workers
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case job := <-p.jobQueue:
			ctx := context.Background()
			if err := job.Process(ctx); err != nil {
				logger.FromContext(ctx).Error(LogMsgWorkerJobFailed, "error", err)
			}
		case <-p.quit:
			return
		}
	}
}

// Enqueue adds a job to the queue, blocking while it is full.
// It returns false if the pool was stopped before the job was accepted.
func (p *Pool) Enqueue(job Job) bool {
	select {
	case p.jobQueue <- job:
		return true
	case <-p.quit:
		return false
	}
}

// TryEnqueue adds a job without blocking. It returns false when the queue is
// full or the pool is stopped.
func (p *Pool) TryEnqueue(job Job) bool {
	select {
	case <-p.quit:
		return false
	default:
	}
	select {
	case p.jobQueue <- job:
		return true
	default:
		logger.FromContext(context.Background()).Warn(LogMsgWorkerQueueFull)
		return false
	}
}

// Stop stops the workers and waits for them to finish. Jobs still queued are dropped.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		close(p.quit)
	})
	p.wg.Wait()
	logger.FromContext(context.Background()).Debug(LogMsgWorkerPoolStopped)
}
