// Package scheduler feeds recurring jobs into the worker pool.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/osse101/PrizeKiosk_Go/internal/logger"
	"github.com/osse101/PrizeKiosk_Go/internal/worker"
)

// Log messages
const (
	LogMsgJobScheduled = "Recurring job scheduled"
	LogMsgJobSkipped   = "Recurring job skipped, worker queue full"
)

// Enqueuer accepts jobs without blocking
type Enqueuer interface {
	TryEnqueue(job worker.Job) bool
}

// Scheduler manages scheduled jobs
type Scheduler struct {
	pool     Enqueuer
	quit     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New creates a new scheduler
func New(pool Enqueuer) *Scheduler {
	return &Scheduler{
		pool: pool,
		quit: make(chan struct{}),
	}
}

// Schedule registers a job to run at a fixed interval. A tick that finds the
// queue full is skipped rather than stalling the ticker.
func (s *Scheduler) Schedule(name string, interval time.Duration, job worker.Job) {
	logger.FromContext(context.Background()).Info(LogMsgJobScheduled, "job", name, "interval", interval)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if !s.pool.TryEnqueue(job) {
					logger.FromContext(context.Background()).Warn(LogMsgJobSkipped, "job", name)
				}
			case <-s.quit:
				return
			}
		}
	}()
}

// Stop stops all scheduled jobs
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.quit) })
	s.wg.Wait()
}
