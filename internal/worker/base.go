package worker

import (
	"context"
	"sync"
	"time"

	"github.com/osse101/PrizeKiosk_Go/internal/logger"
)

// BaseWorker provides common functionality for background workers driven by a single timer
type BaseWorker struct {
	mu           sync.Mutex
	timer        *time.Timer
	shutdown     chan struct{}
	shutdownOnce sync.Once
	wg           sync.WaitGroup
}

func (w *BaseWorker) init() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.shutdown == nil {
		w.shutdown = make(chan struct{})
	}
}

// arm replaces the pending timer. It is a no-op after shutdown.
func (w *BaseWorker) arm(d time.Duration, fn func()) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopping() {
		return false
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(d, fn)
	return true
}

func (w *BaseWorker) stopping() bool {
	select {
	case <-w.shutdown:
		return true
	default:
		return false
	}
}

// track runs fn on a goroutine that shutdown waits for
func (w *BaseWorker) track(fn func()) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		fn()
	}()
}

func (w *BaseWorker) shutdownInternal(ctx context.Context, workerName string) error {
	log := logger.FromContext(ctx)
	log.Info("Shutting down " + workerName)

	w.shutdownOnce.Do(func() { close(w.shutdown) })

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
		log.Info("Cancelled pending " + workerName + " execution")
	}
	w.mu.Unlock()

	// Wait for in-flight executions
	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info(workerName + " shutdown complete")
		return nil
	case <-ctx.Done():
		log.Warn(workerName + " shutdown timeout")
		return ctx.Err()
	}
}
