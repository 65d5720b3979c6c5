package event

import (
	"context"
	"sync"
	"time"

	"github.com/osse101/PrizeKiosk_Go/internal/logger"
)

type retryEntry struct {
	event     Event
	attempt   int
	nextRetry time.Time
	lastErr   error
}

// ResilientPublisher wraps a Bus. A failed publish is retried in the background
// with exponential backoff; events that keep failing go to a dead-letter file.
type ResilientPublisher struct {
	bus        Bus
	retryQueue chan retryEntry
	deadLetter *DeadLetterWriter
	maxRetries int
	retryDelay time.Duration

	shutdown     chan struct{}
	shutdownOnce sync.Once
	wg           sync.WaitGroup
}

// NewResilientPublisher starts the retry worker. deadLetterPath is opened for append.
func NewResilientPublisher(bus Bus, maxRetries int, retryDelay time.Duration, deadLetterPath string) (*ResilientPublisher, error) {
	dl, err := NewDeadLetterWriter(deadLetterPath)
	if err != nil {
		return nil, err
	}
	rp := &ResilientPublisher{
		bus:        bus,
		retryQueue: make(chan retryEntry, RetryQueueBufferSize),
		deadLetter: dl,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		shutdown:   make(chan struct{}),
	}
	rp.wg.Add(1)
	go rp.retryWorker()
	return rp, nil
}

// Publish makes one synchronous attempt and queues a retry on failure.
// It never returns an error so callers are decoupled from subscriber failures.
func (p *ResilientPublisher) Publish(ctx context.Context, event Event) error {
	p.PublishWithRetry(ctx, event)
	return nil
}

// PublishWithRetry makes one synchronous attempt and queues a retry on failure
func (p *ResilientPublisher) PublishWithRetry(ctx context.Context, event Event) {
	err := p.bus.Publish(ctx, event)
	if err == nil {
		return
	}

	logger.FromContext(ctx).Warn(LogMsgEventPublishFailed,
		"event_type", event.Type,
		"error", err)

	p.enqueue(retryEntry{
		event:     event,
		attempt:   1,
		nextRetry: time.Now().Add(CalculateRetryDelay(p.retryDelay, 1)),
		lastErr:   err,
	})
}

// Subscribe delegates to the inner bus
func (p *ResilientPublisher) Subscribe(eventType Type, handler Handler) {
	p.bus.Subscribe(eventType, handler)
}

// Shutdown stops the worker, making one last attempt for every queued event
func (p *ResilientPublisher) Shutdown(ctx context.Context) error {
	p.shutdownOnce.Do(func() { close(p.shutdown) })

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return p.deadLetter.Close()
	case <-ctx.Done():
		logger.Warn(LogMsgShutdownTimeout)
		return ctx.Err()
	}
}

func (p *ResilientPublisher) enqueue(entry retryEntry) {
	select {
	case p.retryQueue <- entry:
	default:
		logger.Warn(LogMsgRetryQueueFull, "event_type", entry.event.Type)
		p.writeDeadLetter(entry)
	}
}

func (p *ResilientPublisher) retryWorker() {
	defer p.wg.Done()

	for {
		select {
		case entry := <-p.retryQueue:
			p.processRetry(entry)
		case <-p.shutdown:
			p.drain()
			return
		}
	}
}

func (p *ResilientPublisher) processRetry(entry retryEntry) {
	if wait := time.Until(entry.nextRetry); wait > 0 {
		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-p.shutdown:
			timer.Stop()
		}
	}

	err := p.bus.Publish(context.Background(), entry.event)
	if err == nil {
		logger.Info(LogMsgEventRetrySucceeded, "event_type", entry.event.Type, "attempt", entry.attempt)
		return
	}
	entry.lastErr = err

	if entry.attempt >= p.maxRetries {
		logger.Warn(LogMsgEventRetryExhausted, "event_type", entry.event.Type, "attempts", entry.attempt)
		p.writeDeadLetter(entry)
		return
	}

	select {
	case <-p.shutdown:
		p.writeDeadLetter(entry)
		return
	default:
	}

	entry.attempt++
	entry.nextRetry = time.Now().Add(CalculateRetryDelay(p.retryDelay, entry.attempt))
	logger.Debug(LogMsgEventRetryFailed, "event_type", entry.event.Type, "attempt", entry.attempt, "error", err)
	p.enqueue(entry)
}

func (p *ResilientPublisher) drain() {
	drained := 0
	for {
		select {
		case entry := <-p.retryQueue:
			drained++
			if err := p.bus.Publish(context.Background(), entry.event); err != nil {
				entry.lastErr = err
				p.writeDeadLetter(entry)
			}
		default:
			if drained > 0 {
				logger.Info(LogMsgQueueDrainedShutdown, "count", drained)
			}
			return
		}
	}
}

func (p *ResilientPublisher) writeDeadLetter(entry retryEntry) {
	if err := p.deadLetter.Write(entry.event, entry.attempt, entry.lastErr); err != nil {
		logger.Error(LogMsgDeadLetterWriteFailed, "event_type", entry.event.Type, "error", err)
	}
}
