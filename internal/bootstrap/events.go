package bootstrap

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/osse101/PrizeKiosk_Go/internal/config"
	"github.com/osse101/PrizeKiosk_Go/internal/event"
)

// InitializeEventSystem creates the in-memory event bus and the resilient
// publisher in front of it. Publishing goes through the publisher, which
// retries with exponential backoff and dead-letters what it cannot deliver.
func InitializeEventSystem(cfg *config.Config) (event.Bus, *event.ResilientPublisher, error) {
	eventBus := event.NewMemoryBus()

	deadLetterPath := cfg.EventDeadLetterPath
	if deadLetterPath == "" {
		deadLetterPath = config.DefaultDeadLetterPath
	}

	if err := os.MkdirAll(filepath.Dir(deadLetterPath), DirPermission); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", LogMsgFailedCreateDeadLetterDir, err)
	}

	resilientPublisher, err := event.NewResilientPublisher(eventBus, event.RetryMaxAttempts, event.RetryInitialDelay, deadLetterPath)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", LogMsgFailedCreateResilientPublisher, err)
	}

	slog.Info(LogMsgEventSystemInitialized,
		"max_retries", event.RetryMaxAttempts,
		"retry_delay", event.RetryInitialDelay,
		"deadletter_path", deadLetterPath)

	return eventBus, resilientPublisher, nil
}
