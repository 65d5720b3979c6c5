// Package lowstock announces when the daily pool runs low.
package lowstock

import (
	"context"

	"github.com/osse101/PrizeKiosk_Go/internal/event"
	"github.com/osse101/PrizeKiosk_Go/internal/logger"
)

// Log messages
const (
	LogMsgStockLow        = "Daily stock is low"
	LogMsgStockLowCleared = "Daily stock recovered"
	LogMsgPublishFailed   = "Failed to publish low-stock event"
)

// Notifier is an edge-triggered latch on total <= threshold. It only publishes
// when the latch flips, unless a caller forces the current state out.
// It is not safe for concurrent use.
type Notifier struct {
	bus       event.Bus
	threshold int
	low       bool
}

// NewNotifier creates a notifier. Negative thresholds are treated as zero.
func NewNotifier(bus event.Bus, threshold int) *Notifier {
	return &Notifier{bus: bus, threshold: max(0, threshold)}
}

// Threshold returns the effective threshold
func (n *Notifier) Threshold() int { return n.threshold }

// SetThreshold changes the threshold without publishing
func (n *Notifier) SetThreshold(threshold int) { n.threshold = max(0, threshold) }

// Low reports the current latch state
func (n *Notifier) Low() bool { return n.low }

// StockChanged updates the latch from the latest daily total
func (n *Notifier) StockChanged(ctx context.Context, total int, force bool) {
	low := total <= n.threshold
	if low == n.low && !force {
		return
	}
	n.low = low

	log := logger.FromContext(ctx)
	if low {
		log.Warn(LogMsgStockLow, "total_remaining", total, "threshold", n.threshold)
	} else {
		log.Info(LogMsgStockLowCleared, "total_remaining", total, "threshold", n.threshold)
	}

	if n.bus == nil {
		return
	}
	if err := n.bus.Publish(ctx, event.NewLowStockEvent(low, total, n.threshold)); err != nil {
		log.Error(LogMsgPublishFailed, "error", err)
	}
}
