package reward

import (
	"context"
	"fmt"

	"github.com/osse101/PrizeKiosk_Go/internal/domain"
	"github.com/osse101/PrizeKiosk_Go/internal/event"
	"github.com/osse101/PrizeKiosk_Go/internal/logger"
)

// TopUpToday moves qty units of an item from its campaign pool to today's pool
func (e *Engine) TopUpToday(ctx context.Context, id string, qty int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	itemID, err := e.requireItemLocked(id)
	if err != nil {
		return err
	}
	if err := e.ledger.TopUpToday(ctx, itemID, qty); err != nil {
		return err
	}
	e.adjustedLocked(ctx, OpTopUp, itemID, qty)
	return nil
}

// SetTodayStock sets today's stock for an item. Raising it draws the
// difference from the campaign pool.
func (e *Engine) SetTodayStock(ctx context.Context, id string, value int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	itemID, err := e.requireItemLocked(id)
	if err != nil {
		return err
	}
	if err := e.ledger.SetTodayFromCampaign(ctx, itemID, value); err != nil {
		return err
	}
	e.adjustedLocked(ctx, OpSetToday, itemID, value)
	return nil
}

// SetCampaignStock overwrites an item's campaign counter
func (e *Engine) SetCampaignStock(ctx context.Context, id string, value int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	itemID, err := e.requireItemLocked(id)
	if err != nil {
		return err
	}
	if err := e.ledger.SetCampaignRemaining(ctx, itemID, value); err != nil {
		return err
	}
	e.adjustedLocked(ctx, OpSetCampaign, itemID, value)
	return nil
}

// ForceResetToday rebuilds today's pool from catalog defaults
func (e *Engine) ForceResetToday(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.ledger.ForceResetToday(ctx); err != nil {
		return err
	}
	e.adjustedLocked(ctx, OpForceResetToday, "", 0)
	return nil
}

// EmitCurrentLowStock publishes the current low-stock state even if it has not changed
func (e *Engine) EmitCurrentLowStock(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.notifier.StockChanged(ctx, e.ledger.TotalRemaining(), true)
}

// SetLowStockThreshold changes the threshold and re-announces the current state
func (e *Engine) SetLowStockThreshold(ctx context.Context, threshold int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.notifier.SetThreshold(threshold)
	e.notifier.StockChanged(ctx, e.ledger.TotalRemaining(), true)
}

// Rollover rebuilds today's pool when the calendar day has changed and
// retries any failed writes. It reports whether the day rolled over.
func (e *Engine) Rollover(ctx context.Context) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	previous := e.ledger.Date()
	rolled := e.ledger.Rollover(ctx)
	if rolled {
		logger.FromContext(ctx).Info(LogMsgDailyRolloverApplied, "previous_date", previous, "date", e.ledger.Date())
		e.publish(ctx, event.NewDailyRolloverEvent(previous, e.ledger.Date(), e.ledger.TotalRemaining()))
	}
	if err := e.ledger.Flush(ctx); err != nil {
		return rolled, fmt.Errorf("flush stock: %w", err)
	}
	return rolled, nil
}

// Flush writes any ledger record left dirty by a failed write
func (e *Engine) Flush(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.Flush(ctx)
}

// Report summarises the ledger for operators
func (e *Engine) Report() domain.StockReport {
	e.mu.Lock()
	defer e.mu.Unlock()

	r := domain.StockReport{
		Date:            e.ledger.Date(),
		Items:           e.ledger.Snapshot(),
		TotalToday:      e.ledger.TotalRemaining(),
		TotalAll:        e.ledger.TotalRemainingAll(),
		LowStock:        e.notifier.Low(),
		LowStockAt:      e.notifier.Threshold(),
		TopPrizeOnly:    e.onlyTopPrizeLeftLocked(),
		PendingReserved: e.reservations.pendingCount(),
	}
	if e.cat != nil {
		r.Signature = e.cat.Signature()
	}
	if r.Items == nil {
		r.Items = []domain.ItemStock{}
	}
	return r
}

// Bands reports the effective band of every category
func (e *Engine) Bands() BandReport {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cat == nil {
		return BandReport{Bands: []CategoryBand{}}
	}
	effective := e.resolver.Bands()
	out := BandReport{
		Auto:     e.resolver.Auto(),
		MaxScore: e.cat.MaxScore,
		Bands:    make([]CategoryBand, 0, len(effective)),
	}
	for i, b := range effective {
		c := e.cat.Categories[i]
		out.Bands = append(out.Bands, CategoryBand{Index: i, ID: c.ID, Name: c.Name, Min: b.Min, Max: b.Max})
	}
	return out
}

func (e *Engine) requireItemLocked(id string) (string, error) {
	if e.cat == nil {
		return "", domain.ErrNoCatalog
	}
	ci, ii, ok := e.cat.FindItem(id)
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrItemNotFound, id)
	}
	return e.cat.Categories[ci].Items[ii].ID, nil
}

func (e *Engine) adjustedLocked(ctx context.Context, op, itemID string, qty int) {
	p := event.StockAdjustedPayloadV1{
		ItemID:         itemID,
		Operation:      op,
		Quantity:       qty,
		TotalRemaining: e.ledger.TotalRemaining(),
	}
	if itemID != "" {
		p.Today = e.ledger.RemainingForItem(itemID)
		p.Campaign = e.ledger.CampaignRemainingForItem(itemID)
	}
	logger.FromContext(ctx).Info(LogMsgStockAdjusted,
		"operation", op,
		"item_id", itemID,
		"quantity", qty,
		"today", p.Today,
		"campaign", p.Campaign)
	e.publish(ctx, event.NewStockAdjustedEvent(p))
}
