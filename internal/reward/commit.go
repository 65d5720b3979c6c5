package reward

import (
	"context"
	"fmt"

	"github.com/osse101/PrizeKiosk_Go/internal/domain"
	"github.com/osse101/PrizeKiosk_Go/internal/event"
	"github.com/osse101/PrizeKiosk_Go/internal/logger"
)

// Commit consumes the result's reservation and takes one unit of the item
// from today's pool. A result can be committed once; replays return
// domain.ErrReservationConsumed and unknown, expired or released tokens
// return domain.ErrReservationUnknown. Empty results are a no-op.
func (e *Engine) Commit(ctx context.Context, res Result, cause domain.Cause) (Grant, error) {
	if res.Empty() {
		return Grant{Result: res, Cause: cause}, nil
	}
	if cause == "" {
		cause = domain.CauseUnspecified
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	log := logger.FromContext(ctx)
	if err := e.reservations.consume(res.Token, res.ItemID, e.now()); err != nil {
		log.Warn(LogMsgCommitRejected, "item_id", res.ItemID, "error", err)
		return Grant{}, err
	}

	return e.grantLocked(ctx, res, cause)
}

// Decrement commits res with an unspecified cause
func (e *Engine) Decrement(ctx context.Context, res Result) error {
	_, err := e.Commit(ctx, res, domain.CauseUnspecified)
	return err
}

// Release drops an uncommitted reservation. It reports whether the token was pending.
func (e *Engine) Release(ctx context.Context, token string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	released := e.reservations.release(token)
	if released {
		logger.FromContext(ctx).Debug(LogMsgReservationReleased, "token", token)
	}
	return released
}

// DecrementByItemID takes one unit of an item directly, without a reservation.
// It reports false when the item is unknown or out of stock today.
func (e *Engine) DecrementByItemID(ctx context.Context, id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	res, ok := e.forceLocked(id)
	if !ok {
		return false
	}
	e.reservations.release(res.Token)
	res.Token = ""

	_, err := e.grantLocked(ctx, res, domain.CauseAdmin)
	return err == nil
}

func (e *Engine) grantLocked(ctx context.Context, res Result, cause domain.Cause) (Grant, error) {
	before := e.ledger.RemainingForItem(res.ItemID)
	if !e.ledger.Decrement(ctx, res.ItemID) {
		return Grant{}, fmt.Errorf("%w: %s", domain.ErrOutOfStock, res.ItemID)
	}

	g := Grant{
		Result:         res,
		Cause:          cause,
		StockBefore:    before,
		StockAfter:     e.ledger.RemainingForItem(res.ItemID),
		TotalRemaining: e.ledger.TotalRemaining(),
		GrantedAt:      e.now().UTC(),
	}

	logger.FromContext(ctx).Info(LogMsgRewardCommitted,
		"item_id", res.ItemID,
		"category", res.CategoryName,
		"cause", cause,
		"stock_after", g.StockAfter,
		"total_remaining", g.TotalRemaining)

	e.publish(ctx, event.NewRewardGrantedEvent(event.RewardGrantedPayloadV1{
		Token:          res.Token,
		ItemID:         res.ItemID,
		ItemName:       res.ItemName,
		CategoryIndex:  res.CategoryIndex,
		CategoryID:     res.CategoryID,
		CategoryName:   res.CategoryName,
		Cause:          cause,
		Score:          res.Score,
		Percent:        res.Percent,
		Forced:         res.Forced,
		StockBefore:    g.StockBefore,
		StockAfter:     g.StockAfter,
		TotalRemaining: g.TotalRemaining,
		Timestamp:      g.GrantedAt.Unix(),
	}))
	return g, nil
}
