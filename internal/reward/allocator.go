package reward

import (
	"context"
	"strings"

	"github.com/osse101/PrizeKiosk_Go/internal/catalog"
	"github.com/osse101/PrizeKiosk_Go/internal/logger"
	"github.com/osse101/PrizeKiosk_Go/internal/utils"
)

// Evaluate picks a prize for score and reserves it. Stock is not touched
// until the result is committed.
//
// When the top prize is the only thing left it is forced. Otherwise the
// score percentage selects a category, an eligible item is drawn at random
// from it, and if it has none the worse categories and then the better ones
// are searched for the first eligible item.
func (e *Engine) Evaluate(ctx context.Context, score int) Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	log := logger.FromContext(ctx)
	if e.cat == nil {
		log.Warn(LogMsgEvaluateNoCatalog, "score", score)
		return emptyResult(score, 0)
	}

	if e.onlyTopPrizeLeftLocked() {
		if res, ok := e.forceLocked(e.topPrizeID); ok {
			log.Info(LogMsgForcedTopPrize, "score", score, "item_id", res.ItemID)
			res.Score = score
			return res
		}
	}

	percent := float64(score) / float64(max(1, e.cat.MaxScore)) * 100
	start, ok := e.resolver.ChooseCategory(percent)
	if !ok {
		return emptyResult(score, percent)
	}

	catIndex, item, found := e.drawLocked(start)
	if !found {
		log.Info(LogMsgNoEligibleItem, "score", score, "percent", percent)
		return emptyResult(score, percent)
	}

	cat := e.cat.Categories[catIndex]
	res := Result{
		CategoryIndex: catIndex,
		CategoryID:    cat.ID,
		CategoryName:  cat.Name,
		ItemID:        item.ID,
		ItemName:      item.Name,
		Asset:         item.Asset,
		Score:         score,
		Percent:       percent,
	}
	res.Token = e.reservations.issue(item.ID, e.now())

	log.Debug(LogMsgEvaluated,
		"score", score,
		"percent", percent,
		"start_category", start,
		"category", catIndex,
		"item_id", item.ID)
	return res
}

// drawLocked draws uniformly from the start category, then takes the first
// eligible item walking towards worse categories and finally towards better ones.
func (e *Engine) drawLocked(start int) (int, catalog.Item, bool) {
	if pool := e.eligible(start); len(pool) > 0 {
		return start, pool[utils.RandomIndex(e.rng, len(pool))], true
	}
	n := len(e.cat.Categories)
	for i := start + 1; i < n; i++ {
		if pool := e.eligible(i); len(pool) > 0 {
			return i, pool[0], true
		}
	}
	for i := start - 1; i >= 0; i-- {
		if pool := e.eligible(i); len(pool) > 0 {
			return i, pool[0], true
		}
	}
	return -1, catalog.Item{}, false
}

// eligible lists the items of a category with stock today, skipping the ignored item
func (e *Engine) eligible(catIndex int) []catalog.Item {
	if catIndex < 0 || catIndex >= len(e.cat.Categories) {
		return nil
	}
	var pool []catalog.Item
	for _, it := range e.cat.Categories[catIndex].Items {
		if e.isIgnored(it.ID) {
			continue
		}
		if e.ledger.RemainingForItem(it.ID) > 0 {
			pool = append(pool, it)
		}
	}
	return pool
}

// TryForceItem reserves a specific item regardless of bands. The id is
// matched case-insensitively and the item must have stock today.
func (e *Engine) TryForceItem(ctx context.Context, id string) (Result, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	res, ok := e.forceLocked(id)
	if ok {
		logger.FromContext(ctx).Debug(LogMsgEvaluated, "forced", true, "item_id", res.ItemID)
	}
	return res, ok
}

func (e *Engine) forceLocked(id string) (Result, bool) {
	id = strings.TrimSpace(id)
	if e.cat == nil || id == "" {
		return emptyResult(0, ForcedPercent), false
	}
	ci, ii, ok := e.cat.FindItem(id)
	if !ok {
		return emptyResult(0, ForcedPercent), false
	}
	cat := e.cat.Categories[ci]
	item := cat.Items[ii]
	if e.ledger.RemainingForItem(item.ID) <= 0 {
		return emptyResult(0, ForcedPercent), false
	}

	return Result{
		Token:         e.reservations.issue(item.ID, e.now()),
		CategoryIndex: ci,
		CategoryID:    cat.ID,
		CategoryName:  cat.Name,
		ItemID:        item.ID,
		ItemName:      item.Name,
		Asset:         item.Asset,
		Percent:       ForcedPercent,
		Forced:        true,
	}, true
}
