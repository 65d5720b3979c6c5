// Package reward allocates prizes from score percentages against the stock ledger.
package reward

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/osse101/PrizeKiosk_Go/internal/bands"
	"github.com/osse101/PrizeKiosk_Go/internal/catalog"
	"github.com/osse101/PrizeKiosk_Go/internal/domain"
	"github.com/osse101/PrizeKiosk_Go/internal/event"
	"github.com/osse101/PrizeKiosk_Go/internal/logger"
	"github.com/osse101/PrizeKiosk_Go/internal/lowstock"
	"github.com/osse101/PrizeKiosk_Go/internal/stock"
	"github.com/osse101/PrizeKiosk_Go/internal/utils"
)

// Engine is the reward service. Every public method is serialised by one
// mutex. Events are published while it is held, so bus handlers must not
// call back into the Engine.
type Engine struct {
	mu sync.Mutex

	bus          event.Bus
	ledger       *stock.Ledger
	notifier     *lowstock.Notifier
	reservations *reservationBook
	remote       catalog.Fetcher

	rng        utils.RandomSource
	now        func() time.Time
	topPrizeID string
	ignoredID  string

	cat          *catalog.Catalog
	resolver     *bands.Resolver
	remoteLoaded bool
}

// NewEngine wires a ledger over store and a low-stock notifier publishing on bus.
// Call LoadConfig before evaluating scores.
func NewEngine(store stock.Store, bus event.Bus, opts ...Option) *Engine {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	notifier := lowstock.NewNotifier(bus, o.lowStockThreshold)
	return &Engine{
		bus:          bus,
		notifier:     notifier,
		ledger:       stock.NewLedger(store, stock.WithClock(o.now), stock.WithLocation(o.location), stock.WithWatcher(notifier)),
		reservations: newReservationBook(o.reservationCapacity, o.reservationTTL),
		remote:       o.remote,
		rng:          o.rng,
		now:          o.now,
		topPrizeID:   o.topPrizeID,
		ignoredID:    o.ignoredID,
		resolver:     bands.NewResolver(nil),
	}
}

// LoadConfig applies a catalog: it rebuilds the band resolver and restores or
// rebuilds the ledger for the catalog's signature.
func (e *Engine) LoadConfig(ctx context.Context, cat *catalog.Catalog) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.applyLocked(ctx, cat, false)
}

// LoadConfigRemote tries the remote fetcher first and falls back to local on
// any failure. It reports whether the remote catalog was applied.
func (e *Engine) LoadConfigRemote(ctx context.Context, local *catalog.Catalog) (bool, error) {
	if e.remote != nil {
		remoteCat, err := e.remote.Fetch(ctx)
		if err == nil {
			e.mu.Lock()
			err = e.applyLocked(ctx, remoteCat, true)
			e.mu.Unlock()
			if err == nil {
				return true, nil
			}
		}
		logger.FromContext(ctx).Warn(LogMsgRemoteFallback, "error", err)
	}
	return false, e.LoadConfig(ctx, local)
}

// LoadConfigAsync runs LoadConfigRemote on a goroutine. The channel receives
// exactly one LoadResult and is then closed.
func (e *Engine) LoadConfigAsync(ctx context.Context, local *catalog.Catalog) <-chan LoadResult {
	ch := make(chan LoadResult, 1)
	go func() {
		defer close(ch)
		remote, err := e.LoadConfigRemote(ctx, local)
		ch <- LoadResult{Remote: remote, Err: err}
	}()
	return ch
}

func (e *Engine) applyLocked(ctx context.Context, cat *catalog.Catalog, remote bool) error {
	if cat == nil {
		return domain.ErrNoCatalog
	}
	if len(cat.Categories) == 0 {
		return domain.ErrNoCategories
	}
	if err := e.ledger.Load(ctx, cat); err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}
	e.cat = cat
	e.resolver = bands.NewResolver(cat)
	e.remoteLoaded = remote

	logger.FromContext(ctx).Info(LogMsgCatalogApplied,
		"remote", remote,
		"signature", cat.Signature(),
		"categories", len(cat.Categories),
		"items", cat.ItemCount(),
		"auto_bands", cat.AutoPercentBands)

	e.publish(ctx, event.NewCatalogLoadedEvent(event.CatalogLoadedPayloadV1{
		Remote:     remote,
		Signature:  cat.Signature(),
		Categories: len(cat.Categories),
		Items:      cat.ItemCount(),
		AutoBands:  cat.AutoPercentBands,
	}))
	return nil
}

// Catalog returns the applied catalog, or nil
func (e *Engine) Catalog() *catalog.Catalog {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cat
}

// MaxScore returns the applied catalog's max score, or 1 without a catalog
func (e *Engine) MaxScore() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cat == nil {
		return 1
	}
	return max(1, e.cat.MaxScore)
}

// RemoteLoaded reports whether the applied catalog came from the remote endpoint
func (e *Engine) RemoteLoaded() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.remoteLoaded
}

// CheckHealth reports ErrNoCatalog until a catalog has been applied
func (e *Engine) CheckHealth(_ context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cat == nil {
		return domain.ErrNoCatalog
	}
	return nil
}

// RemainingForItem returns today's stock for id (case-insensitive)
func (e *Engine) RemainingForItem(id string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.RemainingForItem(e.canonicalID(id))
}

// CampaignRemainingForItem returns the campaign counter for id
func (e *Engine) CampaignRemainingForItem(id string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.CampaignRemainingForItem(e.canonicalID(id))
}

// TotalRemainingForItem is today's stock plus the campaign counter for id
func (e *Engine) TotalRemainingForItem(id string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.TotalRemainingForItem(e.canonicalID(id))
}

// TotalRemaining sums today's stock
func (e *Engine) TotalRemaining() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.TotalRemaining()
}

// TotalRemainingAll sums today's stock and every campaign counter
func (e *Engine) TotalRemainingAll() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.TotalRemainingAll()
}

// OnlyTopPrizeLeft reports whether the top prize is the only item, other
// than the ignored one, with stock today.
func (e *Engine) OnlyTopPrizeLeft() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.onlyTopPrizeLeftLocked()
}

func (e *Engine) onlyTopPrizeLeftLocked() bool {
	if e.cat == nil {
		return false
	}
	topHas := false
	others := false
	e.cat.EachItem(func(_ catalog.Category, it catalog.Item) {
		if e.isIgnored(it.ID) {
			return
		}
		remaining := e.ledger.RemainingForItem(it.ID)
		if strings.EqualFold(it.ID, e.topPrizeID) {
			topHas = topHas || remaining > 0
		} else if remaining > 0 {
			others = true
		}
	})
	return topHas && !others
}

func (e *Engine) isIgnored(id string) bool {
	return e.ignoredID != "" && strings.EqualFold(id, e.ignoredID)
}

// canonicalID maps a case-insensitive id to the catalog's spelling
func (e *Engine) canonicalID(id string) string {
	if e.cat == nil {
		return id
	}
	ci, ii, ok := e.cat.FindItem(strings.TrimSpace(id))
	if !ok {
		return id
	}
	return e.cat.Categories[ci].Items[ii].ID
}

func (e *Engine) publish(ctx context.Context, evt event.Event) {
	if e.bus == nil {
		return
	}
	if err := e.bus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Error(LogMsgPublishFailed, "event_type", evt.Type, "error", err)
	}
}
