// Package stock tracks the daily and campaign reward pools and persists them.
package stock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/osse101/PrizeKiosk_Go/internal/catalog"
	"github.com/osse101/PrizeKiosk_Go/internal/domain"
	"github.com/osse101/PrizeKiosk_Go/internal/logger"
)

// Watcher is told about every change to the daily pool total
type Watcher interface {
	StockChanged(ctx context.Context, total int, force bool)
}

// Option configures a Ledger
type Option func(*Ledger)

// WithClock overrides the time source used for calendar dates
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		if now != nil {
			l.now = now
		}
	}
}

// WithLocation sets the zone in which calendar days start
func WithLocation(loc *time.Location) Option {
	return func(l *Ledger) {
		if loc != nil {
			l.loc = loc
		}
	}
}

// WithWatcher registers the watcher notified after each change
func WithWatcher(w Watcher) Option {
	return func(l *Ledger) { l.watcher = w }
}

// Ledger holds the daily and campaign counters for the loaded catalog.
// It is not safe for concurrent use; the owner serialises calls.
type Ledger struct {
	store   Store
	now     func() time.Time
	loc     *time.Location
	watcher Watcher

	cat      *catalog.Catalog
	date     string
	daily    map[string]int
	campaign map[string]int

	dailyDirty    bool
	campaignDirty bool
}

// NewLedger creates an empty ledger backed by store. Call Load before use.
func NewLedger(store Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:    store,
		now:      time.Now,
		loc:      time.Local,
		daily:    make(map[string]int),
		campaign: make(map[string]int),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// SetWatcher replaces the watcher
func (l *Ledger) SetWatcher(w Watcher) { l.watcher = w }

// Load binds the ledger to cat and restores persisted counters that are
// still valid for it. Anything stale or unreadable is rebuilt from defaults.
func (l *Ledger) Load(ctx context.Context, cat *catalog.Catalog) error {
	if cat == nil {
		return domain.ErrNoCatalog
	}
	log := logger.FromContext(ctx)
	sig := cat.Signature()

	// Unsaved counters for the same catalog are newer than the store
	if l.cat != nil && l.cat.Signature() == sig && l.Dirty() {
		if err := l.persist(ctx, false, false); err != nil {
			l.keepInMemory(ctx, cat)
			log.Warn(LogMsgReloadKeptMemory, "error", err)
			return nil
		}
	}

	l.cat = cat
	l.date = l.today()

	daily, found, err := l.store.LoadDaily(ctx)
	if err != nil {
		log.Warn(LogMsgLoadDailyFailed, "error", err)
		found = false
	}
	if found && daily.Date == l.date && daily.ConfigurationSignature == sig {
		l.daily = l.defaults(func(it catalog.Item) int { return it.InitialDailyStock })
		for _, ir := range daily.Items {
			if _, ok := l.daily[ir.ID]; ok {
				l.daily[ir.ID] = max(0, ir.Remaining)
			}
		}
		l.dailyDirty = false
		log.Info(LogMsgDailyRestored, "date", l.date, "total", l.TotalRemaining())
	} else {
		l.rebuildDaily()
		l.dailyDirty = true
		log.Info(LogMsgDailyRebuilt, "date", l.date, "total", l.TotalRemaining())
	}

	campaign, found, err := l.store.LoadCampaign(ctx)
	if err != nil {
		log.Warn(LogMsgLoadCampaignFailed, "error", err)
		found = false
	}
	if found && campaign.ConfigurationSignature == sig {
		l.campaign = l.defaults(func(it catalog.Item) int { return it.TotalCampaignStock })
		for _, ir := range campaign.Items {
			if _, ok := l.campaign[ir.ID]; ok {
				l.campaign[ir.ID] = ir.Remaining
			}
		}
		l.campaignDirty = false
		log.Info(LogMsgCampaignRestored)
	} else {
		l.campaign = l.defaults(func(it catalog.Item) int { return it.TotalCampaignStock })
		l.campaignDirty = true
		log.Info(LogMsgCampaignRebuilt)
	}

	l.persist(ctx, false, false)
	l.notify(ctx, true)
	return nil
}

// keepInMemory rebinds the ledger to cat without reading the store. Only the
// daily pool is rebuilt, and only when the calendar day changed.
func (l *Ledger) keepInMemory(ctx context.Context, cat *catalog.Catalog) {
	l.cat = cat
	if today := l.today(); today != l.date {
		l.date = today
		l.rebuildDaily()
		l.dailyDirty = true
	}
	l.notify(ctx, true)
}

// Loaded reports whether a catalog has been loaded
func (l *Ledger) Loaded() bool { return l.cat != nil }

// Date is the calendar day the daily pool belongs to
func (l *Ledger) Date() string { return l.date }

// RemainingForItem returns today's remaining stock for id
func (l *Ledger) RemainingForItem(id string) int {
	return max(0, l.daily[id])
}

// CampaignRemainingForItem returns the campaign counter for id. It can be
// negative after top-ups beyond the campaign allowance.
func (l *Ledger) CampaignRemainingForItem(id string) int {
	return l.campaign[id]
}

// TotalRemaining sums today's remaining stock over every item
func (l *Ledger) TotalRemaining() int {
	total := 0
	for _, v := range l.daily {
		total += max(0, v)
	}
	return total
}

// TotalRemainingForItem is today's stock plus the campaign counter
func (l *Ledger) TotalRemainingForItem(id string) int {
	return max(0, l.daily[id]) + l.campaign[id]
}

// TotalRemainingAll is today's total plus every campaign counter
func (l *Ledger) TotalRemainingAll() int {
	total := l.TotalRemaining()
	for _, v := range l.campaign {
		total += v
	}
	return total
}

// Decrement takes one unit of id from today's pool. It returns false when
// the item is unknown or already at zero.
func (l *Ledger) Decrement(ctx context.Context, id string) bool {
	v, ok := l.daily[id]
	if !ok || v <= 0 {
		logger.FromContext(ctx).Debug(LogMsgDecrementUnavailable, "item_id", id)
		return false
	}
	l.daily[id] = v - 1
	l.persist(ctx, true, false)
	l.notify(ctx, false)
	return true
}

// TopUpToday moves qty units from the campaign pool into today's pool.
// The campaign counter may go negative.
func (l *Ledger) TopUpToday(ctx context.Context, id string, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("%w: %d", domain.ErrInvalidQuantity, qty)
	}
	if _, ok := l.daily[id]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrItemNotFound, id)
	}
	l.campaign[id] -= qty
	l.daily[id] += qty
	logger.FromContext(ctx).Info(LogMsgTopUp,
		"item_id", id, "quantity", qty,
		"today", l.daily[id], "campaign", l.campaign[id])
	l.persist(ctx, true, true)
	l.notify(ctx, false)
	return nil
}

// SetTodayFromCampaign sets today's stock for id. Lowering it just
// overwrites the counter; raising it draws the difference from the campaign.
func (l *Ledger) SetTodayFromCampaign(ctx context.Context, id string, newValue int) error {
	current, ok := l.daily[id]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrItemNotFound, id)
	}
	switch {
	case newValue > current:
		return l.TopUpToday(ctx, id, newValue-current)
	case newValue < current:
		l.daily[id] = max(0, newValue)
		logger.FromContext(ctx).Info(LogMsgSetToday, "item_id", id, "today", l.daily[id])
		l.persist(ctx, true, false)
		l.notify(ctx, false)
	}
	return nil
}

// SetCampaignRemaining overwrites the campaign counter for id
func (l *Ledger) SetCampaignRemaining(ctx context.Context, id string, value int) error {
	if _, ok := l.campaign[id]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrItemNotFound, id)
	}
	l.campaign[id] = value
	logger.FromContext(ctx).Info(LogMsgSetCampaign, "item_id", id, "campaign", value)
	l.persist(ctx, false, true)
	return nil
}

// ForceResetToday rebuilds today's pool from catalog defaults and always
// re-announces the low-stock state.
func (l *Ledger) ForceResetToday(ctx context.Context) error {
	if l.cat == nil {
		return domain.ErrNoCatalog
	}
	l.date = l.today()
	l.rebuildDaily()
	logger.FromContext(ctx).Info(LogMsgDailyForceReset, "date", l.date, "total", l.TotalRemaining())
	l.persist(ctx, true, false)
	l.notify(ctx, true)
	return nil
}

// Rollover rebuilds today's pool when the calendar day has changed since it
// was built. It reports whether a rebuild happened.
func (l *Ledger) Rollover(ctx context.Context) bool {
	if l.cat == nil {
		return false
	}
	today := l.today()
	if today == l.date {
		return false
	}
	previous := l.date
	l.date = today
	l.rebuildDaily()
	logger.FromContext(ctx).Info(LogMsgDailyRollover, "previous_date", previous, "date", today)
	l.persist(ctx, true, false)
	l.notify(ctx, false)
	return true
}

// Flush writes any record whose last write failed
func (l *Ledger) Flush(ctx context.Context) error {
	if l.cat == nil {
		return nil
	}
	return l.persist(ctx, false, false)
}

// Dirty reports whether a record is waiting to be written
func (l *Ledger) Dirty() bool { return l.dailyDirty || l.campaignDirty }

// Snapshot reports every item in catalog order
func (l *Ledger) Snapshot() []domain.ItemStock {
	if l.cat == nil {
		return nil
	}
	out := make([]domain.ItemStock, 0, l.cat.ItemCount())
	l.cat.EachItem(func(c catalog.Category, it catalog.Item) {
		out = append(out, domain.ItemStock{
			ItemID:       it.ID,
			ItemName:     it.Name,
			CategoryID:   c.ID,
			CategoryName: c.Name,
			Today:        l.RemainingForItem(it.ID),
			Campaign:     l.CampaignRemainingForItem(it.ID),
			Total:        l.TotalRemainingForItem(it.ID),
		})
	})
	return out
}

func (l *Ledger) today() string {
	return l.now().In(l.loc).Format(DateLayout)
}

func (l *Ledger) defaults(value func(catalog.Item) int) map[string]int {
	m := make(map[string]int, l.cat.ItemCount())
	l.cat.EachItem(func(_ catalog.Category, it catalog.Item) {
		m[it.ID] = max(0, value(it))
	})
	return m
}

func (l *Ledger) rebuildDaily() {
	l.daily = l.defaults(func(it catalog.Item) int { return it.InitialDailyStock })
}

// persist writes the requested records plus any left dirty by an earlier
// failure. Failures keep the in-memory state and mark the record dirty.
func (l *Ledger) persist(ctx context.Context, daily, campaign bool) error {
	log := logger.FromContext(ctx)
	var errs []error

	if daily || l.dailyDirty {
		if err := l.store.SaveDaily(ctx, l.dailyRecord()); err != nil {
			log.Warn(LogMsgSaveDailyFailed, "error", err)
			l.dailyDirty = true
			errs = append(errs, err)
		} else {
			l.dailyDirty = false
		}
	}
	if campaign || l.campaignDirty {
		if err := l.store.SaveCampaign(ctx, l.campaignRecord()); err != nil {
			log.Warn(LogMsgSaveCampaignFailed, "error", err)
			l.campaignDirty = true
			errs = append(errs, err)
		} else {
			l.campaignDirty = false
		}
	}
	return errors.Join(errs...)
}

func (l *Ledger) dailyRecord() DailyRecord {
	return DailyRecord{
		Date:                   l.date,
		ConfigurationSignature: l.cat.Signature(),
		Items:                  l.items(l.daily),
	}
}

func (l *Ledger) campaignRecord() CampaignRecord {
	return CampaignRecord{
		ConfigurationSignature: l.cat.Signature(),
		Items:                  l.items(l.campaign),
	}
}

func (l *Ledger) items(counters map[string]int) []ItemRemaining {
	out := make([]ItemRemaining, 0, len(counters))
	l.cat.EachItem(func(_ catalog.Category, it catalog.Item) {
		out = append(out, ItemRemaining{ID: it.ID, Remaining: counters[it.ID]})
	})
	return out
}

func (l *Ledger) notify(ctx context.Context, force bool) {
	if l.watcher != nil {
		l.watcher.StockChanged(ctx, l.TotalRemaining(), force)
	}
}
