package reward

import (
	"strings"
	"time"

	"github.com/osse101/PrizeKiosk_Go/internal/catalog"
	"github.com/osse101/PrizeKiosk_Go/internal/domain"
	"github.com/osse101/PrizeKiosk_Go/internal/utils"
)

// Option configures an Engine
type Option func(*options)

type options struct {
	topPrizeID          string
	ignoredID           string
	lowStockThreshold   int
	rng                 utils.RandomSource
	now                 func() time.Time
	location            *time.Location
	reservationTTL      time.Duration
	reservationCapacity int
	remote              catalog.Fetcher
}

func defaultOptions() options {
	return options{
		topPrizeID:          domain.DefaultTopPrizeItemID,
		ignoredID:           domain.DefaultIgnoredItemID,
		lowStockThreshold:   domain.DefaultLowStockThreshold,
		rng:                 utils.DefaultRandomSource(),
		now:                 time.Now,
		location:            time.Local,
		reservationTTL:      DefaultReservationTTL,
		reservationCapacity: DefaultReservationCapacity,
	}
}

// WithTopPrizeItemID sets the item forced when it is the only prize left
func WithTopPrizeItemID(id string) Option {
	return func(o *options) {
		if id = strings.TrimSpace(id); id != "" {
			o.topPrizeID = id
		}
	}
}

// WithIgnoredItemID sets the consolation item that the random draw never picks
func WithIgnoredItemID(id string) Option {
	return func(o *options) { o.ignoredID = strings.TrimSpace(id) }
}

// WithLowStockThreshold sets the daily total at or below which stock is low
func WithLowStockThreshold(n int) Option {
	return func(o *options) { o.lowStockThreshold = n }
}

// WithRandomSource replaces the draw randomness, typically with a seeded source in tests
func WithRandomSource(src utils.RandomSource) Option {
	return func(o *options) {
		if src != nil {
			o.rng = src
		}
	}
}

// WithClock overrides the time source for calendar days and reservation expiry
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithLocation sets the zone in which the daily pool resets
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		if loc != nil {
			o.location = loc
		}
	}
}

// WithReservationTTL sets how long an uncommitted result stays committable
func WithReservationTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl > 0 {
			o.reservationTTL = ttl
		}
	}
}

// WithReservationCapacity bounds the number of tracked reservations
func WithReservationCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.reservationCapacity = n
		}
	}
}

// WithRemoteFetcher enables LoadConfigRemote
func WithRemoteFetcher(f catalog.Fetcher) Option {
	return func(o *options) { o.remote = f }
}
