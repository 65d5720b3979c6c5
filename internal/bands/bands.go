// Package bands maps a score percentage to a reward category.
package bands

import (
	"math"

	"github.com/osse101/PrizeKiosk_Go/internal/catalog"
	"github.com/osse101/PrizeKiosk_Go/internal/utils"
)

// Epsilon absorbs floating error at band boundaries
const Epsilon = 1e-4

// minTotalStock below which auto bands fall back to equal widths
const minTotalStock = 1e-5

// Resolver chooses a category for a percentage. It is immutable once built;
// build a new one whenever the catalog changes.
type Resolver struct {
	categories []catalog.Category
	auto       bool
	bands      []catalog.Band
}

// NewResolver builds a resolver for cat, computing auto bands when enabled
func NewResolver(cat *catalog.Catalog) *Resolver {
	r := &Resolver{}
	if cat == nil {
		return r
	}
	r.categories = cat.Categories
	r.auto = cat.AutoPercentBands
	if r.auto {
		r.bands = ComputeAutoBands(cat.Categories)
	} else {
		r.bands = make([]catalog.Band, len(cat.Categories))
		for i, c := range cat.Categories {
			r.bands[i] = c.ManualBand
		}
	}
	return r
}

// Auto reports whether bands were computed from stock weights
func (r *Resolver) Auto() bool { return r.auto }

// Bands returns a copy of the effective band per category
func (r *Resolver) Bands() []catalog.Band {
	out := make([]catalog.Band, len(r.bands))
	copy(out, r.bands)
	return out
}

// ChooseCategory returns the index of the category for percent, or false when
// there are no categories.
func (r *Resolver) ChooseCategory(percent float64) (int, bool) {
	n := len(r.bands)
	if n == 0 {
		return -1, false
	}
	if percent >= 100 {
		return 0, true
	}
	p := math.Max(0, percent)

	if r.auto {
		for i := n - 1; i >= 0; i-- {
			if contains(r.bands[i], p) {
				return i, true
			}
		}
	} else {
		for i := 0; i < n; i++ {
			if contains(r.bands[i], p) {
				return i, true
			}
		}
	}

	return r.fallback(p), true
}

// fallback picks the best-ranked category whose floor lies under p, which is
// the nearest band below a gap; with none, the worst category.
func (r *Resolver) fallback(p float64) int {
	for i, b := range r.bands {
		if b.Min <= p+Epsilon {
			return i
		}
	}
	return len(r.bands) - 1
}

func contains(b catalog.Band, p float64) bool {
	return p+Epsilon >= b.Min && p <= b.Max+Epsilon
}

// ComputeAutoBands lays bands out bottom-up from the worst category, each one
// as wide as its share of total daily stock. The best category always ends at 100.
func ComputeAutoBands(categories []catalog.Category) []catalog.Band {
	n := len(categories)
	bands := make([]catalog.Band, n)
	if n == 0 {
		return bands
	}

	stock := make([]float64, n)
	total := 0.0
	for i, c := range categories {
		stock[i] = float64(utils.ClampMinInt(c.DailyStock(), 0))
		total += stock[i]
	}

	acc := 0.0
	for i := n - 1; i >= 0; i-- {
		var width float64
		if total <= minTotalStock {
			width = 100.0 / float64(n)
		} else {
			width = stock[i] / total * 100.0
		}
		bands[i] = catalog.Band{Min: acc, Max: acc + width}
		acc += width
	}
	bands[0].Max = 100

	for i := range bands {
		bands[i].Min = utils.Clamp(bands[i].Min, 0, 100)
		bands[i].Max = utils.Clamp(bands[i].Max, 0, 100)
	}
	for i := 0; i < n-1; i++ {
		if math.Abs(bands[i].Min-bands[i+1].Max) < Epsilon {
			bands[i].Min = bands[i+1].Max
		}
	}
	return bands
}
