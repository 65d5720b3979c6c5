package catalog

import (
	"fmt"
	"strings"
	"sync"

	"github.com/osse101/PrizeKiosk_Go/internal/domain"
)

// Band is an inclusive percentage range [Min, Max] on the 0..100 scale
type Band struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// Item is a reward SKU with its daily and campaign stock defaults
type Item struct {
	ID                 string
	Name               string
	Asset              string
	InitialDailyStock  int
	TotalCampaignStock int
}

// Category is a reward tier. Categories are ordered best (index 0) to worst.
type Category struct {
	ID         int
	Name       string
	ManualBand Band
	Items      []Item
}

// DailyStock sums the initial daily stock of every item in the category
func (c Category) DailyStock() int {
	total := 0
	for _, it := range c.Items {
		total += it.InitialDailyStock
	}
	return total
}

// Catalog is the immutable reward configuration.
// Build it with New so it is normalised and validated; never mutate it afterwards.
type Catalog struct {
	MaxScore         int
	AutoPercentBands bool
	Categories       []Category

	sigOnce   sync.Once
	signature string
}

// New normalises and validates a catalog
func New(maxScore int, autoPercentBands bool, categories []Category) (*Catalog, error) {
	c := &Catalog{
		MaxScore:         maxScore,
		AutoPercentBands: autoPercentBands,
		Categories:       categories,
	}
	c.normalize()
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) normalize() {
	if c.MaxScore < 1 {
		c.MaxScore = 1
	}
	for i := range c.Categories {
		cat := &c.Categories[i]
		if strings.TrimSpace(cat.Name) == "" {
			cat.Name = fmt.Sprintf(DefaultCategoryNameFormat, i+1)
		}
		if cat.ManualBand.Max < cat.ManualBand.Min {
			cat.ManualBand.Min, cat.ManualBand.Max = cat.ManualBand.Max, cat.ManualBand.Min
		}
		for j := range cat.Items {
			it := &cat.Items[j]
			it.ID = strings.TrimSpace(it.ID)
			if it.InitialDailyStock < 0 {
				it.InitialDailyStock = 0
			}
			if it.TotalCampaignStock < 0 {
				it.TotalCampaignStock = 0
			}
		}
	}
}

func (c *Catalog) validate() error {
	if len(c.Categories) == 0 {
		return domain.ErrNoCategories
	}
	seen := make(map[string]struct{})
	for ci, cat := range c.Categories {
		for ii, it := range cat.Items {
			if it.ID == "" {
				return fmt.Errorf("%w: category %d item %d has an empty id", domain.ErrInvalidCatalog, ci, ii)
			}
			key := strings.ToLower(it.ID)
			if _, dup := seen[key]; dup {
				return fmt.Errorf("%w: %s", domain.ErrDuplicateItemID, it.ID)
			}
			seen[key] = struct{}{}
		}
	}
	return nil
}

// Signature returns the cached structural fingerprint of the catalog
func (c *Catalog) Signature() string {
	c.sigOnce.Do(func() {
		c.signature = computeSignature(c)
	})
	return c.signature
}

// FindItem looks up an item by id, ignoring case.
// It returns the category and item indexes.
func (c *Catalog) FindItem(id string) (catIndex, itemIndex int, ok bool) {
	for ci, cat := range c.Categories {
		for ii, it := range cat.Items {
			if strings.EqualFold(it.ID, id) {
				return ci, ii, true
			}
		}
	}
	return -1, -1, false
}

// HasItem reports whether an item with exactly this id exists
func (c *Catalog) HasItem(id string) bool {
	for _, cat := range c.Categories {
		for _, it := range cat.Items {
			if it.ID == id {
				return true
			}
		}
	}
	return false
}

// ItemCount returns the number of items across all categories
func (c *Catalog) ItemCount() int {
	n := 0
	for _, cat := range c.Categories {
		n += len(cat.Items)
	}
	return n
}

// EachItem calls fn for every item in catalog order
func (c *Catalog) EachItem(fn func(cat Category, item Item)) {
	for _, cat := range c.Categories {
		for _, it := range cat.Items {
			fn(cat, it)
		}
	}
}
