package reward

import (
	"time"

	"github.com/osse101/PrizeKiosk_Go/internal/domain"
)

// Result is the outcome of an evaluation. An empty result (no item) means no
// prize was available. Non-empty results carry a reservation Token that must
// be passed to Commit or Release.
type Result struct {
	Token         string  `json:"token,omitempty"`
	CategoryIndex int     `json:"category_index"`
	CategoryID    int     `json:"category_id"`
	CategoryName  string  `json:"category_name,omitempty"`
	ItemID        string  `json:"item_id,omitempty"`
	ItemName      string  `json:"item_name,omitempty"`
	Asset         string  `json:"asset,omitempty"`
	Score         int     `json:"score"`
	Percent       float64 `json:"percent"`
	Forced        bool    `json:"forced"`
}

// Empty reports whether no item was selected
func (r Result) Empty() bool { return r.ItemID == "" }

func emptyResult(score int, percent float64) Result {
	return Result{CategoryIndex: -1, Score: score, Percent: percent}
}

// Grant is a committed Result with the stock it consumed
type Grant struct {
	Result         Result       `json:"result"`
	Cause          domain.Cause `json:"cause"`
	StockBefore    int          `json:"stock_before"`
	StockAfter     int          `json:"stock_after"`
	TotalRemaining int          `json:"total_remaining"`
	GrantedAt      time.Time    `json:"granted_at"`
}

// CategoryBand is the effective band of one category
type CategoryBand struct {
	Index int     `json:"index"`
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// BandReport lists the effective bands and how they were derived
type BandReport struct {
	Auto     bool           `json:"auto"`
	MaxScore int            `json:"max_score"`
	Bands    []CategoryBand `json:"bands"`
}

// LoadResult reports the outcome of an asynchronous catalog load
type LoadResult struct {
	Remote bool
	Err    error
}
