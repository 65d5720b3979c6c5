package domain

// Cause tags why a reward was granted. It is recorded in telemetry and metrics.
type Cause string

const (
	CauseWin           Cause = "win"
	CauseGameOver      Cause = "game_over"
	CauseZeroPoints    Cause = "zero_points"
	CauseNoOtherPrizes Cause = "no_other_prizes"
	CauseAdmin         Cause = "admin"
	CauseUnspecified   Cause = "unspecified"
)

// Default item identifiers used by the kiosk catalog
const (
	DefaultTopPrizeItemID    = "labubu"
	DefaultIgnoredItemID     = "canetazero"
	DefaultBottleItemID      = "garrafa"
	DefaultLowStockThreshold = 10
)

// ItemStock is a point-in-time report for one catalog item
type ItemStock struct {
	ItemID       string `json:"item_id"`
	ItemName     string `json:"item_name"`
	CategoryID   int    `json:"category_id"`
	CategoryName string `json:"category_name"`
	Today        int    `json:"today"`
	Campaign     int    `json:"campaign"`
	Total        int    `json:"total"`
}

// StockReport summarises the ledger for operators
type StockReport struct {
	Date            string      `json:"date"`
	Signature       string      `json:"signature"`
	Items           []ItemStock `json:"items"`
	TotalToday      int         `json:"total_today"`
	TotalAll        int         `json:"total_all"`
	LowStock        bool        `json:"low_stock"`
	LowStockAt      int         `json:"low_stock_threshold"`
	TopPrizeOnly    bool        `json:"top_prize_only"`
	PendingReserved int         `json:"pending_reservations"`
}
