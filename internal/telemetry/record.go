package telemetry

import (
	"time"

	"github.com/osse101/PrizeKiosk_Go/internal/event"
)

// Record is one telemetry line
type Record struct {
	Timestamp      string  `json:"ts"`
	Session        string  `json:"session"`
	Scene          string  `json:"scene"`
	Cause          string  `json:"cause"`
	Score          int     `json:"score"`
	Percent        float64 `json:"percent"`
	CategoryID     int     `json:"categoryId"`
	CategoryName   string  `json:"categoryName"`
	ItemID         string  `json:"itemId"`
	ItemName       string  `json:"itemName"`
	StockBefore    int     `json:"stockBefore"`
	StockAfter     int     `json:"stockAfter"`
	TotalRemaining int     `json:"totalRemaining"`
	AppVersion     string  `json:"appVersion"`
	Platform       string  `json:"platform"`
	DeviceID       string  `json:"deviceId,omitempty"`
}

func newRecord(p event.RewardGrantedPayloadV1, session, platform string, s Settings) Record {
	cause := string(p.Cause)
	if cause == "" {
		cause = UnknownCause
	}
	r := Record{
		Timestamp:      time.Unix(p.Timestamp, 0).UTC().Format(time.RFC3339),
		Session:        session,
		Scene:          s.Scene,
		Cause:          cause,
		Score:          p.Score,
		Percent:        p.Percent,
		CategoryID:     p.CategoryID,
		CategoryName:   p.CategoryName,
		ItemID:         p.ItemID,
		ItemName:       p.ItemName,
		StockBefore:    p.StockBefore,
		StockAfter:     p.StockAfter,
		TotalRemaining: p.TotalRemaining,
		AppVersion:     s.AppVersion,
		Platform:       platform,
	}
	if s.IncludeDeviceID {
		r.DeviceID = s.DeviceID
	}
	return r
}
