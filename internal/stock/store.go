package stock

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/osse101/PrizeKiosk_Go/internal/domain"
)

// ItemRemaining is one persisted counter
type ItemRemaining struct {
	ID        string `json:"id"`
	Remaining int    `json:"remaining"`
}

// DailyRecord is the persisted daily pool. It is only valid for Date and
// the catalog whose signature it carries.
type DailyRecord struct {
	Date                   string          `json:"date"`
	ConfigurationSignature string          `json:"configurationSignature"`
	Items                  []ItemRemaining `json:"items"`
}

// CampaignRecord is the persisted campaign pool, keyed by catalog signature only
type CampaignRecord struct {
	ConfigurationSignature string          `json:"configurationSignature"`
	Items                  []ItemRemaining `json:"items"`
}

// Store persists ledger records. Load methods report found=false when no
// record has been written yet.
type Store interface {
	LoadDaily(ctx context.Context) (DailyRecord, bool, error)
	SaveDaily(ctx context.Context, rec DailyRecord) error
	LoadCampaign(ctx context.Context) (CampaignRecord, bool, error)
	SaveCampaign(ctx context.Context, rec CampaignRecord) error
	Close() error
}

// NewStore opens the backend named by backend ("memory", "file" or "sqlite").
// File records live in dataDir; sqlitePath defaults to a database inside dataDir.
func NewStore(backend, dataDir, sqlitePath string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendFile, "":
		return NewFileStore(dataDir)
	case BackendSQLite:
		if sqlitePath == "" {
			sqlitePath = filepath.Join(dataDir, DefaultSQLiteFile)
		}
		return OpenSQLiteStore(sqlitePath)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownBackend, backend)
	}
}
