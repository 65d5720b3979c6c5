package stock

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/osse101/PrizeKiosk_Go/internal/utils"
)

// FileStore keeps each record in its own JSON file inside a data directory.
// Writes go through a temp file and rename.
type FileStore struct {
	dailyPath    string
	campaignPath string
}

// NewFileStore creates the data directory if needed
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, DataDirPermissions); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dir, err)
	}
	return &FileStore{
		dailyPath:    filepath.Join(dir, DailyFileName),
		campaignPath: filepath.Join(dir, CampaignFileName),
	}, nil
}

// LoadDaily reads the daily record file
func (s *FileStore) LoadDaily(_ context.Context) (DailyRecord, bool, error) {
	var rec DailyRecord
	found, err := loadRecord(s.dailyPath, &rec)
	return rec, found, err
}

// SaveDaily writes the daily record file
func (s *FileStore) SaveDaily(_ context.Context, rec DailyRecord) error {
	return utils.SaveJSON(s.dailyPath, rec)
}

// LoadCampaign reads the campaign record file
func (s *FileStore) LoadCampaign(_ context.Context) (CampaignRecord, bool, error) {
	var rec CampaignRecord
	found, err := loadRecord(s.campaignPath, &rec)
	return rec, found, err
}

// SaveCampaign writes the campaign record file
func (s *FileStore) SaveCampaign(_ context.Context, rec CampaignRecord) error {
	return utils.SaveJSON(s.campaignPath, rec)
}

// Close is a no-op
func (s *FileStore) Close() error { return nil }

func loadRecord(path string, target interface{}) (bool, error) {
	if err := utils.LoadJSON(path, target); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
