package stock

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const createRecordsTable = `CREATE TABLE IF NOT EXISTS stock_records (
	kind       TEXT PRIMARY KEY,
	payload    TEXT NOT NULL,
	updated_at INTEGER NOT NULL
)`

// SQLiteStore keeps both records as JSON payloads in a single table
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (and creates) the database at path
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	cleanPath := filepath.Clean(path)
	if dir := filepath.Dir(cleanPath); dir != "." {
		if err := os.MkdirAll(dir, DataDirPermissions); err != nil {
			return nil, fmt.Errorf("create sqlite dir %s: %w", dir, err)
		}
	}

	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(createRecordsTable); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create stock_records table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// LoadDaily reads the daily record row
func (s *SQLiteStore) LoadDaily(ctx context.Context) (DailyRecord, bool, error) {
	var rec DailyRecord
	found, err := s.get(ctx, recordKindDaily, &rec)
	return rec, found, err
}

// SaveDaily upserts the daily record row
func (s *SQLiteStore) SaveDaily(ctx context.Context, rec DailyRecord) error {
	return s.put(ctx, recordKindDaily, rec)
}

// LoadCampaign reads the campaign record row
func (s *SQLiteStore) LoadCampaign(ctx context.Context) (CampaignRecord, bool, error) {
	var rec CampaignRecord
	found, err := s.get(ctx, recordKindCampaign, &rec)
	return rec, found, err
}

// SaveCampaign upserts the campaign record row
func (s *SQLiteStore) SaveCampaign(ctx context.Context, rec CampaignRecord) error {
	return s.put(ctx, recordKindCampaign, rec)
}

// Close releases the database handle
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) get(ctx context.Context, kind string, target interface{}) (bool, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM stock_records WHERE kind = ?`, kind).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get %s record: %w", kind, err)
	}
	if err := json.Unmarshal([]byte(payload), target); err != nil {
		return false, fmt.Errorf("decode %s record: %w", kind, err)
	}
	return true, nil
}

func (s *SQLiteStore) put(ctx context.Context, kind string, rec interface{}) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode %s record: %w", kind, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO stock_records (kind, payload, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(kind) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		kind, string(payload), time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("put %s record: %w", kind, err)
	}
	return nil
}
