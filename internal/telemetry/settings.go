package telemetry

import (
	"path/filepath"
	"strings"
	"time"
)

// Settings controls where reward telemetry goes
type Settings struct {
	Enabled         bool
	FilePath        string
	SendToServer    bool
	EndpointURL     string
	FlushInterval   time.Duration
	BatchSize       int
	MaxPending      int
	AuthHeaderKey   string
	AuthHeaderValue string
	IncludeDeviceID bool
	DeviceID        string
	Scene           string
	AppVersion      string
	HTTPTimeout     time.Duration
}

// Normalize fills defaults. A relative or empty FilePath is placed under dataDir.
func (s Settings) Normalize(dataDir string) Settings {
	if strings.TrimSpace(s.FilePath) == "" {
		s.FilePath = DefaultFileName
	}
	if !filepath.IsAbs(s.FilePath) && dataDir != "" {
		s.FilePath = filepath.Join(dataDir, s.FilePath)
	}
	if s.FlushInterval <= 0 {
		s.FlushInterval = DefaultFlushInterval
	}
	s.FlushInterval = max(MinFlushInterval, s.FlushInterval)
	if s.BatchSize <= 0 {
		s.BatchSize = DefaultBatchSize
	}
	if s.MaxPending <= 0 {
		s.MaxPending = s.BatchSize * DefaultPendingBatches
	}
	s.MaxPending = max(s.BatchSize, s.MaxPending)
	if s.AuthHeaderKey == "" {
		s.AuthHeaderKey = DefaultAuthHeaderKey
	}
	if s.Scene == "" {
		s.Scene = DefaultScene
	}
	if s.HTTPTimeout <= 0 {
		s.HTTPTimeout = DefaultHTTPTimeout
	}
	return s
}

// Uploading reports whether batches should be sent to the endpoint
func (s Settings) Uploading() bool {
	return s.Enabled && s.SendToServer && strings.TrimSpace(s.EndpointURL) != ""
}
