package bootstrap

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/osse101/PrizeKiosk_Go/internal/config"
	"github.com/osse101/PrizeKiosk_Go/internal/logger"
)

// SetupLogger initializes the application logger with file and stdout output.
// It creates the log directory, cleans up old logs, and installs the default
// slog logger writing to both stdout and a new session file.
// Returns the log file handle (caller must close) and any error encountered.
func SetupLogger(cfg *config.Config) (*os.File, error) {
	if err := os.MkdirAll(cfg.LogDir, DirPermission); err != nil {
		return nil, fmt.Errorf("%s: %w", LogMsgFailedCreateLogsDir, err)
	}

	cleanupLogs(cfg.LogDir, LogFileRetentionCount)

	timestamp := time.Now().Format(LogFileTimestampFormat)
	logFileName := filepath.Join(cfg.LogDir, fmt.Sprintf(LogFileNamePattern, timestamp))

	logFile, err := os.OpenFile(logFileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, LogFilePermission)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", LogMsgFailedOpenLogFile, err)
	}

	logCfg := logger.NewConfig(
		cfg.LogLevel,
		cfg.LogFormat,
		logger.DefaultServiceName,
		cfg.AppVersion,
		cfg.Environment,
		cfg.Environment == config.EnvDev,
	)
	logger.InitLoggerWithWriter(logCfg, io.MultiWriter(os.Stdout, logFile))

	slog.Info(LogMsgLoggingInitialized, "level", logCfg.LogLevel(), "file", logFileName)
	slog.Info(LogMsgStartingKiosk,
		"environment", cfg.Environment,
		"log_level", cfg.LogLevel,
		"log_format", cfg.LogFormat,
		"version", cfg.AppVersion)

	slog.Debug(LogMsgConfigurationLoaded,
		"http_addr", cfg.HTTPAddr,
		"catalog_path", cfg.CatalogPath,
		"store_backend", cfg.StoreBackend,
		"data_dir", cfg.DataDir,
		"reset_timezone", cfg.ResetTimezone,
		"remote_catalog", cfg.Remote.Enabled)

	return logFile, nil
}

// cleanupLogs removes the oldest session logs so that at most keep remain.
// Session file names sort chronologically.
func cleanupLogs(logDir string, keep int) {
	entries, err := os.ReadDir(logDir)
	if err != nil {
		return
	}

	var logFiles []os.DirEntry
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), LogFileExtension) {
			logFiles = append(logFiles, entry)
		}
	}

	for i := 0; i < len(logFiles)-keep; i++ {
		if err := os.Remove(filepath.Join(logDir, logFiles[i].Name())); err != nil {
			fmt.Fprintf(os.Stderr, "%s %s: %v\n", LogMsgFailedDeleteOldLog, logFiles[i].Name(), err)
		}
	}
}
