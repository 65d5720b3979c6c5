package bootstrap

import "time"

// =============================================================================
// File System Permissions
// =============================================================================

const (
	// DirPermission is the standard permission for creating directories
	DirPermission = 0755

	// LogFilePermission is the permission for log files (read/write for owner, read for group/others)
	LogFilePermission = 0666
)

// =============================================================================
// Logger Configuration
// =============================================================================

const (
	// LogFileTimestampFormat is the timestamp format for log filenames (YYYY-MM-DD_HH-MM-SS)
	LogFileTimestampFormat = "2006-01-02_15-04-05"

	// LogFileNamePattern is the format string for log filenames
	LogFileNamePattern = "session_%s.log"

	// LogFileExtension is the file extension for log files
	LogFileExtension = ".log"

	// LogFileRetentionCount is the number of old log files kept besides the new session
	LogFileRetentionCount = 9
)

// Log messages for logger initialization
const (
	LogMsgLoggingInitialized  = "Logging initialized"
	LogMsgStartingKiosk       = "Starting prize kiosk"
	LogMsgConfigurationLoaded = "Configuration loaded"
	LogMsgFailedCreateLogsDir = "failed to create logs directory"
	LogMsgFailedOpenLogFile   = "failed to open log file"
	LogMsgFailedDeleteOldLog  = "Failed to delete old log file"
)

// =============================================================================
// Event System Configuration
// =============================================================================

// Log messages for event system initialization
const (
	LogMsgEventSystemInitialized         = "Event system initialized"
	LogMsgFailedCreateDeadLetterDir      = "failed to create dead-letter directory"
	LogMsgFailedCreateResilientPublisher = "failed to create resilient publisher"
)

// =============================================================================
// Services
// =============================================================================

const (
	LogMsgStoreOpened          = "Stock store opened"
	LogMsgCatalogApplied       = "Catalog applied"
	LogMsgCatalogWatchDisabled = "Catalog watcher disabled"
	LogMsgCatalogWatchStarted  = "Catalog watcher started"
	LogMsgCatalogFileChanged   = "Catalog file changed, reloading"
	LogMsgCatalogReloadFailed  = "Catalog reload failed"
	LogMsgCatalogRemoteActive  = "Catalog file changed while the remote catalog is active, ignoring"
	LogMsgTelemetryScheduled   = "Telemetry flush scheduled"

	ErrMsgFailedOpenStore     = "failed to open stock store"
	ErrMsgFailedLoadCatalog   = "failed to load catalog"
	ErrMsgFailedApplyCatalog  = "failed to apply catalog"
	ErrMsgFailedBuildPolicy   = "failed to build outcome policy"
	ErrMsgFailedResolveZone   = "failed to resolve reset timezone"
	ErrMsgFailedInitTelemetry = "failed to initialize telemetry"
)

// JobNameTelemetryFlush names the periodic telemetry upload
const JobNameTelemetryFlush = "telemetry-flush"

// =============================================================================
// Event Handler Configuration
// =============================================================================

// Log messages for event handler registration
const (
	LogMsgMetricsCollectorRegistered = "Metrics collector registered"
	LogMsgTelemetryRecorderReady     = "Telemetry recorder registered"
	ErrMsgFailedRegisterMetrics      = "failed to register metrics collector"
)

// =============================================================================
// Shutdown Messages
// =============================================================================

const (
	LogMsgShuttingDownServer         = "Shutting down server..."
	LogMsgShuttingDownEventPublisher = "Shutting down event publisher..."
	LogMsgServerStopped              = "Server stopped"
	LogMsgServerForcedShutdown       = "Server forced to shutdown"
	LogMsgResilientPublisherFailed   = "Resilient publisher shutdown failed"
	LogMsgRolloverWorkerFailed       = "Rollover worker shutdown failed"
	LogMsgStockFlushFailed           = "Final stock flush failed"
	LogMsgTelemetryFlushFailed       = "Final telemetry flush failed"
	LogMsgStoreCloseFailed           = "Stock store close failed"
)

// FinalFlushTimeout bounds the telemetry upload attempted during shutdown
const FinalFlushTimeout = 5 * time.Second
