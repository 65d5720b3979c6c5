package telemetry

import "time"

// Settings defaults
const (
	DefaultFileName      = "RewardsTelemetry.log"
	DefaultFlushInterval = 10 * time.Second
	MinFlushInterval     = 2 * time.Second
	DefaultBatchSize     = 20
	DefaultHTTPTimeout   = 8 * time.Second
	DefaultAuthHeaderKey = "Authorization"
	DefaultScene         = "Victory"
	UnknownCause         = "unknown"
	FilePermissions      = 0644
)

// DefaultPendingBatches sizes the upload queue as a multiple of BatchSize
const DefaultPendingBatches = 50

// Log messages
const (
	LogMsgAppendFailed    = "Failed to append telemetry line"
	LogMsgEncodeFailed    = "Failed to encode telemetry record"
	LogMsgUploadFailed    = "Telemetry upload failed, batch requeued"
	LogMsgUploadSucceeded = "Telemetry batch uploaded"
	LogMsgDecodeFailed    = "Failed to decode reward event for telemetry"
	LogMsgPendingOverflow = "Telemetry upload queue full, oldest lines dropped"
)
