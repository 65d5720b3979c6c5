package worker

import "time"

// ============================================================================
// Log Messages - Worker Pool
// ============================================================================

// Log messages for worker pool operations
const (
	LogMsgWorkerJobFailed   = "Worker job failed"
	LogMsgWorkerQueueFull   = "Worker queue full, job dropped"
	LogMsgWorkerPoolStopped = "Worker pool stopped"
)

// ============================================================================
// Log Messages - Daily Rollover Worker
// ============================================================================

// Log messages for daily rollover worker operations
const (
	LogMsgRolloverStandby   = "Daily rollover standby"
	LogMsgRolloverApproach  = "Daily rollover scheduled"
	LogMsgRolloverStarting  = "Daily rollover starting"
	LogMsgRolloverCompleted = "Daily rollover completed"
	LogMsgRolloverNoChange  = "Daily rollover found the pool already current"

	LogMsgRolloverPersistFailed = "Daily rollover could not persist stock"
)

// Two-stage timer tuning for the rollover worker
const (
	// RolloverStandbyThreshold is the distance to midnight above which the
	// worker sleeps in standby instead of arming the final timer
	RolloverStandbyThreshold = 1 * time.Hour
	// RolloverStandbyLead is how long before midnight standby wakes up
	RolloverStandbyLead = 45 * time.Minute
	// RolloverEarlyTolerance is how early a timer may fire before being rearmed
	RolloverEarlyTolerance = 10 * time.Second
	// RolloverLateWindow bounds "just after midnight" when checking a fired timer
	RolloverLateWindow = 23 * time.Hour
)

// ============================================================================
// Test Configuration
// ============================================================================

// Test pool configuration values used in pool_test.go
const (
	TestWorkerCount           = 2
	TestQueueSize             = 10
	TestExpectedJobCount      = 2
	TestWorkerProcessWaitTime = 100 // milliseconds
)
