package worker

import "time"

// DefaultJobTimeout bounds a single job run
const DefaultJobTimeout = 30 * time.Second

// ============================================================================
// Log Messages - Worker Pool
// ============================================================================

// LogMsgWorkerJobFailed is logged when a worker fails to process a job
const LogMsgWorkerJobFailed = "Worker job failed"

// ============================================================================
// Upkeep Job
// ============================================================================

// Keeper run outcomes, used as metric labels
const (
	UpkeepOutcomeNotNeeded = "not_needed"
	UpkeepOutcomePerformed = "performed"
	UpkeepOutcomeRaced     = "raced"
	UpkeepOutcomeError     = "error"
)

const (
	LogMsgUpkeepCheckFailed   = "Upkeep check failed"
	LogMsgUpkeepPerformed     = "Upkeep performed"
	LogMsgUpkeepRaced         = "Upkeep no longer needed when performed"
	LogMsgUpkeepPerformFailed = "Upkeep perform failed"
)

// ============================================================================
// Fulfillment Worker
// ============================================================================

// Fulfillment outcomes, used as metric labels
const (
	FulfillOutcomeDelivered = "delivered"
	FulfillOutcomeRejected  = "rejected"
	FulfillOutcomeError     = "error"
)

const (
	FulfillmentWorkerName                = "fulfillment worker"
	LogMsgFailedToLoadPendingOnStartup   = "Failed to load pending request on startup"
	LogMsgSchedulingFulfillment          = "Scheduling randomness fulfillment"
	LogMsgExecutingFulfillment           = "Fulfilling randomness request"
	LogMsgFulfillmentRejectedByConsumer  = "Consumer rejected fulfillment, request left pending"
	LogMsgFulfillmentFailed              = "Randomness fulfillment failed"
	LogMsgFulfillmentSkippedNotPending   = "Request no longer pending, skipping fulfillment"
	LogMsgFulfillmentInvalidEventPayload = "Ignoring draw requested event with unreadable payload"
	LogMsgFulfillmentCancelled           = "Cancelled scheduled fulfillment"
	LogMsgFulfillmentDroppedStopped      = "Dropped fulfillment after shutdown"
	LogMsgWorkerStopped                  = "Worker stopped"
	LogMsgWorkerStopTimeout              = "Worker did not stop before deadline"
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
