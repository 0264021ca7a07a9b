package lotto

import "time"

// ============================================================================
// Defaults
// ============================================================================

// DefaultDrawTimeout is how long a draw may stay pending before an operator
// may reset it
const DefaultDrawTimeout = 2 * time.Hour

// DefaultDrawCacheSize bounds the number of finalized draws kept in memory
const DefaultDrawCacheSize = 256

// DefaultDrawCacheTTL is how long a finalized draw stays cached
const DefaultDrawCacheTTL = 10 * time.Minute

// DefaultListDrawsLimit is used when a caller asks for a non-positive limit
const DefaultListDrawsLimit = 20

// MaxListDrawsLimit caps draw history pages
const MaxListDrawsLimit = 500

// PoolAddressPrefix namespaces the pool id when deriving the pool address
const PoolAddressPrefix = "lotto:pool:"

// ============================================================================
// Error Context
// ============================================================================

const (
	ErrContextFailedToBeginTx           = "failed to begin transaction"
	ErrContextFailedToCommitTx          = "failed to commit transaction"
	ErrContextFailedToLoadPool          = "failed to load pool"
	ErrContextFailedToAddParticipant    = "failed to add participant"
	ErrContextFailedToUpdatePool        = "failed to update pool"
	ErrContextFailedToRequestRandomness = "failed to request randomness"
	ErrContextFailedToRecordDraw        = "failed to record draw"
	ErrContextFailedToListParticipants  = "failed to list participants"
	ErrContextFailedToClearParticipants = "failed to clear participants"
	ErrContextFailedToCreditWinner      = "failed to credit winner"
	ErrContextFailedToCreatePool        = "failed to create pool"
)

// ============================================================================
// Log Messages
// ============================================================================

const (
	LogMsgEnterCalled           = "Enter called"
	LogMsgEntryAccepted         = "Entry accepted"
	LogMsgEntryRejected         = "Entry rejected"
	LogMsgPerformUpkeepCalled   = "PerformUpkeep called"
	LogMsgUpkeepNotNeeded       = "Upkeep not needed"
	LogMsgDrawRequested         = "Draw requested"
	LogMsgFulfillCalled         = "Random words received"
	LogMsgFulfillRejected       = "Random words rejected"
	LogMsgWinnerPicked          = "Winner picked"
	LogMsgPayoutFailed          = "Payout rejected by winner, draw rolled back"
	LogMsgDrawReset             = "Stuck draw reset"
	LogMsgCancelRequestFailed   = "Failed to cancel randomness request"
	LogMsgOrphanedRequest       = "Randomness request issued but draw not committed"
	LogMsgPublishFailed         = "Failed to publish event"
	LogMsgPoolDeployed          = "Pool deployed"
	LogMsgPoolLoaded            = "Existing pool loaded"
	LogMsgPoolConfigMismatch    = "Configured pool parameters differ from stored ones, keeping stored"
	LogMsgShutdownWaiting       = "Waiting for in-flight pool operations"
	LogMsgShutdownTimedOut      = "Timed out waiting for pool operations"
	LogMsgPaymentPolicyChanged  = "Payment policy changed"
)
