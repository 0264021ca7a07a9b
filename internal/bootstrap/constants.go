package bootstrap

import "time"

// File system permissions
const (
	DirPermission     = 0755
	LogFilePermission = 0666
)

// Log file rotation
const (
	LogFileTimestampFormat = "2006-01-02_15-04-05"
	LogFileNamePattern     = "session_%s.log"
	LogFileExtension       = ".log"
	LogFileRetentionCount  = 9
)

// BoltOpenTimeout bounds the wait for the database file lock
const BoltOpenTimeout = 5 * time.Second

// Seeds for the stable addresses used on local networks. The mock
// coordinator address is stored with the pool, so it must not change
// between runs.
const (
	LocalCoordinatorSeed = "lotto/local/vrf-coordinator"
	LocalDeployerSeed    = "lotto/local/deployer"
)

// Log messages for startup
const (
	LogMsgLoggingInitialized  = "Logging initialized"
	LogMsgStarting            = "Starting lotto"
	LogMsgConfigurationLoaded = "Configuration loaded"
	LogMsgStorageOpened       = "Storage opened"
	LogMsgMigrationsApplied   = "Migrations applied"
	LogMsgOracleLocal         = "Local network, using in-process VRF coordinator"
	LogMsgOracleRemote        = "Remote network, relaying randomness requests to external oracle"
	LogMsgSubscriptionMissing = "Stored subscription differs from the local coordinator's"
	LogMsgPendingRestored     = "Pending draw handed back to local coordinator"
	LogMsgEventSystemReady    = "Event system initialized"
)

// Error message prefixes
const (
	ErrMsgFailedCreateLogsDir      = "failed to create logs directory"
	ErrMsgFailedOpenLogFile        = "failed to open log file"
	ErrMsgFailedCreateDeadLetter   = "failed to create dead-letter directory"
	ErrMsgFailedCreatePublisher    = "failed to create resilient publisher"
	ErrMsgFailedOpenDatabase       = "failed to open database"
	ErrMsgFailedMigrate            = "failed to apply migrations"
	ErrMsgFailedCreateBoltDir      = "failed to create bolt directory"
	ErrMsgUnknownStorageDriver     = "unknown storage driver"
	ErrMsgFailedFundSubscription   = "failed to fund subscription"
	ErrMsgFailedAddConsumer        = "failed to register pool as consumer"
	ErrMsgFailedPoolConfig         = "failed to build pool config"
	ErrMsgFailedRestorePending     = "failed to restore pending request"
	ErrMsgFailedListDraws          = "failed to read draw history"
	ErrMsgFailedRegisterMetrics    = "failed to register metrics collector"
	ErrMsgFailedLoadNetworkProfile = "failed to load network profile"
)

// Log messages for event handler registration
const (
	LogMsgMetricsCollectorRegistered = "Metrics collector registered"
	LogMsgSSESubscriberRegistered    = "SSE subscriber registered"
	LogMsgDiscordNotifierRegistered  = "Discord notifier registered"
)

// Shutdown messages
const (
	LogMsgShuttingDownServer         = "Shutting down server..."
	LogMsgShuttingDownEventPublisher = "Shutting down event publisher..."
	LogMsgServerStopped              = "Server stopped"
	LogMsgServerForcedShutdown       = "Server forced to shutdown"
	LogMsgResilientPublisherFailed   = "Resilient publisher shutdown failed"
	LogMsgWorkerShutdownFailed       = "Fulfillment worker shutdown failed"
	LogMsgServiceShutdownFailed      = " service shutdown failed"
	LogMsgDiscordStopFailed          = "Discord bot shutdown failed"
	LogMsgStorageCloseFailed         = "Storage close failed"

	ServiceNameLotto = "lotto"
)
