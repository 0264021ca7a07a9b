package config

import "time"

// ConfigPathNetworks is the default network profile file
const ConfigPathNetworks = "configs/networks.toml"

// Storage drivers
const (
	StorageDriverPostgres = "postgres"
	StorageDriverBolt     = "bolt"
)

// Defaults applied when the environment leaves a value unset
const (
	DefaultPort                = 8080
	DefaultPoolID              = "main"
	DefaultNetwork             = "hardhat"
	DefaultBoltPath            = "data/lotto.db"
	DefaultDBMaxConns          = 20
	DefaultDBMaxConnIdleTime   = 5 * time.Minute
	DefaultDBMaxConnLifetime   = 30 * time.Minute
	DefaultKeeperInterval      = 5 * time.Second
	DefaultDrawTimeout         = time.Hour
	DefaultVRFFulfillDelay     = 2 * time.Second
	DefaultDrawCacheSize       = 256
	DefaultDrawCacheTTL        = 10 * time.Minute
	DefaultWorkerCount         = 2
	DefaultEventMaxRetries     = 5
	DefaultEventRetryDelay     = 2 * time.Second
	DefaultEventDeadLetterPath = "logs/event_deadletter.jsonl"
)

// Error messages
const (
	ErrMsgAPIKeyMissing      = "API_KEY environment variable must be set for security"
	ErrMsgInvalidPort        = "invalid PORT value"
	ErrMsgInvalidConfig      = "invalid configuration"
	ErrMsgReadNetworks       = "failed to read network profiles"
	ErrMsgUnknownNetwork     = "unknown network"
	ErrMsgInvalidNetwork     = "invalid network profile"
	ErrMsgInvalidEntranceFee = "entrance_fee must be a non-negative integer in wei"
	ErrMsgInvalidFundAmount  = "subscription_fund_amount must be a non-negative integer"
)
