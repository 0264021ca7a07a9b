package bolt

// FileMode is the permission used when creating the database file
const FileMode = 0o600

// Error Messages
const (
	ErrMsgOpenFailed   = "failed to open bolt database"
	ErrMsgInitBuckets  = "failed to initialize buckets"
	ErrMsgBeginTx      = "failed to begin bolt transaction"
	ErrMsgDecodeRecord = "failed to decode record"
	ErrMsgEncodeRecord = "failed to encode record"
)
