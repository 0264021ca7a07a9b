package logger

// Accepted LOG_LEVEL values; "warning" is an alias for "warn"
const (
	LogLevelDebug   = "debug"
	LogLevelInfo    = "info"
	LogLevelWarn    = "warn"
	LogLevelWarning = "warning"
	LogLevelError   = "error"
)

// Accepted LOG_FORMAT values
const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

const (
	DefaultServiceName = "lotto"
	DefaultVersion     = "dev"
	ProductionVersion  = "1.0.0"

	EnvironmentDev        = "dev"
	EnvironmentProduction = "prod"
)

// Attributes attached to every record
const (
	AttrKeyService     = "service"
	AttrKeyVersion     = "version"
	AttrKeyEnvironment = "environment"
	AttrKeyRequestID   = "request_id"
)
