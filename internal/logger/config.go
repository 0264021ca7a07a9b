package logger

import (
	"log/slog"
	"strings"
)

// Config selects the handler and the attributes stamped on every record
type Config struct {
	Level       string
	Format      string
	ServiceName string
	Version     string
	Environment string
	AddSource   bool
}

// ConfigForEnvironment returns the defaults for env. Production logs JSON at
// info; anything else logs text, and dev adds debug records and source lines.
func ConfigForEnvironment(env string) Config {
	cfg := Config{
		Level:       LogLevelInfo,
		Format:      LogFormatText,
		ServiceName: DefaultServiceName,
		Version:     DefaultVersion,
		Environment: env,
	}
	switch env {
	case EnvironmentProduction:
		cfg.Format = LogFormatJSON
		cfg.Version = ProductionVersion
	case EnvironmentDev, "":
		cfg.Level = LogLevelDebug
		cfg.AddSource = true
		cfg.Environment = EnvironmentDev
	}
	return cfg
}

// Override replaces level and format when set, keeping the defaults otherwise
func (c Config) Override(level, format string) Config {
	if level != "" {
		c.Level = level
	}
	if format != "" {
		c.Format = format
	}
	return c
}

// LogLevel maps Level to slog; unknown values log at info
func (c Config) LogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn, LogLevelWarning:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c Config) IsJSON() bool {
	return strings.EqualFold(c.Format, LogFormatJSON)
}

// BaseAttributes identify the process in aggregated logs
func (c Config) BaseAttributes() []slog.Attr {
	return []slog.Attr{
		slog.String(AttrKeyService, c.ServiceName),
		slog.String(AttrKeyVersion, c.Version),
		slog.String(AttrKeyEnvironment, c.Environment),
	}
}
