package bootstrap

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/osse101/lotto/internal/config"
	"github.com/osse101/lotto/internal/logger"
)

// SetupLogger writes logs to stdout and a timestamped file under cfg.LogDir.
// Returns the log file handle; the caller must close it.
func SetupLogger(cfg *config.Config) (*os.File, error) {
	if err := os.MkdirAll(cfg.LogDir, DirPermission); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedCreateLogsDir, err)
	}

	cleanupLogs(cfg.LogDir, LogFileRetentionCount)

	name := filepath.Join(cfg.LogDir, fmt.Sprintf(LogFileNamePattern, time.Now().Format(LogFileTimestampFormat)))
	logFile, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, LogFilePermission)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedOpenLogFile, err)
	}

	logCfg := logger.ConfigForEnvironment(cfg.Environment).Override(cfg.LogLevel, cfg.LogFormat)
	logCfg.ServiceName = cfg.ServiceName
	logCfg.Version = cfg.Version
	logger.InitLoggerWithWriter(logCfg, io.MultiWriter(os.Stdout, logFile))

	slog.Info(LogMsgLoggingInitialized, "level", logCfg.LogLevel(), "file", name)
	slog.Info(LogMsgStarting,
		"environment", cfg.Environment,
		"version", cfg.Version,
		"network", cfg.Network,
		"storage", cfg.StorageDriver,
		"pool_id", cfg.PoolID)
	slog.Debug(LogMsgConfigurationLoaded,
		"port", cfg.Port,
		"keeper_interval", cfg.KeeperInterval,
		"draw_timeout", cfg.DrawTimeout,
		"vrf_fulfill_delay", cfg.VRFFulfillDelay)

	return logFile, nil
}

// cleanupLogs deletes the oldest session logs so that keep-1 remain before
// the new file is created
func cleanupLogs(logDir string, keep int) {
	entries, err := os.ReadDir(logDir)
	if err != nil {
		return
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), LogFileExtension) {
			names = append(names, e.Name())
		}
	}
	// timestamped names sort chronologically
	sort.Strings(names)

	for len(names) > keep-1 && len(names) > 0 {
		if err := os.Remove(filepath.Join(logDir, names[0])); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to delete old log file %s: %v\n", names[0], err)
		}
		names = names[1:]
	}
}
