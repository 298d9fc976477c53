package bootstrap

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/replantlab/missiond/internal/config"
	"github.com/replantlab/missiond/internal/logger"
)

// SetupLogger initializes the application logger with stdout and file
// output. It creates the log directory, prunes old session logs, and
// installs the process-wide slog default. The returned file handle must be
// closed by the caller on shutdown.
func SetupLogger(cfg *config.Config) (*os.File, error) {
	if err := os.MkdirAll(cfg.LogDir, DirPermission); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	cleanupLogs(cfg.LogDir)

	timestamp := time.Now().Format(LogFileTimestampFormat)
	logFileName := filepath.Join(cfg.LogDir, fmt.Sprintf(LogFileNamePattern, timestamp))

	logFile, err := os.OpenFile(logFileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, LogFilePermission)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	addSource := cfg.Environment == "dev" || cfg.Environment == "development"
	loggerConfig := logger.NewConfig(
		cfg.LogLevel,
		cfg.LogFormat,
		ServiceName,
		cfg.Version,
		cfg.Environment,
		addSource,
	)

	mw := io.MultiWriter(os.Stdout, logFile)
	logger.InitLoggerWithWriter(loggerConfig, mw)

	logger.Info(LogMsgLoggingInitialized, "level", cfg.LogLevel)
	logger.Info(LogMsgStartingService,
		"environment", cfg.Environment,
		"version", cfg.Version)
	logger.Debug(LogMsgConfigurationLoaded,
		"db_host", cfg.DBHost,
		"db_port", cfg.DBPort,
		"db_name", cfg.DBName,
		"port", cfg.Port,
		"timezone", cfg.ReferenceTimezone,
		"vote_quorum", cfg.VoteQuorum)

	return logFile, nil
}

// cleanupLogs removes old session logs, keeping the most recent ones.
func cleanupLogs(logDir string) {
	entries, err := os.ReadDir(logDir)
	if err != nil {
		return
	}

	var logFiles []os.DirEntry
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), LogFileExtension) {
			logFiles = append(logFiles, entry)
		}
	}

	if len(logFiles) > LogFileRetentionCount {
		toDelete := len(logFiles) - LogFileRetentionCount
		for i := 0; i < toDelete; i++ {
			if err := os.Remove(filepath.Join(logDir, logFiles[i].Name())); err != nil {
				fmt.Printf(LogMsgFailedDeleteOldLog, logFiles[i].Name(), err)
			}
		}
	}
}
