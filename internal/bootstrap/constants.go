package bootstrap

// File system permissions
const (
	DirPermission     = 0755
	LogFilePermission = 0666
)

// Logger file rotation
const (
	LogFileTimestampFormat = "2006-01-02_15-04-05"
	LogFileNamePattern     = "session_%s.log"
	LogFileExtension       = ".log"
	LogFileRetentionCount  = 9
)

// Log messages for startup
const (
	LogMsgLoggingInitialized  = "Logging initialized"
	LogMsgStartingService     = "Starting missiond"
	LogMsgConfigurationLoaded = "Configuration loaded"
	LogMsgMigrationsApplied   = "Migrations applied"
	LogMsgSchedulerStarted    = "Scheduler started"
)

// Log messages for shutdown
const (
	LogMsgShuttingDown         = "Shutting down..."
	LogMsgServerStopped        = "Server stopped"
	LogMsgServerForcedShutdown = "Server forced to shutdown"
	LogMsgNotifierDrainFailed  = "Notifier shutdown failed"
	LogMsgSchedulerStopped     = "Scheduler stopped"
	LogMsgDatabaseClosed       = "Database pool closed"
	LogMsgFailedDeleteOldLog   = "Failed to delete old log file %s: %v\n"
)

// ServiceName identifies this process in log attributes.
const ServiceName = "missiond"
