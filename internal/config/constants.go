package config

import "time"

// Defaults applied when the corresponding environment variable is unset.
const (
	DefaultReferenceTimezone = "Asia/Seoul"

	DefaultAssignInterval    = time.Minute
	DefaultSweepInterval     = time.Hour
	DefaultAssignWorkers     = 8
	DefaultAssignUserTimeout = 10 * time.Second

	DefaultVoteQuorum = 3

	DefaultCatalogCacheSize = 512
	DefaultCatalogCacheTTL  = 5 * time.Minute

	DefaultNotifyMaxRetries    = 3
	DefaultNotifyRetryInterval = 2 * time.Second

	DefaultDBMaxConns        = 20
	DefaultDBMaxConnIdleTime = 5 * time.Minute
	DefaultDBMaxConnLifetime = 30 * time.Minute
)
