package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int
	LogLevel    string
	LogFormat   string
	LogDir      string
	Version     string
	Environment string

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	DBMaxConns        int
	DBMaxConnIdleTime time.Duration
	DBMaxConnLifetime time.Duration

	APIKey string // API key for authentication

	// TrustedProxies lists CIDRs allowed to set X-Forwarded-For.
	TrustedProxies []string

	// ReferenceTimezone anchors all HH:MM trigger matching and calendar-day
	// computations for every user, regardless of device locale.
	ReferenceTimezone string

	// Scheduler cadence
	AssignInterval time.Duration
	SweepInterval  time.Duration

	// Assignment fan-out
	AssignWorkers     int
	AssignUserTimeout time.Duration

	// Community vote
	VoteQuorum int

	// Catalog cache
	CatalogCacheSize int
	CatalogCacheTTL  time.Duration

	// Notifier retry policy
	NotifyMaxRetries    int
	NotifyRetryInterval time.Duration
	NotifyDeadLetterDir string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:    getEnv("LOG_LEVEL", "INFO"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
		LogDir:      getEnv("LOG_DIR", "logs"),
		Version:     getEnv("VERSION", "dev"),
		Environment: getEnv("ENVIRONMENT", "dev"),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  getEnv("DB_PASSWORD", "postgres"),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBName:      getEnv("DB_NAME", "missiond"),
		APIKey:      getEnv("API_KEY", ""),

		TrustedProxies:      splitCSV(getEnv("TRUSTED_PROXIES", "")),
		ReferenceTimezone:   getEnv("REFERENCE_TIMEZONE", DefaultReferenceTimezone),
		NotifyDeadLetterDir: getEnv("NOTIFY_DEAD_LETTER_DIR", "deadletter"),
	}

	var err error
	if cfg.Port, err = getEnvInt("PORT", 8080); err != nil {
		return nil, err
	}
	if cfg.AssignWorkers, err = getEnvInt("ASSIGN_WORKERS", DefaultAssignWorkers); err != nil {
		return nil, err
	}
	if cfg.VoteQuorum, err = getEnvInt("VOTE_QUORUM", DefaultVoteQuorum); err != nil {
		return nil, err
	}
	if cfg.CatalogCacheSize, err = getEnvInt("CATALOG_CACHE_SIZE", DefaultCatalogCacheSize); err != nil {
		return nil, err
	}
	if cfg.NotifyMaxRetries, err = getEnvInt("NOTIFY_MAX_RETRIES", DefaultNotifyMaxRetries); err != nil {
		return nil, err
	}
	if cfg.DBMaxConns, err = getEnvInt("DB_MAX_CONNS", DefaultDBMaxConns); err != nil {
		return nil, err
	}
	if cfg.DBMaxConnIdleTime, err = getEnvDuration("DB_MAX_CONN_IDLE_TIME", DefaultDBMaxConnIdleTime); err != nil {
		return nil, err
	}
	if cfg.DBMaxConnLifetime, err = getEnvDuration("DB_MAX_CONN_LIFETIME", DefaultDBMaxConnLifetime); err != nil {
		return nil, err
	}

	if cfg.AssignInterval, err = getEnvDuration("ASSIGN_INTERVAL", DefaultAssignInterval); err != nil {
		return nil, err
	}
	if cfg.SweepInterval, err = getEnvDuration("SWEEP_INTERVAL", DefaultSweepInterval); err != nil {
		return nil, err
	}
	if cfg.AssignUserTimeout, err = getEnvDuration("ASSIGN_USER_TIMEOUT", DefaultAssignUserTimeout); err != nil {
		return nil, err
	}
	if cfg.CatalogCacheTTL, err = getEnvDuration("CATALOG_CACHE_TTL", DefaultCatalogCacheTTL); err != nil {
		return nil, err
	}
	if cfg.NotifyRetryInterval, err = getEnvDuration("NOTIFY_RETRY_INTERVAL", DefaultNotifyRetryInterval); err != nil {
		return nil, err
	}

	if _, err := time.LoadLocation(cfg.ReferenceTimezone); err != nil {
		return nil, fmt.Errorf("invalid REFERENCE_TIMEZONE value %q: %w", cfg.ReferenceTimezone, err)
	}

	if cfg.VoteQuorum < 1 {
		return nil, fmt.Errorf("VOTE_QUORUM must be at least 1, got %d", cfg.VoteQuorum)
	}

	// Validate API key is set
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API_KEY environment variable must be set for security")
	}

	return cfg, nil
}

// splitCSV splits a comma-separated list, dropping empty entries
func splitCSV(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return n, nil
}

// getEnvDuration retrieves a duration environment variable or returns a default value
func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return d, nil
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
