package database

import "time"

// Connection pool constants
const (
	// DefaultMinConnections is the minimum number of connections kept warm
	// so scheduler ticks don't pay connection setup latency.
	DefaultMinConnections = 2

	// ConnectTimeout bounds the initial ping when the pool comes up.
	ConnectTimeout = 5 * time.Second
)

// Error messages
const (
	ErrMsgFailedToParseConnString = "failed to parse connection string"
	ErrMsgFailedToCreatePool      = "failed to create connection pool"
	ErrMsgFailedToPingDatabase    = "failed to ping database"
)

// Log messages
const (
	LogMsgConnectedToDatabase = "Connected to the database"
)
