package notify

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/replantlab/missiond/internal/domain"
	"github.com/replantlab/missiond/internal/logger"
)

// DeadLetterSchemaVersion is the current version of the dead-letter log format
// Increment this when changing the DeadLetterEntry structure
const DeadLetterSchemaVersion = "1.0"

// DeadLetterFilePermissions is the mode for newly created dead-letter files
const DeadLetterFilePermissions = 0644

// DeadLetterWriter handles writing undeliverable notifications to a file
type DeadLetterWriter struct {
	file *os.File
	mu   sync.Mutex
}

// DeadLetterEntry represents a notification that failed after all retries
type DeadLetterEntry struct {
	SchemaVersion string              `json:"schema_version"` // Format version for future migrations
	Timestamp     time.Time           `json:"timestamp"`
	Notification  domain.Notification `json:"notification"`
	Attempts      int                 `json:"attempts"`
	LastError     string              `json:"last_error,omitempty"`
}

// NewDeadLetterWriter creates a new DeadLetterWriter
func NewDeadLetterWriter(path string) (*DeadLetterWriter, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, DeadLetterFilePermissions)
	if err != nil {
		return nil, err
	}
	return &DeadLetterWriter{file: f}, nil
}

// Write appends a failed notification to the dead-letter file
func (dlw *DeadLetterWriter) Write(notification domain.Notification, attempts int, lastError error) error {
	dlw.mu.Lock()
	defer dlw.mu.Unlock()

	log := logger.FromContext(context.Background())
	log.Warn("notification_dead_lettered",
		"user_id", notification.UserID,
		"category", notification.Category,
		"attempts", attempts)

	entry := DeadLetterEntry{
		SchemaVersion: DeadLetterSchemaVersion,
		Timestamp:     time.Now(),
		Notification:  notification,
		Attempts:      attempts,
	}

	if lastError != nil {
		entry.LastError = lastError.Error()
	}

	data, _ := json.Marshal(entry)
	_, err := dlw.file.Write(append(data, '\n'))
	return err
}

// Close closes the dead-letter file
func (dlw *DeadLetterWriter) Close() error {
	return dlw.file.Close()
}
