// Package notify delivers fire-and-forget user notifications. Delivery
// failures never fail the operation that produced the notification; the
// resilient wrapper retries in the background and dead-letters what it
// cannot deliver.
package notify

import (
	"context"

	"github.com/replantlab/missiond/internal/domain"
	"github.com/replantlab/missiond/internal/logger"
)

// Notifier sends a notification to the user's device or inbox
type Notifier interface {
	Notify(ctx context.Context, notification domain.Notification) error
}

// LogNotifier writes notifications to the log. It stands in for the push
// gateway in development and tests.
type LogNotifier struct{}

// NewLogNotifier creates a new LogNotifier
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

// Notify logs the notification
func (n *LogNotifier) Notify(ctx context.Context, notification domain.Notification) error {
	logger.FromContext(ctx).Info("notification_sent",
		"user_id", notification.UserID,
		"category", notification.Category,
		"title", notification.Title,
		"reference_type", notification.ReferenceType,
		"reference_id", notification.ReferenceID)
	return nil
}
