package notify

import (
	"context"
	"sync"
	"time"

	"github.com/replantlab/missiond/internal/domain"
	"github.com/replantlab/missiond/internal/logger"
)

// DefaultRetryQueueSize bounds the number of notifications waiting on a retry
const DefaultRetryQueueSize = 256

type retryEntry struct {
	notification domain.Notification
	attempts     int
	lastErr      error
}

// ResilientNotifier wraps a Notifier with background retries and a
// dead-letter file. Notify never returns a delivery error to the caller;
// acceptance means "will be delivered or dead-lettered".
type ResilientNotifier struct {
	inner      Notifier
	retryQueue chan retryEntry
	maxRetries int
	retryDelay time.Duration
	deadLetter *DeadLetterWriter
	shutdown   chan struct{}
	wg         sync.WaitGroup
}

// NewResilientNotifier creates a ResilientNotifier and starts its retry worker
func NewResilientNotifier(inner Notifier, maxRetries int, retryDelay time.Duration, deadLetterPath string) (*ResilientNotifier, error) {
	dl, err := NewDeadLetterWriter(deadLetterPath)
	if err != nil {
		return nil, err
	}

	rn := &ResilientNotifier{
		inner:      inner,
		retryQueue: make(chan retryEntry, DefaultRetryQueueSize),
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		deadLetter: dl,
		shutdown:   make(chan struct{}),
	}

	rn.wg.Add(1)
	go rn.retryWorker()

	return rn, nil
}

// Notify attempts delivery once and hands failures to the retry worker.
// Always returns nil: callers fired and forgot.
func (rn *ResilientNotifier) Notify(ctx context.Context, notification domain.Notification) error {
	err := rn.inner.Notify(ctx, notification)
	if err == nil {
		return nil
	}

	logger.FromContext(ctx).Warn("Failed to send notification, queuing retry",
		"user_id", notification.UserID,
		"category", notification.Category,
		"error", err)

	entry := retryEntry{notification: notification, attempts: 1, lastErr: err}
	select {
	case rn.retryQueue <- entry:
	default:
		// Queue full: dead-letter immediately rather than block the caller.
		if dlErr := rn.deadLetter.Write(notification, entry.attempts, err); dlErr != nil {
			logger.FromContext(ctx).Error("Failed to write dead letter", "error", dlErr)
		}
	}

	return nil
}

func (rn *ResilientNotifier) retryWorker() {
	defer rn.wg.Done()
	for {
		select {
		case entry := <-rn.retryQueue:
			rn.processRetry(entry)
		case <-rn.shutdown:
			// Drain what is already queued before exiting.
			for {
				select {
				case entry := <-rn.retryQueue:
					rn.processRetry(entry)
				default:
					return
				}
			}
		}
	}
}

// processRetry retries with exponential backoff, then dead-letters.
// The original request context may be gone by now, so retries run against
// the background context.
func (rn *ResilientNotifier) processRetry(entry retryEntry) {
	ctx := context.Background()

	for attempt := entry.attempts; attempt <= rn.maxRetries; attempt++ {
		delay := rn.retryDelay * time.Duration(1<<(attempt-1))
		select {
		case <-time.After(delay):
		case <-rn.shutdown:
			// Shutting down: attempt immediately instead of waiting out
			// the backoff.
		}

		err := rn.inner.Notify(ctx, entry.notification)
		if err == nil {
			logger.FromContext(ctx).Info("Notification delivered after retry",
				"user_id", entry.notification.UserID,
				"attempt", attempt)
			return
		}

		entry.lastErr = err
		entry.attempts = attempt
		logger.FromContext(ctx).Warn("Notification retry failed",
			"user_id", entry.notification.UserID,
			"attempt", attempt,
			"error", err)
	}

	if err := rn.deadLetter.Write(entry.notification, entry.attempts, entry.lastErr); err != nil {
		logger.FromContext(ctx).Error("Failed to write dead letter", "error", err)
	}
}

// Shutdown stops the retry worker, draining queued retries first
func (rn *ResilientNotifier) Shutdown(ctx context.Context) error {
	close(rn.shutdown)

	done := make(chan struct{})
	go func() {
		rn.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return rn.deadLetter.Close()
	case <-ctx.Done():
		return ctx.Err()
	}
}
