// Package sweep is the hourly pass that fails overdue missions and closes
// finished checklists. Only ASSIGNED rows are touched: pending reviews wait
// for their vote and terminal rows are already decided.
package sweep

import (
	"context"
	"fmt"
	"time"

	"github.com/replantlab/missiond/internal/domain"
	"github.com/replantlab/missiond/internal/logger"
	"github.com/replantlab/missiond/internal/metrics"
	"github.com/replantlab/missiond/internal/repository"
)

// DefaultBatchSize bounds how many expired instances one pass loads at a time
const DefaultBatchSize = 500

// Log messages
const (
	LogMsgSweepComplete        = "Expiration sweep complete"
	LogMsgExpireFailed         = "Failed to expire instance"
	LogMsgChecklistCloseFailed = "Failed to auto-complete checklists"
)

type Service interface {
	// Run expires overdue ASSIGNED instances and auto-completes checklists
	// whose entries are all done.
	Run(ctx context.Context, now time.Time) error
}

type service struct {
	instances  repository.Instance
	checklists repository.Checklist
	batchSize  int
}

func NewService(instances repository.Instance, checklists repository.Checklist) Service {
	return &service{
		instances:  instances,
		checklists: checklists,
		batchSize:  DefaultBatchSize,
	}
}

func (s *service) Run(ctx context.Context, now time.Time) error {
	log := logger.FromContext(ctx)

	expired := 0
	for {
		batch, err := s.instances.ListExpired(ctx, now, s.batchSize)
		if err != nil {
			return fmt.Errorf("failed to list expired instances: %w", err)
		}
		if len(batch) == 0 {
			break
		}

		progressed := 0
		for _, instance := range batch {
			ok, err := s.instances.TransitionStatus(ctx, instance.ID, domain.StatusAssigned, domain.StatusFailed)
			if err != nil {
				// One bad row must not abort the sweep.
				log.Error(LogMsgExpireFailed, "instance_id", instance.ID, "error", err)
				continue
			}
			progressed++
			if ok {
				expired++
				metrics.InstancesExpired.Inc()
			}
			// A false CAS means a verification beat us to the row; the
			// next listing no longer contains it either way.
		}

		// Rows that only ever error would be re-listed forever.
		if progressed == 0 || len(batch) < s.batchSize {
			break
		}
	}

	closed, err := s.checklists.AutoCompleteDone(ctx, now)
	if err != nil {
		log.Error(LogMsgChecklistCloseFailed, "error", err)
	} else if closed > 0 {
		metrics.ChecklistsCompleted.Add(float64(closed))
	}

	log.Info(LogMsgSweepComplete,
		"expired", expired,
		"checklists_closed", closed)
	return nil
}
