// Package settle pays out a verified mission: experience, badge, checklist
// sync and the success notification. The status transition is the only
// gate; every step after it is individually idempotent, so a retry after a
// partial failure never double-grants.
package settle

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/replantlab/missiond/internal/domain"
	"github.com/replantlab/missiond/internal/logger"
	"github.com/replantlab/missiond/internal/metrics"
	"github.com/replantlab/missiond/internal/notify"
	"github.com/replantlab/missiond/internal/repository"
)

type Service interface {
	// Settle moves the instance to COMPLETED and applies the rewards.
	// Settling an already-COMPLETED instance is a no-op; any other
	// concurrent transition surfaces as ErrAlreadyVerified.
	Settle(ctx context.Context, instance *domain.MissionInstance, def *domain.MissionDefinition, proof *domain.ProofRecord) (*domain.VerificationResult, error)
}

type service struct {
	instances   repository.Instance
	progression repository.Progression
	badges      repository.Badge
	checklists  repository.Checklist
	notifier    notify.Notifier
}

func NewService(
	instances repository.Instance,
	progression repository.Progression,
	badges repository.Badge,
	checklists repository.Checklist,
	notifier notify.Notifier,
) Service {
	return &service{
		instances:   instances,
		progression: progression,
		badges:      badges,
		checklists:  checklists,
		notifier:    notifier,
	}
}

func (s *service) Settle(ctx context.Context, instance *domain.MissionInstance, def *domain.MissionDefinition, proof *domain.ProofRecord) (*domain.VerificationResult, error) {
	log := logger.FromContext(ctx)

	ok, err := s.instances.TransitionStatus(ctx, instance.ID, instance.Status, domain.StatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("failed to complete instance: %w", err)
	}
	if !ok {
		current, err := s.instances.GetByID(ctx, instance.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to re-read instance: %w", err)
		}
		if current.Status == domain.StatusCompleted {
			log.Info(LogMsgAlreadySettled, "instance_id", instance.ID)
			return &domain.VerificationResult{
				InstanceID: instance.ID,
				Status:     domain.StatusCompleted,
				Proof:      proof,
			}, nil
		}
		return nil, domain.ErrAlreadyVerified
	}

	now := time.Now()
	result := &domain.VerificationResult{
		InstanceID: instance.ID,
		Status:     domain.StatusCompleted,
		Proof:      proof,
	}

	// Reward failures after the transition are logged, not returned: the
	// mission is completed either way and none of the remaining steps can
	// roll that back.
	exp := Reward(def, proof)
	if exp > 0 {
		if err := s.progression.AddExperience(ctx, instance.UserID, exp); err != nil {
			log.Error(LogMsgExpGrantFailed,
				"user_id", instance.UserID,
				"instance_id", instance.ID,
				"amount", exp,
				"error", err)
		} else {
			result.ExpGranted = exp
			metrics.ExpGranted.Add(float64(exp))
		}
	}

	badge := &domain.Badge{
		UserID:       instance.UserID,
		DefinitionID: def.ID,
		InstanceID:   instance.ID,
		IssuedAt:     now,
		ExpiresAt:    now.Add(def.BadgeDuration()),
	}
	issued, err := s.badges.IssueIfAbsent(ctx, badge)
	if err != nil {
		log.Error(LogMsgBadgeIssueFailed,
			"user_id", instance.UserID,
			"instance_id", instance.ID,
			"error", err)
	} else if issued {
		result.Badge = badge
		metrics.BadgesIssued.Inc()
	}

	synced, err := s.checklists.CompleteEntries(ctx, instance.UserID, def.ID, now)
	if err != nil {
		log.Error(LogMsgChecklistSyncFailed,
			"user_id", instance.UserID,
			"definition_id", def.ID,
			"error", err)
	} else if synced > 0 {
		metrics.ChecklistEntriesSynced.Add(float64(synced))
	}

	s.notifySuccess(ctx, instance, def, result.ExpGranted)

	metrics.Settlements.Inc()
	log.Info(LogMsgMissionSettled,
		"user_id", instance.UserID,
		"instance_id", instance.ID,
		"definition_id", def.ID,
		"exp_granted", result.ExpGranted,
		"badge_issued", result.Badge != nil)

	return result, nil
}

// notifySuccess submits the completion notification with a short timeout.
// The request context is not reused for cancellation: settlement already
// happened, so an aborted request must not suppress the message.
func (s *service) notifySuccess(ctx context.Context, instance *domain.MissionInstance, def *domain.MissionDefinition, exp int) {
	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), NotifyTimeout)
	defer cancel()

	notification := domain.Notification{
		UserID:        instance.UserID,
		Category:      domain.NotifyVerificationApproved,
		Title:         "Mission complete",
		Body:          fmt.Sprintf("%s verified, +%d exp", def.Title, exp),
		ReferenceType: "mission_instance",
		ReferenceID:   instance.ID,
	}
	if err := s.notifier.Notify(nctx, notification); err != nil {
		logger.FromContext(ctx).Warn("Failed to submit completion notification",
			"user_id", instance.UserID,
			"instance_id", instance.ID,
			"error", err)
	}
}

// Reward computes the exp payout: the definition's base reward scaled by the
// proof's completion rate, clamped to [0,100] and defaulting to full.
func Reward(def *domain.MissionDefinition, proof *domain.ProofRecord) int {
	rate := DefaultCompletionRate
	if proof != nil && proof.CompletionRate != nil {
		rate = *proof.CompletionRate
		if rate < MinCompletionRate {
			rate = MinCompletionRate
		}
		if rate > MaxCompletionRate {
			rate = MaxCompletionRate
		}
	}
	return int(math.Round(float64(def.BaseReward()) * float64(rate) / 100.0))
}
