// Package assign runs the minute tick that turns schedule profiles into
// mission instances, and the self-add flow for custom missions. One user
// failing, timing out or panicking never aborts the rest of a tick.
package assign

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/replantlab/missiond/internal/catalog"
	"github.com/replantlab/missiond/internal/clock"
	"github.com/replantlab/missiond/internal/domain"
	"github.com/replantlab/missiond/internal/logger"
	"github.com/replantlab/missiond/internal/metrics"
	"github.com/replantlab/missiond/internal/notify"
	"github.com/replantlab/missiond/internal/repository"
)

type Service interface {
	// RunTick assigns missions for every trigger category whose users'
	// configured time matches the current minute.
	RunTick(ctx context.Context, now time.Time) error

	// AddCustomMission creates a user-authored definition and immediately
	// assigns it to the author.
	AddCustomMission(ctx context.Context, userID string, def *domain.MissionDefinition) (*domain.MissionInstance, error)

	// ListUserMissions returns the user's instances for the calendar day
	// containing t.
	ListUserMissions(ctx context.Context, userID string, t time.Time) ([]domain.MissionInstance, error)

	// UpdateSchedule normalizes and stores the user's trigger times.
	UpdateSchedule(ctx context.Context, profile *domain.UserScheduleProfile) error
}

type service struct {
	catalog     catalog.Provider
	profiles    repository.Profile
	instances   repository.Instance
	notifier    notify.Notifier
	clock       *clock.Matcher
	workers     int
	userTimeout time.Duration
}

func NewService(
	catalogProvider catalog.Provider,
	profiles repository.Profile,
	instances repository.Instance,
	notifier notify.Notifier,
	matcher *clock.Matcher,
	workers int,
	userTimeout time.Duration,
) Service {
	return &service{
		catalog:     catalogProvider,
		profiles:    profiles,
		instances:   instances,
		notifier:    notifier,
		clock:       matcher,
		workers:     workers,
		userTimeout: userTimeout,
	}
}

func (s *service) RunTick(ctx context.Context, now time.Time) error {
	log := logger.FromContext(ctx)
	for _, category := range domain.TriggerCategories {
		if err := s.runCategory(ctx, category, now); err != nil {
			log.Error(LogMsgCategoryTickFailed, "category", category, "error", err)
		}
	}
	return nil
}

func (s *service) runCategory(ctx context.Context, category domain.TriggerCategory, now time.Time) error {
	log := logger.FromContext(ctx)

	minute := now.In(s.clock.Location()).Format("15:04")
	profiles, err := s.profiles.ListUsersWithTriggerTime(ctx, category, clock.Variants(minute))
	if err != nil {
		return fmt.Errorf("failed to list users for %s: %w", category, err)
	}
	if len(profiles) == 0 {
		return nil
	}

	// Fail-soft: a catalog outage skips this category for one minute
	// instead of failing the tick.
	defs, err := s.catalog.ListActiveByCategory(ctx, category)
	if err != nil {
		metrics.AssignmentsSkipped.WithLabelValues(metrics.SkipReasonCatalogError).Inc()
		log.Warn(LogMsgCatalogUnavailable, "category", category, "error", err)
		return nil
	}
	if len(defs) == 0 {
		return nil
	}

	sem := make(chan struct{}, s.workers)
	var wg sync.WaitGroup
	for i := range profiles {
		profile := profiles[i]
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			defer func() {
				if r := recover(); r != nil {
					log.Error(LogMsgAssignUserPanicked, "user_id", profile.UserID, "panic", r)
				}
			}()

			uctx, cancel := context.WithTimeout(ctx, s.userTimeout)
			defer cancel()
			s.assignUser(uctx, &profile, category, defs, now)
		}()
	}
	wg.Wait()

	return nil
}

func (s *service) assignUser(ctx context.Context, profile *domain.UserScheduleProfile, category domain.TriggerCategory, defs []domain.MissionDefinition, now time.Time) {
	log := logger.FromContext(ctx)

	// Anti-abuse cool-down: a schedule reconfigured today does not trigger
	// until tomorrow.
	if profile.ChangedOn(now, s.clock.Location()) {
		metrics.AssignmentsSkipped.WithLabelValues(metrics.SkipReasonScheduleCoolDown).Inc()
		log.Debug(LogMsgCoolDownSkip, "user_id", profile.UserID, "category", category)
		return
	}

	day := s.clock.Today(now)
	for i := range defs {
		def := &defs[i]

		exists, err := s.instances.ExistsOpenForDay(ctx, profile.UserID, def.ID, day)
		if err != nil {
			log.Error(LogMsgDuplicateGuardError,
				"user_id", profile.UserID,
				"definition_id", def.ID,
				"error", err)
			continue
		}
		if exists {
			metrics.AssignmentsSkipped.WithLabelValues(metrics.SkipReasonDuplicate).Inc()
			continue
		}

		instance := &domain.MissionInstance{
			UserID:       profile.UserID,
			DefinitionID: def.ID,
			Category:     category,
			AssignedAt:   now,
			AssignedOn:   day,
			Deadline:     now.Add(windowFor(category, def)),
			Status:       domain.StatusAssigned,
		}

		created, err := s.instances.CreateIfAbsent(ctx, instance)
		if err != nil {
			log.Error(LogMsgAssignFailed,
				"user_id", profile.UserID,
				"definition_id", def.ID,
				"error", err)
			continue
		}
		if !created {
			// Lost the insert race to a concurrent tick.
			metrics.AssignmentsSkipped.WithLabelValues(metrics.SkipReasonDuplicate).Inc()
			continue
		}

		metrics.MissionsAssigned.WithLabelValues(string(category)).Inc()
		log.Info(LogMsgMissionAssigned,
			"user_id", profile.UserID,
			"definition_id", def.ID,
			"instance_id", instance.ID,
			"category", category,
			"deadline", instance.Deadline)

		_ = s.notifier.Notify(ctx, domain.Notification{
			UserID:        profile.UserID,
			Category:      domain.NotifyMissionAssigned,
			Title:         "New mission",
			Body:          def.Title,
			ReferenceType: "mission_instance",
			ReferenceID:   instance.ID,
		})
	}
}

// windowFor returns the verification window for a trigger category, falling
// back to the definition's own window for untriggered missions.
func windowFor(category domain.TriggerCategory, def *domain.MissionDefinition) time.Duration {
	switch category {
	case domain.TriggerWakeUp:
		return domain.WakeUpWindowMinutes * time.Minute
	case domain.TriggerBreakfast, domain.TriggerLunch, domain.TriggerDinner:
		return domain.MealWindowMinutes * time.Minute
	}
	if def.WindowMinutes != nil && *def.WindowMinutes > 0 {
		return time.Duration(*def.WindowMinutes) * time.Minute
	}
	return domain.MealWindowMinutes * time.Minute
}

func (s *service) AddCustomMission(ctx context.Context, userID string, def *domain.MissionDefinition) (*domain.MissionInstance, error) {
	def.OwnerID = &userID

	id, err := s.catalog.CreateCustomDefinition(ctx, def)
	if err != nil {
		return nil, err
	}

	days := DefaultCustomDurationDays
	if def.DurationDays != nil && *def.DurationDays > 0 {
		days = *def.DurationDays
	}

	now := s.clock.Now()
	instance := &domain.MissionInstance{
		UserID:       userID,
		DefinitionID: id,
		AssignedAt:   now,
		AssignedOn:   s.clock.Today(now),
		Deadline:     now.AddDate(0, 0, days),
		Status:       domain.StatusAssigned,
	}

	created, err := s.instances.CreateIfAbsent(ctx, instance)
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, domain.ErrDuplicateAssignment
	}

	logger.FromContext(ctx).Info(LogMsgMissionAssigned,
		"user_id", userID,
		"definition_id", id,
		"instance_id", instance.ID,
		"custom", true)

	return instance, nil
}

func (s *service) ListUserMissions(ctx context.Context, userID string, t time.Time) ([]domain.MissionInstance, error) {
	return s.instances.ListForUser(ctx, userID, s.clock.Today(t))
}

func (s *service) UpdateSchedule(ctx context.Context, profile *domain.UserScheduleProfile) error {
	for _, raw := range []*string{&profile.WakeTime, &profile.BreakfastTime, &profile.LunchTime, &profile.DinnerTime} {
		if *raw == "" {
			continue
		}
		normalized, err := clock.Normalize(*raw)
		if err != nil {
			return err
		}
		*raw = normalized
	}
	return s.profiles.UpdateSchedule(ctx, profile)
}
