// Package verify dispatches proof submissions to the per-type checks and
// drives the community review flow. A successful check hands off to the
// settlement service; community-verified proofs park the instance in
// PENDING_REVIEW until the vote quorum decides.
package verify

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/replantlab/missiond/internal/catalog"
	"github.com/replantlab/missiond/internal/domain"
	"github.com/replantlab/missiond/internal/logger"
	"github.com/replantlab/missiond/internal/metrics"
	"github.com/replantlab/missiond/internal/notify"
	"github.com/replantlab/missiond/internal/repository"
	"github.com/replantlab/missiond/internal/settle"
)

// Input carries the proof payload of a verification attempt. Which fields
// are required depends on the definition's verification type.
type Input struct {
	Latitude       *float64   `json:"latitude,omitempty"`
	Longitude      *float64   `json:"longitude,omitempty"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	EndedAt        *time.Time `json:"ended_at,omitempty"`
	PostID         *int64     `json:"post_id,omitempty"`
	CompletionRate *int       `json:"completion_rate,omitempty"`
}

type Service interface {
	// Verify checks the proof against the instance's definition and, for
	// everything but community-verified missions, settles on success.
	Verify(ctx context.Context, instanceID int64, userID string, input Input) (*domain.VerificationResult, error)

	// CastVote records a peer vote on the proof attached to a post. The
	// vote that reaches the quorum closes the review.
	CastVote(ctx context.Context, postID int64, voterID string, approve bool) (*domain.VoteResult, error)

	// Withdraw removes a pending community-vote proof and returns the
	// instance to ASSIGNED.
	Withdraw(ctx context.Context, instanceID int64, userID string) error
}

type service struct {
	instances repository.Instance
	proofs    repository.Proof
	votes     repository.Vote
	posts     repository.Post
	catalog   catalog.Provider
	settler   settle.Service
	notifier  notify.Notifier
	quorum    int
}

func NewService(
	instances repository.Instance,
	proofs repository.Proof,
	votes repository.Vote,
	posts repository.Post,
	catalogProvider catalog.Provider,
	settler settle.Service,
	notifier notify.Notifier,
	quorum int,
) Service {
	return &service{
		instances: instances,
		proofs:    proofs,
		votes:     votes,
		posts:     posts,
		catalog:   catalogProvider,
		settler:   settler,
		notifier:  notifier,
		quorum:    quorum,
	}
}

func (s *service) Verify(ctx context.Context, instanceID int64, userID string, input Input) (*domain.VerificationResult, error) {
	instance, err := s.instances.GetByID(ctx, instanceID)
	if err != nil {
		return nil, err
	}
	if instance.UserID != userID {
		return nil, domain.ErrForbidden
	}
	if instance.Status.Terminal() {
		return nil, domain.ErrAlreadyVerified
	}
	if instance.Status == domain.StatusPendingReview {
		return nil, domain.ErrProofAlreadyExists
	}

	def, err := s.catalog.GetDefinition(ctx, instance.DefinitionID)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	switch def.VerificationType {
	case domain.VerificationGPS:
		return s.verifyGPS(ctx, instance, def, input, now)
	case domain.VerificationDuration:
		return s.verifyDuration(ctx, instance, def, input, now)
	case domain.VerificationTimeBoxed:
		return s.verifyTimeBoxed(ctx, instance, def, input, now)
	case domain.VerificationMeal:
		return s.verifyMeal(ctx, instance, def, input, now)
	case domain.VerificationCommunityVote:
		return s.submitForReview(ctx, instance, input, now)
	default:
		return nil, fmt.Errorf("%w: unknown verification type %q", domain.ErrInvalidInput, def.VerificationType)
	}
}

func (s *service) verifyGPS(ctx context.Context, instance *domain.MissionInstance, def *domain.MissionDefinition, input Input, now time.Time) (*domain.VerificationResult, error) {
	if input.Latitude == nil || input.Longitude == nil {
		return nil, fmt.Errorf("%w: latitude and longitude are required", domain.ErrInvalidGPSData)
	}
	if def.GPSTarget == nil {
		return nil, fmt.Errorf("%w: definition %d has no target coordinate", domain.ErrInvalidGPSData, def.ID)
	}

	distance := HaversineMeters(*input.Latitude, *input.Longitude, def.GPSTarget.Latitude, def.GPSTarget.Longitude)
	if distance > float64(def.Radius()) {
		metrics.Verifications.WithLabelValues(string(domain.VerificationGPS), metrics.ResultFailed).Inc()
		return nil, fmt.Errorf("%w: %.0fm from target, radius %dm", domain.ErrOutOfRange, distance, def.Radius())
	}

	meters := int(math.Round(distance))
	proof := &domain.ProofRecord{
		InstanceID:     instance.ID,
		Type:           domain.VerificationGPS,
		VerifiedAt:     now,
		Latitude:       input.Latitude,
		Longitude:      input.Longitude,
		DistanceMeters: &meters,
		CompletionRate: input.CompletionRate,
	}
	return s.attachAndSettle(ctx, instance, def, proof)
}

func (s *service) verifyDuration(ctx context.Context, instance *domain.MissionInstance, def *domain.MissionDefinition, input Input, now time.Time) (*domain.VerificationResult, error) {
	if input.StartedAt == nil || input.EndedAt == nil {
		return nil, fmt.Errorf("%w: start and end times are required", domain.ErrInvalidTimeData)
	}
	if input.EndedAt.Before(*input.StartedAt) {
		return nil, fmt.Errorf("%w: end precedes start", domain.ErrInvalidTimeData)
	}

	elapsed := int(input.EndedAt.Sub(*input.StartedAt).Minutes())
	required := 0
	if def.RequiredMinutes != nil {
		required = *def.RequiredMinutes
	}
	if elapsed < required {
		metrics.Verifications.WithLabelValues(string(domain.VerificationDuration), metrics.ResultFailed).Inc()
		return nil, fmt.Errorf("%w: %d of %d minutes", domain.ErrInsufficientDuration, elapsed, required)
	}

	proof := &domain.ProofRecord{
		InstanceID:     instance.ID,
		Type:           domain.VerificationDuration,
		VerifiedAt:     now,
		StartedAt:      input.StartedAt,
		EndedAt:        input.EndedAt,
		ElapsedMinutes: &elapsed,
		CompletionRate: input.CompletionRate,
	}
	return s.attachAndSettle(ctx, instance, def, proof)
}

func (s *service) verifyTimeBoxed(ctx context.Context, instance *domain.MissionInstance, def *domain.MissionDefinition, input Input, now time.Time) (*domain.VerificationResult, error) {
	if now.Sub(instance.AssignedAt) >= TimeBoxedLimit {
		s.failInstance(ctx, instance)
		metrics.Verifications.WithLabelValues(string(domain.VerificationTimeBoxed), metrics.ResultFailed).Inc()
		return nil, domain.ErrWindowExpired
	}

	elapsed := int(now.Sub(instance.AssignedAt).Minutes())
	proof := &domain.ProofRecord{
		InstanceID:     instance.ID,
		Type:           domain.VerificationTimeBoxed,
		VerifiedAt:     now,
		StartedAt:      &instance.AssignedAt,
		EndedAt:        &now,
		ElapsedMinutes: &elapsed,
		CompletionRate: input.CompletionRate,
	}
	return s.attachAndSettle(ctx, instance, def, proof)
}

func (s *service) verifyMeal(ctx context.Context, instance *domain.MissionInstance, def *domain.MissionDefinition, input Input, now time.Time) (*domain.VerificationResult, error) {
	if now.After(instance.Deadline) {
		s.failInstance(ctx, instance)
		metrics.Verifications.WithLabelValues(string(domain.VerificationMeal), metrics.ResultFailed).Inc()
		return nil, domain.ErrWindowExpired
	}

	post, err := s.ownedPost(ctx, instance.UserID, input.PostID)
	if err != nil {
		return nil, err
	}

	proof := &domain.ProofRecord{
		InstanceID:     instance.ID,
		Type:           domain.VerificationMeal,
		VerifiedAt:     now,
		PostID:         &post.ID,
		CompletionRate: input.CompletionRate,
	}
	return s.attachAndSettle(ctx, instance, def, proof)
}

// submitForReview is the first half of community verification: attach the
// proof and park the instance until votes decide.
func (s *service) submitForReview(ctx context.Context, instance *domain.MissionInstance, input Input, now time.Time) (*domain.VerificationResult, error) {
	post, err := s.ownedPost(ctx, instance.UserID, input.PostID)
	if err != nil {
		return nil, err
	}

	proof := &domain.ProofRecord{
		InstanceID:     instance.ID,
		Type:           domain.VerificationCommunityVote,
		VerifiedAt:     now,
		PostID:         &post.ID,
		CompletionRate: input.CompletionRate,
	}

	id, err := s.proofs.Create(ctx, proof)
	if err != nil {
		return nil, err
	}
	proof.ID = id

	if err := s.instances.SetProof(ctx, instance.ID, id); err != nil {
		return nil, fmt.Errorf("failed to attach proof: %w", err)
	}

	ok, err := s.instances.TransitionStatus(ctx, instance.ID, domain.StatusAssigned, domain.StatusPendingReview)
	if err != nil {
		return nil, fmt.Errorf("failed to submit for review: %w", err)
	}
	if !ok {
		// Lost a race; unwind the proof so the winner's state stands.
		if clearErr := s.instances.ClearProof(ctx, instance.ID); clearErr == nil {
			_ = s.proofs.Delete(ctx, id)
		}
		return nil, domain.ErrAlreadyVerified
	}

	metrics.Verifications.WithLabelValues(string(domain.VerificationCommunityVote), metrics.ResultPendingReview).Inc()
	logger.FromContext(ctx).Info(LogMsgProofAccepted,
		"instance_id", instance.ID,
		"type", domain.VerificationCommunityVote,
		"post_id", post.ID)

	return &domain.VerificationResult{
		InstanceID: instance.ID,
		Status:     domain.StatusPendingReview,
		Proof:      proof,
	}, nil
}

func (s *service) CastVote(ctx context.Context, postID int64, voterID string, approve bool) (*domain.VoteResult, error) {
	proof, err := s.proofs.GetByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}

	instance, err := s.instances.GetByID(ctx, proof.InstanceID)
	if err != nil {
		return nil, err
	}
	if instance.Status != domain.StatusPendingReview {
		return nil, domain.ErrVotingNotAllowed
	}
	if voterID == instance.UserID {
		return nil, domain.ErrSelfVoteNotAllowed
	}

	tally, err := s.votes.RecordVote(ctx, proof.ID, voterID, approve)
	if err != nil {
		return nil, err
	}

	voteLabel := metrics.VoteReject
	if approve {
		voteLabel = metrics.VoteApprove
	}
	metrics.VotesCast.WithLabelValues(voteLabel).Inc()
	logger.FromContext(ctx).Info(LogMsgVoteCast,
		"post_id", postID,
		"proof_id", proof.ID,
		"approve", approve,
		"approve_count", tally.ApproveCount,
		"reject_count", tally.RejectCount)

	status := domain.StatusPendingReview

	// Every vote at or past the quorum may attempt the close. The status
	// CAS and Settle's own gate keep it exactly-once, and a transient
	// settlement failure heals on the next vote instead of wedging the
	// instance in review.
	switch {
	case approve && tally.ApproveCount >= s.quorum:
		if err := s.approveReview(ctx, instance, proof, tally); err != nil {
			return nil, err
		}
		status = domain.StatusCompleted
	case !approve && tally.RejectCount >= s.quorum:
		closed, err := s.rejectReview(ctx, instance)
		if err != nil {
			return nil, err
		}
		status = closed
	}

	return &domain.VoteResult{
		PostID:       postID,
		ApproveCount: tally.ApproveCount,
		RejectCount:  tally.RejectCount,
		Status:       status,
	}, nil
}

func (s *service) approveReview(ctx context.Context, instance *domain.MissionInstance, proof *domain.ProofRecord, tally domain.VoteTally) error {
	def, err := s.catalog.GetDefinition(ctx, instance.DefinitionID)
	if err != nil {
		return err
	}

	proof.ApproveCount = tally.ApproveCount
	proof.RejectCount = tally.RejectCount

	if _, err := s.settler.Settle(ctx, instance, def, proof); err != nil {
		if errors.Is(err, domain.ErrAlreadyVerified) {
			// An earlier vote already settled; nothing left to do.
			return nil
		}
		return err
	}
	metrics.Verifications.WithLabelValues(string(domain.VerificationCommunityVote), metrics.ResultCompleted).Inc()
	return nil
}

// rejectReview closes the review as FAILED and reports where the instance
// actually landed. A lost CAS means another path closed it first; the current
// status is returned rather than claiming the rejection.
func (s *service) rejectReview(ctx context.Context, instance *domain.MissionInstance) (domain.InstanceStatus, error) {
	ok, err := s.instances.TransitionStatus(ctx, instance.ID, domain.StatusPendingReview, domain.StatusFailed)
	if err != nil {
		return "", fmt.Errorf("failed to close review: %w", err)
	}
	if !ok {
		current, err := s.instances.GetByID(ctx, instance.ID)
		if err != nil {
			return "", err
		}
		return current.Status, nil
	}

	metrics.Verifications.WithLabelValues(string(domain.VerificationCommunityVote), metrics.ResultRejected).Inc()
	_ = s.notifier.Notify(ctx, domain.Notification{
		UserID:        instance.UserID,
		Category:      domain.NotifyVerificationRejected,
		Title:         "Verification rejected",
		Body:          "The community rejected your mission proof",
		ReferenceType: "mission_instance",
		ReferenceID:   instance.ID,
	})
	return domain.StatusFailed, nil
}

func (s *service) Withdraw(ctx context.Context, instanceID int64, userID string) error {
	instance, err := s.instances.GetByID(ctx, instanceID)
	if err != nil {
		return err
	}
	if instance.UserID != userID {
		return domain.ErrForbidden
	}
	if instance.Status != domain.StatusPendingReview {
		return domain.ErrNotPendingReview
	}

	ok, err := s.instances.TransitionStatus(ctx, instanceID, domain.StatusPendingReview, domain.StatusAssigned)
	if err != nil {
		return fmt.Errorf("failed to withdraw proof: %w", err)
	}
	if !ok {
		return domain.ErrNotPendingReview
	}

	if instance.ProofID != nil {
		if err := s.instances.ClearProof(ctx, instanceID); err != nil {
			return fmt.Errorf("failed to detach proof: %w", err)
		}
		if err := s.proofs.Delete(ctx, *instance.ProofID); err != nil {
			return fmt.Errorf("failed to delete proof: %w", err)
		}
	}

	logger.FromContext(ctx).Info(LogMsgProofWithdrawn,
		"instance_id", instanceID,
		"user_id", userID)
	return nil
}

// attachAndSettle persists the proof and completes the instance. The unique
// proof-per-instance constraint makes the concurrent double-submit lose at
// Create rather than double-settle.
func (s *service) attachAndSettle(ctx context.Context, instance *domain.MissionInstance, def *domain.MissionDefinition, proof *domain.ProofRecord) (*domain.VerificationResult, error) {
	id, err := s.proofs.Create(ctx, proof)
	if err != nil {
		return nil, err
	}
	proof.ID = id

	if err := s.instances.SetProof(ctx, instance.ID, id); err != nil {
		return nil, fmt.Errorf("failed to attach proof: %w", err)
	}

	result, err := s.settler.Settle(ctx, instance, def, proof)
	if err != nil {
		return nil, err
	}

	metrics.Verifications.WithLabelValues(string(proof.Type), metrics.ResultCompleted).Inc()
	logger.FromContext(ctx).Info(LogMsgProofAccepted,
		"instance_id", instance.ID,
		"type", proof.Type,
		"proof_id", id)

	return result, nil
}

// ownedPost resolves a referenced community post and checks authorship.
func (s *service) ownedPost(ctx context.Context, userID string, postID *int64) (*domain.PostRef, error) {
	if postID == nil {
		return nil, fmt.Errorf("%w: post id is required", domain.ErrInvalidInput)
	}
	post, err := s.posts.GetPost(ctx, *postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != userID {
		return nil, domain.ErrNotPostAuthor
	}
	return post, nil
}

// failInstance marks an instance FAILED after a missed window. Best effort:
// the sweep catches anything this misses.
func (s *service) failInstance(ctx context.Context, instance *domain.MissionInstance) {
	ok, err := s.instances.TransitionStatus(ctx, instance.ID, domain.StatusAssigned, domain.StatusFailed)
	if err != nil {
		logger.FromContext(ctx).Error(LogMsgFailTransitionError,
			"instance_id", instance.ID,
			"error", err)
		return
	}
	if ok {
		logger.FromContext(ctx).Info(LogMsgInstanceFailed, "instance_id", instance.ID)
	}
}
