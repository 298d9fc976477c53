package verify_bench

import (
	"context"
	"testing"
	"time"

	"github.com/replantlab/missiond/internal/domain"
	"github.com/replantlab/missiond/internal/repository"
	"github.com/replantlab/missiond/internal/settle"
	"github.com/replantlab/missiond/internal/verify"
)

// --- Stubs (Zero-overhead mocks for benchmarking) ---

type StubInstances struct {
	instance domain.MissionInstance
}

func (s *StubInstances) GetByID(ctx context.Context, id int64) (*domain.MissionInstance, error) {
	// Return a fresh copy to simulate a db fetch and allow safe mutation
	inst := s.instance
	inst.ID = id
	return &inst, nil
}
func (s *StubInstances) CreateIfAbsent(ctx context.Context, instance *domain.MissionInstance) (bool, error) {
	return true, nil
}
func (s *StubInstances) ExistsOpenForDay(ctx context.Context, userID string, definitionID int64, day time.Time) (bool, error) {
	return false, nil
}
func (s *StubInstances) TransitionStatus(ctx context.Context, id int64, from, to domain.InstanceStatus) (bool, error) {
	return true, nil
}
func (s *StubInstances) SetProof(ctx context.Context, id int64, proofID int64) error { return nil }
func (s *StubInstances) ClearProof(ctx context.Context, id int64) error              { return nil }
func (s *StubInstances) ListExpired(ctx context.Context, now time.Time, limit int) ([]domain.MissionInstance, error) {
	return nil, nil
}
func (s *StubInstances) ListForUser(ctx context.Context, userID string, day time.Time) ([]domain.MissionInstance, error) {
	return nil, nil
}

type StubProofs struct{}

func (s *StubProofs) Create(ctx context.Context, proof *domain.ProofRecord) (int64, error) {
	return 1, nil
}
func (s *StubProofs) GetByID(ctx context.Context, id int64) (*domain.ProofRecord, error) {
	return &domain.ProofRecord{ID: id, InstanceID: 1}, nil
}
func (s *StubProofs) GetByPostID(ctx context.Context, postID int64) (*domain.ProofRecord, error) {
	return &domain.ProofRecord{ID: 1, InstanceID: 1}, nil
}
func (s *StubProofs) Delete(ctx context.Context, id int64) error { return nil }

type StubVotes struct{}

func (s *StubVotes) RecordVote(ctx context.Context, proofID int64, voterID string, approve bool) (domain.VoteTally, error) {
	return domain.VoteTally{ApproveCount: 1}, nil
}
func (s *StubVotes) Tally(ctx context.Context, proofID int64) (domain.VoteTally, error) {
	return domain.VoteTally{}, nil
}

type StubPosts struct{}

func (s *StubPosts) GetPost(ctx context.Context, id int64) (*domain.PostRef, error) {
	return &domain.PostRef{ID: id, AuthorID: "runner-1"}, nil
}

type StubCatalog struct {
	def domain.MissionDefinition
}

func (s *StubCatalog) GetDefinition(ctx context.Context, id int64) (*domain.MissionDefinition, error) {
	def := s.def
	def.ID = id
	return &def, nil
}
func (s *StubCatalog) ListActiveByCategory(ctx context.Context, category domain.TriggerCategory) ([]domain.MissionDefinition, error) {
	return nil, nil
}
func (s *StubCatalog) CreateCustomDefinition(ctx context.Context, def *domain.MissionDefinition) (int64, error) {
	return 1, nil
}

type StubSettler struct{}

func (s *StubSettler) Settle(ctx context.Context, instance *domain.MissionInstance, def *domain.MissionDefinition, proof *domain.ProofRecord) (*domain.VerificationResult, error) {
	return &domain.VerificationResult{
		InstanceID: instance.ID,
		Status:     domain.StatusCompleted,
		ExpGranted: def.BaseReward(),
	}, nil
}

type StubNotifier struct{}

func (s *StubNotifier) Notify(ctx context.Context, notification domain.Notification) error {
	return nil
}

var _ settle.Service = (*StubSettler)(nil)
var _ repository.Instance = (*StubInstances)(nil)

func newBenchService(instances *StubInstances, cat *StubCatalog) verify.Service {
	return verify.NewService(
		instances,
		&StubProofs{},
		&StubVotes{},
		&StubPosts{},
		cat,
		&StubSettler{},
		&StubNotifier{},
		3,
	)
}

// BenchmarkVerify_GPS measures the full GPS verification path: instance
// fetch, definition fetch, distance check, settlement.
func BenchmarkVerify_GPS(b *testing.B) {
	now := time.Now()
	instances := &StubInstances{
		instance: domain.MissionInstance{
			UserID:       "runner-1",
			DefinitionID: 7,
			Status:       domain.StatusAssigned,
			AssignedAt:   now,
			Deadline:     now.Add(2 * time.Hour),
		},
	}
	cat := &StubCatalog{
		def: domain.MissionDefinition{
			VerificationType: domain.VerificationGPS,
			RewardExp:        50,
			GPSTarget: &domain.GPSTarget{
				Latitude:     37.5665,
				Longitude:    126.9780,
				RadiusMeters: 100,
			},
			Active: true,
		},
	}
	svc := newBenchService(instances, cat)

	lat, lon := 37.5668, 126.9784
	input := verify.Input{Latitude: &lat, Longitude: &lon}
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := svc.Verify(ctx, 1, "runner-1", input); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkVerify_Duration measures the duration verification path.
func BenchmarkVerify_Duration(b *testing.B) {
	now := time.Now()
	required := 30
	instances := &StubInstances{
		instance: domain.MissionInstance{
			UserID:       "runner-1",
			DefinitionID: 8,
			Status:       domain.StatusAssigned,
			AssignedAt:   now,
			Deadline:     now.Add(2 * time.Hour),
		},
	}
	cat := &StubCatalog{
		def: domain.MissionDefinition{
			VerificationType: domain.VerificationDuration,
			RewardExp:        30,
			RequiredMinutes:  &required,
			Active:           true,
		},
	}
	svc := newBenchService(instances, cat)

	start := now.Add(-45 * time.Minute)
	input := verify.Input{StartedAt: &start, EndedAt: &now}
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := svc.Verify(ctx, 1, "runner-1", input); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkHaversine measures the raw distance computation.
func BenchmarkHaversine(b *testing.B) {
	for i := 0; i < b.N; i++ {
		verify.HaversineMeters(37.5665, 126.9780, 37.5759, 126.9768)
	}
}
