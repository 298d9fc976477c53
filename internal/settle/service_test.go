package settle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/replantlab/missiond/internal/domain"
)

// mockInstanceRepo implements the instance transitions settlement needs
type mockInstanceRepo struct {
	transitionOK bool
	transitions  []string
	current      *domain.MissionInstance
}

func (m *mockInstanceRepo) GetByID(ctx context.Context, id int64) (*domain.MissionInstance, error) {
	if m.current == nil {
		return nil, domain.ErrInstanceNotFound
	}
	return m.current, nil
}

func (m *mockInstanceRepo) CreateIfAbsent(ctx context.Context, instance *domain.MissionInstance) (bool, error) {
	return false, nil
}

func (m *mockInstanceRepo) ExistsOpenForDay(ctx context.Context, userID string, definitionID int64, day time.Time) (bool, error) {
	return false, nil
}

func (m *mockInstanceRepo) TransitionStatus(ctx context.Context, id int64, from, to domain.InstanceStatus) (bool, error) {
	m.transitions = append(m.transitions, string(from)+"->"+string(to))
	return m.transitionOK, nil
}

func (m *mockInstanceRepo) SetProof(ctx context.Context, id int64, proofID int64) error { return nil }
func (m *mockInstanceRepo) ClearProof(ctx context.Context, id int64) error              { return nil }

func (m *mockInstanceRepo) ListExpired(ctx context.Context, now time.Time, limit int) ([]domain.MissionInstance, error) {
	return nil, nil
}

func (m *mockInstanceRepo) ListForUser(ctx context.Context, userID string, day time.Time) ([]domain.MissionInstance, error) {
	return nil, nil
}

type mockProgressionRepo struct {
	granted map[string]int
	err     error
}

func (m *mockProgressionRepo) AddExperience(ctx context.Context, userID string, amount int) error {
	if m.err != nil {
		return m.err
	}
	if m.granted == nil {
		m.granted = map[string]int{}
	}
	m.granted[userID] += amount
	return nil
}

func (m *mockProgressionRepo) GetExperience(ctx context.Context, userID string) (int, error) {
	return m.granted[userID], nil
}

type mockBadgeRepo struct {
	issued      []*domain.Badge
	alreadyHeld bool
}

func (m *mockBadgeRepo) IssueIfAbsent(ctx context.Context, badge *domain.Badge) (bool, error) {
	if m.alreadyHeld {
		return false, nil
	}
	m.issued = append(m.issued, badge)
	return true, nil
}

func (m *mockBadgeRepo) ListActive(ctx context.Context, userID string, now time.Time) ([]domain.Badge, error) {
	return nil, nil
}

type mockChecklistRepo struct {
	synced int64
	err    error
}

func (m *mockChecklistRepo) CompleteEntries(ctx context.Context, userID string, definitionID int64, completedAt time.Time) (int64, error) {
	return m.synced, m.err
}

func (m *mockChecklistRepo) AutoCompleteDone(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

type captureNotifier struct {
	notifications []domain.Notification
}

func (c *captureNotifier) Notify(ctx context.Context, n domain.Notification) error {
	c.notifications = append(c.notifications, n)
	return nil
}

func assignedInstance() *domain.MissionInstance {
	return &domain.MissionInstance{
		ID:           42,
		UserID:       "user-1",
		DefinitionID: 7,
		Status:       domain.StatusAssigned,
	}
}

func standardDefinition() *domain.MissionDefinition {
	return &domain.MissionDefinition{
		ID:                7,
		Title:             "Morning walk",
		RewardExp:         50,
		BadgeDurationDays: 3,
	}
}

func TestSettle_FullPayout(t *testing.T) {
	instances := &mockInstanceRepo{transitionOK: true}
	progression := &mockProgressionRepo{}
	badges := &mockBadgeRepo{}
	checklists := &mockChecklistRepo{synced: 2}
	notifier := &captureNotifier{}

	svc := NewService(instances, progression, badges, checklists, notifier)

	result, err := svc.Settle(context.Background(), assignedInstance(), standardDefinition(), nil)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCompleted, result.Status)
	assert.Equal(t, 50, result.ExpGranted)
	assert.Equal(t, 50, progression.granted["user-1"])
	assert.Equal(t, []string{"ASSIGNED->COMPLETED"}, instances.transitions)

	require.NotNil(t, result.Badge)
	require.Len(t, badges.issued, 1)
	badge := badges.issued[0]
	assert.Equal(t, int64(42), badge.InstanceID)
	assert.WithinDuration(t, badge.IssuedAt.Add(3*24*time.Hour), badge.ExpiresAt, time.Second)

	require.Len(t, notifier.notifications, 1)
	assert.Equal(t, domain.NotifyVerificationApproved, notifier.notifications[0].Category)
	assert.Equal(t, int64(42), notifier.notifications[0].ReferenceID)
}

func TestSettle_AlreadyCompletedIsNoOp(t *testing.T) {
	instance := assignedInstance()
	instances := &mockInstanceRepo{
		transitionOK: false,
		current:      &domain.MissionInstance{ID: 42, UserID: "user-1", Status: domain.StatusCompleted},
	}
	progression := &mockProgressionRepo{}
	notifier := &captureNotifier{}

	svc := NewService(instances, progression, &mockBadgeRepo{}, &mockChecklistRepo{}, notifier)

	result, err := svc.Settle(context.Background(), instance, standardDefinition(), nil)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCompleted, result.Status)
	assert.Zero(t, result.ExpGranted, "Repeated settlement must not pay twice")
	assert.Empty(t, progression.granted)
	assert.Empty(t, notifier.notifications)
}

func TestSettle_ConcurrentFailureRejected(t *testing.T) {
	instances := &mockInstanceRepo{
		transitionOK: false,
		current:      &domain.MissionInstance{ID: 42, UserID: "user-1", Status: domain.StatusFailed},
	}

	svc := NewService(instances, &mockProgressionRepo{}, &mockBadgeRepo{}, &mockChecklistRepo{}, &captureNotifier{})

	_, err := svc.Settle(context.Background(), assignedInstance(), standardDefinition(), nil)
	assert.ErrorIs(t, err, domain.ErrAlreadyVerified)
}

func TestSettle_CustomMissionPaysNothing(t *testing.T) {
	instances := &mockInstanceRepo{transitionOK: true}
	progression := &mockProgressionRepo{}

	svc := NewService(instances, progression, &mockBadgeRepo{}, &mockChecklistRepo{}, &captureNotifier{})

	def := standardDefinition()
	def.Custom = true

	result, err := svc.Settle(context.Background(), assignedInstance(), def, nil)
	require.NoError(t, err)

	assert.Zero(t, result.ExpGranted)
	assert.Empty(t, progression.granted, "Self-authored missions never grant exp")
	assert.NotNil(t, result.Badge, "Badge is still issued for custom missions")
}

func TestSettle_ExpGrantFailureDoesNotFailSettlement(t *testing.T) {
	instances := &mockInstanceRepo{transitionOK: true}
	progression := &mockProgressionRepo{err: errors.New("db down")}
	badges := &mockBadgeRepo{}

	svc := NewService(instances, progression, badges, &mockChecklistRepo{}, &captureNotifier{})

	result, err := svc.Settle(context.Background(), assignedInstance(), standardDefinition(), nil)
	require.NoError(t, err, "Reward failure after the transition is logged, not returned")

	assert.Zero(t, result.ExpGranted)
	assert.Len(t, badges.issued, 1, "Later steps still run")
}

func TestSettle_BadgeAlreadyIssued(t *testing.T) {
	instances := &mockInstanceRepo{transitionOK: true}
	badges := &mockBadgeRepo{alreadyHeld: true}

	svc := NewService(instances, &mockProgressionRepo{}, badges, &mockChecklistRepo{}, &captureNotifier{})

	result, err := svc.Settle(context.Background(), assignedInstance(), standardDefinition(), nil)
	require.NoError(t, err)
	assert.Nil(t, result.Badge)
}

func TestReward(t *testing.T) {
	rate := func(r int) *int { return &r }

	tests := []struct {
		name  string
		def   *domain.MissionDefinition
		proof *domain.ProofRecord
		want  int
	}{
		{"nil proof defaults to full rate", &domain.MissionDefinition{RewardExp: 80}, nil, 80},
		{"explicit full rate", &domain.MissionDefinition{RewardExp: 80}, &domain.ProofRecord{CompletionRate: rate(100)}, 80},
		{"half rate rounds", &domain.MissionDefinition{RewardExp: 25}, &domain.ProofRecord{CompletionRate: rate(50)}, 13},
		{"rate above 100 clamps", &domain.MissionDefinition{RewardExp: 80}, &domain.ProofRecord{CompletionRate: rate(150)}, 80},
		{"negative rate clamps to zero", &domain.MissionDefinition{RewardExp: 80}, &domain.ProofRecord{CompletionRate: rate(-5)}, 0},
		{"custom mission always zero", &domain.MissionDefinition{RewardExp: 80, Custom: true}, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Reward(tt.def, tt.proof))
		})
	}
}
