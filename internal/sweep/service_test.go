package sweep

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/replantlab/missiond/internal/domain"
)

// sweepInstances serves expired rows and removes them once transitioned,
// mimicking how the listing shrinks as the sweep progresses.
type sweepInstances struct {
	expired       []domain.MissionInstance
	transitioned  []int64
	casFails      map[int64]bool // rows a concurrent verification already moved
	transitionErr map[int64]error
	listErr       error
}

func (m *sweepInstances) GetByID(ctx context.Context, id int64) (*domain.MissionInstance, error) {
	return nil, domain.ErrInstanceNotFound
}

func (m *sweepInstances) CreateIfAbsent(ctx context.Context, instance *domain.MissionInstance) (bool, error) {
	return false, nil
}

func (m *sweepInstances) ExistsOpenForDay(ctx context.Context, userID string, definitionID int64, day time.Time) (bool, error) {
	return false, nil
}

func (m *sweepInstances) TransitionStatus(ctx context.Context, id int64, from, to domain.InstanceStatus) (bool, error) {
	if err := m.transitionErr[id]; err != nil {
		return false, err
	}

	// Build the shrunken listing in a fresh slice; compacting in place would
	// corrupt the batch the service is still ranging over.
	remaining := make([]domain.MissionInstance, 0, len(m.expired))
	for _, inst := range m.expired {
		if inst.ID != id {
			remaining = append(remaining, inst)
		}
	}
	m.expired = remaining

	if m.casFails[id] {
		return false, nil
	}
	m.transitioned = append(m.transitioned, id)
	return true, nil
}

func (m *sweepInstances) SetProof(ctx context.Context, id int64, proofID int64) error { return nil }
func (m *sweepInstances) ClearProof(ctx context.Context, id int64) error              { return nil }

func (m *sweepInstances) ListExpired(ctx context.Context, now time.Time, limit int) ([]domain.MissionInstance, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	if len(m.expired) > limit {
		return m.expired[:limit], nil
	}
	return m.expired, nil
}

func (m *sweepInstances) ListForUser(ctx context.Context, userID string, day time.Time) ([]domain.MissionInstance, error) {
	return nil, nil
}

type sweepChecklists struct {
	closed int64
	err    error
	calls  int
}

func (m *sweepChecklists) CompleteEntries(ctx context.Context, userID string, definitionID int64, completedAt time.Time) (int64, error) {
	return 0, nil
}

func (m *sweepChecklists) AutoCompleteDone(ctx context.Context, now time.Time) (int64, error) {
	m.calls++
	return m.closed, m.err
}

func expiredInstance(id int64) domain.MissionInstance {
	return domain.MissionInstance{
		ID:       id,
		UserID:   "user-1",
		Status:   domain.StatusAssigned,
		Deadline: time.Now().Add(-time.Hour),
	}
}

func TestSweep_ExpiresOverdueInstances(t *testing.T) {
	instances := &sweepInstances{
		expired: []domain.MissionInstance{expiredInstance(1), expiredInstance(2), expiredInstance(3)},
	}
	checklists := &sweepChecklists{}

	svc := NewService(instances, checklists)
	require.NoError(t, svc.Run(context.Background(), time.Now()))

	assert.ElementsMatch(t, []int64{1, 2, 3}, instances.transitioned)
	assert.Equal(t, 1, checklists.calls, "Checklist pass runs once per sweep")
}

func TestSweep_NothingExpired(t *testing.T) {
	instances := &sweepInstances{}
	checklists := &sweepChecklists{}

	svc := NewService(instances, checklists)
	require.NoError(t, svc.Run(context.Background(), time.Now()))

	assert.Empty(t, instances.transitioned)
	assert.Equal(t, 1, checklists.calls)
}

func TestSweep_OneBadRowDoesNotAbort(t *testing.T) {
	instances := &sweepInstances{
		expired:       []domain.MissionInstance{expiredInstance(1), expiredInstance(2), expiredInstance(3)},
		transitionErr: map[int64]error{2: errors.New("row locked")},
	}
	checklists := &sweepChecklists{}

	svc := NewService(instances, checklists)
	require.NoError(t, svc.Run(context.Background(), time.Now()))

	assert.ElementsMatch(t, []int64{1, 3}, instances.transitioned)
}

func TestSweep_SkipsConcurrentlyVerifiedRows(t *testing.T) {
	instances := &sweepInstances{
		expired:  []domain.MissionInstance{expiredInstance(1), expiredInstance(2)},
		casFails: map[int64]bool{1: true},
	}

	svc := NewService(instances, &sweepChecklists{})
	require.NoError(t, svc.Run(context.Background(), time.Now()))

	assert.Equal(t, []int64{2}, instances.transitioned)
}

func TestSweep_ListFailureReturnsError(t *testing.T) {
	instances := &sweepInstances{listErr: errors.New("db down")}

	svc := NewService(instances, &sweepChecklists{})
	err := svc.Run(context.Background(), time.Now())
	assert.Error(t, err)
}

func TestSweep_ChecklistFailureIsLoggedNotReturned(t *testing.T) {
	instances := &sweepInstances{}
	checklists := &sweepChecklists{err: errors.New("db down")}

	svc := NewService(instances, checklists)
	assert.NoError(t, svc.Run(context.Background(), time.Now()))
}
