package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/replantlab/missiond/internal/domain"
	"github.com/replantlab/missiond/internal/verify"
)

// mockVerifyService is a configurable test double for verify.Service
type mockVerifyService struct {
	verifyResult *domain.VerificationResult
	verifyErr    error
	voteResult   *domain.VoteResult
	voteErr      error
	withdrawErr  error

	lastInstanceID int64
	lastUserID     string
	lastInput      verify.Input
}

func (m *mockVerifyService) Verify(ctx context.Context, instanceID int64, userID string, input verify.Input) (*domain.VerificationResult, error) {
	m.lastInstanceID = instanceID
	m.lastUserID = userID
	m.lastInput = input
	return m.verifyResult, m.verifyErr
}

func (m *mockVerifyService) CastVote(ctx context.Context, postID int64, voterID string, approve bool) (*domain.VoteResult, error) {
	return m.voteResult, m.voteErr
}

func (m *mockVerifyService) Withdraw(ctx context.Context, instanceID int64, userID string) error {
	m.lastInstanceID = instanceID
	m.lastUserID = userID
	return m.withdrawErr
}

func verifyRouter(svc verify.Service) http.Handler {
	r := chi.NewRouter()
	r.Post("/missions/{instanceID}/verify", HandleVerifyMission(svc))
	r.Delete("/missions/{instanceID}/proof", HandleWithdrawProof(svc))
	r.Post("/votes", HandleCastVote(svc))
	return r
}

func postJSON(t *testing.T, router http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func putJSON(t *testing.T, router http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandleVerifyMission(t *testing.T) {
	InitValidator()

	t.Run("successful verification", func(t *testing.T) {
		svc := &mockVerifyService{
			verifyResult: &domain.VerificationResult{
				InstanceID: 42,
				Status:     domain.StatusCompleted,
				ExpGranted: 50,
			},
		}
		router := verifyRouter(svc)

		lat, lon := 37.5665, 126.9780
		rec := postJSON(t, router, "/missions/42/verify", VerifyRequest{
			UserID:    "user-1",
			Latitude:  &lat,
			Longitude: &lon,
		})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, int64(42), svc.lastInstanceID)
		assert.Equal(t, "user-1", svc.lastUserID)
		require.NotNil(t, svc.lastInput.Latitude)

		var resp DataResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotNil(t, resp.Data)
	})

	t.Run("missing user_id fails validation", func(t *testing.T) {
		svc := &mockVerifyService{}
		router := verifyRouter(svc)

		rec := postJSON(t, router, "/missions/42/verify", VerifyRequest{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var resp ValidationErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Contains(t, resp.Fields, "userid")
	})

	t.Run("non-numeric instance id", func(t *testing.T) {
		svc := &mockVerifyService{}
		router := verifyRouter(svc)

		rec := postJSON(t, router, "/missions/abc/verify", VerifyRequest{UserID: "user-1"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("domain errors map to status codes", func(t *testing.T) {
		tests := []struct {
			err    error
			status int
		}{
			{domain.ErrInstanceNotFound, http.StatusNotFound},
			{domain.ErrForbidden, http.StatusForbidden},
			{domain.ErrAlreadyVerified, http.StatusConflict},
			{domain.ErrWindowExpired, http.StatusGone},
			{domain.ErrOutOfRange, http.StatusBadRequest},
			{domain.ErrInsufficientDuration, http.StatusBadRequest},
		}

		for _, tt := range tests {
			svc := &mockVerifyService{verifyErr: tt.err}
			router := verifyRouter(svc)

			rec := postJSON(t, router, "/missions/42/verify", VerifyRequest{UserID: "user-1"})
			assert.Equal(t, tt.status, rec.Code, "error %v", tt.err)
		}
	})
}

func TestHandleCastVote(t *testing.T) {
	InitValidator()
	approve := true

	t.Run("successful vote", func(t *testing.T) {
		svc := &mockVerifyService{
			voteResult: &domain.VoteResult{
				PostID:       88,
				ApproveCount: 2,
				Status:       domain.StatusPendingReview,
			},
		}
		router := verifyRouter(svc)

		rec := postJSON(t, router, "/votes", CastVoteRequest{
			PostID:  88,
			VoterID: "voter-1",
			Approve: &approve,
		})
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing approve flag fails validation", func(t *testing.T) {
		svc := &mockVerifyService{}
		router := verifyRouter(svc)

		rec := postJSON(t, router, "/votes", CastVoteRequest{PostID: 88, VoterID: "voter-1"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("self vote conflicts", func(t *testing.T) {
		svc := &mockVerifyService{voteErr: domain.ErrSelfVoteNotAllowed}
		router := verifyRouter(svc)

		rec := postJSON(t, router, "/votes", CastVoteRequest{
			PostID:  88,
			VoterID: "user-1",
			Approve: &approve,
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestHandleWithdrawProof(t *testing.T) {
	t.Run("successful withdrawal", func(t *testing.T) {
		svc := &mockVerifyService{}
		router := verifyRouter(svc)

		req := httptest.NewRequest(http.MethodDelete, "/missions/42/proof?user_id=user-1", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, int64(42), svc.lastInstanceID)
		assert.Equal(t, "user-1", svc.lastUserID)
	})

	t.Run("missing user_id", func(t *testing.T) {
		svc := &mockVerifyService{}
		router := verifyRouter(svc)

		req := httptest.NewRequest(http.MethodDelete, "/missions/42/proof", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("nothing pending", func(t *testing.T) {
		svc := &mockVerifyService{withdrawErr: domain.ErrNotPendingReview}
		router := verifyRouter(svc)

		req := httptest.NewRequest(http.MethodDelete, "/missions/42/proof?user_id=user-1", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

// mockAssignService is a configurable test double for assign.Service
type mockAssignService struct {
	instance    *domain.MissionInstance
	instanceErr error
	missions    []domain.MissionInstance
	listErr     error
	scheduleErr error

	lastProfile *domain.UserScheduleProfile
}

func (m *mockAssignService) RunTick(ctx context.Context, now time.Time) error { return nil }

func (m *mockAssignService) AddCustomMission(ctx context.Context, userID string, def *domain.MissionDefinition) (*domain.MissionInstance, error) {
	return m.instance, m.instanceErr
}

func (m *mockAssignService) ListUserMissions(ctx context.Context, userID string, t time.Time) ([]domain.MissionInstance, error) {
	return m.missions, m.listErr
}

func (m *mockAssignService) UpdateSchedule(ctx context.Context, profile *domain.UserScheduleProfile) error {
	m.lastProfile = profile
	return m.scheduleErr
}

func TestHandleAddCustomMission(t *testing.T) {
	InitValidator()

	t.Run("creates and assigns", func(t *testing.T) {
		svc := &mockAssignService{
			instance: &domain.MissionInstance{ID: 1, UserID: "user-1", Status: domain.StatusAssigned},
		}
		r := chi.NewRouter()
		r.Post("/missions/custom", HandleAddCustomMission(svc))

		rec := postJSON(t, r, "/missions/custom", CustomMissionRequest{
			UserID:           "user-1",
			Title:            "Read a book",
			VerificationType: "TIME_BOXED",
		})
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("rejects unknown verification type", func(t *testing.T) {
		svc := &mockAssignService{}
		r := chi.NewRouter()
		r.Post("/missions/custom", HandleAddCustomMission(svc))

		rec := postJSON(t, r, "/missions/custom", CustomMissionRequest{
			UserID:           "user-1",
			Title:            "Read a book",
			VerificationType: "TELEPATHY",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("duplicate assignment conflicts", func(t *testing.T) {
		svc := &mockAssignService{instanceErr: domain.ErrDuplicateAssignment}
		r := chi.NewRouter()
		r.Post("/missions/custom", HandleAddCustomMission(svc))

		rec := postJSON(t, r, "/missions/custom", CustomMissionRequest{
			UserID:           "user-1",
			Title:            "Read a book",
			VerificationType: "TIME_BOXED",
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestHandleListMissions(t *testing.T) {
	t.Run("lists today's missions", func(t *testing.T) {
		svc := &mockAssignService{
			missions: []domain.MissionInstance{{ID: 1}, {ID: 2}},
		}
		r := chi.NewRouter()
		r.Get("/missions", HandleListMissions(svc))

		req := httptest.NewRequest(http.MethodGet, "/missions?user_id=user-1", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("explicit date", func(t *testing.T) {
		svc := &mockAssignService{}
		r := chi.NewRouter()
		r.Get("/missions", HandleListMissions(svc))

		req := httptest.NewRequest(http.MethodGet, "/missions?user_id=user-1&date=2026-08-29", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("bad date", func(t *testing.T) {
		svc := &mockAssignService{}
		r := chi.NewRouter()
		r.Get("/missions", HandleListMissions(svc))

		req := httptest.NewRequest(http.MethodGet, "/missions?user_id=user-1&date=tomorrow", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
