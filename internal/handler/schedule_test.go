package handler

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleUpdateSchedule(t *testing.T) {
	InitValidator()

	newRouter := func(svc *mockAssignService) http.Handler {
		r := chi.NewRouter()
		r.Put("/schedule", HandleUpdateSchedule(svc))
		return r
	}

	t.Run("updates the profile", func(t *testing.T) {
		svc := &mockAssignService{}
		rec := putJSON(t, newRouter(svc), "/schedule", UpdateScheduleRequest{
			UserID:     "user-1",
			WakeTime:   "07:30",
			DinnerTime: "7:05",
		})

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, svc.lastProfile)
		assert.Equal(t, "07:30", svc.lastProfile.WakeTime)
	})

	t.Run("rejects malformed time", func(t *testing.T) {
		svc := &mockAssignService{}
		rec := putJSON(t, newRouter(svc), "/schedule", UpdateScheduleRequest{
			UserID:   "user-1",
			WakeTime: "sunrise",
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Nil(t, svc.lastProfile)
	})

	t.Run("requires user id", func(t *testing.T) {
		svc := &mockAssignService{}
		rec := putJSON(t, newRouter(svc), "/schedule", UpdateScheduleRequest{WakeTime: "07:30"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
