package handler

import (
	"net/http"

	"github.com/replantlab/missiond/internal/assign"
	"github.com/replantlab/missiond/internal/domain"
	"github.com/replantlab/missiond/internal/logger"
)

// UpdateScheduleRequest replaces the user's trigger times. Empty fields
// clear the corresponding slot.
type UpdateScheduleRequest struct {
	UserID        string `json:"user_id" validate:"required"`
	WakeTime      string `json:"wake_time" validate:"omitempty,triggertime"`
	BreakfastTime string `json:"breakfast_time" validate:"omitempty,triggertime"`
	LunchTime     string `json:"lunch_time" validate:"omitempty,triggertime"`
	DinnerTime    string `json:"dinner_time" validate:"omitempty,triggertime"`
}

// HandleUpdateSchedule stores the user's trigger times. The change arms the
// assignment cool-down for the rest of the day.
func HandleUpdateSchedule(assignService assign.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpdateScheduleRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Update schedule"); err != nil {
			return
		}

		profile := &domain.UserScheduleProfile{
			UserID:        req.UserID,
			WakeTime:      req.WakeTime,
			BreakfastTime: req.BreakfastTime,
			LunchTime:     req.LunchTime,
			DinnerTime:    req.DinnerTime,
		}

		if err := assignService.UpdateSchedule(r.Context(), profile); err != nil {
			logger.FromContext(r.Context()).Warn(ErrMsgUpdateScheduleFailed,
				"user_id", req.UserID,
				"error", err)
			status, message := mapServiceErrorToUserMessage(err)
			respondError(w, status, message)
			return
		}

		respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgScheduleUpdatedSuccess})
	}
}
