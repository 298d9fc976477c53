package handler

import (
	"net/http"
	"time"

	"github.com/replantlab/missiond/internal/logger"
	"github.com/replantlab/missiond/internal/repository"
)

// HandleListBadges returns the user's active, unexpired badges
func HandleListBadges(badges repository.Badge) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetQueryParam(r, w, "user_id")
		if !ok {
			return
		}

		active, err := badges.ListActive(r.Context(), userID, time.Now())
		if err != nil {
			logger.FromContext(r.Context()).Error(ErrMsgListBadgesFailed,
				"user_id", userID,
				"error", err)
			status, message := mapServiceErrorToUserMessage(err)
			respondError(w, status, message)
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{Data: active})
	}
}
