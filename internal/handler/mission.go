package handler

import (
	"net/http"
	"time"

	"github.com/replantlab/missiond/internal/assign"
	"github.com/replantlab/missiond/internal/domain"
	"github.com/replantlab/missiond/internal/logger"
	"github.com/replantlab/missiond/internal/verify"
)

// VerifyRequest is the proof payload for a verification attempt. Which
// fields matter depends on the mission's verification type; the service
// rejects payloads missing the fields its type needs.
type VerifyRequest struct {
	UserID         string     `json:"user_id" validate:"required"`
	Latitude       *float64   `json:"latitude"`
	Longitude      *float64   `json:"longitude"`
	StartedAt      *time.Time `json:"started_at"`
	EndedAt        *time.Time `json:"ended_at"`
	PostID         *int64     `json:"post_id"`
	CompletionRate *int       `json:"completion_rate"`
}

// HandleVerifyMission submits a proof for a mission instance
func HandleVerifyMission(verifyService verify.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		instanceID, ok := URLParamInt64(r, w, "instanceID")
		if !ok {
			return
		}

		var req VerifyRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Verify mission"); err != nil {
			return
		}

		result, err := verifyService.Verify(r.Context(), instanceID, req.UserID, verify.Input{
			Latitude:       req.Latitude,
			Longitude:      req.Longitude,
			StartedAt:      req.StartedAt,
			EndedAt:        req.EndedAt,
			PostID:         req.PostID,
			CompletionRate: req.CompletionRate,
		})
		if err != nil {
			logger.FromContext(r.Context()).Warn(ErrMsgVerifyFailed,
				"instance_id", instanceID,
				"user_id", req.UserID,
				"error", err)
			status, message := mapServiceErrorToUserMessage(err)
			respondError(w, status, message)
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{Data: result})
	}
}

// CastVoteRequest is a peer vote on a community-verified proof
type CastVoteRequest struct {
	PostID  int64  `json:"post_id" validate:"required"`
	VoterID string `json:"voter_id" validate:"required"`
	Approve *bool  `json:"approve" validate:"required"`
}

// HandleCastVote records a community vote on the proof attached to a post
func HandleCastVote(verifyService verify.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CastVoteRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Cast vote"); err != nil {
			return
		}

		result, err := verifyService.CastVote(r.Context(), req.PostID, req.VoterID, *req.Approve)
		if err != nil {
			logger.FromContext(r.Context()).Warn(ErrMsgCastVoteFailed,
				"post_id", req.PostID,
				"voter_id", req.VoterID,
				"error", err)
			status, message := mapServiceErrorToUserMessage(err)
			respondError(w, status, message)
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{Data: result})
	}
}

// HandleWithdrawProof removes a pending community-vote proof, returning the
// instance to ASSIGNED
func HandleWithdrawProof(verifyService verify.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		instanceID, ok := URLParamInt64(r, w, "instanceID")
		if !ok {
			return
		}
		userID, ok := GetQueryParam(r, w, "user_id")
		if !ok {
			return
		}

		if err := verifyService.Withdraw(r.Context(), instanceID, userID); err != nil {
			logger.FromContext(r.Context()).Warn(ErrMsgWithdrawFailed,
				"instance_id", instanceID,
				"user_id", userID,
				"error", err)
			status, message := mapServiceErrorToUserMessage(err)
			respondError(w, status, message)
			return
		}

		respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgProofWithdrawnSuccess})
	}
}

// CustomMissionRequest is a user-authored mission definition
type CustomMissionRequest struct {
	UserID           string `json:"user_id" validate:"required"`
	Title            string `json:"title" validate:"required,max=200"`
	Description      string `json:"description" validate:"max=1000"`
	VerificationType string `json:"verification_type" validate:"required,verificationtype"`
	RequiredMinutes  *int   `json:"required_minutes" validate:"omitempty,min=1"`
	DurationDays     *int   `json:"duration_days" validate:"omitempty,min=1,max=365"`
}

// HandleAddCustomMission creates a custom mission and assigns it to its author
func HandleAddCustomMission(assignService assign.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CustomMissionRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Add custom mission"); err != nil {
			return
		}

		def := &domain.MissionDefinition{
			Title:            req.Title,
			Description:      req.Description,
			VerificationType: domain.VerificationType(req.VerificationType),
			RequiredMinutes:  req.RequiredMinutes,
			DurationDays:     req.DurationDays,
		}

		instance, err := assignService.AddCustomMission(r.Context(), req.UserID, def)
		if err != nil {
			logger.FromContext(r.Context()).Warn(ErrMsgAddCustomFailed,
				"user_id", req.UserID,
				"error", err)
			status, message := mapServiceErrorToUserMessage(err)
			respondError(w, status, message)
			return
		}

		respondJSON(w, http.StatusCreated, DataResponse{Data: instance})
	}
}

// HandleListMissions returns the user's mission instances for a day
// (today when no date parameter is given)
func HandleListMissions(assignService assign.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetQueryParam(r, w, "user_id")
		if !ok {
			return
		}

		day := time.Now()
		if raw := r.URL.Query().Get("date"); raw != "" {
			parsed, err := time.Parse("2006-01-02", raw)
			if err != nil {
				respondError(w, http.StatusBadRequest, ErrMsgInvalidDateParam)
				return
			}
			day = parsed
		}

		missions, err := assignService.ListUserMissions(r.Context(), userID, day)
		if err != nil {
			logger.FromContext(r.Context()).Error(ErrMsgListMissionsFailed,
				"user_id", userID,
				"error", err)
			status, message := mapServiceErrorToUserMessage(err)
			respondError(w, status, message)
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{Data: missions})
	}
}
