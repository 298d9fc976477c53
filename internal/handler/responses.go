package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/replantlab/missiond/internal/domain"
)

// Standard response types for consistent API responses

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// DataResponse represents a response with data payload
type DataResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	// Encode through a pooled buffer so a marshal failure never produces a
	// half-written body.
	buf := getBuffer()
	defer putBuffer(buf)

	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
		return
	}

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response buffer", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// User-facing error messages for service errors
const (
	ErrMsgGenericServerError = "Something went wrong"
	ErrMsgUnknownError       = "Unknown error"

	ErrMsgUserNotFoundError     = "User not found"
	ErrMsgMissionNotFoundError  = "Mission not found"
	ErrMsgInstanceNotFoundError = "Mission instance not found"
	ErrMsgProofNotFoundError    = "Verification proof not found"
	ErrMsgPostNotFoundError     = "Post not found"

	ErrMsgForbiddenError     = "You cannot act on someone else's mission"
	ErrMsgNotPostAuthorError = "The post must be your own"

	ErrMsgAlreadyVerifiedError     = "Mission is already verified"
	ErrMsgProofAlreadyExistsError  = "A proof is already under review"
	ErrMsgNotPendingReviewError    = "No proof is pending review"
	ErrMsgDuplicateAssignmentError = "Mission is already assigned for today"

	ErrMsgWindowExpiredError        = "The verification window has passed"
	ErrMsgOutOfRangeError           = "You are too far from the mission location"
	ErrMsgInsufficientDurationError = "The activity did not last long enough"
	ErrMsgInvalidGPSDataError       = "Invalid GPS coordinates"
	ErrMsgInvalidTimeDataError      = "Invalid start or end time"
	ErrMsgInvalidTimeFormatError    = "Times must be in HH:MM format"

	ErrMsgVotingNotAllowedError = "Voting on this proof is closed"
	ErrMsgSelfVoteError         = "You cannot vote on your own proof"
	ErrMsgAlreadyVotedError     = "You have already voted"

	ErrMsgInvalidInputError = "Invalid request. Please check your inputs."
)

// mapServiceErrorToUserMessage maps domain errors to user-friendly HTTP
// responses without leaking internals.
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, ErrMsgUserNotFoundError
	case errors.Is(err, domain.ErrMissionNotFound):
		return http.StatusNotFound, ErrMsgMissionNotFoundError
	case errors.Is(err, domain.ErrInstanceNotFound):
		return http.StatusNotFound, ErrMsgInstanceNotFoundError
	case errors.Is(err, domain.ErrProofNotFound):
		return http.StatusNotFound, ErrMsgProofNotFoundError
	case errors.Is(err, domain.ErrPostNotFound):
		return http.StatusNotFound, ErrMsgPostNotFoundError

	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, ErrMsgForbiddenError
	case errors.Is(err, domain.ErrNotPostAuthor):
		return http.StatusForbidden, ErrMsgNotPostAuthorError

	case errors.Is(err, domain.ErrAlreadyVerified):
		return http.StatusConflict, ErrMsgAlreadyVerifiedError
	case errors.Is(err, domain.ErrProofAlreadyExists):
		return http.StatusConflict, ErrMsgProofAlreadyExistsError
	case errors.Is(err, domain.ErrNotPendingReview):
		return http.StatusConflict, ErrMsgNotPendingReviewError
	case errors.Is(err, domain.ErrDuplicateAssignment):
		return http.StatusConflict, ErrMsgDuplicateAssignmentError
	case errors.Is(err, domain.ErrVotingNotAllowed):
		return http.StatusConflict, ErrMsgVotingNotAllowedError
	case errors.Is(err, domain.ErrSelfVoteNotAllowed):
		return http.StatusConflict, ErrMsgSelfVoteError
	case errors.Is(err, domain.ErrAlreadyVoted):
		return http.StatusConflict, ErrMsgAlreadyVotedError

	case errors.Is(err, domain.ErrWindowExpired):
		return http.StatusGone, ErrMsgWindowExpiredError

	case errors.Is(err, domain.ErrOutOfRange):
		return http.StatusBadRequest, ErrMsgOutOfRangeError
	case errors.Is(err, domain.ErrInsufficientDuration):
		return http.StatusBadRequest, ErrMsgInsufficientDurationError
	case errors.Is(err, domain.ErrInvalidGPSData):
		return http.StatusBadRequest, ErrMsgInvalidGPSDataError
	case errors.Is(err, domain.ErrInvalidTimeData):
		return http.StatusBadRequest, ErrMsgInvalidTimeDataError
	case errors.Is(err, domain.ErrInvalidTimeFormat):
		return http.StatusBadRequest, ErrMsgInvalidTimeFormatError
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrMsgInvalidInputError
	}

	return http.StatusInternalServerError, ErrMsgGenericServerError
}
