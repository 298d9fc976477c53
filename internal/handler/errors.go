package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
const (
	ErrMsgMethodNotAllowed      = "Method not allowed"
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"

	ErrMsgMissingQueryParam = "Missing %s query parameter"
	ErrMsgInvalidInstanceID = "Invalid instance ID"
	ErrMsgInvalidDateParam  = "Invalid date parameter, expected YYYY-MM-DD"

	ErrMsgVerifyFailed         = "Failed to verify mission"
	ErrMsgCastVoteFailed       = "Failed to cast vote"
	ErrMsgWithdrawFailed       = "Failed to withdraw proof"
	ErrMsgAddCustomFailed      = "Failed to add custom mission"
	ErrMsgListMissionsFailed   = "Failed to list missions"
	ErrMsgListBadgesFailed     = "Failed to list badges"
	ErrMsgUpdateScheduleFailed = "Failed to update schedule"
)

// Success messages for API responses
const (
	MsgProofWithdrawnSuccess  = "Proof withdrawn"
	MsgScheduleUpdatedSuccess = "Schedule updated"
)
