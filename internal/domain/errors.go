package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Lookup errors
	ErrMsgUserNotFound     = "user not found"
	ErrMsgMissionNotFound  = "mission definition not found"
	ErrMsgInstanceNotFound = "mission instance not found"
	ErrMsgProofNotFound    = "proof record not found"
	ErrMsgPostNotFound     = "post not found"

	// Access errors
	ErrMsgForbidden     = "mission does not belong to user"
	ErrMsgNotPostAuthor = "post does not belong to user"

	// Lifecycle errors
	ErrMsgAlreadyVerified     = "mission already verified"
	ErrMsgDuplicateAssignment = "mission already assigned today"
	ErrMsgWindowExpired       = "verification window expired"
	ErrMsgVotingNotAllowed    = "voting is closed for this verification"
	ErrMsgProofAlreadyExists  = "verification proof already submitted"
	ErrMsgNotPendingReview    = "verification is not pending review"

	// Proof validation errors
	ErrMsgInvalidTimeFormat    = "invalid time format"
	ErrMsgInvalidGPSData       = "invalid gps data"
	ErrMsgInvalidTimeData      = "invalid time data"
	ErrMsgOutOfRange           = "location out of allowed range"
	ErrMsgInsufficientDuration = "elapsed time below required minutes"

	// Vote errors
	ErrMsgSelfVoteNotAllowed = "cannot vote on own verification"
	ErrMsgAlreadyVoted       = "already voted on this verification"

	// Input errors
	ErrMsgInvalidInput = "invalid input"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// Lookup errors
	ErrUserNotFound     = errors.New(ErrMsgUserNotFound)
	ErrMissionNotFound  = errors.New(ErrMsgMissionNotFound)
	ErrInstanceNotFound = errors.New(ErrMsgInstanceNotFound)
	ErrProofNotFound    = errors.New(ErrMsgProofNotFound)
	ErrPostNotFound     = errors.New(ErrMsgPostNotFound)

	// Access errors
	ErrForbidden     = errors.New(ErrMsgForbidden)
	ErrNotPostAuthor = errors.New(ErrMsgNotPostAuthor)

	// Lifecycle errors
	ErrAlreadyVerified     = errors.New(ErrMsgAlreadyVerified)
	ErrDuplicateAssignment = errors.New(ErrMsgDuplicateAssignment)
	ErrWindowExpired       = errors.New(ErrMsgWindowExpired)
	ErrVotingNotAllowed    = errors.New(ErrMsgVotingNotAllowed)
	ErrProofAlreadyExists  = errors.New(ErrMsgProofAlreadyExists)
	ErrNotPendingReview    = errors.New(ErrMsgNotPendingReview)

	// Proof validation errors
	ErrInvalidTimeFormat    = errors.New(ErrMsgInvalidTimeFormat)
	ErrInvalidGPSData       = errors.New(ErrMsgInvalidGPSData)
	ErrInvalidTimeData      = errors.New(ErrMsgInvalidTimeData)
	ErrOutOfRange           = errors.New(ErrMsgOutOfRange)
	ErrInsufficientDuration = errors.New(ErrMsgInsufficientDuration)

	// Vote errors
	ErrSelfVoteNotAllowed = errors.New(ErrMsgSelfVoteNotAllowed)
	ErrAlreadyVoted       = errors.New(ErrMsgAlreadyVoted)

	// Input errors
	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)
