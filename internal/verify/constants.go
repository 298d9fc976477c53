package verify

import "time"

// TimeBoxedLimit is how long after assignment a TIME_BOXED mission still
// verifies. At or past the limit the attempt fails the instance.
const TimeBoxedLimit = 10 * time.Minute

// EarthRadiusMeters is the mean Earth radius used by the Haversine distance
const EarthRadiusMeters = 6371000.0

// Log messages
const (
	LogMsgProofAccepted       = "Verification proof accepted"
	LogMsgInstanceFailed      = "Instance failed verification window"
	LogMsgVoteCast            = "Community vote cast"
	LogMsgProofWithdrawn      = "Verification proof withdrawn"
	LogMsgFailTransitionError = "Failed to mark instance failed"
)
