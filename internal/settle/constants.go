package settle

import "time"

// MaxCompletionRate and MinCompletionRate bound the reward-scaling rate.
// Values outside the range are clamped, not rejected.
const (
	MinCompletionRate     = 0
	MaxCompletionRate     = 100
	DefaultCompletionRate = 100
)

// NotifyTimeout bounds the success-notification submission so a slow
// notifier cannot hold up settlement
const NotifyTimeout = 3 * time.Second

// Log messages
const (
	LogMsgMissionSettled      = "Mission settled"
	LogMsgExpGrantFailed      = "Failed to grant experience"
	LogMsgBadgeIssueFailed    = "Failed to issue badge"
	LogMsgChecklistSyncFailed = "Failed to sync checklist entries"
	LogMsgAlreadySettled      = "Instance already settled, skipping"
)
