package assign

// DefaultCustomDurationDays backs the self-add deadline when the definition
// carries no duration
const DefaultCustomDurationDays = 1

// Log messages
const (
	LogMsgMissionAssigned     = "Mission assigned"
	LogMsgCategoryTickFailed  = "Category tick failed"
	LogMsgCoolDownSkip        = "Schedule changed today, skipping user"
	LogMsgAssignFailed        = "Failed to assign mission"
	LogMsgDuplicateGuardError = "Duplicate guard check failed"
	LogMsgCatalogUnavailable  = "Catalog unavailable, skipping category"
	LogMsgAssignUserPanicked  = "Assignment worker panicked"
)
