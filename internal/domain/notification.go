package domain

// NotificationCategory routes a push message on the client side.
type NotificationCategory string

const (
	NotifyMissionAssigned      NotificationCategory = "MISSION_ASSIGNED"
	NotifyVerificationApproved NotificationCategory = "VERIFICATION_APPROVED"
	NotifyVerificationRejected NotificationCategory = "VERIFICATION_REJECTED"
)

// Notification is the fire-and-forget message handed to the notifier.
// Delivery failures are logged and never fail the operation that produced
// the notification.
type Notification struct {
	UserID        string               `json:"user_id"`
	Category      NotificationCategory `json:"category"`
	Title         string               `json:"title"`
	Body          string               `json:"body"`
	ReferenceType string               `json:"reference_type,omitempty"`
	ReferenceID   int64                `json:"reference_id,omitempty"`
}
