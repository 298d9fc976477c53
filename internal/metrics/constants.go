package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Business metric names
const (
	MetricNameMissionsAssigned       = "missions_assigned_total"
	MetricNameAssignmentsSkipped     = "assignments_skipped_total"
	MetricNameVerifications          = "verifications_total"
	MetricNameVotesCast              = "votes_cast_total"
	MetricNameSettlements            = "settlements_total"
	MetricNameExpGranted             = "exp_granted_total"
	MetricNameBadgesIssued           = "badges_issued_total"
	MetricNameInstancesExpired       = "instances_expired_total"
	MetricNameChecklistsCompleted    = "checklists_auto_completed_total"
	MetricNameChecklistEntriesSynced = "checklist_entries_synced_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Business metric help text
const (
	HelpTextMissionsAssigned       = "Total number of mission instances assigned"
	HelpTextAssignmentsSkipped     = "Total number of mission assignments skipped"
	HelpTextVerifications          = "Total number of verification attempts"
	HelpTextVotesCast              = "Total number of community verification votes cast"
	HelpTextSettlements            = "Total number of missions settled"
	HelpTextExpGranted             = "Total experience points granted by settlement"
	HelpTextBadgesIssued           = "Total number of badges issued"
	HelpTextInstancesExpired       = "Total number of mission instances failed by the expiration sweep"
	HelpTextChecklistsCompleted    = "Total number of checklists auto-completed by the sweep"
	HelpTextChecklistEntriesSynced = "Total number of checklist entries completed by settlement"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod   = "method"
	LabelPath     = "path"
	LabelStatus   = "status"
	LabelCategory = "category"
	LabelReason   = "reason"
	LabelType     = "type"
	LabelResult   = "result"
	LabelVote     = "vote"
)

// Assignment skip reasons
const (
	SkipReasonScheduleCoolDown = "schedule_cooldown"
	SkipReasonDuplicate        = "duplicate"
	SkipReasonCatalogError     = "catalog_error"
)

// Verification result label values
const (
	ResultCompleted     = "completed"
	ResultFailed        = "failed"
	ResultPendingReview = "pending_review"
	ResultRejected      = "rejected"
)

// Vote label values
const (
	VoteApprove = "approve"
	VoteReject  = "reject"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds. These buckets range from 1ms to 10s to capture various latency
// patterns: fast (1-10ms), normal (10-100ms), slow (100ms-1s), very slow (1-10s)
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
