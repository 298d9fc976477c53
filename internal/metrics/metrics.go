package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Assignment Metrics
var (
	MissionsAssigned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameMissionsAssigned,
			Help: HelpTextMissionsAssigned,
		},
		[]string{LabelCategory},
	)

	AssignmentsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameAssignmentsSkipped,
			Help: HelpTextAssignmentsSkipped,
		},
		[]string{LabelReason},
	)
)

// Verification Metrics
var (
	Verifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameVerifications,
			Help: HelpTextVerifications,
		},
		[]string{LabelType, LabelResult},
	)

	VotesCast = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameVotesCast,
			Help: HelpTextVotesCast,
		},
		[]string{LabelVote},
	)
)

// Settlement Metrics
var (
	Settlements = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameSettlements,
			Help: HelpTextSettlements,
		},
	)

	ExpGranted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameExpGranted,
			Help: HelpTextExpGranted,
		},
	)

	BadgesIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameBadgesIssued,
			Help: HelpTextBadgesIssued,
		},
	)

	ChecklistEntriesSynced = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameChecklistEntriesSynced,
			Help: HelpTextChecklistEntriesSynced,
		},
	)
)

// Sweep Metrics
var (
	InstancesExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameInstancesExpired,
			Help: HelpTextInstancesExpired,
		},
	)

	ChecklistsCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameChecklistsCompleted,
			Help: HelpTextChecklistsCompleted,
		},
	)
)
