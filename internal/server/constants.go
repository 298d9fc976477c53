package server

import "time"

// HTTP error messages returned by middleware
const (
	ErrMsgUnauthorized    = "Unauthorized"
	ErrMsgTooManyRequests = "Too Many Requests"
)

// Security alert log messages
const (
	SecurityAlertFailedAuth = "⚠️ SECURITY ALERT: Repeated authentication failures"
	SecurityAlertHighRate   = "⚠️ SECURITY ALERT: Blocking high request rate"
)

// Log messages
const (
	LogMsgServerStarting   = "Server starting"
	LogMsgServerStopping   = "Server stopping"
	LogMsgRequestStarted   = "Request started"
	LogMsgRequestCompleted = "Request completed"
	LogMsgRequestHeaders   = "Request headers"
	LogMsgAuthFailed       = "Authentication failed"
)

// Header names
const (
	HeaderAPIKey        = "X-API-Key"
	HeaderAuthorization = "Authorization"
	HeaderForwardedFor  = "X-Forwarded-For"
	HeaderRequestID     = "X-Request-ID"
)

// Security response headers
const (
	HeaderContentTypeOptions = "X-Content-Type-Options"
	HeaderFrameOptions       = "X-Frame-Options"
	HeaderXSSProtection      = "X-XSS-Protection"
	HeaderReferrerPolicy     = "Referrer-Policy"

	HeaderValueNoSniff      = "nosniff"
	HeaderValueSameOrigin   = "SAMEORIGIN"
	HeaderValueXSSBlock     = "1; mode=block"
	HeaderValueStrictOrigin = "strict-origin-when-cross-origin"
)

// PublicPaths bypass API-key authentication.
var PublicPaths = []string{
	"/healthz",
	"/readyz",
	"/version",
	"/metrics",
}

// RedactedValue replaces sensitive header values in logs.
const RedactedValue = "[REDACTED]"

// Abuse detection thresholds, counted per client IP inside one reset window.
const (
	detectorResetWindow  = 5 * time.Minute
	maxRequestsPerWindow = 1000
	failedAuthAlertAfter = 5
	maxRequestBodyBytes  = 1 << 20
	shutdownGraceTimeout = 10 * time.Second
	readHeaderTimeout    = 5 * time.Second
)
