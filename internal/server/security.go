package server

import (
	"crypto/subtle"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/replantlab/missiond/internal/logger"
)

// SuspiciousActivityDetector tracks per-IP request volume and authentication
// failures inside a sliding reset window. All counters reset together when
// the window elapses.
type SuspiciousActivityDetector struct {
	mu               sync.Mutex
	failedAuthByIP   map[string]int
	requestCountByIP map[string]int
	lastResetTime    time.Time
}

func NewSuspiciousActivityDetector() *SuspiciousActivityDetector {
	return &SuspiciousActivityDetector{
		failedAuthByIP:   make(map[string]int),
		requestCountByIP: make(map[string]int),
		lastResetTime:    time.Now(),
	}
}

// RecordRequest counts a request from ip and reports whether the caller is
// still under the per-window limit.
func (d *SuspiciousActivityDetector) RecordRequest(ip string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.maybeResetLocked()
	d.requestCountByIP[ip]++
	return d.requestCountByIP[ip] <= maxRequestsPerWindow
}

// RecordFailedAuth counts an authentication failure and reports whether the
// failure count crossed the alert threshold.
func (d *SuspiciousActivityDetector) RecordFailedAuth(ip string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.maybeResetLocked()
	d.failedAuthByIP[ip]++
	return d.failedAuthByIP[ip] >= failedAuthAlertAfter
}

func (d *SuspiciousActivityDetector) maybeResetLocked() {
	if time.Since(d.lastResetTime) < detectorResetWindow {
		return
	}
	d.failedAuthByIP = make(map[string]int)
	d.requestCountByIP = make(map[string]int)
	d.lastResetTime = time.Now()
}

// AuthMiddleware requires a matching X-API-Key header on every request
// outside PublicPaths. Comparison is constant time.
func AuthMiddleware(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			provided := r.Header.Get(HeaderAPIKey)
			if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
				logger.FromContext(r.Context()).Warn(LogMsgAuthFailed,
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr)
				http.Error(w, ErrMsgUnauthorized, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// SecurityLoggingMiddleware rate-limits by client IP and raises alerts on
// repeated authentication failures observed downstream. trustedProxies lists
// CIDRs whose X-Forwarded-For header is honored when extracting the IP.
func SecurityLoggingMiddleware(trustedProxies []string, detector *SuspiciousActivityDetector) func(http.Handler) http.Handler {
	proxyNets := parseTrustedProxies(trustedProxies)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := extractIP(r, proxyNets)

			if !detector.RecordRequest(ip) {
				logger.FromContext(r.Context()).Warn(SecurityAlertHighRate,
					"ip", ip,
					"path", r.URL.Path)
				http.Error(w, ErrMsgTooManyRequests, http.StatusTooManyRequests)
				return
			}

			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(rw, r)

			if rw.statusCode == http.StatusUnauthorized {
				if detector.RecordFailedAuth(ip) {
					logger.FromContext(r.Context()).Warn(SecurityAlertFailedAuth,
						"ip", ip,
						"path", r.URL.Path)
				}
			}
		})
	}
}

// RequestSizeLimitMiddleware caps request bodies so a misbehaving client
// cannot exhaust memory with an oversized proof payload.
func RequestSizeLimitMiddleware(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// SecurityHeadersMiddleware sets conservative browser security headers on
// every response.
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set(HeaderContentTypeOptions, HeaderValueNoSniff)
			h.Set(HeaderFrameOptions, HeaderValueSameOrigin)
			h.Set(HeaderXSSProtection, HeaderValueXSSBlock)
			h.Set(HeaderReferrerPolicy, HeaderValueStrictOrigin)
			next.ServeHTTP(w, r)
		})
	}
}

func isPublicPath(path string) bool {
	for _, p := range PublicPaths {
		if strings.HasSuffix(p, "/") {
			if strings.HasPrefix(path, p) {
				return true
			}
			continue
		}
		if path == p {
			return true
		}
	}
	return false
}

func parseTrustedProxies(cidrs []string) []*net.IPNet {
	var nets []*net.IPNet
	for _, c := range cidrs {
		if _, n, err := net.ParseCIDR(c); err == nil {
			nets = append(nets, n)
		}
	}
	return nets
}

// extractIP returns the client IP, honoring X-Forwarded-For only when the
// direct peer is a trusted proxy. Untrusted peers could otherwise spoof the
// header and dodge the rate limiter.
func extractIP(r *http.Request, trusted []*net.IPNet) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}

	peer := net.ParseIP(host)
	if peer == nil || len(trusted) == 0 {
		return host
	}

	trustedPeer := false
	for _, n := range trusted {
		if n.Contains(peer) {
			trustedPeer = true
			break
		}
	}
	if !trustedPeer {
		return host
	}

	forwarded := r.Header.Get(HeaderForwardedFor)
	if forwarded == "" {
		return host
	}
	parts := strings.Split(forwarded, ",")
	candidate := strings.TrimSpace(parts[0])
	if net.ParseIP(candidate) != nil {
		return candidate
	}
	return host
}
