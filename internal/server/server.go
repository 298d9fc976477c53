package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/replantlab/missiond/internal/assign"
	"github.com/replantlab/missiond/internal/config"
	"github.com/replantlab/missiond/internal/database"
	"github.com/replantlab/missiond/internal/handler"
	"github.com/replantlab/missiond/internal/logger"
	"github.com/replantlab/missiond/internal/metrics"
	"github.com/replantlab/missiond/internal/repository"
	"github.com/replantlab/missiond/internal/verify"
)

// Dependencies collects everything the HTTP surface needs.
type Dependencies struct {
	DB     database.Pool
	Verify verify.Service
	Assign assign.Service
	Badges repository.Badge
}

// Server wraps the HTTP server and its router.
type Server struct {
	httpServer *http.Server
	port       int
}

// NewServer builds the router, wires middleware and routes, and returns a
// server ready to Start.
func NewServer(cfg *config.Config, deps Dependencies) *Server {
	r := chi.NewRouter()

	detector := NewSuspiciousActivityDetector()

	r.Use(SecurityHeadersMiddleware())
	r.Use(SecurityLoggingMiddleware(cfg.TrustedProxies, detector))
	r.Use(AuthMiddleware(cfg.APIKey))
	r.Use(RequestSizeLimitMiddleware(maxRequestBodyBytes))
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(deps.DB))
	r.Get("/version", handler.HandleVersion())
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/missions", func(r chi.Router) {
			r.Get("/", handler.HandleListMissions(deps.Assign))
			r.Post("/custom", handler.HandleAddCustomMission(deps.Assign))
			r.Post("/{instanceID}/verify", handler.HandleVerifyMission(deps.Verify))
			r.Delete("/{instanceID}/proof", handler.HandleWithdrawProof(deps.Verify))
		})
		r.Post("/votes", handler.HandleCastVote(deps.Verify))
		r.Get("/badges", handler.HandleListBadges(deps.Badges))
		r.Put("/schedule", handler.HandleUpdateSchedule(deps.Assign))
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           r,
			ReadHeaderTimeout: readHeaderTimeout,
		},
		port: cfg.Port,
	}
}

// Start begins serving requests. It blocks until the server stops.
func (s *Server) Start() error {
	logger.Info(LogMsgServerStarting, "port", s.port)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Stop drains in-flight requests, giving them a bounded grace period.
func (s *Server) Stop(ctx context.Context) error {
	logger.Info(LogMsgServerStopping)
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownGraceTimeout)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

// responseWriter captures the status code written downstream.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// quietPaths are probed constantly by orchestration and scrapers; logging
// each hit would drown out real traffic.
var quietPaths = map[string]bool{
	"/healthz": true,
	"/readyz":  true,
	"/metrics": true,
}

// loggingMiddleware tags each request with an id, logs its lifecycle, and
// redacts credential headers before they reach the log stream.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if quietPaths[r.URL.Path] {
			next.ServeHTTP(w, r)
			return
		}

		requestID := r.Header.Get(HeaderRequestID)
		if requestID == "" {
			requestID = logger.GenerateRequestID()
		}

		ctx := logger.WithRequestID(r.Context(), requestID)
		log := logger.FromContext(ctx)

		start := time.Now()
		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr)
		log.Debug(LogMsgRequestHeaders, "headers", redactHeaders(r.Header))

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r.WithContext(ctx))

		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds())
	})
}

// redactHeaders renders request headers for debug logging with credential
// values masked. Keys are compared in canonical MIME form because the http
// package stores "X-API-Key" as "X-Api-Key".
func redactHeaders(h http.Header) string {
	apiKeyHeader := http.CanonicalHeaderKey(HeaderAPIKey)
	authHeader := http.CanonicalHeaderKey(HeaderAuthorization)

	var b strings.Builder
	for name, values := range h {
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString(name)
		b.WriteString("=")
		switch http.CanonicalHeaderKey(name) {
		case apiKeyHeader, authHeader:
			b.WriteString(RedactedValue)
		default:
			b.WriteString(strings.Join(values, ","))
		}
	}
	return b.String()
}
