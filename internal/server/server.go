// Package server provides the HTTP server for the Mudra gesture control backend.
package server

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ayusman/mudra/internal/analytics"
	"github.com/ayusman/mudra/internal/engine"
	"github.com/ayusman/mudra/internal/metrics"
	"github.com/ayusman/mudra/internal/preprocess"
	"github.com/ayusman/mudra/internal/server/api"
	"github.com/ayusman/mudra/internal/store"
)

// Config holds the server configuration.
type Config struct {
	Engine      *engine.Engine
	Analytics   *analytics.Engine
	Store       *store.Store
	Processor   *preprocess.Processor
	Version     string
	CORSOrigins []string
	MaxFileSize int64
	StaticDir   string
	Logger      *slog.Logger
}

// Server represents the HTTP server for the Mudra application.
type Server struct {
	config  Config
	handler http.Handler
	logger  *slog.Logger
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		config: config,
		logger: logger,
	}
	s.handler = s.buildHandler()
	return s
}

// buildHandler configures the router, middleware and CORS wrapper.
func (s *Server) buildHandler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.recoveryMiddleware, s.requestMiddleware)

	var events *store.EventRepository
	if s.config.Store != nil {
		events = s.config.Store.Events()
	}

	if s.config.Engine != nil {
		r.Handle("/api/gesture/event", api.NewEventHandler(s.config.Engine))
		r.Handle("/api/status", api.NewStateHandler(s.config.Engine))
		r.Handle("/api/config", api.NewConfigHandler(s.config.Engine))
		r.Handle("/api/mapping", api.NewMappingHandler(s.config.Engine))
		r.Handle("/api/stats", api.NewStatsHandler(s.config.Engine, events))
		r.Handle("/api/health", api.NewHealthHandler(s.config.Engine, events, s.config.Version))
	}

	if events != nil {
		r.Handle("/api/logs", api.NewLogsHandler(events))
		r.Handle("/api/logs/export.csv", api.NewExportHandler(events))
	}

	if s.config.Analytics != nil {
		analyticsHandler := api.NewAnalyticsHandler(s.config.Analytics)
		r.HandleFunc("/api/analytics/summary", analyticsHandler.Summary)
		r.HandleFunc("/api/analytics/by-gesture", analyticsHandler.ByGesture)
		r.HandleFunc("/api/analytics/timeline", analyticsHandler.Timeline)
		r.HandleFunc("/api/analytics/accuracy", analyticsHandler.Accuracy)
		r.HandleFunc("/api/analytics/performance", analyticsHandler.Performance)
	}

	if s.config.Processor != nil && s.config.Engine != nil {
		r.Handle("/api/frame/preprocess",
			api.NewFramesHandler(s.config.Processor, s.config.Engine, s.config.MaxFileSize))
	}

	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{}))

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(s.config.StaticDir)))
	}

	cors := handlers.CORS(
		handlers.AllowedOrigins(s.config.CORSOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
		handlers.AllowCredentials(),
	)

	return cors(r)
}

// statusRecorder captures the response status for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// requestMiddleware tags each request with an id, records metrics and
// logs the outcome.
func (s *Server) requestMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(recorder, r)
		elapsed := time.Since(start)

		endpoint := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if template, err := route.GetPathTemplate(); err == nil {
				endpoint = template
			}
		}

		metrics.RecordHTTPRequest(endpoint, r.Method, strconv.Itoa(recorder.status))
		metrics.ObserveHTTPDuration(endpoint, r.Method, elapsed.Seconds())

		s.logger.Debug("request handled",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", recorder.status,
			"duration_ms", elapsed.Milliseconds(),
		)
	})
}

// recoveryMiddleware converts panics into a generic 500 response so an
// unexpected failure in one handler never takes down the server. Each
// recovered panic increments the engine error counter.
func (s *Server) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if s.config.Engine != nil {
					s.config.Engine.RecordError()
				}
				s.logger.Error("handler panicked", "path", r.URL.Path, "panic", rec)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"ok":false,"error":"Internal server error"}`))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
