// Package http exposes the estimation session over an HTTP API, plus the
// health, readiness, and metrics endpoints shared by the service family.
// The adapter maps the core error taxonomy onto statuses: gating violations
// are 409, user input problems and unresolvable queries are 422, malformed
// requests are 400. Nothing in the core formats values for display; this
// layer only serializes them.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/couchcryptid/wind-extremes-service/internal/domain"
	"github.com/couchcryptid/wind-extremes-service/internal/observability"
	"github.com/couchcryptid/wind-extremes-service/internal/project"
	"github.com/couchcryptid/wind-extremes-service/internal/report"
	"github.com/couchcryptid/wind-extremes-service/internal/session"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server exposes the session API and operational HTTP endpoints.
type Server struct {
	httpServer *http.Server
	session    *session.Session
	sweeps     *report.Generator
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewServer creates the HTTP server and wires all routes.
func NewServer(addr string, s *session.Session, sweeps *report.Generator, metrics *observability.Metrics, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	srv := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		session: s,
		sweeps:  sweeps,
		metrics: metrics,
		logger:  logger,
	}

	mux.HandleFunc("PUT /observations", srv.handleRecalculate)
	mux.HandleFunc("GET /fit", srv.handleGetFit)
	mux.HandleFunc("POST /query/forward", srv.handleQueryForward)
	mux.HandleFunc("POST /query/inverse", srv.handleQueryInverse)
	mux.HandleFunc("GET /queries", srv.handleQueries)
	mux.HandleFunc("GET /curve", srv.handleCurve)
	mux.HandleFunc("GET /project", srv.handleExportProject)
	mux.HandleFunc("PUT /project", srv.handleImportProject)

	mux.HandleFunc("GET /healthz", srv.handleHealth)
	mux.HandleFunc("GET /readyz", srv.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	return srv
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

type recalculateRequest struct {
	Observations []domain.RawRow `json:"observations"`
}

type fitResponse struct {
	Location         float64   `json:"location"`
	Scale            float64   `json:"scale"`
	ObservationCount int       `json:"observation_count"`
	FittedAt         time.Time `json:"fitted_at"`
}

func (s *Server) handleRecalculate(w http.ResponseWriter, r *http.Request) {
	var req recalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	params, err := s.session.Recalculate(r.Context(), req.Observations)
	if err != nil {
		s.writeFitError(w, err)
		return
	}

	fittedAt, _ := s.session.FittedAt()
	writeJSON(w, http.StatusOK, fitResponse{
		Location:         params.Location,
		Scale:            params.Scale,
		ObservationCount: len(s.session.Observations()),
		FittedAt:         fittedAt,
	})
}

func (s *Server) handleGetFit(w http.ResponseWriter, _ *http.Request) {
	params, ok := s.session.Params()
	if !ok {
		writeError(w, http.StatusConflict, session.ErrNotFitted.Error())
		return
	}
	fittedAt, _ := s.session.FittedAt()
	writeJSON(w, http.StatusOK, fitResponse{
		Location:         params.Location,
		Scale:            params.Scale,
		ObservationCount: len(s.session.Observations()),
		FittedAt:         fittedAt,
	})
}

type forwardQueryRequest struct {
	ReturnPeriod float64 `json:"return_period"`
}

type inverseQueryRequest struct {
	WindSpeed float64 `json:"wind_speed"`
}

func (s *Server) handleQueryForward(w http.ResponseWriter, r *http.Request) {
	var req forwardQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := s.session.QueryForwardSpeed(req.ReturnPeriod)
	if err != nil {
		s.writeQueryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleQueryInverse(w http.ResponseWriter, r *http.Request) {
	var req inverseQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := s.session.QueryReturnPeriod(req.WindSpeed)
	if err != nil {
		s.writeQueryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleQueries(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"queries": s.session.History()})
}

func (s *Server) handleCurve(w http.ResponseWriter, r *http.Request) {
	curve, ok := s.session.Curve()
	if !ok {
		writeError(w, http.StatusConflict, session.ErrNotFitted.Error())
		return
	}

	spec, err := s.sweepSpecFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	pts, err := s.sweeps.Sweep(curve, spec)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"points":       pts,
		"observations": s.session.Observations(),
	})
}

// sweepSpecFromQuery builds a sweep spec from ?min=&max=&points=&scale=,
// defaulting each parameter independently. scale defaults to the session's
// persisted preference.
func (s *Server) sweepSpecFromQuery(r *http.Request) (report.Spec, error) {
	spec := report.DefaultSpec(s.session.UseLogScale())
	q := r.URL.Query()

	if v := q.Get("min"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return report.Spec{}, errors.New("invalid min")
		}
		spec.MinReturnPeriod = f
	}
	if v := q.Get("max"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return report.Spec{}, errors.New("invalid max")
		}
		spec.MaxReturnPeriod = f
	}
	if v := q.Get("points"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return report.Spec{}, errors.New("invalid points")
		}
		spec.Points = n
	}
	switch q.Get("scale") {
	case "":
	case "log":
		spec.LogSpaced = true
	case "linear":
		spec.LogSpaced = false
	default:
		return report.Spec{}, errors.New("invalid scale: want log or linear")
	}

	return spec, nil
}

func (s *Server) handleExportProject(w http.ResponseWriter, _ *http.Request) {
	s.metrics.ProjectIO.WithLabelValues("save", "success").Inc()
	writeJSON(w, http.StatusOK, project.FromSession(s.session))
}

func (s *Server) handleImportProject(w http.ResponseWriter, r *http.Request) {
	var f project.File
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		s.metrics.ProjectIO.WithLabelValues("load", "error").Inc()
		writeError(w, http.StatusBadRequest, "invalid project body")
		return
	}
	if (f.Location == nil) != (f.Scale == nil) {
		s.metrics.ProjectIO.WithLabelValues("load", "error").Inc()
		writeError(w, http.StatusBadRequest, "location and scale must both be present or both null")
		return
	}

	if err := project.Apply(&f, s.session, s.logger); err != nil {
		s.metrics.ProjectIO.WithLabelValues("load", "error").Inc()
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.metrics.ProjectIO.WithLabelValues("load", "success").Inc()
	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded"})
}

// writeFitError maps recalculation failures. All of them are user-correctable
// input problems, reported as 422 with enough detail to fix the data.
func (s *Server) writeFitError(w http.ResponseWriter, err error) {
	var rowErr *domain.RowError
	if errors.As(err, &rowErr) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error": rowErr.Error(),
			"row":   rowErr.Row,
			"kind":  string(rowErr.Kind),
		})
		return
	}

	switch {
	case errors.Is(err, domain.ErrInsufficientData),
		errors.Is(err, domain.ErrDegenerateInput),
		errors.Is(err, domain.ErrNumericalFailure):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		s.logger.Error("recalculate failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// writeQueryError maps query failures: gating → 409, bad input and
// unresolvable results → 422.
func (s *Server) writeQueryError(w http.ResponseWriter, err error) {
	var domErr *session.DomainError
	var unres *session.UnresolvableError

	switch {
	case errors.Is(err, session.ErrNotFitted):
		writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &domErr), errors.As(err, &unres):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		s.logger.Error("query failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// handleReady always reports ready: the session has no external
// dependencies to wait on, so the service is ready as soon as it listens.
func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
