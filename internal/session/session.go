// Package session owns the fit state machine: a session is Unfit until a
// successful recalculation and holds exactly one set of fitted parameters at
// a time. Queries are only answered in the Fitted state, and every
// recalculation — successful or not — invalidates the query history, since
// recorded query annotations are only meaningful against the curve they were
// computed from.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/couchcryptid/wind-extremes-service/internal/domain"
	"github.com/couchcryptid/wind-extremes-service/internal/observability"
)

// QueryKind tags the two query directions.
type QueryKind string

const (
	// QueryForward solves wind speed from a known return period.
	QueryForward QueryKind = "forward"
	// QueryInverse solves return period from a known wind speed.
	QueryInverse QueryKind = "inverse"
)

// QueryRecord is one successfully answered query, immutable once recorded.
// Input and Output carry no units or formatting; rendering is the
// presentation layer's job.
type QueryRecord struct {
	Kind       QueryKind `json:"kind"`
	Input      float64   `json:"input"`
	Output     float64   `json:"output"`
	RecordedAt time.Time `json:"recorded_at"`
}

// FitEvent describes a successful recalculation for downstream consumers.
type FitEvent struct {
	Params           domain.FitParameters `json:"params"`
	ObservationCount int                  `json:"observation_count"`
	FittedAt         time.Time            `json:"fitted_at"`
}

// FitPublisher receives fit events after each successful recalculation.
type FitPublisher interface {
	PublishFit(ctx context.Context, event FitEvent) error
}

// ErrNotFitted gates queries and curve requests before any successful fit.
var ErrNotFitted = errors.New("no fit available: recalculate with at least two valid observations first")

// DomainError reports a query input that violates its precondition
// (T ≤ 1 or V ≤ 0). The session state is unchanged.
type DomainError struct {
	Reason string
}

func (e *DomainError) Error() string { return e.Reason }

// UnresolvableError reports a query whose result was undefined, unbounded,
// or out of the meaningful range — "no valid answer", not a fault.
type UnresolvableError struct {
	Reason string
}

func (e *UnresolvableError) Error() string { return e.Reason }

// Session holds the current fit state, the validated observation set it was
// computed from, and the ordered history of answered queries.
//
// A single mutex serializes recalculation against queries so a query can
// never observe a half-replaced fit. All operations run to completion on the
// calling goroutine.
type Session struct {
	logger    *slog.Logger
	metrics   *observability.Metrics
	publisher FitPublisher // nil disables publishing

	mu           sync.Mutex
	rows         []domain.RawRow
	observations domain.ObservationSet
	fitted       bool
	curve        domain.Curve
	fittedAt     time.Time
	queries      []QueryRecord
	useLogScale  bool
}

// New creates an unfit session. publisher may be nil.
func New(logger *slog.Logger, metrics *observability.Metrics, publisher FitPublisher) *Session {
	return &Session{
		logger:      logger,
		metrics:     metrics,
		publisher:   publisher,
		useLogScale: true,
	}
}

// Recalculate replaces the observation set from raw rows and refits.
// On success the fitted parameters are replaced atomically and the query
// history is cleared. On any failure the session drops to Unfit — parameters
// absent, history cleared — but keeps the raw rows so they can be corrected
// and persisted.
func (s *Session) Recalculate(ctx context.Context, rows []domain.RawRow) (domain.FitParameters, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	s.rows = append([]domain.RawRow(nil), rows...)
	s.queries = nil

	obs, err := domain.ParseRows(rows)
	if err != nil {
		s.clearFitLocked()
		s.metrics.FitsTotal.WithLabelValues("invalid_input").Inc()
		return domain.FitParameters{}, err
	}
	s.observations = obs

	params, err := domain.Fit(obs)
	if err != nil {
		s.clearFitLocked()
		s.metrics.FitsTotal.WithLabelValues(fitOutcome(err)).Inc()
		return domain.FitParameters{}, err
	}

	s.curve = domain.NewCurve(params)
	s.fitted = true
	s.fittedAt = domain.Now()

	s.metrics.FitsTotal.WithLabelValues("success").Inc()
	s.metrics.FitDuration.Observe(time.Since(start).Seconds())
	s.metrics.ObservationCount.Observe(float64(len(obs)))
	s.metrics.SessionFitted.Set(1)

	s.logger.Info("fit recalculated",
		"location", params.Location,
		"scale", params.Scale,
		"observations", len(obs),
	)

	s.publishFitLocked(ctx, FitEvent{
		Params:           params,
		ObservationCount: len(obs),
		FittedAt:         s.fittedAt,
	})

	return params, nil
}

// publishFitLocked sends the fit event best-effort: a publish failure is
// logged, never surfaced to the caller — the fit itself already succeeded.
func (s *Session) publishFitLocked(ctx context.Context, event FitEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishFit(ctx, event); err != nil {
		s.logger.Warn("fit event publish failed", "error", err)
	}
}

func (s *Session) clearFitLocked() {
	s.observations = nil
	s.fitted = false
	s.curve = domain.Curve{}
	s.fittedAt = time.Time{}
	s.metrics.SessionFitted.Set(0)
}

func fitOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientData):
		return "insufficient_data"
	case errors.Is(err, domain.ErrDegenerateInput):
		return "degenerate_input"
	case errors.Is(err, domain.ErrNumericalFailure):
		return "numerical_failure"
	default:
		return "error"
	}
}

// QueryForwardSpeed answers "what wind speed has return period T" and
// records the result. T ≤ 1 is a user input error; an undefined or unbounded
// evaluation is unresolvable.
func (s *Session) QueryForwardSpeed(t float64) (QueryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.fitted {
		s.metrics.QueriesTotal.WithLabelValues(string(QueryForward), "not_fitted").Inc()
		return QueryRecord{}, ErrNotFitted
	}
	if !(t > 1) {
		s.metrics.QueriesTotal.WithLabelValues(string(QueryForward), "domain_error").Inc()
		return QueryRecord{}, &DomainError{Reason: "return period must be greater than 1 year"}
	}

	v, ok := s.curve.WindSpeed(t).Float64()
	if !ok {
		s.metrics.QueriesTotal.WithLabelValues(string(QueryForward), "unresolvable").Inc()
		return QueryRecord{}, &UnresolvableError{
			Reason: fmt.Sprintf("could not compute wind speed for T = %g years, likely out of range", t),
		}
	}

	rec := QueryRecord{Kind: QueryForward, Input: t, Output: v, RecordedAt: domain.Now()}
	s.queries = append(s.queries, rec)
	s.metrics.QueriesTotal.WithLabelValues(string(QueryForward), "success").Inc()
	return rec, nil
}

// QueryReturnPeriod answers "what return period has wind speed V" and
// records the result. V ≤ 0 is a user input error; undefined, unbounded, or
// T ≤ 1 results are unresolvable (an inverse return period must itself be
// greater than 1 to be meaningful).
func (s *Session) QueryReturnPeriod(v float64) (QueryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.fitted {
		s.metrics.QueriesTotal.WithLabelValues(string(QueryInverse), "not_fitted").Inc()
		return QueryRecord{}, ErrNotFitted
	}
	if !(v > 0) {
		s.metrics.QueriesTotal.WithLabelValues(string(QueryInverse), "domain_error").Inc()
		return QueryRecord{}, &DomainError{Reason: "wind speed must be greater than 0"}
	}

	t, ok := s.curve.ReturnPeriod(v).Float64()
	if !ok || t <= 1 {
		s.metrics.QueriesTotal.WithLabelValues(string(QueryInverse), "unresolvable").Inc()
		return QueryRecord{}, &UnresolvableError{
			Reason: fmt.Sprintf("could not compute a valid return period (T > 1) for V = %g, likely out of range", v),
		}
	}

	rec := QueryRecord{Kind: QueryInverse, Input: v, Output: t, RecordedAt: domain.Now()}
	s.queries = append(s.queries, rec)
	s.metrics.QueriesTotal.WithLabelValues(string(QueryInverse), "success").Inc()
	return rec, nil
}

// Curve returns the fitted evaluator. The second return is false in the
// Unfit state, in which case the zero Curve (which evaluates everything to
// undefined) is returned — sweep callers get graceful gaps either way.
func (s *Session) Curve() (domain.Curve, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.curve, s.fitted
}

// Params returns the current fit parameters and whether any exist.
func (s *Session) Params() (domain.FitParameters, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.fitted {
		return domain.FitParameters{}, false
	}
	return s.curve.Params(), true
}

// FittedAt returns when the current parameters were computed.
func (s *Session) FittedAt() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fittedAt, s.fitted
}

// Observations returns a copy of the validated observation set behind the
// current fit.
func (s *Session) Observations() domain.ObservationSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append(domain.ObservationSet(nil), s.observations...)
}

// Rows returns a copy of the raw rows from the most recent recalculation or
// restore, including rows that failed validation.
func (s *Session) Rows() []domain.RawRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.RawRow(nil), s.rows...)
}

// History returns a copy of the ordered query history.
func (s *Session) History() []QueryRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]QueryRecord(nil), s.queries...)
}

// UseLogScale reports the persisted plotting-scale preference.
func (s *Session) UseLogScale() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.useLogScale
}

// SetUseLogScale stores the plotting-scale preference. Presentation state
// only; the core round-trips it for project files.
func (s *Session) SetUseLogScale(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.useLogScale = v
}

// Restore installs previously persisted state wholesale: parameters, raw
// rows, query history, and scale preference, without refitting. Rows that
// validate are kept as the observation set so reports can render input
// points. Used by project loading when the file carries its own parameters;
// no fit event is published for restored state.
func (s *Session) Restore(params domain.FitParameters, rows []domain.RawRow, queries []QueryRecord, useLogScale bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rows = append([]domain.RawRow(nil), rows...)
	s.useLogScale = useLogScale

	obs, err := domain.ParseRows(rows)
	if err != nil {
		obs = nil
	}
	s.observations = obs

	s.curve = domain.NewCurve(params)
	s.fitted = true
	s.fittedAt = domain.Now()
	s.queries = append([]QueryRecord(nil), queries...)
	s.metrics.SessionFitted.Set(1)
}
