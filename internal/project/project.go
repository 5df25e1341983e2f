// Package project persists session state as a project file: a JSON record
// of the fitted parameters (if any), the raw observation rows, the query
// history, and the plotting-scale preference. The format is the boundary
// contract with the presentation layer's open/save dialogs.
package project

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/couchcryptid/wind-extremes-service/internal/domain"
	"github.com/couchcryptid/wind-extremes-service/internal/session"
)

// File is the on-disk project record. Location and Scale are null while the
// project has no fit; observations stay in raw text form so unvalidated
// rows survive a save/load cycle.
type File struct {
	Location     *float64              `json:"location"`
	Scale        *float64              `json:"scale"`
	Observations []domain.RawRow       `json:"observations"`
	Queries      []session.QueryRecord `json:"queries"`
	UseLogScale  bool                  `json:"use_log_scale"`
}

// FromSession captures the session's current state as a project record.
func FromSession(s *session.Session) *File {
	f := &File{
		Observations: s.Rows(),
		Queries:      s.History(),
		UseLogScale:  s.UseLogScale(),
	}
	if params, ok := s.Params(); ok {
		f.Location = &params.Location
		f.Scale = &params.Scale
	}
	return f
}

// Apply installs a project record into the session. A record with stored
// parameters is restored as-is, including its query history. A record with
// null parameters but at least two valid observations triggers an automatic
// refit so the derived parameters are never stale relative to the stored
// observations; with fewer, the session is left unfit with the rows kept.
func Apply(f *File, s *session.Session, logger *slog.Logger) error {
	if f.Location != nil && f.Scale != nil {
		s.Restore(
			domain.FitParameters{Location: *f.Location, Scale: *f.Scale},
			f.Observations,
			f.Queries,
			f.UseLogScale,
		)
		return nil
	}

	s.SetUseLogScale(f.UseLogScale)
	if _, err := s.Recalculate(context.Background(), f.Observations); err != nil {
		// Too few or invalid observations is a loadable-but-unfit project,
		// same as the user having typed them in without recalculating.
		logger.Warn("project loaded without fit", "error", err)
	}
	return nil
}

// Save writes the session's state to path. Write failures are surfaced to
// the caller; the in-memory session is never affected.
func Save(path string, s *session.Session) error {
	data, err := json.MarshalIndent(FromSession(s), "", "  ")
	if err != nil {
		return fmt.Errorf("encode project: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write project: %w", err)
	}
	return nil
}

// Load reads a project file from path and applies it to the session.
// Read and decode failures leave the session's prior state untouched.
func Load(path string, s *session.Session, logger *slog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read project: %w", err)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("decode project: %w", err)
	}
	if (f.Location == nil) != (f.Scale == nil) {
		return errors.New("decode project: location and scale must both be present or both null")
	}

	return Apply(&f, s, logger)
}
