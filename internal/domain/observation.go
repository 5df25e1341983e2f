package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Observation is a validated (return period, wind speed) pair.
// Invariant: ReturnPeriod > 1 and WindSpeed > 0.
type Observation struct {
	ReturnPeriod float64 `json:"return_period"`
	WindSpeed    float64 `json:"wind_speed"`
}

// ObservationSet is an ordered sequence of observations. Insertion order is
// preserved for reporting; fitting does not depend on it.
type ObservationSet []Observation

// RawRow is one unvalidated table row as entered by the user or stored in a
// project file: both cells are raw text.
type RawRow struct {
	ReturnPeriod string `json:"return_period"`
	WindSpeed    string `json:"wind_speed"`
}

// RowErrorKind classifies why an ingested row was rejected.
type RowErrorKind string

const (
	// RowNonNumeric means a cell did not parse as a number.
	RowNonNumeric RowErrorKind = "non_numeric"
	// RowOutOfDomain means the numbers are not finite or violate
	// T > 1 or V > 0.
	RowOutOfDomain RowErrorKind = "out_of_domain"
)

// RowError reports the first invalid row in a batch. Row is zero-based.
type RowError struct {
	Row  int
	Kind RowErrorKind
}

func (e *RowError) Error() string {
	switch e.Kind {
	case RowNonNumeric:
		return fmt.Sprintf("row %d: invalid numeric data", e.Row+1)
	case RowOutOfDomain:
		return fmt.Sprintf("row %d: return period must be > 1 and wind speed > 0", e.Row+1)
	default:
		return fmt.Sprintf("row %d: invalid", e.Row+1)
	}
}

// ParseRows validates a batch of raw rows into an ObservationSet. The batch
// is all-or-nothing: the first invalid row fails the whole batch with a
// *RowError carrying its index. Rows with an empty cell are skipped, not
// rejected. Row order is preserved.
func ParseRows(rows []RawRow) (ObservationSet, error) {
	obs := make(ObservationSet, 0, len(rows))
	for i, row := range rows {
		tStr := strings.TrimSpace(row.ReturnPeriod)
		vStr := strings.TrimSpace(row.WindSpeed)
		if tStr == "" || vStr == "" {
			continue
		}

		t, errT := strconv.ParseFloat(tStr, 64)
		v, errV := strconv.ParseFloat(vStr, 64)
		if errT != nil || errV != nil {
			return nil, &RowError{Row: i, Kind: RowNonNumeric}
		}
		// Inverted comparisons so NaN fails the check; ParseFloat accepts
		// "NaN" and "Inf" spellings, and a NaN that slips through poisons
		// the fit without any error.
		if !(t > 1) || !(v > 0) || math.IsInf(t, 1) || math.IsInf(v, 1) {
			return nil, &RowError{Row: i, Kind: RowOutOfDomain}
		}

		obs = append(obs, Observation{ReturnPeriod: t, WindSpeed: v})
	}
	return obs, nil
}

// Rows converts validated observations back to their raw-text form for
// project persistence. Formatting uses the shortest round-trippable
// representation.
func (s ObservationSet) Rows() []RawRow {
	rows := make([]RawRow, len(s))
	for i, o := range s {
		rows[i] = RawRow{
			ReturnPeriod: strconv.FormatFloat(o.ReturnPeriod, 'g', -1, 64),
			WindSpeed:    strconv.FormatFloat(o.WindSpeed, 'g', -1, 64),
		}
	}
	return rows
}
