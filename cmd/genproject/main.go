// Command genproject generates a synthetic project file from a known Gumbel
// line plus reproducible noise. The generated file stores null parameters so
// loading it exercises the automatic refit path, and the recovered fit should
// land near the true line for small noise levels.
//
// Usage:
//
//	go run ./cmd/genproject \
//	  -out data/mock/coastal_station.json \
//	  -location 18.2 -scale 5.1 -noise 0.5 -seed 1
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"

	"github.com/couchcryptid/wind-extremes-service/internal/domain"
	"github.com/couchcryptid/wind-extremes-service/internal/project"
	"github.com/couchcryptid/wind-extremes-service/internal/session"
)

// returnPeriods is the standard ladder of design return periods; -points
// takes a prefix of it.
var returnPeriods = []float64{2, 5, 10, 20, 50, 100, 200, 500, 1000}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path for the project JSON file")
	location := flag.Float64("location", 18.2, "true location parameter of the generating line")
	scale := flag.Float64("scale", 5.1, "true scale parameter of the generating line")
	noise := flag.Float64("noise", 0.5, "stddev of gaussian noise added to each wind speed")
	points := flag.Int("points", 6, "number of observations to generate (max 9)")
	seed := flag.Int64("seed", 1, "random seed for reproducible noise")
	logScale := flag.Bool("log-scale", true, "stored plotting-scale preference")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	if *points < 2 || *points > len(returnPeriods) {
		return fmt.Errorf("-points must be between 2 and %d", len(returnPeriods))
	}
	if *scale <= 0 {
		return fmt.Errorf("-scale must be positive")
	}

	rng := rand.New(rand.NewSource(*seed))

	rows := make([]domain.RawRow, 0, *points)
	for _, t := range returnPeriods[:*points] {
		y, ok := domain.ReducedVariate(t).Float64()
		if !ok {
			return fmt.Errorf("return period %g out of domain", t)
		}
		v := *location + *scale*y + rng.NormFloat64()**noise
		rows = append(rows, domain.RawRow{
			ReturnPeriod: strconv.FormatFloat(t, 'g', -1, 64),
			WindSpeed:    strconv.FormatFloat(v, 'f', 2, 64),
		})
		log.Printf("T=%-5g V=%s", t, rows[len(rows)-1].WindSpeed)
	}

	file := project.File{
		Observations: rows,
		Queries:      []session.QueryRecord{},
		UseLogScale:  *logScale,
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("encode project: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		return fmt.Errorf("write project: %w", err)
	}

	log.Printf("wrote project fixture: %s (%d observations, true line location=%g scale=%g)",
		*out, len(rows), *location, *scale)
	return nil
}
