// Package guardian orchestrates the full pipeline: structural
// analysis, spec building, parallel generation, suite optimization,
// violation detection, cycle tracking, and quality assessment, merged
// into one GuardianResult.
package guardian

import (
	"context"
	"time"

	"github.com/unbound-force/tddguard/internal/analyze"
	"github.com/unbound-force/tddguard/internal/cycle"
	"github.com/unbound-force/tddguard/internal/generate"
	"github.com/unbound-force/tddguard/internal/model"
	"github.com/unbound-force/tddguard/internal/optimize"
	"github.com/unbound-force/tddguard/internal/quality"
	"github.com/unbound-force/tddguard/internal/specbuild"
	"github.com/unbound-force/tddguard/internal/violation"
)

// Version is reported in run metadata.
const Version = "0.1.0"

// Config tunes one engine instance.
type Config struct {
	// Mode is the generation breadth: minimal | standard |
	// comprehensive.
	Mode string

	// Intensity in [0,1] scales generation depth.
	Intensity float64

	// Workers bounds concurrent generation tasks.
	Workers int

	// CoverageTarget is the fractional coverage goal.
	CoverageTarget float64

	// AssertionStrengthThreshold is the minimum acceptable
	// assertion-strength ratio.
	AssertionStrengthThreshold float64
}

// Engine runs the guardian pipeline. The cycle store is an explicitly
// owned handle supplied by the caller, never process-wide state.
type Engine struct {
	cfg     Config
	tracker *cycle.Tracker
}

// New builds an engine persisting cycles through the given store.
func New(cfg Config, store cycle.Store) *Engine {
	if cfg.Mode == "" {
		cfg.Mode = "standard"
	}
	return &Engine{
		cfg:     cfg,
		tracker: cycle.NewTracker(store),
	}
}

// Tracker exposes the cycle tracker so callers can drive phase
// transitions between runs.
func (e *Engine) Tracker() *cycle.Tracker { return e.tracker }

// Run executes the full pipeline over one source unit. Only an
// analysis failure returns an error; every other failure class is
// accumulated into the result's diagnostics, so callers always get a
// best-effort aggregate.
func (e *Engine) Run(ctx context.Context, unit model.SourceUnit, meta violation.Metadata) (*model.GuardianResult, error) {
	start := time.Now()

	structural, err := analyze.Unit(unit)
	if err != nil {
		return nil, err
	}

	specs := specbuild.Build(structural, specbuild.Options{
		CoverageTarget: e.cfg.CoverageTarget,
	})

	res := &model.GuardianResult{
		Model: *structural,
		Specs: specs,
	}

	pool := generate.Run(ctx, specs, generate.PoolOptions{
		Mode:      e.cfg.Mode,
		Intensity: e.cfg.Intensity,
		Workers:   e.cfg.Workers,
	})
	res.Diagnostics = append(res.Diagnostics, pool.Diagnostics...)

	opt := optimize.Suite(pool.Tests)
	res.Suite = opt.Tests
	for _, oerr := range opt.Errors {
		res.Diagnostics = append(res.Diagnostics, model.Diagnostic{
			Stage:   "optimize",
			Message: oerr.Error(),
		})
	}

	res.Violations = append(res.Violations, violation.Detect(structural, meta, violation.Options{
		CoverageTarget: e.cfg.CoverageTarget,
	})...)
	res.Violations = append(res.Violations, e.tracker.Violations()...)

	res.Quality = quality.Assess(specs, res.Suite, quality.Options{
		AssertionStrengthThreshold: e.cfg.AssertionStrengthThreshold,
		CoverageTarget:             e.cfg.CoverageTarget,
	})

	if c, ok := e.tracker.ActiveCycle(unit.StableID()); ok {
		res.Cycles = append(res.Cycles, c)
	}

	res.Metadata = model.Metadata{
		GuardianVersion: Version,
		Timestamp:       start,
		Duration:        time.Since(start),
	}
	return res, nil
}
