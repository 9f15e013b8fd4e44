package generate

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/unbound-force/tddguard/internal/model"
)

// PoolOptions configures the generation fan-out.
type PoolOptions struct {
	// Mode selects the enabled strategies (minimal | standard |
	// comprehensive).
	Mode string

	// Intensity in [0,1] scales case counts and task budgets.
	Intensity float64

	// Workers bounds concurrent generation tasks. Defaults to 4.
	Workers int

	// TaskTimeout overrides the intensity-derived per-task budget
	// when positive.
	TaskTimeout time.Duration
}

// Result is the pool output: the combined tests plus diagnostics for
// every non-fatal generator failure or timeout.
type Result struct {
	Tests       []model.GeneratedTest
	Diagnostics []model.Diagnostic
}

// taskBudget derives the per-task timeout from intensity: higher
// intensity generates more cases and gets a longer budget.
func taskBudget(opts PoolOptions) time.Duration {
	if opts.TaskTimeout > 0 {
		return opts.TaskTimeout
	}
	return 2*time.Second + time.Duration(opts.Intensity*float64(8*time.Second))
}

// Run fans generation out across (spec, generator) pairs through a
// bounded worker pool. Strategies that consume the base suite
// (mutation) run as a second wave once the first wave completes.
// Run always returns a best-effort result; individual task failures
// and timeouts become diagnostics, never errors.
func Run(ctx context.Context, specs []model.TestGenerationSpec, opts PoolOptions) Result {
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	intensity := opts.Intensity
	if intensity < 0 {
		intensity = 0
	}
	if intensity > 1 {
		intensity = 1
	}

	var wave1, wave2 []Generator
	for _, name := range Strategies(opts.Mode) {
		gen := New(name)
		if gen == nil {
			continue
		}
		if _, ok := gen.(SuiteConsumer); ok {
			wave2 = append(wave2, gen)
		} else {
			wave1 = append(wave1, gen)
		}
	}

	res := Result{}
	budget := taskBudget(opts)

	base := runWave(ctx, specs, wave1, intensity, opts.Workers, budget, &res)
	res.Tests = append(res.Tests, base...)

	if len(wave2) > 0 {
		for _, gen := range wave2 {
			gen.(SuiteConsumer).ConsumeSuite(base)
		}
		second := runWave(ctx, specs, wave2, intensity, opts.Workers, budget, &res)
		res.Tests = append(res.Tests, second...)
	}

	return res
}

// runWave executes one wave of (spec, generator) tasks and returns
// the tests in deterministic (spec, category, seq) order regardless
// of completion order.
func runWave(
	ctx context.Context,
	specs []model.TestGenerationSpec,
	gens []Generator,
	intensity float64,
	workers int,
	budget time.Duration,
	res *Result,
) []model.GeneratedTest {
	specRank := make(map[string]int, len(specs))
	for i, s := range specs {
		specRank[s.ID] = i
	}

	type taskOut struct {
		tests []model.GeneratedTest
		diag  *model.Diagnostic
	}

	var (
		mu   sync.Mutex
		outs []taskOut
	)

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, spec := range specs {
		for _, gen := range gens {
			spec, gen := spec, gen
			g.Go(func() error {
				taskCtx, cancel := context.WithTimeout(groupCtx, budget)
				defer cancel()

				tests, err := gen.Generate(taskCtx, spec, intensity)

				out := taskOut{}
				switch {
				case errors.Is(taskCtx.Err(), context.DeadlineExceeded):
					// Timed-out tasks are treated identically to
					// generator failures: recorded and excluded.
					out.diag = &model.Diagnostic{
						Stage:     "generate",
						Generator: gen.Name(),
						Function:  spec.Function.QualifiedName(),
						Message:   "generation task timed out",
					}
				case err != nil:
					out.diag = &model.Diagnostic{
						Stage:     "generate",
						Generator: gen.Name(),
						Function:  spec.Function.QualifiedName(),
						Message:   err.Error(),
					}
				default:
					out.tests = tests
				}

				mu.Lock()
				outs = append(outs, out)
				mu.Unlock()
				return nil
			})
		}
	}
	_ = g.Wait() // tasks never return errors; failures are diagnostics

	var tests []model.GeneratedTest
	for _, out := range outs {
		if out.diag != nil {
			res.Diagnostics = append(res.Diagnostics, *out.diag)
		}
		tests = append(tests, out.tests...)
	}

	// Completion order is unordered by contract; normalize so the
	// second wave and the optimizer see a deterministic sequence.
	sort.SliceStable(tests, func(i, j int) bool {
		a, b := tests[i], tests[j]
		if specRank[a.SpecID] != specRank[b.SpecID] {
			return specRank[a.SpecID] < specRank[b.SpecID]
		}
		if model.CategoryRank(a.Category) != model.CategoryRank(b.Category) {
			return model.CategoryRank(a.Category) < model.CategoryRank(b.Category)
		}
		return a.Seq < b.Seq
	})

	sort.SliceStable(res.Diagnostics, func(i, j int) bool {
		a, b := res.Diagnostics[i], res.Diagnostics[j]
		if a.Function != b.Function {
			return a.Function < b.Function
		}
		return a.Generator < b.Generator
	})

	return tests
}
