// Package violation detects breaches of test-first development
// discipline from the structural model plus externally supplied
// development metadata. It never inspects version-control or coverage
// state itself; a VCS/coverage collaborator supplies the facts.
package violation

import (
	"fmt"

	"github.com/unbound-force/tddguard/internal/model"
)

// FunctionMetadata is the flat development-metadata record a
// collaborator supplies for one function.
type FunctionMetadata struct {
	// TestExists reports whether any test file references the
	// function.
	TestExists bool `json:"test_exists"`

	// TestCommittedFirst reports whether the first test commit
	// predates the first implementation commit. Meaningless when
	// TestExists is false.
	TestCommittedFirst bool `json:"test_committed_first"`

	// Coverage is the measured line coverage fraction in [0,1].
	Coverage float64 `json:"coverage"`

	// AssertionDensity is the mean assertion count per test.
	AssertionDensity float64 `json:"assertion_density"`

	// TrivialAssertionsOnly reports that every existing assertion is
	// a bare non-null or smoke check.
	TrivialAssertionsOnly bool `json:"trivial_assertions_only"`
}

// Metadata maps function names to their development metadata.
// Functions absent from the map are treated as having no tests.
type Metadata map[string]FunctionMetadata

// Options tunes detection thresholds.
type Options struct {
	// CoverageTarget is the coverage fraction below which
	// insufficient-tests fires. Defaults to 0.95.
	CoverageTarget float64

	// DensityFloor is the assertion density below which a
	// premature-implementation finding fires for complex functions.
	// Defaults to 1.0 (at least one assertion per test).
	DensityFloor float64

	// ComplexityCeiling is the cyclomatic complexity above which a
	// function counts as complex for the premature-implementation
	// rule. Defaults to 5.
	ComplexityCeiling int
}

func (o *Options) defaults() {
	if o.CoverageTarget <= 0 || o.CoverageTarget > 1 {
		o.CoverageTarget = 0.95
	}
	if o.DensityFloor <= 0 {
		o.DensityFloor = 1.0
	}
	if o.ComplexityCeiling <= 0 {
		o.ComplexityCeiling = 5
	}
}

// Detect runs the rule table over every function in the model and
// returns the findings in model order. Detection is a pure function
// of the model and metadata.
func Detect(m *model.StructuralModel, meta Metadata, opts Options) []model.Violation {
	opts.defaults()

	var out []model.Violation
	for _, fn := range m.Functions {
		out = append(out, detectFunction(m.UnitID, fn, meta[fn.Name], opts)...)
	}
	return out
}

func detectFunction(unitID string, fn model.FunctionSignature, fm FunctionMetadata, opts Options) []model.Violation {
	loc := unitID + ":" + fn.QualifiedName()
	var out []model.Violation

	if !fm.TestExists {
		v := model.NewViolation(model.CodeWithoutTest, loc,
			"no test file references this function")
		v.Remediation = fmt.Sprintf("write a failing test for %s before touching the implementation", fn.QualifiedName())
		out = append(out, v)

		// Every downstream rule presumes tests exist.
		return out
	}

	if !fm.TestCommittedFirst {
		v := model.NewViolation(model.TestNotFirst, loc,
			"implementation commit predates the first test commit")
		v.Remediation = "start each change with a failing test commit"
		out = append(out, v)
	}

	if fm.Coverage < opts.CoverageTarget {
		shortfall := opts.CoverageTarget - fm.Coverage
		v := model.NewViolation(model.InsufficientTests, loc,
			fmt.Sprintf("coverage %.0f%% is below the %.0f%% target",
				fm.Coverage*100, opts.CoverageTarget*100))
		v.Severity = model.ShortfallSeverity(shortfall)
		v.Remediation = "add tests for the uncovered branches"
		out = append(out, v)
	}

	if fm.TrivialAssertionsOnly {
		v := model.NewViolation(model.WeakAssertions, loc,
			"existing assertions only check for non-null results")
		v.Remediation = "assert exact values, not mere presence"
		out = append(out, v)
	}

	// A complex implementation with thin assertions landed ahead of
	// the tests that would justify it.
	if fn.Complexity > opts.ComplexityCeiling && fm.AssertionDensity < opts.DensityFloor {
		v := model.NewViolation(model.PrematureImplementation, loc,
			fmt.Sprintf("complexity %d with assertion density %.2f",
				fn.Complexity, fm.AssertionDensity))
		v.Remediation = "grow the implementation only as far as failing tests demand"
		out = append(out, v)
	}

	return out
}
