// Package quality scores an optimized test suite for assertion
// strength and estimated coverage. All findings are advisory.
package quality

import (
	"fmt"

	"github.com/unbound-force/tddguard/internal/model"
)

// Default thresholds. Both are configuration defaults, overridable
// through Options.
const (
	DefaultAssertionStrengthThreshold = 0.6
	DefaultCoverageTarget             = 0.95
)

// Options tunes the deficiency thresholds.
type Options struct {
	// AssertionStrengthThreshold is the ratio below which a
	// weak-assertions deficiency is flagged.
	AssertionStrengthThreshold float64

	// CoverageTarget is the estimated-coverage fraction below which
	// a coverage deficiency is flagged.
	CoverageTarget float64
}

func (o *Options) defaults() {
	if o.AssertionStrengthThreshold <= 0 || o.AssertionStrengthThreshold > 1 {
		o.AssertionStrengthThreshold = DefaultAssertionStrengthThreshold
	}
	if o.CoverageTarget <= 0 || o.CoverageTarget > 1 {
		o.CoverageTarget = DefaultCoverageTarget
	}
}

// Assess scores the suite against its generation specs and returns a
// QualityReport with any deficiencies.
func Assess(specs []model.TestGenerationSpec, suite []model.GeneratedTest, opts Options) model.QualityReport {
	opts.defaults()

	report := model.QualityReport{
		AssertionStrength: assertionStrength(suite),
		EstimatedCoverage: estimatedCoverage(specs, suite),
		EdgeCaseCoverage:  edgeCaseCoverage(specs, suite),
	}

	if report.AssertionStrength < opts.AssertionStrengthThreshold {
		report.Deficiencies = append(report.Deficiencies, model.Deficiency{
			Kind: "weak_assertions",
			Detail: fmt.Sprintf("assertion strength %.2f is below the %.2f threshold",
				report.AssertionStrength, opts.AssertionStrengthThreshold),
		})
	}
	if report.EstimatedCoverage < opts.CoverageTarget {
		report.Deficiencies = append(report.Deficiencies, model.Deficiency{
			Kind: "coverage_below_target",
			Detail: fmt.Sprintf("estimated coverage %.2f is below the %.2f target",
				report.EstimatedCoverage, opts.CoverageTarget),
		})
	}
	if report.EdgeCaseCoverage < 1 {
		report.Deficiencies = append(report.Deficiencies, model.Deficiency{
			Kind: "missing_edge_cases",
			Detail: fmt.Sprintf("only %.0f%% of edge-case candidates are materialized",
				report.EdgeCaseCoverage*100),
		})
	}

	for _, t := range suite {
		if t.Mutant != nil && t.Mutant.KilledBy == "" {
			report.Deficiencies = append(report.Deficiencies, model.Deficiency{
				Kind: "surviving_mutant",
				Detail: fmt.Sprintf("no test kills the %s %s mutant behind %s",
					t.Mutant.Kind, t.Mutant.MutatedOp, t.Name),
			})
		}
	}

	return report
}

// assertionStrength is the ratio of tests with a value-exact or
// multi-condition assertion to total tests. A lone non-null or smoke
// check counts as weak.
func assertionStrength(suite []model.GeneratedTest) float64 {
	if len(suite) == 0 {
		return 0
	}
	strong := 0
	for _, t := range suite {
		if strongAssertions(t.Assert) {
			strong++
		}
	}
	return float64(strong) / float64(len(suite))
}

func strongAssertions(asserts []model.Assertion) bool {
	if len(asserts) > 1 {
		return true
	}
	for _, a := range asserts {
		switch a.Kind {
		case model.AssertEquals, model.AssertNotEqual, model.AssertRaises, model.AssertProperty:
			return true
		}
	}
	return false
}

// estimatedCoverage is the heuristic branch estimate: distinct
// exercised branches implied by normal and edge tests, capped per
// function at its complexity branch count, over the total branch
// count across all functions.
func estimatedCoverage(specs []model.TestGenerationSpec, suite []model.GeneratedTest) float64 {
	exercising := make(map[string]int, len(specs))
	for _, t := range suite {
		if t.Category == model.CategoryNormal || t.Category == model.CategoryEdge {
			exercising[t.SpecID]++
		}
	}

	totalBranches, covered := 0, 0
	for _, s := range specs {
		branches := s.Function.Complexity
		if branches < 1 {
			branches = 1
		}
		totalBranches += branches

		hit := exercising[s.ID]
		if hit > branches {
			hit = branches
		}
		covered += hit
	}
	if totalBranches == 0 {
		return 0
	}
	return float64(covered) / float64(totalBranches)
}

// edgeCaseCoverage is the ratio of materialized edge tests to edge
// candidates across all specs. Specs with no candidates are vacuously
// covered.
func edgeCaseCoverage(specs []model.TestGenerationSpec, suite []model.GeneratedTest) float64 {
	edgeTests := make(map[string]int, len(specs))
	for _, t := range suite {
		if t.Category == model.CategoryEdge {
			edgeTests[t.SpecID]++
		}
	}

	total, materialized := 0, 0
	for _, s := range specs {
		total += len(s.EdgeCases)
		hit := edgeTests[s.ID]
		if hit > len(s.EdgeCases) {
			hit = len(s.EdgeCases)
		}
		materialized += hit
	}
	if total == 0 {
		return 1
	}
	return float64(materialized) / float64(total)
}
