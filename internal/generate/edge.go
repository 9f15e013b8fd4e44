package generate

import (
	"context"
	"fmt"

	"github.com/unbound-force/tddguard/internal/model"
)

// edgeGenerator materializes every edge-case candidate from the spec
// into one isolated test each, predicting the outcome class from the
// documented contract or the derivable body semantics.
type edgeGenerator struct{}

func (edgeGenerator) Name() string { return "edge" }

func (g edgeGenerator) Generate(ctx context.Context, spec model.TestGenerationSpec, intensity float64) ([]model.GeneratedTest, error) {
	fn := spec.Function
	if len(spec.EdgeCases) == 0 {
		return nil, &GenerationError{
			Generator: g.Name(),
			Function:  fn.QualifiedName(),
			Err:       fmt.Errorf("no edge-case candidates for parameter types"),
		}
	}

	var tests []model.GeneratedTest
	for seq, ec := range spec.EdgeCases {
		if err := ctx.Err(); err != nil {
			return tests, err
		}

		args := make([]model.Value, len(fn.Params))
		for i, p := range fn.Params {
			if p.Name == ec.Param {
				args[i] = ec.Value
			} else {
				args[i] = representative(p, i)
			}
		}

		name := fmt.Sprintf("%s_%s_%s", fn.Name, ec.Param, ec.Kind)
		test := model.GeneratedTest{
			ID:       testID(spec, model.CategoryEdge, name),
			Name:     name,
			SpecID:   spec.ID,
			Category: model.CategoryEdge,
			Arrange:  arrangeStatements(fn, args),
			Act:      actStatement(fn, args),
			Seq:      seq,
		}
		test.Expected, test.Assert = predictEdgeOutcome(fn, ec, args)
		tests = append(tests, test)
	}

	// High intensity broadens coverage with pairwise boundary
	// combinations across distinct parameters.
	if intensity >= 0.8 {
		tests = append(tests, g.pairwise(spec, len(tests))...)
	}

	return tests, nil
}

// pairwise combines boundary values of distinct parameters into
// joint edge tests. Only the first boundary of each parameter is
// combined, keeping the count linear in the parameter count.
func (g edgeGenerator) pairwise(spec model.TestGenerationSpec, seqBase int) []model.GeneratedTest {
	fn := spec.Function
	first := map[string]model.EdgeCase{}
	var order []string
	for _, ec := range spec.EdgeCases {
		if _, ok := first[ec.Param]; !ok {
			first[ec.Param] = ec
			order = append(order, ec.Param)
		}
	}
	if len(order) < 2 {
		return nil
	}

	var tests []model.GeneratedTest
	for i := 0; i+1 < len(order); i++ {
		a, b := first[order[i]], first[order[i+1]]
		args := make([]model.Value, len(fn.Params))
		for j, p := range fn.Params {
			switch p.Name {
			case a.Param:
				args[j] = a.Value
			case b.Param:
				args[j] = b.Value
			default:
				args[j] = representative(p, j)
			}
		}

		name := fmt.Sprintf("%s_%s_%s_and_%s_%s", fn.Name, a.Param, a.Kind, b.Param, b.Kind)
		test := model.GeneratedTest{
			ID:       testID(spec, model.CategoryEdge, name),
			Name:     name,
			SpecID:   spec.ID,
			Category: model.CategoryEdge,
			Arrange:  arrangeStatements(fn, args),
			Act:      actStatement(fn, args),
			Seq:      seqBase + i,
		}
		test.Expected, test.Assert = predictEdgeOutcome(fn, a, args)
		tests = append(tests, test)
	}
	return tests
}

// predictEdgeOutcome classifies what an edge input should do:
// a documented contract wins, then derivable semantics (including
// IEEE float division), then a defensive exception prediction for
// zero denominators, then a plain smoke assertion.
func predictEdgeOutcome(fn model.FunctionSignature, ec model.EdgeCase, args []model.Value) (model.Outcome, []model.Assertion) {
	// 1. Documented contract covering this exact boundary.
	for _, c := range fn.Contracts {
		if c.Param == ec.Param && valuesEqual(c.When, ec.Value) {
			return model.OutcomePass, []model.Assertion{{
				Kind:     model.AssertEquals,
				Actual:   "result",
				Expected: c.Result,
			}}
		}
	}

	// 2. Derivable semantics: evaluate; an evaluation error (e.g.
	// integer division by zero) predicts an exception.
	if fn.Body != nil {
		expected, err := evalBody(fn, *fn.Body, args)
		if err != nil {
			return model.OutcomeException, []model.Assertion{{
				Kind:   model.AssertRaises,
				Actual: "result",
			}}
		}
		return model.OutcomePass, []model.Assertion{{
			Kind:     model.AssertEquals,
			Actual:   "result",
			Expected: expected,
		}}
	}

	// 3. Undocumented zero on a denominator-looking parameter.
	if ec.Kind == model.BoundaryZero && denominatorName(ec.Param) {
		return model.OutcomeException, []model.Assertion{{
			Kind:   model.AssertRaises,
			Actual: "result",
		}}
	}

	// 4. Smoke assertion.
	if len(fn.Returns) == 0 {
		return model.OutcomePass, []model.Assertion{{Kind: model.AssertTrue, Actual: "completed"}}
	}
	return model.OutcomePass, []model.Assertion{{Kind: model.AssertNotNull, Actual: "result"}}
}

// denominatorName reports whether a parameter name conventionally
// denotes a divisor.
func denominatorName(name string) bool {
	switch name {
	case "b", "d", "den", "denom", "denominator", "div", "divisor":
		return true
	default:
		return false
	}
}
