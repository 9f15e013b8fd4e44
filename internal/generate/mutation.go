package generate

import (
	"context"
	"fmt"

	"github.com/unbound-force/tddguard/internal/model"
)

// Mutation kinds.
const (
	MutOperatorSwap     = "operator_swap"
	MutBoundaryShift    = "boundary_shift"
	MutBooleanInversion = "boolean_inversion"
)

// mutationGenerator synthesizes adversarial mutants of the target's
// derivable semantics and checks that the existing suite kills each
// one. It consumes the tests produced by the other strategies, so
// the pool runs it as a second wave. A mutant no existing test fails
// against is carried in the output with an empty KilledBy; the
// quality assessor reports it as a suite deficiency, not a
// generation failure.
type mutationGenerator struct {
	suite []model.GeneratedTest
}

func (*mutationGenerator) Name() string { return "mutation" }

// ConsumeSuite hands the generator the first-wave tests.
func (g *mutationGenerator) ConsumeSuite(tests []model.GeneratedTest) {
	g.suite = tests
}

// mutant is one candidate code alteration.
type mutant struct {
	kind string
	op   string
}

// mutantsFor returns the alteration table for an operator, ordered
// from most to least adversarial.
func mutantsFor(op string) []mutant {
	switch op {
	case "+":
		return []mutant{{MutOperatorSwap, "-"}, {MutOperatorSwap, "*"}}
	case "-":
		return []mutant{{MutOperatorSwap, "+"}, {MutOperatorSwap, "/"}}
	case "*":
		return []mutant{{MutOperatorSwap, "/"}, {MutOperatorSwap, "+"}}
	case "/":
		return []mutant{{MutOperatorSwap, "*"}, {MutOperatorSwap, "-"}}
	case "%":
		return []mutant{{MutOperatorSwap, "/"}}
	case "<":
		return []mutant{{MutBoundaryShift, "<="}, {MutBooleanInversion, ">="}}
	case "<=":
		return []mutant{{MutBoundaryShift, "<"}, {MutBooleanInversion, ">"}}
	case ">":
		return []mutant{{MutBoundaryShift, ">="}, {MutBooleanInversion, "<="}}
	case ">=":
		return []mutant{{MutBoundaryShift, ">"}, {MutBooleanInversion, "<"}}
	case "==":
		return []mutant{{MutBooleanInversion, "!="}}
	case "!=":
		return []mutant{{MutBooleanInversion, "=="}}
	case "&&":
		return []mutant{{MutBooleanInversion, "||"}}
	case "||":
		return []mutant{{MutBooleanInversion, "&&"}}
	default:
		return nil
	}
}

func (g *mutationGenerator) Generate(ctx context.Context, spec model.TestGenerationSpec, intensity float64) ([]model.GeneratedTest, error) {
	fn := spec.Function
	if fn.Body == nil {
		return nil, &GenerationError{
			Generator: g.Name(),
			Function:  fn.QualifiedName(),
			Err:       fmt.Errorf("no derivable semantics to mutate"),
		}
	}

	candidates := mutantsFor(fn.Body.Op)
	if len(candidates) == 0 {
		return nil, &GenerationError{
			Generator: g.Name(),
			Function:  fn.QualifiedName(),
			Err:       fmt.Errorf("operator %q has no mutation table entry", fn.Body.Op),
		}
	}

	// Intensity scales how deep into the alteration table we go;
	// at least one mutant is always attempted.
	limit := 1 + int(intensity*float64(len(candidates)-1))
	if limit > len(candidates) {
		limit = len(candidates)
	}

	prior := g.specTests(spec.ID)

	var tests []model.GeneratedTest
	for seq, m := range candidates[:limit] {
		if err := ctx.Err(); err != nil {
			return tests, err
		}

		mutated := model.BodyExpr{Op: m.op, Left: fn.Body.Left, Right: fn.Body.Right}
		killer := g.findKiller(fn, mutated, prior)

		name := fmt.Sprintf("%s_mutant_%s_to_%s", fn.Name, opWord(fn.Body.Op), opWord(m.op))
		test := model.GeneratedTest{
			ID:       testID(spec, model.CategoryMutation, name),
			Name:     name,
			SpecID:   spec.ID,
			Category: model.CategoryMutation,
			Act:      model.Statement{Assign: "mutant_outcome", Call: "run_suite_against_mutant"},
			Assert: []model.Assertion{{
				Kind:     model.AssertEquals,
				Actual:   "mutant_outcome",
				Expected: model.StringValue("killed"),
			}},
			Expected: model.OutcomeFail,
			Mutant: &model.MutantSpec{
				Kind:       m.kind,
				OriginalOp: fn.Body.Op,
				MutatedOp:  m.op,
				KilledBy:   killer,
			},
			Seq: seq,
		}
		if killer != "" {
			// The mutant check only means something after the
			// killing test itself has run.
			test.DependsOn = []string{killer}
		}
		tests = append(tests, test)
	}

	return tests, nil
}

// specTests filters the consumed suite to tests for this spec that
// carry concrete arguments and a value-exact assertion.
func (g *mutationGenerator) specTests(specID string) []model.GeneratedTest {
	var out []model.GeneratedTest
	for _, t := range g.suite {
		if t.SpecID != specID {
			continue
		}
		if t.Category != model.CategoryNormal && t.Category != model.CategoryEdge {
			continue
		}
		out = append(out, t)
	}
	return out
}

// findKiller returns the ID of the first prior test whose expected
// value changes under the mutated semantics: that test fails
// against the mutant, killing it.
func (g *mutationGenerator) findKiller(fn model.FunctionSignature, mutated model.BodyExpr, prior []model.GeneratedTest) string {
	for _, t := range prior {
		expected, ok := equalsAssertion(t)
		if !ok {
			continue
		}

		mutatedResult, err := evalBody(fn, mutated, t.Act.Args)
		if err != nil {
			// The mutant raises where the original did not:
			// any expecting test kills it.
			if t.Expected == model.OutcomePass {
				return t.ID
			}
			continue
		}
		if !valuesEqual(expected, mutatedResult) {
			return t.ID
		}
	}
	return ""
}

// equalsAssertion extracts the expected value from a test's
// value-exact assertion, if it has one.
func equalsAssertion(t model.GeneratedTest) (model.Value, bool) {
	for _, a := range t.Assert {
		if a.Kind == model.AssertEquals && a.Actual == "result" {
			return a.Expected, true
		}
	}
	return model.Value{}, false
}

// opWord names an operator token for use in test identifiers.
func opWord(op string) string {
	switch op {
	case "+":
		return "add"
	case "-":
		return "sub"
	case "*":
		return "mul"
	case "/":
		return "div"
	case "%":
		return "mod"
	case "<":
		return "lt"
	case "<=":
		return "le"
	case ">":
		return "gt"
	case ">=":
		return "ge"
	case "==":
		return "eq"
	case "!=":
		return "ne"
	case "&&":
		return "and"
	case "||":
		return "or"
	default:
		return "op"
	}
}
