package generate

import (
	"context"
	"fmt"

	"github.com/unbound-force/tddguard/internal/model"
)

// normalGenerator produces tests exercising representative,
// non-boundary inputs. When the function's semantics are derivable
// (single binary-expression body) the assertion is value-exact;
// otherwise it falls back to a documented contract or a smoke
// assertion on the result.
type normalGenerator struct{}

func (normalGenerator) Name() string { return "normal" }

func (g normalGenerator) Generate(ctx context.Context, spec model.TestGenerationSpec, intensity float64) ([]model.GeneratedTest, error) {
	fn := spec.Function

	// At least one representative case; higher intensity adds a
	// second input profile.
	variants := 1
	if intensity >= 0.5 && len(fn.Params) > 0 {
		variants = 2
	}

	var tests []model.GeneratedTest
	for v := 0; v < variants; v++ {
		if err := ctx.Err(); err != nil {
			return tests, err
		}

		args := make([]model.Value, len(fn.Params))
		for i, p := range fn.Params {
			args[i] = representative(p, i+v*len(fn.Params))
		}

		name := fmt.Sprintf("%s_representative", fn.Name)
		if v > 0 {
			name = fmt.Sprintf("%s_representative_%d", fn.Name, v+1)
		}

		test := model.GeneratedTest{
			ID:       testID(spec, model.CategoryNormal, name),
			Name:     name,
			SpecID:   spec.ID,
			Category: model.CategoryNormal,
			Arrange:  arrangeStatements(fn, args),
			Act:      actStatement(fn, args),
			Expected: model.OutcomePass,
			Seq:      v,
		}
		test.Assert = normalAssertions(fn, args)
		tests = append(tests, test)
	}

	return tests, nil
}

// normalAssertions picks the strongest assertion available for the
// representative inputs.
func normalAssertions(fn model.FunctionSignature, args []model.Value) []model.Assertion {
	if fn.Body != nil {
		if expected, err := evalBody(fn, *fn.Body, args); err == nil {
			return []model.Assertion{{
				Kind:     model.AssertEquals,
				Actual:   "result",
				Expected: expected,
			}}
		}
	}

	if len(fn.Returns) == 0 {
		// Nothing observable to assert on beyond completion.
		return []model.Assertion{{Kind: model.AssertTrue, Actual: "completed"}}
	}
	return []model.Assertion{{Kind: model.AssertNotNull, Actual: "result"}}
}
