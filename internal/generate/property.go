package generate

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/unbound-force/tddguard/internal/model"
)

// Algebraic property names emitted by the property generator.
const (
	PropCommutativity = "commutativity"
	PropIdempotence   = "idempotence"
	PropMonotonicity  = "monotonicity"
	PropInvertibility = "invertibility"
)

// propertyGenerator emits randomized-trial tests for functions whose
// signature exhibits a detectable algebraic property. Detection uses
// signature symmetry plus naming conventions; a function with no
// detectable property is a non-fatal generation failure.
type propertyGenerator struct{}

func (propertyGenerator) Name() string { return "property" }

// Trial counts: baseTrials at intensity 0, up to baseTrials +
// trialRange at intensity 1.
const (
	baseTrials = 25
	trialRange = 175
)

func (g propertyGenerator) Generate(ctx context.Context, spec model.TestGenerationSpec, intensity float64) ([]model.GeneratedTest, error) {
	fn := spec.Function

	props := detectProperties(fn)
	if len(props) == 0 {
		return nil, &GenerationError{
			Generator: g.Name(),
			Function:  fn.QualifiedName(),
			Err:       fmt.Errorf("no detectable algebraic property in signature"),
		}
	}

	trials := baseTrials + int(intensity*trialRange)
	seed := seedFor(fn.QualifiedName())

	var tests []model.GeneratedTest
	for seq, prop := range props {
		if err := ctx.Err(); err != nil {
			return tests, err
		}

		name := fmt.Sprintf("%s_%s_holds", fn.Name, prop)
		symbolic := make([]model.Value, len(fn.Params))
		for i, p := range fn.Params {
			symbolic[i] = model.StringValue("<" + p.Name + ">")
		}

		tests = append(tests, model.GeneratedTest{
			ID:       testID(spec, model.CategoryProperty, name),
			Name:     name,
			SpecID:   spec.ID,
			Category: model.CategoryProperty,
			Act:      actStatement(fn, symbolic),
			Assert: []model.Assertion{{
				Kind:   model.AssertProperty,
				Actual: "result",
			}},
			Expected: model.OutcomePass,
			Property: &model.PropertySpec{
				Property: prop,
				Trials:   trials,
				Seed:     seed,
				Shrink:   true,
			},
			Seq: seq,
		})
	}

	return tests, nil
}

// Naming heuristics per property. Matching is prefix-based on the
// lowercased function name.
var (
	commutativeNames = []string{"add", "sum", "mul", "multiply", "max", "min", "gcd", "lcm", "union", "merge", "combine"}
	idempotentNames  = []string{"normalize", "canonical", "sort", "dedup", "unique", "abs", "trim", "clamp", "round", "floor", "ceil"}
	monotonicNames   = []string{"scale", "double", "increment", "grow", "accumulate", "cumulative"}
	involutionNames  = []string{"negate", "reverse", "invert", "flip", "toggle", "complement"}
)

// detectProperties inspects signature symmetry and naming to find
// algebraic properties worth asserting. The result order is fixed:
// commutativity, idempotence, monotonicity, invertibility.
func detectProperties(fn model.FunctionSignature) []string {
	var props []string
	lower := strings.ToLower(fn.Name)

	if detectCommutativity(fn, lower) {
		props = append(props, PropCommutativity)
	}
	if unaryEndo(fn) && nameMatches(lower, idempotentNames) {
		props = append(props, PropIdempotence)
	}
	if unaryNumeric(fn) && (nameMatches(lower, monotonicNames) ||
		strings.Contains(strings.ToLower(fn.Doc), "monotonic")) {
		props = append(props, PropMonotonicity)
	}
	if unaryEndo(fn) && nameMatches(lower, involutionNames) {
		props = append(props, PropInvertibility)
	}

	return props
}

// detectCommutativity requires two same-typed parameters plus either
// a commutative body operator or a commutative-sounding name.
func detectCommutativity(fn model.FunctionSignature, lower string) bool {
	if len(fn.Params) != 2 || fn.Params[0].Type != fn.Params[1].Type {
		return false
	}
	if fn.Body != nil && (fn.Body.Op == "+" || fn.Body.Op == "*") {
		return true
	}
	return nameMatches(lower, commutativeNames)
}

// unaryEndo reports a single-parameter function whose return type
// matches the parameter type (an endofunction, f: T -> T).
func unaryEndo(fn model.FunctionSignature) bool {
	return len(fn.Params) == 1 && len(fn.Returns) >= 1 &&
		fn.Params[0].Type == fn.Returns[0].Type
}

func unaryNumeric(fn model.FunctionSignature) bool {
	return len(fn.Params) == 1 && len(fn.Returns) >= 1 &&
		fn.Params[0].Type.Numeric() && fn.Returns[0].Type.Numeric()
}

func nameMatches(lower string, names []string) bool {
	for _, n := range names {
		if strings.HasPrefix(lower, n) {
			return true
		}
	}
	return false
}

// seedFor derives a deterministic RNG seed from the function name so
// repeated runs sample identical inputs.
func seedFor(qualified string) int64 {
	h := sha256.Sum256([]byte(qualified))
	return int64(binary.BigEndian.Uint64(h[:8]) &^ (1 << 63))
}
