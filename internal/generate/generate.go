// Package generate implements the pluggable test-synthesis
// strategies (normal-case, edge-case, property-based,
// mutation-based) and the bounded worker pool that fans generation
// out across (spec, generator) pairs.
package generate

import (
	"context"
	"fmt"

	"github.com/unbound-force/tddguard/internal/model"
)

// GenerationError is a non-fatal failure isolated to one
// (generator, spec) pair. The engine records it as a diagnostic and
// continues with the remaining generators.
type GenerationError struct {
	// Generator is the failing strategy name.
	Generator string

	// Function is the qualified target function name.
	Function string

	// Err is the underlying cause.
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s generator on %s: %v", e.Generator, e.Function, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Generator is one test-synthesis strategy. Intensity in [0,1]
// scales the number of synthesized cases; implementations must be
// deterministic for a fixed (spec, intensity) pair.
type Generator interface {
	// Name returns the strategy name used in diagnostics and
	// registry lookups.
	Name() string

	// Generate synthesizes tests for one spec. A strategy that
	// cannot apply to the spec returns an empty list and a
	// *GenerationError; it never aborts other generators.
	Generate(ctx context.Context, spec model.TestGenerationSpec, intensity float64) ([]model.GeneratedTest, error)
}

// SuiteConsumer is implemented by strategies that operate on the
// tests produced by earlier strategies (mutation-based generation).
// The pool runs consumers as a second wave after the base suite
// exists.
type SuiteConsumer interface {
	ConsumeSuite(tests []model.GeneratedTest)
}

// registry is the static strategy table. Strategies are registered
// at compile time; there is no runtime reflection.
var registry = map[string]func() Generator{
	"normal":   func() Generator { return &normalGenerator{} },
	"edge":     func() Generator { return &edgeGenerator{} },
	"property": func() Generator { return &propertyGenerator{} },
	"mutation": func() Generator { return &mutationGenerator{} },
}

// New returns a fresh generator by strategy name, or nil when the
// name is unknown.
func New(name string) Generator {
	factory, ok := registry[name]
	if !ok {
		return nil
	}
	return factory()
}

// Strategies returns the strategy names enabled for a generation
// mode: minimal runs normal+edge, standard adds property,
// comprehensive adds mutation. Unknown modes behave as standard.
func Strategies(mode string) []string {
	switch mode {
	case "minimal":
		return []string{"normal", "edge"}
	case "comprehensive":
		return []string{"normal", "edge", "property", "mutation"}
	default:
		return []string{"normal", "edge", "property"}
	}
}

// representative returns a non-boundary input value for a parameter.
// The position index varies numeric values so multi-parameter calls
// do not degenerate into symmetric inputs (3, 4, 5, ...).
func representative(p model.Param, position int) model.Value {
	switch {
	case p.Type == model.TypeFloat:
		return model.FloatValue(fmt.Sprintf("%d", position+3))
	case p.Type.Numeric():
		return model.IntValue(fmt.Sprintf("%d", position+3))
	case p.Type == model.TypeString:
		return model.StringValue("example")
	case p.Type == model.TypeBool:
		return model.BoolValue(true)
	case p.Type == model.TypeSequence:
		return model.Value{Kind: model.ValueSequence, Literal: "[1,2,3]"}
	case p.Type == model.TypeMap:
		return model.Value{Kind: model.ValueMap, Literal: "{\"k\":1}"}
	default:
		return model.StringValue("present")
	}
}

// actStatement builds the invocation under test for a set of
// argument values parallel to the function's parameters.
func actStatement(fn model.FunctionSignature, args []model.Value) model.Statement {
	return model.Statement{
		Assign: "result",
		Call:   fn.QualifiedName(),
		Args:   args,
	}
}

// arrangeStatements binds each argument to a named value so the
// structured representation reads arrange/act/assert.
func arrangeStatements(fn model.FunctionSignature, args []model.Value) []model.Statement {
	stmts := make([]model.Statement, 0, len(args))
	for i, arg := range args {
		name := "arg"
		if i < len(fn.Params) {
			name = fn.Params[i].Name
		}
		stmts = append(stmts, model.Statement{Assign: name, Args: []model.Value{arg}})
	}
	return stmts
}

// testID derives the stable test ID from the spec, category, and
// test name.
func testID(spec model.TestGenerationSpec, category model.TestCategory, name string) string {
	return model.GenerateID("gt", spec.ID, string(category), name)
}
