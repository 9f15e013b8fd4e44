// Package specbuild converts analyzed function signatures into test
// generation contracts. Edge-case candidates are derived from
// parameter semantic types by a fixed rule table, so repeated builds
// over the same model are identical.
package specbuild

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/unbound-force/tddguard/internal/model"
)

// DefaultCoverageTarget is the fractional coverage goal applied when
// the caller does not override it.
const DefaultCoverageTarget = 0.95

// Options configures spec building.
type Options struct {
	// CoverageTarget overrides the default 0.95 goal when set to a
	// value in (0, 1].
	CoverageTarget float64
}

// Build derives one TestGenerationSpec per function in the model.
// The result order follows the model's function order.
func Build(m *model.StructuralModel, opts Options) []model.TestGenerationSpec {
	target := opts.CoverageTarget
	if target <= 0 || target > 1 {
		target = DefaultCoverageTarget
	}

	specs := make([]model.TestGenerationSpec, 0, len(m.Functions))
	for _, fn := range m.Functions {
		specs = append(specs, model.TestGenerationSpec{
			ID:             model.GenerateID("spec", m.UnitID, fn.QualifiedName()),
			UnitID:         m.UnitID,
			Function:       fn,
			EdgeCases:      EdgeCandidates(fn),
			CoverageTarget: target,
		})
	}
	return specs
}

// EdgeCandidates derives the deterministic edge-case candidate set
// for a function from its parameter semantic types.
func EdgeCandidates(fn model.FunctionSignature) []model.EdgeCase {
	var cases []model.EdgeCase
	for _, p := range fn.Params {
		cases = append(cases, paramCandidates(p)...)
	}
	return cases
}

// paramCandidates maps one parameter to its boundary values:
// numeric types yield {0, 1, -1, min, max}; sequences yield {empty,
// single, large}; text yields {empty, whitespace, max-length};
// nullable yields {absent}. Duplicate values (e.g. uint min == 0)
// are emitted once.
func paramCandidates(p model.Param) []model.EdgeCase {
	mk := func(kind model.BoundaryKind, v model.Value) model.EdgeCase {
		return model.EdgeCase{Param: p.Name, Kind: kind, Value: v}
	}

	switch {
	case p.Type.Numeric():
		min, max := numericBounds(p)
		cases := []model.EdgeCase{
			mk(model.BoundaryZero, numericValue(p, "0")),
			mk(model.BoundaryOne, numericValue(p, "1")),
		}
		if p.Type != model.TypeUint {
			cases = append(cases, mk(model.BoundaryNegOne, numericValue(p, "-1")))
		}
		if min.Literal != "0" {
			cases = append(cases, mk(model.BoundaryMin, min))
		}
		cases = append(cases, mk(model.BoundaryMax, max))
		return cases

	case p.Type == model.TypeSequence || p.Type == model.TypeMap:
		return []model.EdgeCase{
			mk(model.BoundaryEmpty, model.Value{Kind: model.ValueSequence, Literal: "[]"}),
			mk(model.BoundarySingle, model.Value{Kind: model.ValueSequence, Literal: "[1]"}),
			mk(model.BoundaryLarge, model.Value{Kind: model.ValueSequence, Literal: largeSequenceLiteral}),
		}

	case p.Type == model.TypeString:
		return []model.EdgeCase{
			mk(model.BoundaryEmpty, model.StringValue("")),
			mk(model.BoundaryWhitespace, model.StringValue(" \t\n")),
			mk(model.BoundaryMaxLength, model.StringValue(maxLengthString())),
		}

	case p.Type == model.TypeNullable:
		return []model.EdgeCase{
			mk(model.BoundaryAbsent, model.NullValue()),
		}

	default:
		// bool and opaque parameters carry no boundary set.
		return nil
	}
}

// largeSequenceLiteral is the deterministic stand-in for a "large"
// collection: 1024 elements.
const largeSequenceLiteral = "[1..1024]"

// maxLengthStringSize is the deterministic stand-in for a
// maximum-length text value.
const maxLengthStringSize = 4096

func maxLengthString() string {
	return strings.Repeat("x", maxLengthStringSize)
}

// numericValue builds the right Value kind for a numeric parameter.
func numericValue(p model.Param, lit string) model.Value {
	if p.Type == model.TypeFloat {
		return model.FloatValue(lit)
	}
	return model.IntValue(lit)
}

// numericBounds returns the type minimum and maximum for a numeric
// parameter, sized by the declared type where recognized.
func numericBounds(p model.Param) (model.Value, model.Value) {
	switch p.Type {
	case model.TypeFloat:
		if p.Declared == "float32" {
			return model.FloatValue(formatFloat(-math.MaxFloat32)),
				model.FloatValue(formatFloat(math.MaxFloat32))
		}
		return model.FloatValue(formatFloat(-math.MaxFloat64)),
			model.FloatValue(formatFloat(math.MaxFloat64))

	case model.TypeUint:
		var max uint64
		switch p.Declared {
		case "uint8":
			max = math.MaxUint8
		case "uint16":
			max = math.MaxUint16
		case "uint32":
			max = math.MaxUint32
		default:
			max = math.MaxUint64
		}
		return model.IntValue("0"), model.IntValue(strconv.FormatUint(max, 10))

	default:
		var min, max int64
		switch p.Declared {
		case "int8":
			min, max = math.MinInt8, math.MaxInt8
		case "int16":
			min, max = math.MinInt16, math.MaxInt16
		case "int32", "rune":
			min, max = math.MinInt32, math.MaxInt32
		default:
			min, max = math.MinInt64, math.MaxInt64
		}
		return model.IntValue(strconv.FormatInt(min, 10)),
			model.IntValue(strconv.FormatInt(max, 10))
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Describe renders a boundary for diagnostics, e.g. "b=zero".
func Describe(e model.EdgeCase) string {
	return fmt.Sprintf("%s=%s", e.Param, e.Kind)
}
