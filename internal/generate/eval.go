package generate

import (
	"fmt"
	"math"
	"strconv"

	"github.com/unbound-force/tddguard/internal/model"
)

// evalBody evaluates a derivable body expression against concrete
// argument values. Arguments are parallel to the function's
// parameters. A non-nil error means the evaluation raises (e.g.
// integer division by zero); callers map that to an exception
// outcome.
func evalBody(fn model.FunctionSignature, body model.BodyExpr, args []model.Value) (model.Value, error) {
	left, ok := argFor(fn, args, body.Left)
	if !ok {
		return model.Value{}, fmt.Errorf("no argument for operand %q", body.Left)
	}
	right, ok := argFor(fn, args, body.Right)
	if !ok {
		return model.Value{}, fmt.Errorf("no argument for operand %q", body.Right)
	}
	return evalBinary(body.Op, left, right)
}

// argFor resolves a parameter name to its positional argument value.
func argFor(fn model.FunctionSignature, args []model.Value, name string) (model.Value, bool) {
	for i, p := range fn.Params {
		if p.Name == name && i < len(args) {
			return args[i], true
		}
	}
	return model.Value{}, false
}

// evalBinary applies a binary operator to two numeric or boolean
// values. Float semantics follow IEEE 754: float division by zero
// yields a signed infinity rather than an error.
func evalBinary(op string, l, r model.Value) (model.Value, error) {
	if l.Kind == model.ValueBool || r.Kind == model.ValueBool {
		return evalBool(op, l, r)
	}

	lf, lok := numeric(l)
	rf, rok := numeric(r)
	if !lok || !rok {
		return model.Value{}, fmt.Errorf("non-numeric operands %q %s %q", l.Literal, op, r.Literal)
	}
	isFloat := l.Kind == model.ValueFloat || r.Kind == model.ValueFloat

	switch op {
	case "+":
		return numValue(lf+rf, isFloat), nil
	case "-":
		return numValue(lf-rf, isFloat), nil
	case "*":
		return numValue(lf*rf, isFloat), nil
	case "/":
		if rf == 0 {
			if isFloat {
				return numValue(lf/rf, true), nil
			}
			return model.Value{}, fmt.Errorf("integer division by zero")
		}
		if isFloat {
			return numValue(lf/rf, true), nil
		}
		return numValue(math.Trunc(lf/rf), false), nil
	case "%":
		if rf == 0 {
			return model.Value{}, fmt.Errorf("integer modulo by zero")
		}
		return numValue(math.Mod(lf, rf), isFloat), nil
	case "==":
		return model.BoolValue(lf == rf), nil
	case "!=":
		return model.BoolValue(lf != rf), nil
	case "<":
		return model.BoolValue(lf < rf), nil
	case "<=":
		return model.BoolValue(lf <= rf), nil
	case ">":
		return model.BoolValue(lf > rf), nil
	case ">=":
		return model.BoolValue(lf >= rf), nil
	default:
		return model.Value{}, fmt.Errorf("unsupported operator %q", op)
	}
}

func evalBool(op string, l, r model.Value) (model.Value, error) {
	lb, lok := boolean(l)
	rb, rok := boolean(r)
	if !lok || !rok {
		return model.Value{}, fmt.Errorf("non-boolean operands %q %s %q", l.Literal, op, r.Literal)
	}
	switch op {
	case "&&":
		return model.BoolValue(lb && rb), nil
	case "||":
		return model.BoolValue(lb || rb), nil
	case "==":
		return model.BoolValue(lb == rb), nil
	case "!=":
		return model.BoolValue(lb != rb), nil
	default:
		return model.Value{}, fmt.Errorf("unsupported boolean operator %q", op)
	}
}

// numeric parses a value as float64. Infinities parse per
// strconv.ParseFloat ("+Inf", "-Inf").
func numeric(v model.Value) (float64, bool) {
	if v.Kind != model.ValueInt && v.Kind != model.ValueFloat {
		return 0, false
	}
	f, err := strconv.ParseFloat(v.Literal, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func boolean(v model.Value) (bool, bool) {
	if v.Kind != model.ValueBool {
		return false, false
	}
	return v.Literal == "true", true
}

// numValue formats an evaluation result back into a Value of the
// appropriate kind.
func numValue(f float64, isFloat bool) model.Value {
	if isFloat {
		return model.FloatValue(strconv.FormatFloat(f, 'g', -1, 64))
	}
	return model.IntValue(strconv.FormatInt(int64(f), 10))
}

// valuesEqual compares two values numerically when both parse as
// numbers, falling back to literal equality.
func valuesEqual(a, b model.Value) bool {
	af, aok := numeric(a)
	bf, bok := numeric(b)
	if aok && bok {
		return af == bf || (math.IsNaN(af) && math.IsNaN(bf))
	}
	return a.Kind == b.Kind && a.Literal == b.Literal
}
