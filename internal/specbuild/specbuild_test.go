package specbuild

import (
	"reflect"
	"testing"

	"github.com/unbound-force/tddguard/internal/model"
)

func intFunc() model.FunctionSignature {
	return model.FunctionSignature{
		Name:   "Abs",
		Params: []model.Param{{Name: "n", Type: model.TypeInt, Declared: "int"}},
	}
}

func testModel(fns ...model.FunctionSignature) *model.StructuralModel {
	return &model.StructuralModel{
		UnitID:    "calc.go",
		Language:  "go",
		Functions: fns,
	}
}

func TestBuild_OneSpecPerFunction(t *testing.T) {
	m := testModel(intFunc(), model.FunctionSignature{Name: "Other"})

	specs := Build(m, Options{})
	if len(specs) != 2 {
		t.Fatalf("spec count = %d, want 2", len(specs))
	}
	if specs[0].Function.Name != "Abs" || specs[1].Function.Name != "Other" {
		t.Error("specs do not follow model function order")
	}
	if specs[0].UnitID != "calc.go" {
		t.Errorf("spec unit = %q, want calc.go", specs[0].UnitID)
	}
}

func TestBuild_CoverageTargetDefault(t *testing.T) {
	specs := Build(testModel(intFunc()), Options{})
	if specs[0].CoverageTarget != DefaultCoverageTarget {
		t.Errorf("coverage target = %v, want %v",
			specs[0].CoverageTarget, DefaultCoverageTarget)
	}
}

func TestBuild_CoverageTargetOverride(t *testing.T) {
	specs := Build(testModel(intFunc()), Options{CoverageTarget: 0.8})
	if specs[0].CoverageTarget != 0.8 {
		t.Errorf("coverage target = %v, want 0.8", specs[0].CoverageTarget)
	}

	// Out-of-range overrides fall back to the default.
	specs = Build(testModel(intFunc()), Options{CoverageTarget: 1.5})
	if specs[0].CoverageTarget != DefaultCoverageTarget {
		t.Errorf("coverage target = %v, want default", specs[0].CoverageTarget)
	}
}

func TestEdgeCandidates_SingleIntParam(t *testing.T) {
	cases := EdgeCandidates(intFunc())

	want := map[model.BoundaryKind]string{
		model.BoundaryZero:   "0",
		model.BoundaryOne:    "1",
		model.BoundaryNegOne: "-1",
		model.BoundaryMin:    "-9223372036854775808",
		model.BoundaryMax:    "9223372036854775807",
	}

	if len(cases) != len(want) {
		t.Fatalf("candidate count = %d, want %d: %+v", len(cases), len(want), cases)
	}
	seen := map[model.BoundaryKind]bool{}
	for _, c := range cases {
		if seen[c.Kind] {
			t.Errorf("boundary %s emitted more than once", c.Kind)
		}
		seen[c.Kind] = true
		if lit, ok := want[c.Kind]; !ok {
			t.Errorf("unexpected boundary %s", c.Kind)
		} else if c.Value.Literal != lit {
			t.Errorf("boundary %s literal = %q, want %q", c.Kind, c.Value.Literal, lit)
		}
	}
}

func TestEdgeCandidates_UintOmitsNegativeAndMin(t *testing.T) {
	fn := model.FunctionSignature{
		Name:   "Shift",
		Params: []model.Param{{Name: "n", Type: model.TypeUint, Declared: "uint8"}},
	}
	cases := EdgeCandidates(fn)

	for _, c := range cases {
		if c.Kind == model.BoundaryNegOne {
			t.Error("uint parameter should not yield a -1 candidate")
		}
		if c.Kind == model.BoundaryMin {
			t.Error("uint minimum duplicates zero and should be omitted")
		}
		if c.Kind == model.BoundaryMax && c.Value.Literal != "255" {
			t.Errorf("uint8 max = %q, want 255", c.Value.Literal)
		}
	}
}

func TestEdgeCandidates_SequenceStringNullable(t *testing.T) {
	fn := model.FunctionSignature{
		Name: "Mixed",
		Params: []model.Param{
			{Name: "xs", Type: model.TypeSequence, Declared: "[]int"},
			{Name: "s", Type: model.TypeString, Declared: "string"},
			{Name: "p", Type: model.TypeNullable, Declared: "*int"},
		},
	}
	cases := EdgeCandidates(fn)

	kinds := map[string][]model.BoundaryKind{}
	for _, c := range cases {
		kinds[c.Param] = append(kinds[c.Param], c.Kind)
	}

	if !reflect.DeepEqual(kinds["xs"], []model.BoundaryKind{
		model.BoundaryEmpty, model.BoundarySingle, model.BoundaryLarge,
	}) {
		t.Errorf("sequence boundaries = %v", kinds["xs"])
	}
	if !reflect.DeepEqual(kinds["s"], []model.BoundaryKind{
		model.BoundaryEmpty, model.BoundaryWhitespace, model.BoundaryMaxLength,
	}) {
		t.Errorf("string boundaries = %v", kinds["s"])
	}
	if !reflect.DeepEqual(kinds["p"], []model.BoundaryKind{model.BoundaryAbsent}) {
		t.Errorf("nullable boundaries = %v", kinds["p"])
	}
}

func TestBuild_Deterministic(t *testing.T) {
	m := testModel(intFunc())

	s1 := Build(m, Options{})
	s2 := Build(m, Options{})
	if !reflect.DeepEqual(s1, s2) {
		t.Error("spec builder output differs across identical runs")
	}
	if s1[0].ID != s2[0].ID {
		t.Errorf("spec IDs not stable: %q != %q", s1[0].ID, s2[0].ID)
	}
}
