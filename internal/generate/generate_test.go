package generate

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/unbound-force/tddguard/internal/model"
	"github.com/unbound-force/tddguard/internal/specbuild"
)

func addSig() model.FunctionSignature {
	return model.FunctionSignature{
		Name: "Add",
		Params: []model.Param{
			{Name: "a", Type: model.TypeInt, Declared: "int"},
			{Name: "b", Type: model.TypeInt, Declared: "int"},
		},
		Returns:    []model.Return{{Type: model.TypeInt, Declared: "int"}},
		Complexity: 1,
		Body:       &model.BodyExpr{Op: "+", Left: "a", Right: "b"},
	}
}

func divideSig() model.FunctionSignature {
	return model.FunctionSignature{
		Name: "Divide",
		Params: []model.Param{
			{Name: "a", Type: model.TypeFloat, Declared: "float64"},
			{Name: "b", Type: model.TypeFloat, Declared: "float64"},
		},
		Returns:    []model.Return{{Type: model.TypeFloat, Declared: "float64"}},
		Doc:        "Divide divides a by b. Returns +infinity when b is zero.",
		Complexity: 2,
		Contracts: []model.DocContract{{
			Result: model.FloatValue("+Inf"),
			Param:  "b",
			When:   model.IntValue("0"),
		}},
	}
}

func specFor(t *testing.T, fn model.FunctionSignature) model.TestGenerationSpec {
	t.Helper()
	m := &model.StructuralModel{UnitID: "calc.go", Language: "go",
		Functions: []model.FunctionSignature{fn}}
	return specbuild.Build(m, specbuild.Options{})[0]
}

func TestNormalGenerator_ValueExactAssertion(t *testing.T) {
	spec := specFor(t, addSig())

	tests, err := New("normal").Generate(context.Background(), spec, 0)
	if err != nil {
		t.Fatalf("normal generator failed: %v", err)
	}
	if len(tests) < 1 {
		t.Fatal("normal generator must produce at least one test")
	}

	tc := tests[0]
	if tc.Category != model.CategoryNormal {
		t.Errorf("category = %s, want normal", tc.Category)
	}
	if tc.Expected != model.OutcomePass {
		t.Errorf("expected outcome = %s, want pass", tc.Expected)
	}
	if len(tc.Assert) != 1 || tc.Assert[0].Kind != model.AssertEquals {
		t.Fatalf("assertion = %+v, want one equals assertion", tc.Assert)
	}
	// Representative inputs are 3 and 4, so Add must expect 7.
	if tc.Assert[0].Expected.Literal != "7" {
		t.Errorf("expected value = %q, want 7", tc.Assert[0].Expected.Literal)
	}
}

func TestNormalGenerator_IntensityAddsVariant(t *testing.T) {
	spec := specFor(t, addSig())

	low, err := New("normal").Generate(context.Background(), spec, 0.1)
	if err != nil {
		t.Fatalf("low intensity failed: %v", err)
	}
	high, err := New("normal").Generate(context.Background(), spec, 0.9)
	if err != nil {
		t.Fatalf("high intensity failed: %v", err)
	}
	if len(high) <= len(low) {
		t.Errorf("high intensity produced %d tests, low %d; want more at high",
			len(high), len(low))
	}
}

func TestEdgeGenerator_SingleIntParamCandidates(t *testing.T) {
	fn := model.FunctionSignature{
		Name:    "Abs",
		Params:  []model.Param{{Name: "n", Type: model.TypeInt, Declared: "int"}},
		Returns: []model.Return{{Type: model.TypeInt, Declared: "int"}},
	}
	spec := specFor(t, fn)

	tests, err := New("edge").Generate(context.Background(), spec, 0.5)
	if err != nil {
		t.Fatalf("edge generator failed: %v", err)
	}

	want := map[string]int{
		"0": 0, "1": 0, "-1": 0,
		"-9223372036854775808": 0, "9223372036854775807": 0,
	}
	if len(tests) != len(want) {
		t.Fatalf("test count = %d, want %d", len(tests), len(want))
	}
	for _, tc := range tests {
		lit := tc.Act.Args[0].Literal
		if _, ok := want[lit]; !ok {
			t.Errorf("unexpected edge value %q", lit)
			continue
		}
		want[lit]++
	}
	for lit, n := range want {
		if n != 1 {
			t.Errorf("edge value %q materialized %d times, want exactly once", lit, n)
		}
	}
}

func TestEdgeGenerator_DivideByZeroContract(t *testing.T) {
	spec := specFor(t, divideSig())

	tests, err := New("edge").Generate(context.Background(), spec, 0.5)
	if err != nil {
		t.Fatalf("edge generator failed: %v", err)
	}

	var zeroDenom *model.GeneratedTest
	for i := range tests {
		tc := tests[i]
		if len(tc.Act.Args) == 2 && tc.Act.Args[1].Literal == "0" {
			zeroDenom = &tests[i]
			break
		}
	}
	if zeroDenom == nil {
		t.Fatal("no edge test sets the denominator to zero")
	}
	if zeroDenom.Expected != model.OutcomePass {
		t.Errorf("outcome = %s, want pass (documented contract)", zeroDenom.Expected)
	}
	if len(zeroDenom.Assert) != 1 ||
		zeroDenom.Assert[0].Kind != model.AssertEquals ||
		zeroDenom.Assert[0].Expected.Literal != "+Inf" {
		t.Errorf("assertion = %+v, want equals +Inf", zeroDenom.Assert)
	}
}

func TestEdgeGenerator_IntDivisionByZeroPredictsException(t *testing.T) {
	fn := model.FunctionSignature{
		Name: "Quot",
		Params: []model.Param{
			{Name: "a", Type: model.TypeInt, Declared: "int"},
			{Name: "b", Type: model.TypeInt, Declared: "int"},
		},
		Returns: []model.Return{{Type: model.TypeInt, Declared: "int"}},
		Body:    &model.BodyExpr{Op: "/", Left: "a", Right: "b"},
	}
	spec := specFor(t, fn)

	tests, err := New("edge").Generate(context.Background(), spec, 0.5)
	if err != nil {
		t.Fatalf("edge generator failed: %v", err)
	}

	found := false
	for _, tc := range tests {
		if len(tc.Act.Args) == 2 && tc.Act.Args[1].Literal == "0" &&
			tc.Act.Args[0].Literal != "0" {
			found = true
			if tc.Expected != model.OutcomeException {
				t.Errorf("outcome = %s, want exception", tc.Expected)
			}
			if len(tc.Assert) != 1 || tc.Assert[0].Kind != model.AssertRaises {
				t.Errorf("assertion = %+v, want raises", tc.Assert)
			}
		}
	}
	if !found {
		t.Error("no edge test with a zero denominator")
	}
}

func TestPropertyGenerator_DetectsCommutativity(t *testing.T) {
	spec := specFor(t, addSig())

	tests, err := New("property").Generate(context.Background(), spec, 0.5)
	if err != nil {
		t.Fatalf("property generator failed: %v", err)
	}
	if len(tests) != 1 {
		t.Fatalf("test count = %d, want 1", len(tests))
	}

	prop := tests[0].Property
	if prop == nil {
		t.Fatal("property spec missing")
	}
	if prop.Property != PropCommutativity {
		t.Errorf("property = %s, want commutativity", prop.Property)
	}
	if !prop.Shrink {
		t.Error("shrink contract must be requested")
	}
	if prop.Trials < baseTrials {
		t.Errorf("trials = %d, want >= %d", prop.Trials, baseTrials)
	}
}

func TestPropertyGenerator_TrialsScaleWithIntensity(t *testing.T) {
	spec := specFor(t, addSig())

	low, _ := New("property").Generate(context.Background(), spec, 0.0)
	high, _ := New("property").Generate(context.Background(), spec, 1.0)

	if low[0].Property.Trials >= high[0].Property.Trials {
		t.Errorf("trials did not scale: low %d, high %d",
			low[0].Property.Trials, high[0].Property.Trials)
	}
}

func TestPropertyGenerator_DeterministicSeed(t *testing.T) {
	spec := specFor(t, addSig())

	t1, _ := New("property").Generate(context.Background(), spec, 0.5)
	t2, _ := New("property").Generate(context.Background(), spec, 0.5)

	if t1[0].Property.Seed != t2[0].Property.Seed {
		t.Error("property seed differs across identical runs")
	}
}

func TestPropertyGenerator_NoPropertyIsNonFatal(t *testing.T) {
	fn := model.FunctionSignature{
		Name: "Render",
		Params: []model.Param{
			{Name: "w", Type: model.TypeOpaque, Declared: "io.Writer"},
			{Name: "n", Type: model.TypeInt, Declared: "int"},
		},
	}
	spec := specFor(t, fn)

	tests, err := New("property").Generate(context.Background(), spec, 0.5)
	if err == nil {
		t.Fatal("expected GenerationError for undetectable property")
	}
	var ge *GenerationError
	if !errors.As(err, &ge) {
		t.Fatalf("error type = %T, want *GenerationError", err)
	}
	if len(tests) != 0 {
		t.Errorf("failed generator returned %d tests, want 0", len(tests))
	}
}

func TestMutationGenerator_AddMutantKilled(t *testing.T) {
	spec := specFor(t, addSig())

	normal, err := New("normal").Generate(context.Background(), spec, 0)
	if err != nil {
		t.Fatalf("normal generator failed: %v", err)
	}

	gen := New("mutation")
	gen.(SuiteConsumer).ConsumeSuite(normal)

	tests, err := gen.Generate(context.Background(), spec, 0)
	if err != nil {
		t.Fatalf("mutation generator failed: %v", err)
	}
	if len(tests) == 0 {
		t.Fatal("mutation generator produced no mutants")
	}

	// The + -> - mutant changes Add(3, 4) from 7 to -1, so the
	// normal test must kill it.
	m := tests[0].Mutant
	if m == nil {
		t.Fatal("mutant spec missing")
	}
	if m.OriginalOp != "+" || m.MutatedOp != "-" {
		t.Errorf("mutant ops = %s -> %s, want + -> -", m.OriginalOp, m.MutatedOp)
	}
	if m.KilledBy != normal[0].ID {
		t.Errorf("mutant killed by %q, want %q", m.KilledBy, normal[0].ID)
	}
	if !reflect.DeepEqual(tests[0].DependsOn, []string{normal[0].ID}) {
		t.Errorf("depends_on = %v, want [%s]", tests[0].DependsOn, normal[0].ID)
	}
}

func TestMutationGenerator_SurvivorReported(t *testing.T) {
	spec := specFor(t, addSig())

	// An empty consumed suite cannot kill anything.
	gen := New("mutation")
	gen.(SuiteConsumer).ConsumeSuite(nil)

	tests, err := gen.Generate(context.Background(), spec, 0)
	if err != nil {
		t.Fatalf("mutation generator failed: %v", err)
	}
	if len(tests) == 0 {
		t.Fatal("expected surviving mutant to still be emitted")
	}
	if tests[0].Mutant.KilledBy != "" {
		t.Errorf("killed_by = %q, want empty for survivor", tests[0].Mutant.KilledBy)
	}
}

func TestMutationGenerator_NoSemanticsIsNonFatal(t *testing.T) {
	spec := specFor(t, divideSig()) // no derivable body

	gen := New("mutation")
	gen.(SuiteConsumer).ConsumeSuite(nil)

	_, err := gen.Generate(context.Background(), spec, 0)
	var ge *GenerationError
	if !errors.As(err, &ge) {
		t.Fatalf("error = %v, want *GenerationError", err)
	}
}

func TestStrategies_ByMode(t *testing.T) {
	if got := Strategies("minimal"); !reflect.DeepEqual(got, []string{"normal", "edge"}) {
		t.Errorf("minimal = %v", got)
	}
	if got := Strategies("standard"); !reflect.DeepEqual(got, []string{"normal", "edge", "property"}) {
		t.Errorf("standard = %v", got)
	}
	if got := Strategies("comprehensive"); len(got) != 4 {
		t.Errorf("comprehensive = %v, want all four strategies", got)
	}
}

func TestRun_BestEffortAggregate(t *testing.T) {
	specs := []model.TestGenerationSpec{
		specFor(t, addSig()),
		specFor(t, divideSig()),
	}

	res := Run(context.Background(), specs, PoolOptions{
		Mode:      "comprehensive",
		Intensity: 0.5,
		Workers:   2,
	})

	if len(res.Tests) == 0 {
		t.Fatal("pool produced no tests")
	}

	// Divide has no derivable body, so its mutation task must fail
	// non-fatally and surface as a diagnostic.
	foundDiag := false
	for _, d := range res.Diagnostics {
		if d.Generator == "mutation" && d.Function == "Divide" {
			foundDiag = true
		}
	}
	if !foundDiag {
		t.Errorf("missing mutation diagnostic for Divide; got %+v", res.Diagnostics)
	}

	// Add must still have mutation tests despite Divide's failure.
	foundMutation := false
	for _, tc := range res.Tests {
		if tc.Category == model.CategoryMutation {
			foundMutation = true
		}
	}
	if !foundMutation {
		t.Error("no mutation tests despite comprehensive mode")
	}
}

func TestRun_DeterministicOrdering(t *testing.T) {
	specs := []model.TestGenerationSpec{
		specFor(t, addSig()),
		specFor(t, divideSig()),
	}
	opts := PoolOptions{Mode: "comprehensive", Intensity: 0.5, Workers: 4}

	r1 := Run(context.Background(), specs, opts)
	r2 := Run(context.Background(), specs, opts)

	if !reflect.DeepEqual(r1.Tests, r2.Tests) {
		t.Error("pool output ordering differs across identical runs")
	}
}

func TestRun_TimedOutTaskBecomesDiagnostic(t *testing.T) {
	specs := []model.TestGenerationSpec{specFor(t, addSig())}

	res := Run(context.Background(), specs, PoolOptions{
		Mode:        "standard",
		Intensity:   0.5,
		Workers:     2,
		TaskTimeout: time.Nanosecond,
	})

	if len(res.Tests) != 0 {
		t.Errorf("timed-out tasks emitted %d tests, want 0", len(res.Tests))
	}

	// Standard mode runs three strategies; each one must surface its
	// timeout as a diagnostic.
	timeouts := 0
	for _, d := range res.Diagnostics {
		if d.Stage == "generate" && d.Message == "generation task timed out" {
			timeouts++
		}
	}
	if want := len(Strategies("standard")); timeouts != want {
		t.Errorf("timeout diagnostics = %d, want %d; got %+v",
			timeouts, want, res.Diagnostics)
	}
}

func TestEvalBinary_FloatDivisionByZero(t *testing.T) {
	v, err := evalBinary("/", model.FloatValue("3"), model.FloatValue("0"))
	if err != nil {
		t.Fatalf("float division by zero should not error: %v", err)
	}
	if v.Literal != "+Inf" {
		t.Errorf("3/0 = %q, want +Inf", v.Literal)
	}

	_, err = evalBinary("/", model.IntValue("3"), model.IntValue("0"))
	if err == nil {
		t.Error("integer division by zero should error")
	}
}
