package optimize

import (
	"errors"
	"reflect"
	"testing"

	"github.com/unbound-force/tddguard/internal/model"
)

var specID = model.GenerateID("spec", "calc.go", "Add")

func validTest(name string, category model.TestCategory, seq int) model.GeneratedTest {
	return model.GeneratedTest{
		ID:       model.GenerateID("gt", specID, string(category), name),
		Name:     name,
		SpecID:   specID,
		Category: category,
		Act: model.Statement{
			Assign: "result",
			Call:   "Add",
			Args:   []model.Value{model.IntValue("3"), model.IntValue("4")},
		},
		Assert: []model.Assertion{{
			Kind:     model.AssertEquals,
			Actual:   "result",
			Expected: model.IntValue("7"),
		}},
		Expected: model.OutcomePass,
		Seq:      seq,
	}
}

func TestSuite_ValidTestsPass(t *testing.T) {
	tests := []model.GeneratedTest{
		validTest("Add_typical", model.CategoryNormal, 0),
		validTest("Add_a_zero", model.CategoryEdge, 0),
	}

	res := Suite(tests)
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	if len(res.Tests) != 2 {
		t.Fatalf("test count = %d, want 2", len(res.Tests))
	}
	if res.Duplicates != 0 {
		t.Errorf("duplicates = %d, want 0", res.Duplicates)
	}
}

func TestSuite_RejectsInvalidCategory(t *testing.T) {
	bad := validTest("Add_weird", model.CategoryNormal, 1)
	bad.Category = "fuzz"

	res := Suite([]model.GeneratedTest{
		validTest("Add_typical", model.CategoryNormal, 0),
		bad,
	})

	if len(res.Tests) != 1 {
		t.Fatalf("test count = %d, want 1 survivor", len(res.Tests))
	}
	if len(res.Errors) != 1 {
		t.Fatalf("error count = %d, want 1", len(res.Errors))
	}
	var ve *ValidationError
	if !errors.As(res.Errors[0], &ve) {
		t.Fatalf("error type = %T, want *ValidationError", res.Errors[0])
	}
	if ve.TestID != bad.ID {
		t.Errorf("rejected ID = %s, want %s", ve.TestID, bad.ID)
	}
}

func TestSuite_RejectsMissingAssertions(t *testing.T) {
	bad := validTest("Add_hollow", model.CategoryNormal, 1)
	bad.Assert = nil

	res := Suite([]model.GeneratedTest{bad})
	if len(res.Tests) != 0 {
		t.Errorf("assertion-free test survived validation")
	}
	if len(res.Errors) != 1 {
		t.Errorf("error count = %d, want 1", len(res.Errors))
	}
}

func TestSuite_CollapsesBehavioralDuplicates(t *testing.T) {
	a := validTest("Add_typical", model.CategoryNormal, 0)
	// Same call, same inputs, same assertions; only identity differs.
	b := validTest("Add_typical_again", model.CategoryNormal, 5)
	b.Seq = 0

	res := Suite([]model.GeneratedTest{a, b})
	if res.Duplicates != 1 {
		t.Fatalf("duplicates = %d, want 1", res.Duplicates)
	}
	if len(res.Tests) != 1 {
		t.Fatalf("test count = %d, want 1", len(res.Tests))
	}
	if res.Tests[0].ID != a.ID {
		t.Errorf("kept %s, want first occurrence %s", res.Tests[0].ID, a.ID)
	}
}

func TestSuite_DistinctArgsAreNotDuplicates(t *testing.T) {
	a := validTest("Add_typical", model.CategoryNormal, 0)
	b := validTest("Add_other", model.CategoryNormal, 1)
	b.Act.Args = []model.Value{model.IntValue("5"), model.IntValue("2")}
	b.Assert[0].Expected = model.IntValue("7")

	res := Suite([]model.GeneratedTest{a, b})
	if res.Duplicates != 0 {
		t.Errorf("duplicates = %d, want 0 for distinct inputs", res.Duplicates)
	}
	if len(res.Tests) != 2 {
		t.Errorf("test count = %d, want 2", len(res.Tests))
	}
}

func TestSuite_DependencyOrdering(t *testing.T) {
	killer := validTest("Add_typical", model.CategoryNormal, 0)

	mut := validTest("Add_mutant_add_to_sub", model.CategoryMutation, 0)
	mut.Expected = model.OutcomeFail
	mut.Mutant = &model.MutantSpec{
		Kind:       "operator_swap",
		OriginalOp: "+",
		MutatedOp:  "-",
		KilledBy:   killer.ID,
	}
	mut.DependsOn = []string{killer.ID}

	// Input order is dependency-first reversed.
	res := Suite([]model.GeneratedTest{mut, killer})
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	if len(res.Tests) != 2 {
		t.Fatalf("test count = %d, want 2", len(res.Tests))
	}
	if res.Tests[0].ID != killer.ID || res.Tests[1].ID != mut.ID {
		t.Errorf("order = [%s %s], want dependency before dependent",
			res.Tests[0].ID, res.Tests[1].ID)
	}
}

func TestSuite_MissingDependencyIgnored(t *testing.T) {
	tc := validTest("Add_typical", model.CategoryNormal, 0)
	tc.DependsOn = []string{"gt-deadbeef"}

	res := Suite([]model.GeneratedTest{tc})
	if len(res.Tests) != 1 {
		t.Fatalf("test with external dependency dropped: %v", res.Errors)
	}
}

func TestSuite_DependencyCycleReported(t *testing.T) {
	a := validTest("Add_first", model.CategoryNormal, 0)
	b := validTest("Add_second", model.CategoryNormal, 1)
	a.DependsOn = []string{b.ID}
	b.DependsOn = []string{a.ID}

	res := Suite([]model.GeneratedTest{a, b})
	if len(res.Errors) != 2 {
		t.Fatalf("error count = %d, want one per cycle member", len(res.Errors))
	}
	// Cycle members stay in the suite so nothing is silently lost.
	if len(res.Tests) != 2 {
		t.Errorf("test count = %d, want 2", len(res.Tests))
	}
}

func TestSuite_DeterministicAcrossInputOrder(t *testing.T) {
	tests := []model.GeneratedTest{
		validTest("Add_typical", model.CategoryNormal, 0),
		validTest("Add_a_zero", model.CategoryEdge, 0),
		validTest("Add_b_zero", model.CategoryEdge, 1),
	}
	reversed := []model.GeneratedTest{tests[2], tests[1], tests[0]}

	r1 := Suite(tests)
	r2 := Suite(reversed)

	if !reflect.DeepEqual(r1.Tests, r2.Tests) {
		t.Error("optimized order depends on input order")
	}
	if r1.Tests[0].Category != model.CategoryNormal {
		t.Errorf("first test category = %s, want normal first", r1.Tests[0].Category)
	}
}
