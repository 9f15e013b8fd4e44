package model

import (
	"testing"
)

func TestGenerateID_Deterministic(t *testing.T) {
	id1 := GenerateID("gt", "spec-abc", "edge", "b", "zero")
	id2 := GenerateID("gt", "spec-abc", "edge", "b", "zero")

	if id1 != id2 {
		t.Errorf("GenerateID not deterministic: %q != %q", id1, id2)
	}
}

func TestGenerateID_Format(t *testing.T) {
	id := GenerateID("gt", "spec-abc", "edge")

	if len(id) != 11 { // "gt-" + 8 hex chars
		t.Errorf("expected ID length 11, got %d: %q", len(id), id)
	}
	if id[:3] != "gt-" {
		t.Errorf("expected ID to start with 'gt-', got %q", id)
	}
}

func TestGenerateID_UniqueForDifferentInputs(t *testing.T) {
	id1 := GenerateID("gt", "spec-abc", "edge")
	id2 := GenerateID("gt", "spec-abc", "normal")
	id3 := GenerateID("gt", "spec-def", "edge")

	if id1 == id2 {
		t.Error("different categories should produce different IDs")
	}
	if id1 == id3 {
		t.Error("different specs should produce different IDs")
	}
}

func TestSourceUnit_StableID(t *testing.T) {
	u := SourceUnit{Language: "go", Content: "package p"}

	id1 := u.StableID()
	id2 := u.StableID()
	if id1 != id2 {
		t.Errorf("StableID not deterministic: %q != %q", id1, id2)
	}
	if id1[:5] != "unit-" {
		t.Errorf("derived ID should start with 'unit-', got %q", id1)
	}

	u.ID = "pkg/calc.go"
	if got := u.StableID(); got != "pkg/calc.go" {
		t.Errorf("explicit ID not preserved: %q", got)
	}
}

func TestSeverityOf_AllTypesHaveSeverity(t *testing.T) {
	allTypes := []ViolationType{
		CodeWithoutTest, TestNotFirst, PrematureImplementation,
		InsufficientTests, PoorTestQuality, MissingEdgeCases,
		NoRefactorStep, SkippedRedPhase, WeakAssertions,
	}

	for _, vt := range allTypes {
		s := SeverityOf(vt)
		if s < SeverityInfo || s > SeverityCritical {
			t.Errorf("SeverityOf(%s) = %d, out of range", vt, s)
		}
	}
}

func TestSeverityOf_Deterministic(t *testing.T) {
	if SeverityOf(CodeWithoutTest) != SeverityError {
		t.Errorf("code-without-test should be Error, got %s",
			SeverityOf(CodeWithoutTest))
	}
	if SeverityOf(WeakAssertions) != SeverityWarning {
		t.Errorf("weak-assertions should be Warning, got %s",
			SeverityOf(WeakAssertions))
	}
}

func TestShortfallSeverity_Scaling(t *testing.T) {
	tests := []struct {
		shortfall float64
		want      Severity
	}{
		{0.05, SeverityWarning},
		{0.09, SeverityWarning},
		{0.10, SeverityError},
		{0.24, SeverityError},
		{0.25, SeverityCritical},
		{0.80, SeverityCritical},
	}

	for _, tc := range tests {
		if got := ShortfallSeverity(tc.shortfall); got != tc.want {
			t.Errorf("ShortfallSeverity(%.2f) = %s, want %s",
				tc.shortfall, got, tc.want)
		}
	}
}

func TestCategoryRank_Ordering(t *testing.T) {
	if CategoryRank(CategoryNormal) >= CategoryRank(CategoryEdge) {
		t.Error("normal should rank before edge")
	}
	if CategoryRank(CategoryEdge) >= CategoryRank(CategoryProperty) {
		t.Error("edge should rank before property")
	}
	if CategoryRank(CategoryProperty) >= CategoryRank(CategoryMutation) {
		t.Error("property should rank before mutation")
	}
}

func TestQualifiedName(t *testing.T) {
	f := FunctionSignature{Name: "Save", Receiver: "*Store"}
	if got := f.QualifiedName(); got != "(*Store).Save" {
		t.Errorf("QualifiedName = %q, want (*Store).Save", got)
	}

	f = FunctionSignature{Name: "Parse"}
	if got := f.QualifiedName(); got != "Parse" {
		t.Errorf("QualifiedName = %q, want Parse", got)
	}
}

func TestNewViolation_StableAndPopulated(t *testing.T) {
	v1 := NewViolation(CodeWithoutTest, "calc.go:Divide", "no tests reference Divide")
	v2 := NewViolation(CodeWithoutTest, "calc.go:Divide", "no tests reference Divide")

	if v1.ID != v2.ID {
		t.Errorf("violation IDs not stable: %q != %q", v1.ID, v2.ID)
	}
	if v1.Severity != SeverityError {
		t.Errorf("severity = %s, want error", v1.Severity)
	}
	if len(v1.Evidence) != 1 {
		t.Errorf("evidence length = %d, want 1", len(v1.Evidence))
	}
}
