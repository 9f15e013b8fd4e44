// Package model defines the core data structures shared across the
// TDD guardian pipeline: source units, structural models, generation
// specs, generated tests, violations, cycles, and the aggregated
// guardian result. It also provides stable ID generation for diffing
// results across runs.
package model

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"
)

// SourceUnit is one unit of source code handed to the analyzer.
// Immutable once analyzed.
type SourceUnit struct {
	// ID uniquely identifies the unit (typically a file path).
	// When empty, StableID derives one from the content hash.
	ID string `json:"id"`

	// Language is the language tag ("go", "python").
	Language string `json:"language"`

	// Content is the raw source text.
	Content string `json:"content"`
}

// StableID returns the unit ID, deriving one from the content hash
// when the caller did not supply an ID.
func (u SourceUnit) StableID() string {
	if u.ID != "" {
		return u.ID
	}
	hash := sha256.Sum256([]byte(u.Content))
	return fmt.Sprintf("unit-%x", hash[:4])
}

// SemanticType classifies a parameter or return type into the
// language-agnostic categories the spec builder derives edge cases
// from.
type SemanticType string

// Semantic type constants.
const (
	TypeInt      SemanticType = "int"
	TypeUint     SemanticType = "uint"
	TypeFloat    SemanticType = "float"
	TypeBool     SemanticType = "bool"
	TypeString   SemanticType = "string"
	TypeSequence SemanticType = "sequence"
	TypeMap      SemanticType = "map"
	TypeNullable SemanticType = "nullable"
	TypeOpaque   SemanticType = "opaque"
)

// Numeric reports whether the type takes numeric boundary values.
func (t SemanticType) Numeric() bool {
	return t == TypeInt || t == TypeUint || t == TypeFloat
}

// Param is one function parameter.
type Param struct {
	// Name is the parameter name as declared.
	Name string `json:"name"`

	// Type is the semantic type category.
	Type SemanticType `json:"type"`

	// Declared is the type as written in the source (e.g. "int64",
	// "[]string", "Optional[str]").
	Declared string `json:"declared"`
}

// Return is one function return value.
type Return struct {
	// Type is the semantic type category.
	Type SemanticType `json:"type"`

	// Declared is the type as written in the source.
	Declared string `json:"declared"`
}

// BodyExpr captures a derivable single-binary-expression function
// body (e.g. "a + b"). Generators use it to compute expected values
// and to synthesize mutants. Nil when the body is not derivable.
type BodyExpr struct {
	// Op is the operator token ("+", "-", "*", "/", "%", "&&",
	// "||", "==", "<", "<=", ">", ">=").
	Op string `json:"op"`

	// Left and Right are parameter names.
	Left  string `json:"left"`
	Right string `json:"right"`
}

// DocContract is a structured behavior clause parsed from the
// function's documentation text, e.g. "returns +infinity when b is
// zero".
type DocContract struct {
	// Result is the documented result value.
	Result Value `json:"result"`

	// Param is the parameter the clause conditions on.
	Param string `json:"param"`

	// When is the triggering parameter value.
	When Value `json:"when"`
}

// FunctionSignature is one analyzed function. Owned by the structure
// analyzer's output model, read-only thereafter.
type FunctionSignature struct {
	// Name is the function or method name.
	Name string `json:"name"`

	// Receiver is the receiver type for methods, empty otherwise.
	Receiver string `json:"receiver,omitempty"`

	// Params is the ordered parameter list.
	Params []Param `json:"params"`

	// Returns is the ordered return list.
	Returns []Return `json:"returns"`

	// Doc is the associated documentation text.
	Doc string `json:"doc,omitempty"`

	// Complexity is the cyclomatic complexity (decision points + 1).
	Complexity int `json:"complexity"`

	// NestingDepth is the maximum block nesting depth of the body.
	NestingDepth int `json:"nesting_depth"`

	// Location is the source position ("unit:line").
	Location string `json:"location"`

	// Body is the derivable body semantic, nil when not derivable.
	Body *BodyExpr `json:"body,omitempty"`

	// Contracts are structured clauses parsed from Doc.
	Contracts []DocContract `json:"contracts,omitempty"`
}

// QualifiedName returns the method-qualified name, e.g.
// "(*Store).Save" or "ParseConfig".
func (f FunctionSignature) QualifiedName() string {
	if f.Receiver != "" {
		return fmt.Sprintf("(%s).%s", f.Receiver, f.Name)
	}
	return f.Name
}

// StructuralModel is the analyzer output for one source unit.
type StructuralModel struct {
	// UnitID identifies the analyzed unit.
	UnitID string `json:"unit_id"`

	// Language is the unit's language tag.
	Language string `json:"language"`

	// Functions is the ordered list of analyzed functions.
	Functions []FunctionSignature `json:"functions"`
}

// BoundaryKind names an edge-case boundary class.
type BoundaryKind string

// Boundary kind constants, grouped by the semantic type family that
// produces them.
const (
	BoundaryZero       BoundaryKind = "zero"
	BoundaryOne        BoundaryKind = "one"
	BoundaryNegOne     BoundaryKind = "negative_one"
	BoundaryMin        BoundaryKind = "type_min"
	BoundaryMax        BoundaryKind = "type_max"
	BoundaryEmpty      BoundaryKind = "empty"
	BoundarySingle     BoundaryKind = "single_element"
	BoundaryLarge      BoundaryKind = "large"
	BoundaryWhitespace BoundaryKind = "whitespace"
	BoundaryMaxLength  BoundaryKind = "max_length"
	BoundaryAbsent     BoundaryKind = "absent"
)

// EdgeCase is one (parameter, boundary value) candidate.
type EdgeCase struct {
	// Param is the parameter name the boundary applies to.
	Param string `json:"param"`

	// Kind is the boundary class.
	Kind BoundaryKind `json:"kind"`

	// Value is the concrete boundary value.
	Value Value `json:"value"`
}

// TestGenerationSpec is the generation contract for one function.
// Created once per function per analysis pass; never mutated, only
// superseded by a new pass.
type TestGenerationSpec struct {
	// ID is a stable identifier derived from the unit and function.
	ID string `json:"id"`

	// UnitID identifies the source unit.
	UnitID string `json:"unit_id"`

	// Function is the signature the spec was derived from.
	Function FunctionSignature `json:"function"`

	// EdgeCases is the deterministic edge-case candidate set.
	EdgeCases []EdgeCase `json:"edge_cases"`

	// CoverageTarget is the fractional coverage goal (0.0-1.0).
	CoverageTarget float64 `json:"coverage_target"`
}

// ValueKind tags the representation of a language-agnostic value.
type ValueKind string

// Value kind constants.
const (
	ValueInt      ValueKind = "int"
	ValueFloat    ValueKind = "float"
	ValueString   ValueKind = "string"
	ValueBool     ValueKind = "bool"
	ValueNull     ValueKind = "null"
	ValueSequence ValueKind = "sequence"
	ValueMap      ValueKind = "map"
)

// Value is a language-agnostic literal. Float literals use Go's
// strconv formatting; "+Inf" and "-Inf" are permitted float
// literals.
type Value struct {
	Kind    ValueKind `json:"kind"`
	Literal string    `json:"literal"`
}

// IntValue builds an int Value from a literal.
func IntValue(lit string) Value { return Value{Kind: ValueInt, Literal: lit} }

// FloatValue builds a float Value from a literal.
func FloatValue(lit string) Value { return Value{Kind: ValueFloat, Literal: lit} }

// StringValue builds a string Value.
func StringValue(lit string) Value { return Value{Kind: ValueString, Literal: lit} }

// BoolValue builds a bool Value.
func BoolValue(b bool) Value {
	return Value{Kind: ValueBool, Literal: fmt.Sprintf("%t", b)}
}

// NullValue is the absent-value literal.
func NullValue() Value { return Value{Kind: ValueNull, Literal: "null"} }

// TestCategory tags the strategy that produced a test.
type TestCategory string

// Test category constants, in deterministic ordering rank order.
const (
	CategoryNormal   TestCategory = "normal"
	CategoryEdge     TestCategory = "edge"
	CategoryProperty TestCategory = "property"
	CategoryMutation TestCategory = "mutation"
)

// CategoryRank returns the deterministic ordering rank for a
// category. Unknown categories sort last.
func CategoryRank(c TestCategory) int {
	switch c {
	case CategoryNormal:
		return 0
	case CategoryEdge:
		return 1
	case CategoryProperty:
		return 2
	case CategoryMutation:
		return 3
	default:
		return 4
	}
}

// Outcome is the expected result class of a test.
type Outcome string

// Outcome constants.
const (
	OutcomePass      Outcome = "pass"
	OutcomeFail      Outcome = "fail"
	OutcomeException Outcome = "exception"
)

// Statement is one step of the arrange phase: bind a named value or
// invoke a call with arguments.
type Statement struct {
	// Assign is the name being bound, empty for bare calls.
	Assign string `json:"assign,omitempty"`

	// Call is the invoked function, empty for literal bindings.
	Call string `json:"call,omitempty"`

	// Args are the call arguments or, for a literal binding, the
	// single bound value.
	Args []Value `json:"args,omitempty"`
}

// AssertKind enumerates assertion forms in the structured test
// representation.
type AssertKind string

// Assertion kind constants.
const (
	AssertEquals   AssertKind = "equals"
	AssertNotEqual AssertKind = "not_equal"
	AssertTrue     AssertKind = "true"
	AssertNotNull  AssertKind = "not_null"
	AssertRaises   AssertKind = "raises"
	AssertProperty AssertKind = "property_holds"
)

// Assertion is one assert-phase check.
type Assertion struct {
	// Kind is the assertion form.
	Kind AssertKind `json:"kind"`

	// Actual names the value under assertion ("result" by
	// convention).
	Actual string `json:"actual"`

	// Expected is the expected value. Unused for raises/not_null.
	Expected Value `json:"expected,omitzero"`
}

// PropertySpec describes a randomized-trial property test.
type PropertySpec struct {
	// Property is the algebraic property name ("commutativity",
	// "idempotence", "monotonicity", "invertibility").
	Property string `json:"property"`

	// Trials is the number of generated input samples.
	Trials int `json:"trials"`

	// Seed is the deterministic RNG seed.
	Seed int64 `json:"seed"`

	// Shrink requests minimal-failure reporting: on failure the
	// smallest reproducing input is reported.
	Shrink bool `json:"shrink"`
}

// MutantSpec describes the adversarial code mutation a mutation test
// targets.
type MutantSpec struct {
	// Kind is the mutation class ("operator_swap",
	// "boundary_shift", "boolean_inversion").
	Kind string `json:"kind"`

	// OriginalOp and MutatedOp are the swapped operator tokens.
	OriginalOp string `json:"original_op"`
	MutatedOp  string `json:"mutated_op"`

	// KilledBy is the ID of a generated test that fails against the
	// mutant, empty when the mutant survives the suite.
	KilledBy string `json:"killed_by,omitempty"`
}

// GeneratedTest is one synthesized test in structured, language-
// agnostic form. Owned by its generator until consumed by the
// optimizer, which may merge or drop but never mutates identity.
type GeneratedTest struct {
	// ID is a stable identifier derived from the spec and content.
	ID string `json:"id"`

	// Name is the human-readable test name.
	Name string `json:"name"`

	// SpecID references the TestGenerationSpec this test was
	// generated from. Every test references exactly one spec.
	SpecID string `json:"spec_id"`

	// Category is the producing strategy.
	Category TestCategory `json:"category"`

	// Arrange is the setup statement sequence.
	Arrange []Statement `json:"arrange"`

	// Act is the invocation under test.
	Act Statement `json:"act"`

	// Assert is the check sequence.
	Assert []Assertion `json:"assert"`

	// Expected is the expected outcome class.
	Expected Outcome `json:"expected"`

	// DependsOn lists test IDs this test must run after.
	DependsOn []string `json:"depends_on,omitempty"`

	// Property is set for property-based tests.
	Property *PropertySpec `json:"property,omitempty"`

	// Mutant is set for mutation-based tests.
	Mutant *MutantSpec `json:"mutant,omitempty"`

	// Seq is the generation order within the producing generator,
	// used as the final deterministic ordering tie-break.
	Seq int `json:"seq"`
}

// PhaseDurations maps a cycle phase to the total time spent in it.
type PhaseDurations map[Phase]time.Duration

// Phase is a TDD cycle phase.
type Phase string

// Cycle phases. Red is initial; Blue is terminal per iteration and
// loops back to Red.
const (
	PhaseRed   Phase = "red"
	PhaseGreen Phase = "green"
	PhaseBlue  Phase = "blue"
)

// PhaseTransition is one timestamped cycle transition.
type PhaseTransition struct {
	From Phase     `json:"from"`
	To   Phase     `json:"to"`
	At   time.Time `json:"at"`
}

// TDDCycle tracks one Red-Green-Refactor iteration for a unit.
type TDDCycle struct {
	// ID identifies the cycle.
	ID string `json:"id"`

	// UnitID is the tracked unit.
	UnitID string `json:"unit_id"`

	// Phase is the current phase.
	Phase Phase `json:"phase"`

	// History is the ordered list of completed transitions.
	History []PhaseTransition `json:"history"`

	// StartedAt is the cycle creation time.
	StartedAt time.Time `json:"started_at"`

	// Archived marks a completed cycle moved to history.
	Archived bool `json:"archived"`

	// Durations is the per-phase time summary, computed when the
	// cycle is completed.
	Durations PhaseDurations `json:"durations,omitempty"`
}

// MarshalJSON encodes phase durations as milliseconds.
func (d PhaseDurations) MarshalJSON() ([]byte, error) {
	ms := make(map[Phase]int64, len(d))
	for p, dur := range d {
		ms[p] = dur.Milliseconds()
	}
	return json.Marshal(ms)
}

// Deficiency is one advisory quality finding.
type Deficiency struct {
	// Kind names the deficiency ("weak_assertions",
	// "coverage_below_target", "surviving_mutant",
	// "missing_edge_cases").
	Kind string `json:"kind"`

	// Detail is the human-readable explanation.
	Detail string `json:"detail"`
}

// QualityReport scores the optimized suite. Advisory, never fatal.
type QualityReport struct {
	// AssertionStrength is the ratio of tests with value-exact or
	// multi-condition assertions to total tests (0.0-1.0).
	AssertionStrength float64 `json:"assertion_strength"`

	// EstimatedCoverage is the heuristic branch coverage estimate
	// (0.0-1.0): branches implied by normal and edge tests over
	// total branches from the complexity score.
	EstimatedCoverage float64 `json:"estimated_coverage"`

	// EdgeCaseCoverage is materialized edge tests over edge
	// candidates (0.0-1.0).
	EdgeCaseCoverage float64 `json:"edge_case_coverage"`

	// Deficiencies lists advisory findings.
	Deficiencies []Deficiency `json:"deficiencies"`
}

// Diagnostic is one accumulated non-fatal error.
type Diagnostic struct {
	// Stage names the pipeline stage ("generate", "optimize",
	// "cycle").
	Stage string `json:"stage"`

	// Generator is the strategy name for generation diagnostics.
	Generator string `json:"generator,omitempty"`

	// Function is the affected function, when known.
	Function string `json:"function,omitempty"`

	// Message is the diagnostic text.
	Message string `json:"message"`
}

// Metadata holds guardian run metadata.
type Metadata struct {
	GuardianVersion string        `json:"guardian_version"`
	Timestamp       time.Time     `json:"-"`
	Duration        time.Duration `json:"-"`
}

// MarshalJSON encodes duration as milliseconds and the timestamp as
// RFC 3339.
func (m Metadata) MarshalJSON() ([]byte, error) {
	type Alias Metadata
	ts := ""
	if !m.Timestamp.IsZero() {
		ts = m.Timestamp.UTC().Format(time.RFC3339)
	}
	return json.Marshal(&struct {
		Alias
		DurationMS int64  `json:"duration_ms"`
		Timestamp  string `json:"timestamp,omitempty"`
	}{
		Alias:      Alias(m),
		DurationMS: m.Duration.Milliseconds(),
		Timestamp:  ts,
	})
}

// GuardianResult is the aggregated output of one guardian run over
// one source unit. Always best-effort: only an analysis failure
// prevents a result.
type GuardianResult struct {
	// Model is the structural model.
	Model StructuralModel `json:"model"`

	// Specs are the generation contracts, one per function.
	Specs []TestGenerationSpec `json:"specs"`

	// Suite is the optimized generated test suite.
	Suite []GeneratedTest `json:"suite"`

	// Violations is the append-only violation list for the run.
	Violations []Violation `json:"violations"`

	// Quality is the suite quality report.
	Quality QualityReport `json:"quality"`

	// Cycles holds the unit's active cycle at the time of the run,
	// when one exists. Archived cycles stay in the Store.
	Cycles []TDDCycle `json:"cycles"`

	// Diagnostics accumulates non-fatal errors.
	Diagnostics []Diagnostic `json:"diagnostics"`

	// Metadata holds run information.
	Metadata Metadata `json:"metadata"`
}

// GenerateID produces a stable, deterministic ID from context parts.
// The ID is a sha256 hash truncated to 8 hex characters with the
// given prefix (e.g. "gt" for generated tests, "spec" for specs,
// "v" for violations).
func GenerateID(prefix string, parts ...string) string {
	h := sha256.New()
	for i, p := range parts {
		if i > 0 {
			h.Write([]byte{':'})
		}
		h.Write([]byte(p))
	}
	return fmt.Sprintf("%s-%x", prefix, h.Sum(nil)[:4])
}
