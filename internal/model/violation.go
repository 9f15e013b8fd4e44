package model

// ViolationType enumerates the test-first discipline violations the
// detector and the cycle tracker can emit.
type ViolationType string

// Violation type constants.
const (
	CodeWithoutTest         ViolationType = "code-without-test"
	TestNotFirst            ViolationType = "test-not-first"
	PrematureImplementation ViolationType = "premature-implementation"
	InsufficientTests       ViolationType = "insufficient-tests"
	PoorTestQuality         ViolationType = "poor-test-quality"
	MissingEdgeCases        ViolationType = "missing-edge-cases"
	NoRefactorStep          ViolationType = "no-refactor-step"
	SkippedRedPhase         ViolationType = "skipped-red-phase"
	WeakAssertions          ViolationType = "weak-assertions"
)

// Severity is the ordinal violation severity (1-5).
type Severity int

// Severity levels.
const (
	SeverityInfo     Severity = 1
	SeverityNotice   Severity = 2
	SeverityWarning  Severity = 3
	SeverityError    Severity = 4
	SeverityCritical Severity = 5
)

// String returns the severity label.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityNotice:
		return "notice"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// baseSeverity is the deterministic severity for each violation type
// absent contextual scaling.
var baseSeverity = map[ViolationType]Severity{
	CodeWithoutTest:         SeverityError,
	TestNotFirst:            SeverityError,
	PrematureImplementation: SeverityError,
	InsufficientTests:       SeverityWarning,
	PoorTestQuality:         SeverityWarning,
	MissingEdgeCases:        SeverityWarning,
	NoRefactorStep:          SeverityNotice,
	SkippedRedPhase:         SeverityError,
	WeakAssertions:          SeverityWarning,
}

// SeverityOf returns the deterministic base severity for a violation
// type. Unknown types default to Warning.
func SeverityOf(t ViolationType) Severity {
	if s, ok := baseSeverity[t]; ok {
		return s
	}
	return SeverityWarning
}

// ShortfallSeverity scales insufficient-tests severity by the
// coverage shortfall magnitude (target - actual, both fractional).
// Shortfalls under 10 points stay at Warning, under 25 points rise
// to Error, anything larger is Critical.
func ShortfallSeverity(shortfall float64) Severity {
	switch {
	case shortfall < 0.10:
		return SeverityWarning
	case shortfall < 0.25:
		return SeverityError
	default:
		return SeverityCritical
	}
}

// Violation is one detected discipline violation. Immutable once
// emitted; the per-run violation list is append-only.
type Violation struct {
	// ID is a stable identifier derived from type and location.
	ID string `json:"id"`

	// Type is the violation category.
	Type ViolationType `json:"type"`

	// Severity is the ordinal severity (1-5), a deterministic
	// function of type and context.
	Severity Severity `json:"severity"`

	// Location is the source location ("unit:function").
	Location string `json:"location"`

	// Evidence lists the supporting facts behind the finding.
	Evidence []string `json:"evidence"`

	// Remediation is optional guidance text.
	Remediation string `json:"remediation,omitempty"`
}

// NewViolation assembles a violation with a stable ID and the base
// severity for its type.
func NewViolation(t ViolationType, location string, evidence ...string) Violation {
	return Violation{
		ID:       GenerateID("v", string(t), location),
		Type:     t,
		Severity: SeverityOf(t),
		Location: location,
		Evidence: evidence,
	}
}
