// Package analyze implements the source structure analyzer: it
// parses a source unit into an ordered structural model of function
// signatures with complexity and nesting scores. Analysis is a pure
// function of the unit's text; language support is pluggable behind
// a static registry.
package analyze

import (
	"fmt"
	"sort"

	"github.com/unbound-force/tddguard/internal/model"
)

// AnalysisError is the only fatal error class in the pipeline: the
// unit cannot be parsed into a valid structural tree. It aborts the
// guardian run for the affected unit.
type AnalysisError struct {
	// UnitID identifies the failing unit.
	UnitID string

	// Language is the unit's language tag.
	Language string

	// Err is the underlying parse failure.
	Err error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analyzing %s (%s): %v", e.UnitID, e.Language, e.Err)
}

func (e *AnalysisError) Unwrap() error { return e.Err }

// Analyzer parses one language's source text into function
// signatures.
type Analyzer interface {
	// Language returns the language tag this analyzer handles.
	Language() string

	// Analyze parses the unit content into an ordered signature
	// list. Implementations must be deterministic and free of side
	// effects.
	Analyze(unit model.SourceUnit) ([]model.FunctionSignature, error)
}

// analyzers is the static language registry. Registration is
// compile-time only; no runtime reflection.
var analyzers = map[string]Analyzer{
	"go":     goAnalyzer{},
	"python": pythonAnalyzer{},
}

// Languages returns the sorted list of supported language tags.
func Languages() []string {
	langs := make([]string, 0, len(analyzers))
	for l := range analyzers {
		langs = append(langs, l)
	}
	sort.Strings(langs)
	return langs
}

// Unit analyzes one source unit into a structural model. It fails
// with *AnalysisError when the language is unsupported or the unit
// cannot be parsed.
func Unit(unit model.SourceUnit) (*model.StructuralModel, error) {
	a, ok := analyzers[unit.Language]
	if !ok {
		return nil, &AnalysisError{
			UnitID:   unit.StableID(),
			Language: unit.Language,
			Err:      fmt.Errorf("unsupported language %q (supported: %v)", unit.Language, Languages()),
		}
	}

	funcs, err := a.Analyze(unit)
	if err != nil {
		return nil, &AnalysisError{
			UnitID:   unit.StableID(),
			Language: unit.Language,
			Err:      err,
		}
	}

	return &model.StructuralModel{
		UnitID:    unit.StableID(),
		Language:  unit.Language,
		Functions: funcs,
	}, nil
}
