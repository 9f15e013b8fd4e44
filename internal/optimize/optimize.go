package optimize

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/unbound-force/tddguard/internal/model"
)

// ValidationError marks a generated test rejected by the optimizer.
// Rejection is per-test and non-fatal: the rest of the suite is
// optimized normally.
type ValidationError struct {
	TestID string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: test %s: %v", e.TestID, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Result is the optimized suite plus per-test rejections.
type Result struct {
	// Tests is the validated, deduplicated suite in execution order.
	Tests []model.GeneratedTest

	// Duplicates counts tests removed for having an identical
	// behavioral fingerprint to an earlier test.
	Duplicates int

	// Errors holds one ValidationError per rejected test.
	Errors []error
}

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	sch, err := jsonschema.UnmarshalJSON(strings.NewReader(TestSchema))
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("generated-test.schema.json", sch); err != nil {
		return nil, err
	}
	return compiler.Compile("generated-test.schema.json")
})

// Suite validates, deduplicates, and orders a generated test suite.
// Tests failing schema validation are dropped with a ValidationError;
// behavioral duplicates keep the first occurrence; the survivors are
// topologically ordered so every test runs after its dependencies.
func Suite(tests []model.GeneratedTest) Result {
	var res Result

	compiled, err := compileSchema()
	if err != nil {
		// A broken embedded schema is a programming error, not a
		// per-test one.
		res.Errors = append(res.Errors, fmt.Errorf("compile test schema: %w", err))
		return res
	}

	valid := make([]model.GeneratedTest, 0, len(tests))
	seen := make(map[[32]byte]string, len(tests))

	for _, t := range tests {
		if err := validate(compiled, t); err != nil {
			res.Errors = append(res.Errors, &ValidationError{TestID: t.ID, Err: err})
			continue
		}

		fp := fingerprint(t)
		if _, dup := seen[fp]; dup {
			res.Duplicates++
			continue
		}
		seen[fp] = t.ID
		valid = append(valid, t)
	}

	ordered, cycleErrs := order(valid)
	res.Tests = ordered
	res.Errors = append(res.Errors, cycleErrs...)
	return res
}

// validate checks one test against the embedded schema.
func validate(compiled *jsonschema.Schema, t model.GeneratedTest) error {
	raw, err := json.Marshal(t)
	if err != nil {
		return err
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return err
	}
	return compiled.Validate(inst)
}

// fingerprint hashes the behavioral content of a test: what it calls,
// with what inputs, and what it asserts. Identity fields (ID, name,
// sequence) are excluded so renamed duplicates still collapse.
func fingerprint(t model.GeneratedTest) [32]byte {
	canonical := struct {
		SpecID   string              `json:"spec_id"`
		Category model.TestCategory  `json:"category"`
		Arrange  []model.Statement   `json:"arrange"`
		Act      model.Statement     `json:"act"`
		Assert   []model.Assertion   `json:"assert"`
		Expected model.Outcome       `json:"expected"`
		Property *model.PropertySpec `json:"property,omitempty"`
		Mutant   *model.MutantSpec   `json:"mutant,omitempty"`
	}{
		SpecID:   t.SpecID,
		Category: t.Category,
		Arrange:  t.Arrange,
		Act:      t.Act,
		Assert:   t.Assert,
		Expected: t.Expected,
		Property: t.Property,
		Mutant:   t.Mutant,
	}
	raw, err := json.Marshal(canonical)
	if err != nil {
		// Marshal of plain structs cannot fail; fall back to the ID
		// so the test is never silently dropped.
		return sha256.Sum256([]byte(t.ID))
	}
	return sha256.Sum256(raw)
}

// order runs Kahn's algorithm over the depends_on graph. Ready tests
// are released in (category rank, seq, name) order so the result is
// deterministic regardless of input order. Edges to tests outside the
// suite are ignored; tests stuck in a dependency cycle are appended
// last with a ValidationError each.
func order(tests []model.GeneratedTest) ([]model.GeneratedTest, []error) {
	byID := make(map[string]int, len(tests))
	for i, t := range tests {
		byID[t.ID] = i
	}

	indegree := make([]int, len(tests))
	dependents := make(map[int][]int, len(tests))
	for i, t := range tests {
		for _, dep := range t.DependsOn {
			j, ok := byID[dep]
			if !ok || j == i {
				continue
			}
			indegree[i]++
			dependents[j] = append(dependents[j], i)
		}
	}

	less := func(a, b int) bool {
		ta, tb := tests[a], tests[b]
		if model.CategoryRank(ta.Category) != model.CategoryRank(tb.Category) {
			return model.CategoryRank(ta.Category) < model.CategoryRank(tb.Category)
		}
		if ta.Seq != tb.Seq {
			return ta.Seq < tb.Seq
		}
		return ta.Name < tb.Name
	}

	var ready []int
	for i := range tests {
		if indegree[i] == 0 {
			ready = append(ready, i)
		}
	}
	sort.Slice(ready, func(i, j int) bool { return less(ready[i], ready[j]) })

	ordered := make([]model.GeneratedTest, 0, len(tests))
	done := make([]bool, len(tests))
	for len(ready) > 0 {
		i := ready[0]
		ready = ready[1:]
		done[i] = true
		ordered = append(ordered, tests[i])

		for _, j := range dependents[i] {
			indegree[j]--
			if indegree[j] == 0 {
				ready = append(ready, j)
				sort.Slice(ready, func(a, b int) bool { return less(ready[a], ready[b]) })
			}
		}
	}

	var errs []error
	if len(ordered) < len(tests) {
		for i, t := range tests {
			if !done[i] {
				errs = append(errs, &ValidationError{
					TestID: t.ID,
					Err:    fmt.Errorf("dependency cycle involving %s", t.ID),
				})
				ordered = append(ordered, t)
			}
		}
	}
	return ordered, errs
}
