// Package loader is the source-retrieval collaborator: it wraps
// go/packages to turn a Go package into SourceUnits for the guardian
// pipeline, plus per-function development metadata scraped from the
// package's test files.
package loader

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/unbound-force/tddguard/internal/model"
	"github.com/unbound-force/tddguard/internal/violation"
)

// LoadMode is the minimum flag set needed to enumerate a package's
// source and test files.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedCompiledGoFiles

// Result holds the loaded units plus the development metadata the
// violation detector consumes.
type Result struct {
	// Units are the package's non-test Go files, one SourceUnit per
	// file, ordered by path.
	Units []model.SourceUnit

	// Metadata records, per exported function name, whether any test
	// file in the package references it.
	Metadata violation.Metadata
}

// Load loads a Go package at the given import path or file pattern
// and splits it into per-file source units. Loading or syntax errors
// fail the whole call; the analyzer reports finer-grained problems
// later.
func Load(pattern string) (*Result, error) {
	cfg := &packages.Config{
		Mode:  LoadMode,
		Tests: true,
	}

	pkgs, err := packages.Load(cfg, pattern)
	if err != nil {
		return nil, fmt.Errorf("loading package %q: %w", pattern, err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found for pattern %q", pattern)
	}

	var errs []string
	files := map[string]bool{}
	testFiles := map[string]bool{}
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e.Error())
		}
		// Skip the synthesized test-main package; its generated
		// driver file is not project source.
		if strings.HasSuffix(pkg.PkgPath, ".test") {
			continue
		}
		for _, f := range pkg.GoFiles {
			if strings.HasSuffix(f, "_test.go") {
				testFiles[f] = true
			} else {
				files[f] = true
			}
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("package %q has errors:\n  %s",
			pattern, strings.Join(errs, "\n  "))
	}

	res := &Result{Metadata: violation.Metadata{}}

	var paths []string
	for f := range files {
		paths = append(paths, f)
	}
	sort.Strings(paths)

	var testContent strings.Builder
	for f := range testFiles {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f, err)
		}
		testContent.Write(data)
		testContent.WriteByte('\n')
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		res.Units = append(res.Units, model.SourceUnit{
			ID:       path,
			Language: "go",
			Content:  string(data),
		})
		mergeMetadata(res.Metadata, string(data), testContent.String())
	}

	return res, nil
}

var funcDeclRe = regexp.MustCompile(`(?m)^func\s+(?:\([^)]*\)\s+)?([A-Za-z_]\w*)\s*\(`)

// mergeMetadata records, for every function declared in the source,
// whether the package's test files mention it. Commit ordering and
// coverage need a VCS/coverage collaborator; without one, tested
// functions get the benefit of the doubt on ordering and full
// nominal coverage, so only the test-existence rule can fire.
func mergeMetadata(meta violation.Metadata, src, tests string) {
	for _, m := range funcDeclRe.FindAllStringSubmatch(src, -1) {
		name := m[1]
		if _, seen := meta[name]; seen {
			continue
		}
		exists := strings.Contains(tests, name)
		fm := violation.FunctionMetadata{TestExists: exists}
		if exists {
			fm.TestCommittedFirst = true
			fm.Coverage = 1
			fm.AssertionDensity = 1
		}
		meta[name] = fm
	}
}
