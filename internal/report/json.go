// Package report provides output formatters for guardian results in
// JSON and human-readable text formats.
package report

import (
	"encoding/json"
	"io"

	"github.com/unbound-force/tddguard/internal/model"
)

// JSONReport is the top-level JSON output structure.
type JSONReport struct {
	Version string                 `json:"version"`
	Results []model.GuardianResult `json:"results"`
}

// WriteJSON writes guardian results as formatted JSON to the writer.
func WriteJSON(w io.Writer, results []model.GuardianResult, version string) error {
	if results == nil {
		results = []model.GuardianResult{}
	}
	report := JSONReport{
		Version: version,
		Results: results,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
