package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/unbound-force/tddguard/internal/model"
)

// WriteText writes guardian results as human-readable styled text to
// the writer. Output uses lipgloss for color and formatting when the
// output is a TTY; degrades gracefully for pipes and CI.
func WriteText(w io.Writer, results []model.GuardianResult) error {
	s := DefaultStyles()

	for i, result := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if err := writeOneResult(w, result, s); err != nil {
			return err
		}
	}

	// Summary line.
	tests, violations := 0, 0
	for _, r := range results {
		tests += len(r.Suite)
		violations += len(r.Violations)
	}
	fmt.Fprintf(w, "\n%s\n",
		s.Header.Render(fmt.Sprintf(
			"%d unit(s) guarded, %d test(s) generated, %d violation(s) detected",
			len(results), tests, violations)))

	return nil
}

func writeOneResult(w io.Writer, result model.GuardianResult, s Styles) error {
	fmt.Fprintln(w, s.Header.Render(fmt.Sprintf("=== %s ===", result.Model.UnitID)))
	fmt.Fprintln(w, s.SubHeader.Render(fmt.Sprintf("    %s, %d function(s)",
		result.Model.Language, len(result.Model.Functions))))

	writeSuiteSummary(w, result, s)
	writeQuality(w, result.Quality, s)
	writeCycles(w, result.Cycles, s)

	if len(result.Violations) == 0 {
		fmt.Fprintln(w, s.Muted.Render("    No violations detected."))
	} else {
		writeViolations(w, result.Violations, s)
	}

	if len(result.Diagnostics) > 0 {
		fmt.Fprintln(w, s.Muted.Render(fmt.Sprintf(
			"    %d diagnostic(s) accumulated (non-fatal).", len(result.Diagnostics))))
	}
	return nil
}

func writeSuiteSummary(w io.Writer, result model.GuardianResult, s Styles) {
	counts := map[model.TestCategory]int{}
	for _, t := range result.Suite {
		counts[t.Category]++
	}
	var parts []string
	for _, c := range []model.TestCategory{
		model.CategoryNormal, model.CategoryEdge,
		model.CategoryProperty, model.CategoryMutation,
	} {
		if n, ok := counts[c]; ok {
			parts = append(parts, fmt.Sprintf("%d %s", n, c))
		}
	}
	if len(parts) == 0 {
		fmt.Fprintln(w, s.Muted.Render("    No tests generated."))
		return
	}
	fmt.Fprintf(w, "    %s %s\n",
		s.SummaryLabel.Render("Generated tests:"),
		s.SummaryValue.Render(strings.Join(parts, ", ")))
}

func writeQuality(w io.Writer, q model.QualityReport, s Styles) {
	score := func(v float64, good bool) string {
		if good {
			return s.ScoreGood.Render(fmt.Sprintf("%.2f", v))
		}
		return s.ScoreBad.Render(fmt.Sprintf("%.2f", v))
	}
	fmt.Fprintf(w, "    %s strength %s, coverage %s, edges %s\n",
		s.SummaryLabel.Render("Quality:"),
		score(q.AssertionStrength, q.AssertionStrength >= 0.6),
		score(q.EstimatedCoverage, q.EstimatedCoverage >= 0.95),
		score(q.EdgeCaseCoverage, q.EdgeCaseCoverage >= 1))

	for _, d := range q.Deficiencies {
		fmt.Fprintln(w, s.Muted.Render("      - "+d.Kind+": "+d.Detail))
	}
}

func writeCycles(w io.Writer, cycles []model.TDDCycle, s Styles) {
	for _, c := range cycles {
		state := "active"
		if c.Archived {
			state = "archived"
		}
		fmt.Fprintf(w, "    %s %s cycle %s in %s\n",
			s.SummaryLabel.Render("TDD cycle:"),
			state, c.ID,
			s.PhaseStyle(string(c.Phase)).Render(string(c.Phase)))
	}
}

func writeViolations(w io.Writer, violations []model.Violation, s Styles) {
	fmt.Fprintln(w)

	// Budget: 80 cols total. Borders take ~4, padding 6 for 3
	// columns. Available: 70. SEVERITY=8, TYPE=24, LOCATION=38.
	const maxLoc = 38
	rows := make([][]string, 0, len(violations))
	for _, v := range violations {
		loc := v.Location
		if len(loc) > maxLoc {
			loc = loc[:maxLoc-3] + "..."
		}
		rows = append(rows, []string{
			v.Severity.String(),
			string(v.Type),
			loc,
		})
	}

	t := table.New().
		Width(76). // Leave 4 chars for left indent.
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.Border).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.TableHeader
			}
			if col == 0 && row >= 0 && row < len(rows) {
				return s.SeverityStyle(rows[row][0])
			}
			return s.TableCell
		}).
		Headers("SEVERITY", "TYPE", "LOCATION").
		Rows(rows...)

	fmt.Fprintln(w, t)

	sevCounts := make(map[model.Severity]int)
	for _, v := range violations {
		sevCounts[v.Severity]++
	}
	var parts []string
	for sev := model.SeverityCritical; sev >= model.SeverityInfo; sev-- {
		if c, ok := sevCounts[sev]; ok {
			styled := s.SeverityStyle(sev.String()).Render(
				fmt.Sprintf("%s: %d", sev, c))
			parts = append(parts, styled)
		}
	}
	fmt.Fprintf(w, "    Summary: %s\n", strings.Join(parts, ", "))
}
