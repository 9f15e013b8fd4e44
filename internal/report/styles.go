package report

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles defines the visual theme for terminal report output.
// Lipgloss automatically degrades to no-color when output is not a TTY.
type Styles struct {
	// Header is used for section headers (e.g. "=== FuncName ===").
	Header lipgloss.Style

	// SubHeader is used for secondary information lines.
	SubHeader lipgloss.Style

	// SevInfo through SevCritical color-code violation severities.
	SevInfo     lipgloss.Style
	SevNotice   lipgloss.Style
	SevWarning  lipgloss.Style
	SevError    lipgloss.Style
	SevCritical lipgloss.Style

	// TableHeader styles the header row of tables.
	TableHeader lipgloss.Style

	// TableCell styles regular table cells.
	TableCell lipgloss.Style

	// ScoreBad styles quality scores below their threshold.
	ScoreBad lipgloss.Style

	// ScoreGood styles quality scores at or above their threshold.
	ScoreGood lipgloss.Style

	// SummaryLabel styles summary line labels.
	SummaryLabel lipgloss.Style

	// SummaryValue styles summary line values.
	SummaryValue lipgloss.Style

	// PhaseRed, PhaseGreen and PhaseBlue color the cycle phases.
	PhaseRed   lipgloss.Style
	PhaseGreen lipgloss.Style
	PhaseBlue  lipgloss.Style

	// Border is used for table borders.
	Border lipgloss.Style

	// Muted is used for de-emphasized text.
	Muted lipgloss.Style
}

// DefaultStyles returns the default color scheme for terminal reports.
func DefaultStyles() Styles {
	return Styles{
		Header:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
		SubHeader: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),

		SevInfo:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		SevNotice:   lipgloss.NewStyle().Foreground(lipgloss.Color("75")),
		SevWarning:  lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		SevError:    lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		SevCritical: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),

		TableHeader: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
		TableCell:   lipgloss.NewStyle().PaddingRight(1),

		ScoreBad:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		ScoreGood: lipgloss.NewStyle().Foreground(lipgloss.Color("40")),

		SummaryLabel: lipgloss.NewStyle().Bold(true).Width(20),
		SummaryValue: lipgloss.NewStyle(),

		PhaseRed:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		PhaseGreen: lipgloss.NewStyle().Foreground(lipgloss.Color("40")).Bold(true),
		PhaseBlue:  lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Bold(true),

		Border: lipgloss.NewStyle().Foreground(lipgloss.Color("63")),

		Muted: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// SeverityStyle returns the appropriate style for a severity label.
func (s Styles) SeverityStyle(severity string) lipgloss.Style {
	switch severity {
	case "info":
		return s.SevInfo
	case "notice":
		return s.SevNotice
	case "warning":
		return s.SevWarning
	case "error":
		return s.SevError
	case "critical":
		return s.SevCritical
	default:
		return s.Muted
	}
}

// PhaseStyle returns the appropriate style for a cycle phase.
func (s Styles) PhaseStyle(phase string) lipgloss.Style {
	switch phase {
	case "red":
		return s.PhaseRed
	case "green":
		return s.PhaseGreen
	case "blue":
		return s.PhaseBlue
	default:
		return s.Muted
	}
}
