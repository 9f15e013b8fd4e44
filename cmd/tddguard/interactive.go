package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/unbound-force/tddguard/internal/model"
)

// keyMap defines keybindings for the interactive TUI.
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Quit     key.Binding
	Help     key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Quit, k.Help}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.Quit, k.Help},
	}
}

var defaultKeyMap = keyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("^/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("v/j", "down")),
	PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
	PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
}

// Styles for the TUI.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")).
			MarginBottom(1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	tuiHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63"))

	tuiBorderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("63"))

	sevCriticalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	sevErrorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	sevWarningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

// guardModel is the Bubble Tea model for browsing guardian results.
type guardModel struct {
	results  []model.GuardianResult
	viewport viewport.Model
	help     help.Model
	keys     keyMap
	ready    bool
	content  string
}

func newGuardModel(results []model.GuardianResult) guardModel {
	h := help.New()
	content := renderGuardContent(results)
	return guardModel{
		results: results,
		help:    h,
		keys:    defaultKeyMap,
		content: content,
	}
}

func renderGuardContent(results []model.GuardianResult) string {
	var sb strings.Builder

	totalTests, totalViolations := 0, 0
	for _, r := range results {
		totalTests += len(r.Suite)
		totalViolations += len(r.Violations)
	}

	sb.WriteString(titleStyle.Render(
		fmt.Sprintf("tddguard: %d unit(s), %d test(s), %d violation(s)",
			len(results), totalTests, totalViolations)))
	sb.WriteString("\n\n")

	for _, result := range results {
		sb.WriteString(tuiHeaderStyle.Render(fmt.Sprintf("=== %s ===", result.Model.UnitID)))
		sb.WriteString("\n")
		sb.WriteString(statusStyle.Render(fmt.Sprintf(
			"    strength %.2f, coverage %.2f, edges %.2f",
			result.Quality.AssertionStrength,
			result.Quality.EstimatedCoverage,
			result.Quality.EdgeCaseCoverage)))
		sb.WriteString("\n")

		for _, c := range result.Cycles {
			sb.WriteString(statusStyle.Render(fmt.Sprintf(
				"    cycle %s in %s", c.ID, c.Phase)))
			sb.WriteString("\n")
		}

		if len(result.Violations) == 0 {
			sb.WriteString(statusStyle.Render("    No violations detected."))
			sb.WriteString("\n\n")
			continue
		}

		// Build violations table.
		rows := make([][]string, 0, len(result.Violations))
		for _, v := range result.Violations {
			loc := v.Location
			if len(loc) > 40 {
				loc = loc[:37] + "..."
			}
			rows = append(rows, []string{
				v.Severity.String(),
				string(v.Type),
				loc,
			})
		}

		t := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(tuiBorderStyle).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return tuiHeaderStyle
				}
				if col == 0 && row >= 0 && row < len(rows) {
					switch rows[row][0] {
					case "critical":
						return sevCriticalStyle
					case "error":
						return sevErrorStyle
					case "warning":
						return sevWarningStyle
					}
				}
				return lipgloss.NewStyle()
			}).
			Headers("SEVERITY", "TYPE", "LOCATION").
			Rows(rows...)

		sb.WriteString(t.String())
		sb.WriteString("\n\n")
	}

	return sb.String()
}

func (m guardModel) Init() tea.Cmd {
	return nil
}

func (m guardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		headerHeight := 0
		footerHeight := 2
		verticalMargin := headerHeight + footerHeight

		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-verticalMargin)
			m.viewport.SetContent(m.content)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - verticalMargin
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m guardModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	footer := statusStyle.Render(
		fmt.Sprintf(" %3.f%% ", m.viewport.ScrollPercent()*100)) +
		" " + m.help.View(m.keys)

	return m.viewport.View() + "\n" + footer
}

// runInteractiveGuard launches the Bubble Tea TUI for browsing
// guardian results.
func runInteractiveGuard(results []model.GuardianResult) error {
	model := newGuardModel(results)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
