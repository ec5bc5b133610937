package views

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/ramborogers/netninja/security"
)

// Core colors
var (
	primaryColor   = lipgloss.Color("#39ff14") // Bright digital green
	secondaryColor = lipgloss.Color("#FFFFFF")
	mutedColor     = lipgloss.Color("#444444")
	warnColor      = lipgloss.Color("#ffb000")
	errorColor     = lipgloss.Color("#ff3b30")

	// Refresh indicator gradient
	scanColors = []lipgloss.Color{
		lipgloss.Color("#001100"),
		lipgloss.Color("#002200"),
		lipgloss.Color("#003300"),
		lipgloss.Color("#39ff14"),
		lipgloss.Color("#39ff14"),
		lipgloss.Color("#39ff14"),
		lipgloss.Color("#003300"),
		lipgloss.Color("#002200"),
	}

	severityColors = map[security.Severity]lipgloss.Color{
		security.Critical: errorColor,
		security.High:     lipgloss.Color("#ff8c00"),
		security.Medium:   warnColor,
		security.Low:      primaryColor,
		security.Info:     lipgloss.Color("#5fafff"),
	}
)

// Styles holds all the application styles
type Styles struct {
	Banner      lipgloss.Style
	Pane        lipgloss.Style
	FocusedPane lipgloss.Style
	PaneTitle   lipgloss.Style
	Section     lipgloss.Style
	Label       lipgloss.Style
	Value       lipgloss.Style
	Muted       lipgloss.Style
	Good        lipgloss.Style
	Bad         lipgloss.Style
	Warn        lipgloss.Style
	Help        lipgloss.Style
	KeyStyle    lipgloss.Style
	DescStyle   lipgloss.Style
}

// NewStyles creates a new Styles instance
func NewStyles() *Styles {
	s := &Styles{}

	s.Banner = lipgloss.NewStyle().
		Bold(true).
		Foreground(primaryColor)

	s.Pane = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(mutedColor).
		Padding(0, 1)

	s.FocusedPane = s.Pane.Copy().
		BorderForeground(primaryColor)

	s.PaneTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(primaryColor)

	s.Section = lipgloss.NewStyle().
		Bold(true).
		Foreground(primaryColor)

	s.Label = lipgloss.NewStyle().
		Foreground(primaryColor).
		Width(12).
		Align(lipgloss.Right)

	s.Value = lipgloss.NewStyle().
		Foreground(secondaryColor)

	s.Muted = lipgloss.NewStyle().
		Foreground(mutedColor)

	s.Good = lipgloss.NewStyle().
		Foreground(primaryColor).
		Bold(true)

	s.Bad = lipgloss.NewStyle().
		Foreground(errorColor).
		Bold(true)

	s.Warn = lipgloss.NewStyle().
		Foreground(warnColor)

	s.Help = lipgloss.NewStyle().
		Foreground(secondaryColor).
		Padding(0, 1)

	s.KeyStyle = lipgloss.NewStyle().
		Foreground(primaryColor)

	s.DescStyle = lipgloss.NewStyle().
		Foreground(secondaryColor)

	return s
}

// Severity renders a severity name in its color
func (s *Styles) Severity(sev security.Severity) string {
	color, ok := severityColors[sev]
	if !ok {
		color = secondaryColor
	}
	return lipgloss.NewStyle().Foreground(color).Bold(true).Render(sev.String())
}

// Field renders a right-aligned label followed by a value
func (s *Styles) Field(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Left, s.Label.Render(label), "  ", s.Value.Render(value))
}

// RenderBanner creates the standard banner
func (s *Styles) RenderBanner() string {
	rule := "═══════════════════════════════════════════════════════════"
	return lipgloss.JoinVertical(
		lipgloss.Center,
		s.Banner.Render(rule),
		s.Banner.Render("NetNinja Status Report"),
		s.Banner.Render(rule),
	)
}
