package views

import (
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// HeaderView renders the dashboard title bar
type HeaderView struct {
	styles      *Styles
	width       int
	frame       int
	version     string
	lastRefresh time.Time
	refreshing  bool
}

// NewHeaderView creates a new header view
func NewHeaderView(styles *Styles, version string) *HeaderView {
	return &HeaderView{
		styles:  styles,
		version: version,
	}
}

// SetWidth updates the header width
func (v *HeaderView) SetWidth(width int) {
	v.width = width
}

// SetFrame updates the animation frame
func (v *HeaderView) SetFrame(frame int) {
	v.frame = frame
}

// SetRefresh records refresh state for the activity indicator
func (v *HeaderView) SetRefresh(last time.Time, refreshing bool) {
	v.lastRefresh = last
	v.refreshing = refreshing
}

// Render generates the view
func (v *HeaderView) Render() string {
	title := v.styles.Banner.Render("NetNinja Monitor")
	info := v.styles.Muted.Render(strings.Join([]string{
		"v" + v.version,
		runtime.GOOS + "/" + runtime.GOARCH,
	}, " • "))

	status := v.styles.Muted.Render("waiting for first report")
	if !v.lastRefresh.IsZero() {
		status = v.styles.Value.Render("updated " + v.lastRefresh.Format("15:04:05"))
	}

	left := lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", info)
	right := lipgloss.JoinHorizontal(lipgloss.Center, v.renderActivity(), " ", status)

	gap := v.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

// renderActivity draws a rolling bar while a refresh is in flight
func (v *HeaderView) renderActivity() string {
	barWidth := 12
	if !v.refreshing {
		return lipgloss.NewStyle().Foreground(scanColors[0]).Render(strings.Repeat("█", barWidth))
	}

	var coloredParts []string
	peakPos := v.frame % barWidth
	for i := 0; i < barWidth; i++ {
		dist := abs(i - peakPos)
		if dist > barWidth/2 {
			dist = barWidth - dist
		}
		colorIndex := dist % len(scanColors)
		style := lipgloss.NewStyle().Foreground(scanColors[colorIndex])
		coloredParts = append(coloredParts, style.Render("█"))
	}
	return strings.Join(coloredParts, "")
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
