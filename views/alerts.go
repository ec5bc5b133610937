package views

import (
	"fmt"

	"github.com/ramborogers/netninja/report"
	"github.com/ramborogers/netninja/security"
)

// SecurityView renders the security alerts pane
type SecurityView struct {
	styles  *Styles
	width   int
	height  int
	section report.SecuritySection
}

// NewSecurityView creates a new security view
func NewSecurityView(styles *Styles) *SecurityView {
	return &SecurityView{styles: styles}
}

// SetDimensions updates the view dimensions
func (v *SecurityView) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// SetSection updates the security section being displayed
func (v *SecurityView) SetSection(section report.SecuritySection) {
	v.section = section
}

// Render generates the view
func (v *SecurityView) Render() string {
	counts := v.section.Counts()

	firewall := v.styles.Bad.Render(security.FirewallLabel(false))
	if v.section.FirewallActive {
		firewall = v.styles.Good.Render(security.FirewallLabel(true))
	}

	lines := []string{
		v.styles.Field("Firewall", firewall),
		fmt.Sprintf("%s %d  %s %d  %s %d  %s %d",
			v.styles.Severity(security.Critical), counts[security.Critical],
			v.styles.Severity(security.High), counts[security.High],
			v.styles.Severity(security.Medium), counts[security.Medium],
			v.styles.Severity(security.Info), counts[security.Info]),
	}

	for _, p := range v.section.Passes {
		if !p.Available {
			lines = append(lines, v.styles.Warn.Render(fmt.Sprintf("%s unavailable", p.Pass)))
		}
	}

	if len(v.section.Alerts) == 0 {
		lines = append(lines, "", v.styles.Good.Render("No alerts detected"))
		return clipLines(lines, v.height)
	}

	lines = append(lines, "")
	for _, a := range v.section.Alerts {
		line := fmt.Sprintf("%s %s %s",
			v.styles.Severity(a.Severity),
			v.styles.Muted.Render(a.Timestamp.Format("15:04:05")),
			a.Message)
		lines = append(lines, line)
		if a.Details != "" && v.width > 0 {
			lines = append(lines, "  "+v.styles.Muted.Render(truncate(a.Details, max(8, v.width-4))))
		}
	}
	return clipLines(lines, v.height)
}
