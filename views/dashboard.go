package views

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/ramborogers/netninja/report"
	"github.com/ramborogers/netninja/scanner"
)

// Pane identifies one dashboard pane. Left column top to bottom, then right.
type Pane int

// Dashboard panes
const (
	PaneNetwork Pane = iota
	PaneTraffic
	PaneSecurity
	PaneVPN
	PanePorts
	PanePeers
	paneCount
)

var paneTitles = map[Pane]string{
	PaneNetwork:  "Network Status",
	PaneTraffic:  "Traffic",
	PaneSecurity: "Security Alerts",
	PaneVPN:      "VPN Status",
	PanePorts:    "Open Ports",
	PanePeers:    "Network Peers",
}

// Title returns the pane heading
func (p Pane) Title() string {
	return paneTitles[p]
}

// Next returns the following pane, wrapping around
func (p Pane) Next() Pane {
	return (p + 1) % paneCount
}

// DashboardView lays out six panes in a two-column grid
type DashboardView struct {
	styles *Styles
	width  int
	height int
	focus  Pane

	Header     *HeaderView
	Interfaces *InterfacesView
	Traffic    *TrafficView
	Security   *SecurityView
	VPN        *VPNView
	Ports      *TableView
	Peers      *TableView
}

// NewDashboardView creates a dashboard with empty panes
func NewDashboardView(styles *Styles, version string) *DashboardView {
	v := &DashboardView{
		styles:     styles,
		Header:     NewHeaderView(styles, version),
		Interfaces: NewInterfacesView(styles),
		Traffic:    NewTrafficView(styles),
		Security:   NewSecurityView(styles),
		VPN:        NewVPNView(styles),
		Ports:      NewPortsView(styles),
		Peers:      NewPeersView(styles),
	}
	v.SetFocus(PanePorts)
	return v
}

// SetDimensions updates the terminal size
func (v *DashboardView) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Focus returns the focused pane
func (v *DashboardView) Focus() Pane {
	return v.focus
}

// SetFocus moves focus to p
func (v *DashboardView) SetFocus(p Pane) {
	v.focus = p
	v.Ports.SetFocused(p == PanePorts)
	v.Peers.SetFocused(p == PanePeers)
}

// SetReport pushes a collected report into every report-backed pane
func (v *DashboardView) SetReport(r *report.Report) {
	primary := ""
	if r.Primary != nil {
		primary = r.Primary.Name
	}
	v.Interfaces.SetError(r.InterfacesError)
	v.Interfaces.SetInterfaces(r.Interfaces, primary, r.Gateway)
	v.VPN.SetStatus(r.VPN, r.VPNError)

	if r.PortsError != "" {
		v.Ports.SetError(r.PortsError)
	} else {
		v.Ports.SetPorts(r.Ports)
	}
	if r.PeersError != "" {
		v.Peers.SetError(r.PeersError)
	} else {
		v.Peers.SetPeers(r.Peers)
	}

	v.Security.SetSection(r.Security)
}

// SetTraffic updates the traffic pane
func (v *DashboardView) SetTraffic(rates []scanner.TrafficRate, err error) {
	if err != nil {
		v.Traffic.SetError(err.Error())
		return
	}
	v.Traffic.SetRates(rates)
}

// Render generates the view
func (v *DashboardView) Render() string {
	if v.width == 0 || v.height == 0 {
		return "Loading..."
	}

	v.Header.SetWidth(v.width)
	header := v.Header.Render()
	help := v.styles.Help.Render(
		v.styles.KeyStyle.Render("tab") + v.styles.DescStyle.Render(" focus • ") +
			v.styles.KeyStyle.Render("↑↓") + v.styles.DescStyle.Render(" scroll • ") +
			v.styles.KeyStyle.Render("r") + v.styles.DescStyle.Render(" refresh • ") +
			v.styles.KeyStyle.Render("q") + v.styles.DescStyle.Render(" quit"))

	gridHeight := v.height - lipgloss.Height(header) - lipgloss.Height(help)
	colWidth := v.width / 2
	rowHeight := max(3, gridHeight/3)

	left := lipgloss.JoinVertical(lipgloss.Left,
		v.renderPane(PaneNetwork, colWidth, rowHeight),
		v.renderPane(PaneTraffic, colWidth, rowHeight),
		v.renderPane(PaneSecurity, colWidth, rowHeight),
	)
	right := lipgloss.JoinVertical(lipgloss.Left,
		v.renderPane(PaneVPN, v.width-colWidth, rowHeight),
		v.renderPane(PanePorts, v.width-colWidth, rowHeight),
		v.renderPane(PanePeers, v.width-colWidth, rowHeight),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		lipgloss.JoinHorizontal(lipgloss.Top, left, right),
		help,
	)
}

// renderPane draws one bordered pane of the given outer size
func (v *DashboardView) renderPane(p Pane, width, height int) string {
	style := v.styles.Pane
	if p == v.focus {
		style = v.styles.FocusedPane
	}

	// Border takes two columns and rows, padding two columns, title one row
	innerWidth := max(1, width-4)
	innerHeight := max(1, height-3)

	var body string
	switch p {
	case PaneNetwork:
		v.Interfaces.SetDimensions(innerWidth, innerHeight)
		body = v.Interfaces.Render()
	case PaneTraffic:
		v.Traffic.SetDimensions(innerWidth, innerHeight)
		body = v.Traffic.Render()
	case PaneSecurity:
		v.Security.SetDimensions(innerWidth, innerHeight)
		body = v.Security.Render()
	case PaneVPN:
		body = v.VPN.Render()
	case PanePorts:
		v.Ports.SetDimensions(innerWidth, innerHeight)
		body = v.Ports.Render()
	case PanePeers:
		v.Peers.SetDimensions(innerWidth, innerHeight)
		body = v.Peers.Render()
	}

	content := lipgloss.JoinVertical(lipgloss.Left, v.styles.PaneTitle.Render(p.Title()), body)
	return style.Copy().
		Width(width - 2).
		Height(height - 2).
		MaxHeight(height).
		MaxWidth(width).
		Render(content)
}
