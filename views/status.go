package views

import (
	"fmt"
	"strings"

	"github.com/ramborogers/netninja/report"
	"github.com/ramborogers/netninja/security"
)

// Limits applied by the one-shot status report
const (
	StatusMaxPorts  = 15
	StatusMaxPeers  = 10
	StatusMaxAlerts = 5
)

const sectionRule = "───────────────────────────────────────────────────────────"

// StatusView renders a collected report as plain sectioned text
type StatusView struct {
	styles *Styles
	report *report.Report
}

// NewStatusView creates a new status view
func NewStatusView(styles *Styles) *StatusView {
	return &StatusView{styles: styles}
}

// SetReport updates the report to render
func (v *StatusView) SetReport(r *report.Report) {
	v.report = r
}

// Render generates the full status report
func (v *StatusView) Render() string {
	if v.report == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(v.styles.RenderBanner())
	b.WriteString("\n\n")

	v.writeInterfaces(&b)
	v.writeVPN(&b)
	v.writePorts(&b)
	v.writePeers(&b)
	v.writeSecurity(&b)

	b.WriteString(v.styles.Banner.Render("═══════════════════════════════════════════════════════════"))
	b.WriteString("\n\nTip: Run 'netninja-cli monitor' for live monitoring dashboard\n")
	return b.String()
}

func (v *StatusView) header(b *strings.Builder, title string) {
	b.WriteString(v.styles.Section.Render(title))
	b.WriteString("\n")
	b.WriteString(sectionRule)
	b.WriteString("\n")
}

func (v *StatusView) sectionError(b *strings.Builder, msg string) {
	b.WriteString(v.styles.Warn.Render("Error: " + msg))
	b.WriteString("\n\n")
}

func (v *StatusView) writeInterfaces(b *strings.Builder) {
	v.header(b, "NETWORK INTERFACES")
	r := v.report
	if r.Primary == nil {
		v.sectionError(b, r.PrimaryError)
		return
	}
	p := r.Primary
	fmt.Fprintf(b, "Primary Interface: %s\n", p.Name)
	fmt.Fprintf(b, "Status: %s\n", v.upDown(p.IsUp))
	if p.MACAddress != "" {
		fmt.Fprintf(b, "MAC Address: %s\n", p.MACAddress)
	}
	b.WriteString("IP Addresses:\n")
	for _, ip := range p.IPAddresses {
		fmt.Fprintf(b, "  • %s\n", ip)
	}
	if r.Gateway != "" {
		fmt.Fprintf(b, "Gateway: %s\n", r.Gateway)
	}
	b.WriteString("\n")
}

func (v *StatusView) writeVPN(b *strings.Builder) {
	v.header(b, "VPN STATUS")
	r := v.report
	if r.VPNError != "" {
		v.sectionError(b, r.VPNError)
		return
	}
	if !r.VPN.Connected {
		fmt.Fprintf(b, "Status: %s\n\n", v.styles.Bad.Render("NOT CONNECTED"))
		return
	}
	fmt.Fprintf(b, "Status: %s\n", v.styles.Good.Render("CONNECTED"))
	fmt.Fprintf(b, "Interface: %s\n", r.VPN.Interface)
	if r.VPN.IPAddress != "" {
		fmt.Fprintf(b, "VPN IP: %s\n", r.VPN.IPAddress)
	}
	fmt.Fprintf(b, "Type: %s\n\n", r.VPN.Type)
}

func (v *StatusView) writePorts(b *strings.Builder) {
	v.header(b, "OPEN PORTS")
	r := v.report
	if r.PortsError != "" {
		v.sectionError(b, r.PortsError)
		return
	}
	if len(r.Ports) == 0 {
		b.WriteString("No listening ports detected\n\n")
		return
	}
	fmt.Fprintf(b, "%-10s %-10s %-15s\n", "Protocol", "Port", "State")
	b.WriteString(strings.Repeat("─", 35) + "\n")
	for i, p := range r.Ports {
		if i == StatusMaxPorts {
			break
		}
		fmt.Fprintf(b, "%-10s %-10d %-15s\n", p.Protocol, p.Port, p.State)
	}
	if len(r.Ports) > StatusMaxPorts {
		fmt.Fprintf(b, "... and %d more\n", len(r.Ports)-StatusMaxPorts)
	}
	b.WriteString("\n")
}

func (v *StatusView) writePeers(b *strings.Builder) {
	v.header(b, "NETWORK PEERS")
	r := v.report
	if r.PeersError != "" {
		v.sectionError(b, r.PeersError)
		return
	}
	if len(r.Peers) == 0 {
		b.WriteString("No active network peers detected\n\n")
		return
	}
	fmt.Fprintf(b, "%-20s %-20s %-15s %-10s\n", "IP Address", "MAC Address", "Device Type", "State")
	b.WriteString(strings.Repeat("─", 65) + "\n")
	for i, p := range r.Peers {
		if i == StatusMaxPeers {
			break
		}
		mac := p.MACAddress
		if mac == "" {
			mac = "N/A"
		}
		fmt.Fprintf(b, "%-20s %-20s %-15s %-10s\n", p.IPAddress, mac, p.DeviceType, p.State)
	}
	if len(r.Peers) > StatusMaxPeers {
		fmt.Fprintf(b, "... and %d more\n", len(r.Peers)-StatusMaxPeers)
	}
	b.WriteString("\n")
}

func (v *StatusView) writeSecurity(b *strings.Builder) {
	v.header(b, "SECURITY STATUS")
	sec := v.report.Security
	counts := sec.Counts()

	b.WriteString("Alert Summary:\n")
	none := true
	for _, sev := range []security.Severity{security.Critical, security.High, security.Medium, security.Low} {
		if counts[sev] > 0 {
			none = false
			fmt.Fprintf(b, "  %s: %d\n", v.styles.Severity(sev), counts[sev])
		}
	}
	if none {
		b.WriteString("  No alerts detected\n")
	}

	for _, p := range sec.Passes {
		if !p.Available {
			fmt.Fprintf(b, "  %s\n", v.styles.Warn.Render(fmt.Sprintf("%s scan unavailable: %s", p.Pass, p.Error)))
		}
	}

	if len(sec.Alerts) > 0 {
		b.WriteString("\nRecent Alerts:\n")
		for i, a := range sec.Alerts {
			if i == StatusMaxAlerts {
				break
			}
			fmt.Fprintf(b, "  [%s] %s: %s\n", a.Severity, a.Timestamp.Format("2006-01-02 15:04:05"), a.Message)
		}
	}

	firewall := v.styles.Bad.Render(security.FirewallLabel(false))
	if sec.FirewallActive {
		firewall = v.styles.Good.Render(security.FirewallLabel(true))
	}
	fmt.Fprintf(b, "\nFirewall: %s\n\n", firewall)
}

func (v *StatusView) upDown(up bool) string {
	if up {
		return v.styles.Good.Render("UP")
	}
	return v.styles.Bad.Render("DOWN")
}
