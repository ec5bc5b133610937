package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ramborogers/netninja/scanner"
)

// InterfacesView renders the network status pane
type InterfacesView struct {
	styles     *Styles
	width      int
	height     int
	interfaces []scanner.NetworkInterface
	primary    string
	gateway    string
	err        string
}

// NewInterfacesView creates a new interfaces view
func NewInterfacesView(styles *Styles) *InterfacesView {
	return &InterfacesView{
		styles: styles,
	}
}

// SetDimensions updates the view dimensions
func (v *InterfacesView) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// SetInterfaces updates the interface list and the primary interface name
func (v *InterfacesView) SetInterfaces(interfaces []scanner.NetworkInterface, primary, gateway string) {
	v.interfaces = interfaces
	v.primary = primary
	v.gateway = gateway
}

// SetError shows err instead of the interface list
func (v *InterfacesView) SetError(err string) {
	v.err = err
}

// Render generates the view
func (v *InterfacesView) Render() string {
	if v.err != "" {
		return v.styles.Warn.Render("Error: " + v.err)
	}
	if len(v.interfaces) == 0 {
		return v.styles.Muted.Render("No interfaces")
	}

	var lines []string
	for _, iface := range v.interfaces {
		marker := "  "
		if iface.Name == v.primary {
			marker = v.styles.Good.Render("▶ ")
		}
		state := v.styles.Bad.Render("DOWN")
		if iface.IsUp {
			state = v.styles.Good.Render("UP")
		}
		lines = append(lines, fmt.Sprintf("%s%s %s", marker, v.styles.Value.Copy().Bold(true).Render(iface.Name), state))
		if iface.MACAddress != "" {
			lines = append(lines, "    "+v.styles.Muted.Render(iface.MACAddress))
		}
		for _, ip := range iface.IPAddresses {
			lines = append(lines, "    "+ip)
		}
	}
	if v.gateway != "" {
		lines = append(lines, "", v.styles.Field("Gateway", v.gateway))
	}

	return clipLines(lines, v.height)
}

// VPNView renders the VPN status pane
type VPNView struct {
	styles *Styles
	status scanner.VpnStatus
	err    string
}

// NewVPNView creates a new VPN view
func NewVPNView(styles *Styles) *VPNView {
	return &VPNView{styles: styles}
}

// SetStatus updates the VPN status
func (v *VPNView) SetStatus(status scanner.VpnStatus, err string) {
	v.status = status
	v.err = err
}

// Render generates the view
func (v *VPNView) Render() string {
	if v.err != "" {
		return v.styles.Warn.Render("Error: " + v.err)
	}
	if !v.status.Connected {
		return lipgloss.JoinVertical(lipgloss.Left,
			v.styles.Field("Status", v.styles.Bad.Render("NOT CONNECTED")),
			"",
			v.styles.Muted.Render("No VPN interface detected"),
		)
	}
	ip := v.status.IPAddress
	if ip == "" {
		ip = "N/A"
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		v.styles.Field("Status", v.styles.Good.Render("CONNECTED")),
		v.styles.Field("Interface", v.status.Interface),
		v.styles.Field("VPN IP", ip),
		v.styles.Field("Type", v.status.Type),
	)
}

// clipLines joins lines, keeping at most max when max is positive
func clipLines(lines []string, max int) string {
	if max > 0 && len(lines) > max {
		hidden := len(lines) - max + 1
		lines = append(lines[:max-1], fmt.Sprintf("… %d more", hidden))
	}
	return strings.Join(lines, "\n")
}
