package scanner

import (
	"errors"
	"net"
	"strings"
)

// ErrNotFound is returned when no interface qualifies as primary
var ErrNotFound = errors.New("no active network interface found")

const loopbackName = "lo"

var vpnMarkers = []string{"tun", "tap", "wg", "ppp", "vpn"}

// DetectVPN reports the first up interface whose name looks like a VPN
// tunnel. Later matches are ignored.
func DetectVPN(ifaces []NetworkInterface) VpnStatus {
	for _, iface := range ifaces {
		if !iface.IsUp || !isVPNName(iface.Name) {
			continue
		}
		status := VpnStatus{
			Connected: true,
			Interface: iface.Name,
			Type:      vpnType(iface.Name),
		}
		if len(iface.IPAddresses) > 0 {
			status.IPAddress = iface.IPAddresses[0]
		}
		return status
	}
	return VpnStatus{}
}

func isVPNName(name string) bool {
	for _, marker := range vpnMarkers {
		if strings.Contains(name, marker) {
			return true
		}
	}
	return false
}

func vpnType(name string) string {
	switch {
	case strings.HasPrefix(name, "wg"):
		return VPNTypeWireGuard
	case strings.HasPrefix(name, "tun"), strings.HasPrefix(name, "tap"):
		return VPNTypeOpenVPN
	default:
		return VPNTypeUnknown
	}
}

// SelectPrimary returns the first up, non-loopback interface that has a
// routable address. Loopback and link-local-only interfaces never qualify.
func SelectPrimary(ifaces []NetworkInterface) (NetworkInterface, error) {
	for _, iface := range ifaces {
		if iface.Name == loopbackName || !iface.IsUp || len(iface.IPAddresses) == 0 {
			continue
		}
		for _, addr := range iface.IPAddresses {
			if isRoutable(addr) {
				return iface, nil
			}
		}
	}
	return NetworkInterface{}, ErrNotFound
}

// isRoutable rejects loopback and link-local addresses of either family.
// fe80::/10 counts as link-local so an interface holding only that address
// is never primary.
func isRoutable(addr string) bool {
	ip := net.ParseIP(addr)
	if ip == nil || ip.IsLoopback() {
		return false
	}
	return !ip.IsLinkLocalUnicast()
}
