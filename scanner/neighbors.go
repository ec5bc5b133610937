package scanner

import (
	"strings"
)

// ParseNeighbors parses `ip neigh show` output into peers.
//
// Lines look like `<ip> dev <iface> [lladdr <mac>] <STATE>`; lines with
// fewer than four fields are dropped. Each line is handled on its own.
func ParseNeighbors(output string) []NetworkPeer {
	var peers []NetworkPeer
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue
		}

		peer := NetworkPeer{
			IPAddress: fields[0],
			Interface: fields[2],
			State:     PeerUnknown,
		}

		for i, field := range fields {
			if field == "lladdr" && i+1 < len(fields) {
				peer.MACAddress = fields[i+1]
			}
			switch field {
			case PeerReachable, PeerStale, PeerDelay:
				peer.State = field
			}
		}

		peer.DeviceType, peer.Vendor = Fingerprint(peer.MACAddress)
		peers = append(peers, peer)
	}
	return peers
}
