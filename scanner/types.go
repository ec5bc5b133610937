package scanner

// NetworkInterface is a snapshot of one host interface
type NetworkInterface struct {
	Name        string   `json:"name"`
	IPAddresses []string `json:"ip_addresses"`
	IsUp        bool     `json:"is_up"`
	MACAddress  string   `json:"mac_address,omitempty"`
}

// VPN types reported by DetectVPN
const (
	VPNTypeWireGuard = "WireGuard"
	VPNTypeOpenVPN   = "OpenVPN/Generic"
	VPNTypeUnknown   = "Unknown"
)

// VpnStatus describes the first active VPN-like interface, if any
type VpnStatus struct {
	Connected bool   `json:"connected"`
	Interface string `json:"interface,omitempty"`
	IPAddress string `json:"ip_address,omitempty"`
	Type      string `json:"type,omitempty"`
}

// PortEntry is one row of the listening socket table
type PortEntry struct {
	Protocol string `json:"protocol"`
	Port     uint16 `json:"port"`
	State    string `json:"state"`
}

// Neighbor reachability states
const (
	PeerReachable = "REACHABLE"
	PeerStale     = "STALE"
	PeerDelay     = "DELAY"
	PeerUnknown   = "UNKNOWN"
)

// NetworkPeer is one entry of the neighbor table
type NetworkPeer struct {
	IPAddress  string `json:"ip_address"`
	MACAddress string `json:"mac_address,omitempty"`
	Interface  string `json:"interface"`
	State      string `json:"state"`
	DeviceType string `json:"device_type"`
	Vendor     string `json:"vendor"`
	Hostname   string `json:"hostname,omitempty"` // mDNS name, set by enrichment only
}
