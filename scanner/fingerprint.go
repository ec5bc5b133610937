package scanner

import (
	"strings"
)

// Unknown is returned for both fields of an unmatched fingerprint
const Unknown = "Unknown"

// DeviceGuess is a device type and vendor label pair
type DeviceGuess struct {
	DeviceType string
	Vendor     string
}

// fingerprints maps a lowercase OUI prefix to a device guess.
// Add entries here; lookups never fall back to partial matches.
var fingerprints = map[string]DeviceGuess{
	"00:50:56": {"Virtual Machine", "VMware"},
	"00:0c:29": {"Virtual Machine", "VMware"},
	"08:00:27": {"Virtual Machine", "VirtualBox"},
	"52:54:00": {"Virtual Machine", "QEMU/KVM"},
	"00:15:5d": {"Virtual Machine", "Hyper-V"},
	"dc:a6:32": {"IoT Device", "Raspberry Pi"},
	"b8:27:eb": {"IoT Device", "Raspberry Pi"},
	"e4:5f:01": {"IoT Device", "Raspberry Pi"},
	"00:1b:63": {"Computer", "Apple"},
}

// Fingerprint guesses the device type and vendor from a MAC address.
// Colon, dash and dot separated forms are accepted. An empty or
// unrecognised address yields ("Unknown", "Unknown").
func Fingerprint(mac string) (deviceType, vendor string) {
	if mac == "" {
		return Unknown, Unknown
	}
	octets := strings.Split(NormalizeMACAddress(mac), ":")
	if len(octets) < 3 {
		return Unknown, Unknown
	}
	prefix := strings.Join(octets[:3], ":")
	if guess, ok := fingerprints[prefix]; ok {
		return guess.DeviceType, guess.Vendor
	}
	return Unknown, Unknown
}

// NormalizeMACAddress converts a MAC address to lowercase colon-separated hex.
// Dash and dot separated forms are accepted.
func NormalizeMACAddress(mac string) string {
	mac = strings.ToLower(mac)

	mac = strings.ReplaceAll(mac, ":", "")
	mac = strings.ReplaceAll(mac, "-", "")
	mac = strings.ReplaceAll(mac, ".", "")

	var result strings.Builder
	for i, char := range mac {
		if i > 0 && i%2 == 0 {
			result.WriteRune(':')
		}
		result.WriteRune(char)
	}

	return result.String()
}
