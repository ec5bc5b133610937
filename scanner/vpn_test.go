package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectVPNWireGuard(t *testing.T) {
	ifaces := []NetworkInterface{
		{Name: "eth0", IsUp: true, IPAddresses: []string{"10.0.0.2"}},
		{Name: "wg0", IsUp: true, IPAddresses: []string{"10.8.0.2"}},
	}

	assert.Equal(t, VpnStatus{
		Connected: true,
		Interface: "wg0",
		IPAddress: "10.8.0.2",
		Type:      VPNTypeWireGuard,
	}, DetectVPN(ifaces))
}

func TestDetectVPNTypes(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"wg-home", VPNTypeWireGuard},
		{"tun0", VPNTypeOpenVPN},
		{"tap1", VPNTypeOpenVPN},
		{"ppp0", VPNTypeUnknown},
		{"myvpn", VPNTypeUnknown},
		{"utun3", VPNTypeUnknown},
	}
	for _, tt := range tests {
		got := DetectVPN([]NetworkInterface{{Name: tt.name, IsUp: true}})
		assert.True(t, got.Connected, tt.name)
		assert.Equal(t, tt.want, got.Type, tt.name)
		assert.Empty(t, got.IPAddress, tt.name)
	}
}

func TestDetectVPNFirstMatchWins(t *testing.T) {
	ifaces := []NetworkInterface{
		{Name: "tun0", IsUp: false, IPAddresses: []string{"10.9.0.1"}},
		{Name: "tun1", IsUp: true, IPAddresses: []string{"10.9.1.1", "10.9.1.2"}},
		{Name: "wg0", IsUp: true, IPAddresses: []string{"10.8.0.2"}},
	}

	got := DetectVPN(ifaces)

	assert.Equal(t, "tun1", got.Interface)
	assert.Equal(t, "10.9.1.1", got.IPAddress)
}

func TestDetectVPNNotConnected(t *testing.T) {
	ifaces := []NetworkInterface{
		{Name: "lo", IsUp: true, IPAddresses: []string{"127.0.0.1"}},
		{Name: "eth0", IsUp: true, IPAddresses: []string{"10.0.0.2"}},
		{Name: "wg0", IsUp: false},
	}

	assert.Equal(t, VpnStatus{}, DetectVPN(ifaces))
}

func TestSelectPrimary(t *testing.T) {
	ifaces := []NetworkInterface{
		{Name: "lo", IsUp: true, IPAddresses: []string{"127.0.0.1", "::1"}},
		{Name: "eth0", IsUp: false, IPAddresses: []string{"192.168.1.5"}},
		{Name: "eth1", IsUp: true},
		{Name: "eth2", IsUp: true, IPAddresses: []string{"169.254.3.4"}},
		{Name: "wlan0", IsUp: true, IPAddresses: []string{"169.254.1.1", "192.168.1.9"}},
		{Name: "eth3", IsUp: true, IPAddresses: []string{"10.0.0.1"}},
	}

	got, err := SelectPrimary(ifaces)

	require.NoError(t, err)
	assert.Equal(t, "wlan0", got.Name)
}

func TestSelectPrimaryAcceptsGlobalIPv6(t *testing.T) {
	got, err := SelectPrimary([]NetworkInterface{
		{Name: "eth0", IsUp: true, IPAddresses: []string{"2001:db8::5"}},
	})

	require.NoError(t, err)
	assert.Equal(t, "eth0", got.Name)
}

func TestSelectPrimaryNeverReturnsLoopbackOrLinkLocal(t *testing.T) {
	for _, addr := range []string{"127.0.0.1", "::1", "169.254.10.10", "fe80::1"} {
		_, err := SelectPrimary([]NetworkInterface{
			{Name: "eth0", IsUp: true, IPAddresses: []string{addr}},
		})
		assert.ErrorIs(t, err, ErrNotFound, addr)
	}
}

func TestSelectPrimaryNotFound(t *testing.T) {
	_, err := SelectPrimary(nil)
	assert.ErrorIs(t, err, ErrNotFound)
}
