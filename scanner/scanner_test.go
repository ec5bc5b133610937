package scanner

import (
	"context"
	"errors"
	"net"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMDNS map[string]string

func (f fakeMDNS) Resolve(ctx context.Context) map[string]string {
	return f
}

func fakeRunner(outputs map[string]Result) RunnerFunc {
	return func(ctx context.Context, name string, args ...string) (Result, error) {
		key := strings.Join(append([]string{name}, args...), " ")
		res, ok := outputs[key]
		if !ok {
			return Result{}, &ExecError{Command: key, ExitCode: -1, Err: errors.New("not found")}
		}
		return res, nil
	}
}

func testLinks() *staticLister {
	return &staticLister{records: []LinkRecord{
		{Name: "lo", Up: true, Addrs: []net.IP{net.ParseIP("127.0.0.1")}},
		{Name: "eth0", Up: true, Addrs: []net.IP{net.ParseIP("192.168.1.5")}},
		{Name: "wg0", Up: true, Addrs: []net.IP{net.ParseIP("10.8.0.2")}},
	}}
}

func TestScannerInterfaces(t *testing.T) {
	s := NewScanner(fakeRunner(nil), WithLinkLister(testLinks()))

	ifaces, err := s.Interfaces(context.Background())
	require.NoError(t, err)
	assert.Len(t, ifaces, 3)

	primary, err := s.PrimaryInterface(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "eth0", primary.Name)

	vpn, err := s.VPNStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "wg0", vpn.Interface)
	assert.Equal(t, VPNTypeWireGuard, vpn.Type)
}

func TestScannerInterfacesError(t *testing.T) {
	s := NewScanner(fakeRunner(nil), WithLinkLister(&staticLister{err: errors.New("denied")}))

	_, err := s.Interfaces(context.Background())
	assert.ErrorContains(t, err, "denied")

	_, err = s.VPNStatus(context.Background())
	assert.Error(t, err)
}

func TestScannerInterfacesCancelled(t *testing.T) {
	links := testLinks()
	s := NewScanner(fakeRunner(nil), WithLinkLister(links))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Interfaces(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, links.calls)
}

func TestScannerOpenPorts(t *testing.T) {
	s := NewScanner(fakeRunner(map[string]Result{
		"ss -tuln": {Stdout: ssTuln},
	}), WithLinkLister(testLinks()))

	ports, err := s.OpenPorts(context.Background())

	require.NoError(t, err)
	assert.Len(t, ports, 3)
}

func TestScannerOpenPortsFailure(t *testing.T) {
	s := NewScanner(fakeRunner(map[string]Result{
		"ss -tuln": {ExitCode: 1, Stderr: "boom"},
	}), WithLinkLister(testLinks()))

	_, err := s.OpenPorts(context.Background())

	assert.ErrorIs(t, err, ErrExecution)
}

func TestScannerPeers(t *testing.T) {
	s := NewScanner(fakeRunner(map[string]Result{
		"ip neigh show": {Stdout: ipNeigh},
	}), WithLinkLister(testLinks()), WithMDNS(fakeMDNS{"192.168.1.1": "router"}))

	peers, err := s.Peers(context.Background())

	require.NoError(t, err)
	require.Len(t, peers, 5)
	assert.Equal(t, "router", peers[0].Hostname)
	assert.Empty(t, peers[1].Hostname)
}

func TestScannerPeersMissingCommand(t *testing.T) {
	s := NewScanner(fakeRunner(nil), WithLinkLister(testLinks()))

	_, err := s.Peers(context.Background())

	assert.ErrorIs(t, err, ErrExecution)
}
