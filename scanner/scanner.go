// Package scanner queries the host for interface, VPN, port and neighbor
// state and normalizes the command output into typed records.
package scanner

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Scanner answers network status queries against the local host
type Scanner struct {
	runner Runner
	links  LinkLister
	mdns   MDNSResolver
	logger zerolog.Logger
}

// Option configures a Scanner
type Option func(*Scanner)

// WithLinkLister replaces the platform link lister
func WithLinkLister(l LinkLister) Option {
	return func(s *Scanner) {
		s.links = l
	}
}

// WithMDNS enables hostname enrichment of peers
func WithMDNS(r MDNSResolver) Option {
	return func(s *Scanner) {
		s.mdns = r
	}
}

// NewScanner creates a scanner that runs commands through runner
func NewScanner(runner Runner, opts ...Option) *Scanner {
	s := &Scanner{
		runner: runner,
		links:  DefaultLinkLister(),
		logger: log.With().Str("component", "scanner").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Interfaces returns every named interface in platform order
func (s *Scanner) Interfaces(ctx context.Context) ([]NetworkInterface, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	records, err := s.links.Links()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate interfaces: %w", err)
	}
	ifaces := ParseInterfaces(records)
	s.logger.Debug().Int("count", len(ifaces)).Msg("enumerated interfaces")
	return ifaces, nil
}

// PrimaryInterface returns the host's presumed main interface
func (s *Scanner) PrimaryInterface(ctx context.Context) (NetworkInterface, error) {
	ifaces, err := s.Interfaces(ctx)
	if err != nil {
		return NetworkInterface{}, err
	}
	return SelectPrimary(ifaces)
}

// VPNStatus reports the first active VPN interface
func (s *Scanner) VPNStatus(ctx context.Context) (VpnStatus, error) {
	ifaces, err := s.Interfaces(ctx)
	if err != nil {
		return VpnStatus{}, err
	}
	return DetectVPN(ifaces), nil
}

// OpenPorts lists listening TCP and UDP sockets
func (s *Scanner) OpenPorts(ctx context.Context) ([]PortEntry, error) {
	out, err := Output(ctx, s.runner, "ss", "-tuln")
	if err != nil {
		return nil, fmt.Errorf("failed to list listening sockets: %w", err)
	}
	ports := ParsePorts(out)
	s.logger.Debug().Int("count", len(ports)).Msg("parsed listening sockets")
	return ports, nil
}

// Peers lists neighbor table entries with device guesses
func (s *Scanner) Peers(ctx context.Context) ([]NetworkPeer, error) {
	out, err := Output(ctx, s.runner, "ip", "neigh", "show")
	if err != nil {
		return nil, fmt.Errorf("failed to read neighbor table: %w", err)
	}
	peers := ParseNeighbors(out)

	if s.mdns != nil && len(peers) > 0 {
		EnrichPeers(peers, s.mdns.Resolve(ctx))
	}

	s.logger.Debug().Int("count", len(peers)).Msg("parsed neighbor table")
	return peers, nil
}
