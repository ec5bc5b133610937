// Package report collects every status section into one snapshot.
package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ramborogers/netninja/scanner"
	"github.com/ramborogers/netninja/security"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// PassStatus records whether a security pass could read its source
type PassStatus struct {
	Pass      security.Pass `json:"pass"`
	Available bool          `json:"available"`
	Error     string        `json:"error,omitempty"`
}

// SecuritySection is the consolidated security state
type SecuritySection struct {
	Alerts         []security.Alert `json:"alerts"`
	Passes         []PassStatus     `json:"passes"`
	FirewallActive bool             `json:"firewall_active"`
}

// Counts tallies the section's alerts by severity
func (s SecuritySection) Counts() security.Counts {
	return security.CountAlerts(s.Alerts)
}

// Summary renders the section as the two-line security summary
func (s SecuritySection) Summary() string {
	return security.Summary(s.FirewallActive, s.Alerts)
}

// Report is one point-in-time snapshot of host network and security state.
// Each section carries its own error; a failed section leaves the rest intact.
type Report struct {
	ID          uuid.UUID `json:"id"`
	CollectedAt time.Time `json:"collected_at"`

	Interfaces      []scanner.NetworkInterface `json:"interfaces"`
	InterfacesError string                     `json:"interfaces_error,omitempty"`
	Primary         *scanner.NetworkInterface  `json:"primary,omitempty"`
	PrimaryError    string                     `json:"primary_error,omitempty"`
	Gateway         string                     `json:"gateway,omitempty"`

	VPN      scanner.VpnStatus `json:"vpn"`
	VPNError string            `json:"vpn_error,omitempty"`

	Ports      []scanner.PortEntry `json:"ports"`
	PortsError string              `json:"ports_error,omitempty"`

	Peers      []scanner.NetworkPeer `json:"peers"`
	PeersError string                `json:"peers_error,omitempty"`

	Security SecuritySection `json:"security"`
}

// Collector gathers reports by running every query in parallel
type Collector struct {
	scanner    *scanner.Scanner
	classifier *security.Classifier
	runner     scanner.Runner
	gateway    func() string
	clock      security.Clock
	logger     zerolog.Logger
}

// NewCollector creates a collector. runner is used for the firewall check.
func NewCollector(s *scanner.Scanner, c *security.Classifier, runner scanner.Runner) *Collector {
	return &Collector{
		scanner:    s,
		classifier: c,
		runner:     runner,
		gateway:    scanner.DefaultGateway,
		clock:      time.Now,
		logger:     log.With().Str("component", "report").Logger(),
	}
}

// WithGateway replaces the default gateway lookup
func (c *Collector) WithGateway(fn func() string) *Collector {
	c.gateway = fn
	return c
}

// WithClock replaces the collection timestamp source
func (c *Collector) WithClock(clock security.Clock) *Collector {
	c.clock = clock
	return c
}

// Collect runs all section queries concurrently. Section failures are
// recorded in the report; only cancellation of ctx returns an error.
func (c *Collector) Collect(ctx context.Context) (*Report, error) {
	r := &Report{
		ID:          uuid.New(),
		CollectedAt: c.clock(),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		ifaces, err := c.scanner.Interfaces(gctx)
		if err != nil {
			r.InterfacesError = err.Error()
			r.PrimaryError = err.Error()
			r.VPNError = err.Error()
			return nil
		}
		r.Interfaces = ifaces
		if primary, err := scanner.SelectPrimary(ifaces); err != nil {
			r.PrimaryError = err.Error()
		} else {
			r.Primary = &primary
		}
		r.VPN = scanner.DetectVPN(ifaces)
		return nil
	})

	g.Go(func() error {
		if c.gateway != nil {
			r.Gateway = c.gateway()
		}
		return nil
	})

	g.Go(func() error {
		ports, err := c.scanner.OpenPorts(gctx)
		if err != nil {
			r.PortsError = err.Error()
			return nil
		}
		r.Ports = ports
		return nil
	})

	g.Go(func() error {
		peers, err := c.scanner.Peers(gctx)
		if err != nil {
			r.PeersError = err.Error()
			return nil
		}
		r.Peers = peers
		return nil
	})

	g.Go(func() error {
		results := c.classifier.Scan(gctx)
		r.Security.Alerts = security.Alerts(results)
		for _, res := range results {
			ps := PassStatus{Pass: res.Pass, Available: res.Available()}
			if res.Err != nil {
				ps.Error = res.Err.Error()
			}
			r.Security.Passes = append(r.Security.Passes, ps)
		}
		return nil
	})

	g.Go(func() error {
		r.Security.FirewallActive = security.FirewallActive(gctx, c.runner)
		return nil
	})

	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("id", r.ID.String()).
		Int("ports", len(r.Ports)).
		Int("peers", len(r.Peers)).
		Int("alerts", len(r.Security.Alerts)).
		Msg("report collected")
	return r, nil
}
