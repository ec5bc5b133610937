// Package security classifies authentication, connection and kernel log
// output into severity-tagged alerts and reports firewall state.
package security

import (
	"context"
	"fmt"
	"net"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ramborogers/netninja/scanner"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Defaults for classifier settings
const (
	DefaultJournalUnit         = "ssh"
	DefaultJournalLines        = 100
	DefaultConnectionThreshold = 50
)

// Settings tunes the classifier sources and thresholds
type Settings struct {
	JournalUnit         string
	JournalLines        int
	ConnectionThreshold int
}

// Classifier runs the security scan passes
type Classifier struct {
	runner   scanner.Runner
	clock    Clock
	settings Settings
	logger   zerolog.Logger
}

// NewClassifier creates a classifier. Zero settings fields take defaults;
// a nil clock means time.Now.
func NewClassifier(runner scanner.Runner, clock Clock, settings Settings) *Classifier {
	if clock == nil {
		clock = time.Now
	}
	if settings.JournalUnit == "" {
		settings.JournalUnit = DefaultJournalUnit
	}
	if settings.JournalLines <= 0 {
		settings.JournalLines = DefaultJournalLines
	}
	if settings.ConnectionThreshold <= 0 {
		settings.ConnectionThreshold = DefaultConnectionThreshold
	}
	return &Classifier{
		runner:   runner,
		clock:    clock,
		settings: settings,
		logger:   log.With().Str("component", "security").Logger(),
	}
}

// Scan runs all three passes. A failing pass never stops the others.
func (c *Classifier) Scan(ctx context.Context) []PassResult {
	return []PassResult{
		c.FailedLogins(ctx),
		c.ConnectionVolume(ctx),
		c.FirewallBlocks(ctx),
	}
}

// FailedLogins scans the recent SSH journal for failed authentications
func (c *Classifier) FailedLogins(ctx context.Context) PassResult {
	out, err := scanner.Output(ctx, c.runner, "journalctl",
		"-u", c.settings.JournalUnit, "-n", strconv.Itoa(c.settings.JournalLines), "--no-pager")
	if err != nil {
		c.logger.Warn().Err(err).Str("pass", string(PassFailedLogin)).Msg("scan source unavailable")
		return Unavailable(PassFailedLogin, err)
	}
	return Ok(PassFailedLogin, ClassifyAuthLog(out, c.clock()))
}

// ConnectionVolume looks for single addresses holding too many connections
func (c *Classifier) ConnectionVolume(ctx context.Context) PassResult {
	out, err := scanner.Output(ctx, c.runner, "ss", "-tan")
	if err != nil {
		c.logger.Warn().Err(err).Str("pass", string(PassConnectionVolume)).Msg("scan source unavailable")
		return Unavailable(PassConnectionVolume, err)
	}
	return Ok(PassConnectionVolume, ClassifyConnections(out, c.settings.ConnectionThreshold, c.clock()))
}

// FirewallBlocks scans recent kernel warnings for firewall drops
func (c *Classifier) FirewallBlocks(ctx context.Context) PassResult {
	out, err := scanner.Output(ctx, c.runner, "dmesg", "-T", "--level=warn,err")
	if err != nil {
		c.logger.Warn().Err(err).Str("pass", string(PassFirewallLog)).Msg("scan source unavailable")
		return Unavailable(PassFirewallLog, err)
	}
	return Ok(PassFirewallLog, ClassifyKernelLog(out, c.clock()))
}

// ClassifyAuthLog emits one Medium alert per failed password or invalid user line
func ClassifyAuthLog(output string, now time.Time) []Alert {
	var alerts []Alert
	for _, line := range strings.Split(output, "\n") {
		if strings.Contains(line, "Failed password") || strings.Contains(line, "Invalid user") {
			alerts = append(alerts, Alert{
				Timestamp: now,
				Severity:  Medium,
				Category:  FailedLogin,
				Message:   "Failed SSH login attempt detected",
				Details:   line,
			})
		}
	}
	return alerts
}

// ClassifyConnections tallies `ss -tan` rows by the IP in the fifth column,
// the same column ParsePorts reads, and emits one High alert for every
// non-loopback IP whose count exceeds threshold. IPv4-mapped IPv6 addresses
// count as their IPv4 form. Alerts are ordered by IP.
func ClassifyConnections(output string, threshold int, now time.Time) []Alert {
	counts := make(map[string]int)
	for i, line := range strings.Split(output, "\n") {
		if i == 0 {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 5 {
			continue
		}
		ip := connectionIP(fields[4])
		if ip == nil || ip.IsLoopback() {
			continue
		}
		counts[ip.String()]++
	}

	ips := make([]string, 0, len(counts))
	for ip, n := range counts {
		if n > threshold {
			ips = append(ips, ip)
		}
	}
	sort.Strings(ips)

	alerts := make([]Alert, 0, len(ips))
	for _, ip := range ips {
		alerts = append(alerts, Alert{
			Timestamp: now,
			Severity:  High,
			Category:  UnusualTraffic,
			Message:   fmt.Sprintf("High connection count from %s: %d connections", ip, counts[ip]),
			Details:   "Possible port scan or DDoS attempt",
		})
	}
	return alerts
}

// connectionIP strips the port and any zone from an `ss` address column,
// e.g. "[::ffff:203.0.113.5]:443" or "10.0.0.2%eth0:22". Wildcards and
// unparsable hosts yield nil.
func connectionIP(addr string) net.IP {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		// older ss prints IPv6 peers without brackets
		i := strings.LastIndexByte(addr, ':')
		if i < 0 {
			return nil
		}
		host = addr[:i]
	}
	if zone := strings.IndexByte(host, '%'); zone >= 0 {
		host = host[:zone]
	}
	return net.ParseIP(host)
}

// ClassifyKernelLog emits one Info alert per UFW or iptables log line
func ClassifyKernelLog(output string, now time.Time) []Alert {
	var alerts []Alert
	for _, line := range strings.Split(output, "\n") {
		if strings.Contains(line, "UFW BLOCK") || strings.Contains(line, "iptables") {
			alerts = append(alerts, Alert{
				Timestamp: now,
				Severity:  Info,
				Category:  FirewallBlock,
				Message:   "Firewall block detected",
				Details:   line,
			})
		}
	}
	return alerts
}

// Alerts concatenates the alerts of every available pass, in pass order
func Alerts(results []PassResult) []Alert {
	var alerts []Alert
	for _, r := range results {
		alerts = append(alerts, r.Alerts...)
	}
	return alerts
}
