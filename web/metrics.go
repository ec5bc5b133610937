package web

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/ramborogers/netninja/security"
)

// reportCollector implements prometheus.Collector over the latest report
type reportCollector struct {
	srv *Server

	alerts         *prometheus.Desc
	listeningPorts *prometheus.Desc
	peers          *prometheus.Desc
	vpnConnected   *prometheus.Desc
	firewallActive *prometheus.Desc
	passAvailable  *prometheus.Desc
	collectedAt    *prometheus.Desc
	collections    *prometheus.Desc
}

func newReportCollector(srv *Server) *reportCollector {
	return &reportCollector{
		srv: srv,

		alerts: prometheus.NewDesc(
			"netninja_alerts",
			"Security alerts in the latest report.",
			[]string{"severity"}, nil,
		),
		listeningPorts: prometheus.NewDesc(
			"netninja_listening_ports",
			"Listening sockets in the latest report.",
			nil, nil,
		),
		peers: prometheus.NewDesc(
			"netninja_peers",
			"Neighbor table entries in the latest report.",
			[]string{"state"}, nil,
		),
		vpnConnected: prometheus.NewDesc(
			"netninja_vpn_connected",
			"1 when a VPN interface is up.",
			[]string{"interface", "type"}, nil,
		),
		firewallActive: prometheus.NewDesc(
			"netninja_firewall_active",
			"1 when the host firewall is active.",
			nil, nil,
		),
		passAvailable: prometheus.NewDesc(
			"netninja_security_pass_available",
			"1 when the security scan pass could read its source.",
			[]string{"pass"}, nil,
		),
		collectedAt: prometheus.NewDesc(
			"netninja_report_timestamp_seconds",
			"Unix time the latest report was collected.",
			nil, nil,
		),
		collections: prometheus.NewDesc(
			"netninja_report_collections_total",
			"Reports collected since start.",
			[]string{"result"}, nil,
		),
	}
}

func (c *reportCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.alerts
	ch <- c.listeningPorts
	ch <- c.peers
	ch <- c.vpnConnected
	ch <- c.firewallActive
	ch <- c.passAvailable
	ch <- c.collectedAt
	ch <- c.collections
}

func (c *reportCollector) Collect(ch chan<- prometheus.Metric) {
	ok, failed := c.srv.collectionCounts()
	ch <- prometheus.MustNewConstMetric(c.collections, prometheus.CounterValue, float64(ok), "ok")
	ch <- prometheus.MustNewConstMetric(c.collections, prometheus.CounterValue, float64(failed), "error")

	r := c.srv.Latest()
	if r == nil {
		return
	}

	ch <- prometheus.MustNewConstMetric(c.collectedAt, prometheus.GaugeValue,
		float64(r.CollectedAt.Unix()))

	counts := r.Security.Counts()
	for _, sev := range security.Severities {
		ch <- prometheus.MustNewConstMetric(c.alerts, prometheus.GaugeValue,
			float64(counts[sev]), sev.String())
	}

	ch <- prometheus.MustNewConstMetric(c.listeningPorts, prometheus.GaugeValue, float64(len(r.Ports)))

	byState := make(map[string]int)
	for _, p := range r.Peers {
		byState[p.State]++
	}
	for state, n := range byState {
		ch <- prometheus.MustNewConstMetric(c.peers, prometheus.GaugeValue, float64(n), state)
	}

	vpn := 0.0
	if r.VPN.Connected {
		vpn = 1
	}
	ch <- prometheus.MustNewConstMetric(c.vpnConnected, prometheus.GaugeValue, vpn, r.VPN.Interface, r.VPN.Type)

	fw := 0.0
	if r.Security.FirewallActive {
		fw = 1
	}
	ch <- prometheus.MustNewConstMetric(c.firewallActive, prometheus.GaugeValue, fw)

	for _, p := range r.Security.Passes {
		avail := 0.0
		if p.Available {
			avail = 1
		}
		ch <- prometheus.MustNewConstMetric(c.passAvailable, prometheus.GaugeValue, avail, string(p.Pass))
	}
}
