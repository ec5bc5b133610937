package security

import (
	"fmt"
)

// Counts tallies alerts per severity
type Counts map[Severity]int

// CountAlerts tallies alerts by severity
func CountAlerts(alerts []Alert) Counts {
	counts := make(Counts, len(Severities))
	for _, a := range alerts {
		counts[a.Severity]++
	}
	return counts
}

// Total returns the number of counted alerts
func (c Counts) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// FirewallLabel renders firewall state for reports
func FirewallLabel(active bool) string {
	if active {
		return "Active"
	}
	return "Inactive"
}

// Summary renders the two-line security summary used by dashboard panes
func Summary(firewallActive bool, alerts []Alert) string {
	counts := CountAlerts(alerts)
	return fmt.Sprintf("Firewall: %s\nAlerts - Critical: %d, High: %d, Medium: %d",
		FirewallLabel(firewallActive), counts[Critical], counts[High], counts[Medium])
}
