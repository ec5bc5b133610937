package views

import (
	"fmt"
	"sort"

	"github.com/ramborogers/netninja/scanner"
)

// TrafficView renders per-interface throughput
type TrafficView struct {
	styles *Styles
	height int
	rates  []scanner.TrafficRate
	err    string
}

// NewTrafficView creates a new traffic view
func NewTrafficView(styles *Styles) *TrafficView {
	return &TrafficView{styles: styles}
}

// SetDimensions updates the view dimensions
func (v *TrafficView) SetDimensions(width, height int) {
	v.height = height
}

// SetRates updates the displayed rates, busiest interface first
func (v *TrafficView) SetRates(rates []scanner.TrafficRate) {
	sorted := append([]scanner.TrafficRate(nil), rates...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].RecvBytes+sorted[i].SentBytes > sorted[j].RecvBytes+sorted[j].SentBytes
	})
	v.rates = sorted
	v.err = ""
}

// SetError shows err instead of the rates
func (v *TrafficView) SetError(err string) {
	v.err = err
}

// Render generates the view
func (v *TrafficView) Render() string {
	if v.err != "" {
		return v.styles.Warn.Render("Error: " + v.err)
	}
	if len(v.rates) == 0 {
		return v.styles.Muted.Render("Collecting samples...")
	}
	lines := []string{
		v.styles.PaneTitle.Render(fmt.Sprintf("%-12s %12s %12s", "Interface", "RX", "TX")),
	}
	for _, r := range v.rates {
		lines = append(lines, fmt.Sprintf("%-12s %12s %12s", truncate(r.Name, 12), formatRate(r.RecvBytes), formatRate(r.SentBytes)))
	}
	return clipLines(lines, v.height)
}

// formatRate renders bytes per second with a binary unit
func formatRate(bps float64) string {
	units := []string{"B/s", "KiB/s", "MiB/s", "GiB/s"}
	i := 0
	for bps >= 1024 && i < len(units)-1 {
		bps /= 1024
		i++
	}
	return fmt.Sprintf("%.1f %s", bps, units[i])
}
