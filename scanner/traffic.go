package scanner

import (
	"context"
	"fmt"
	"time"

	psnet "github.com/shirou/gopsutil/v4/net"
)

// InterfaceCounters are cumulative traffic counters for one interface
type InterfaceCounters struct {
	Name        string `json:"name"`
	BytesSent   uint64 `json:"bytes_sent"`
	BytesRecv   uint64 `json:"bytes_recv"`
	PacketsSent uint64 `json:"packets_sent"`
	PacketsRecv uint64 `json:"packets_recv"`
}

// TrafficSample is a set of counters taken at one instant
type TrafficSample struct {
	Taken    time.Time           `json:"taken"`
	Counters []InterfaceCounters `json:"counters"`
}

// TrafficRate is the per-second throughput between two samples
type TrafficRate struct {
	Name      string
	RecvBytes float64
	SentBytes float64
}

// CounterSource reads per-interface counters
type CounterSource func(ctx context.Context) ([]psnet.IOCountersStat, error)

func defaultCounterSource(ctx context.Context) ([]psnet.IOCountersStat, error) {
	return psnet.IOCountersWithContext(ctx, true)
}

// TrafficCounters samples per-interface counters from /proc/net/dev
func TrafficCounters(ctx context.Context) (TrafficSample, error) {
	return sampleTraffic(ctx, defaultCounterSource, time.Now)
}

func sampleTraffic(ctx context.Context, source CounterSource, now func() time.Time) (TrafficSample, error) {
	stats, err := source(ctx)
	if err != nil {
		return TrafficSample{}, fmt.Errorf("failed to read interface counters: %w", err)
	}
	sample := TrafficSample{Taken: now()}
	for _, s := range stats {
		sample.Counters = append(sample.Counters, InterfaceCounters{
			Name:        s.Name,
			BytesSent:   s.BytesSent,
			BytesRecv:   s.BytesRecv,
			PacketsSent: s.PacketsSent,
			PacketsRecv: s.PacketsRecv,
		})
	}
	return sample, nil
}

// Rates computes throughput from prev to cur. Interfaces missing from prev,
// or whose counters went backwards, are reported as zero.
func Rates(prev, cur TrafficSample) []TrafficRate {
	elapsed := cur.Taken.Sub(prev.Taken).Seconds()
	before := make(map[string]InterfaceCounters, len(prev.Counters))
	for _, c := range prev.Counters {
		before[c.Name] = c
	}

	rates := make([]TrafficRate, 0, len(cur.Counters))
	for _, c := range cur.Counters {
		rate := TrafficRate{Name: c.Name}
		if p, ok := before[c.Name]; ok && elapsed > 0 {
			if c.BytesRecv >= p.BytesRecv {
				rate.RecvBytes = float64(c.BytesRecv-p.BytesRecv) / elapsed
			}
			if c.BytesSent >= p.BytesSent {
				rate.SentBytes = float64(c.BytesSent-p.BytesSent) / elapsed
			}
		}
		rates = append(rates, rate)
	}
	return rates
}
