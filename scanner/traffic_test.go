package scanner

import (
	"context"
	"errors"
	"testing"
	"time"

	psnet "github.com/shirou/gopsutil/v4/net"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleTraffic(t *testing.T) {
	taken := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	source := func(ctx context.Context) ([]psnet.IOCountersStat, error) {
		return []psnet.IOCountersStat{
			{Name: "eth0", BytesSent: 100, BytesRecv: 200, PacketsSent: 1, PacketsRecv: 2},
		}, nil
	}

	sample, err := sampleTraffic(context.Background(), source, func() time.Time { return taken })

	require.NoError(t, err)
	assert.Equal(t, taken, sample.Taken)
	assert.Equal(t, []InterfaceCounters{
		{Name: "eth0", BytesSent: 100, BytesRecv: 200, PacketsSent: 1, PacketsRecv: 2},
	}, sample.Counters)
}

func TestSampleTrafficError(t *testing.T) {
	source := func(ctx context.Context) ([]psnet.IOCountersStat, error) {
		return nil, errors.New("no /proc")
	}

	_, err := sampleTraffic(context.Background(), source, time.Now)

	assert.ErrorContains(t, err, "no /proc")
}

func TestRates(t *testing.T) {
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	prev := TrafficSample{Taken: start, Counters: []InterfaceCounters{
		{Name: "eth0", BytesRecv: 1000, BytesSent: 500},
		{Name: "wlan0", BytesRecv: 9000, BytesSent: 9000},
	}}
	cur := TrafficSample{Taken: start.Add(2 * time.Second), Counters: []InterfaceCounters{
		{Name: "eth0", BytesRecv: 3000, BytesSent: 1500},
		{Name: "wlan0", BytesRecv: 10, BytesSent: 9100},
		{Name: "wg0", BytesRecv: 400, BytesSent: 400},
	}}

	rates := Rates(prev, cur)

	require.Len(t, rates, 3)
	assert.Equal(t, TrafficRate{Name: "eth0", RecvBytes: 1000, SentBytes: 500}, rates[0])
	assert.Equal(t, TrafficRate{Name: "wlan0", RecvBytes: 0, SentBytes: 50}, rates[1])
	assert.Equal(t, TrafficRate{Name: "wg0"}, rates[2])
}

func TestRatesWithoutElapsedTime(t *testing.T) {
	sample := TrafficSample{Taken: time.Now(), Counters: []InterfaceCounters{{Name: "eth0", BytesRecv: 10}}}

	rates := Rates(sample, sample)

	assert.Equal(t, []TrafficRate{{Name: "eth0"}}, rates)
}
