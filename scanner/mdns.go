package scanner

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/mdns"
	"github.com/rs/zerolog/log"
)

// mdnsServices are browsed when resolving peer hostnames
var mdnsServices = []string{
	"_workstation._tcp",
	"_ssh._tcp",
	"_http._tcp",
	"_smb._tcp",
}

// MDNSResolver maps IPv4 addresses to mDNS instance names
type MDNSResolver interface {
	Resolve(ctx context.Context) map[string]string
}

// MDNSBrowser browses a fixed set of service types on the local link
type MDNSBrowser struct {
	Timeout time.Duration
}

// Resolve browses every service type and returns IPv4 → hostname.
// Errors are logged and yield fewer names, never a failure.
func (b MDNSBrowser) Resolve(ctx context.Context) map[string]string {
	timeout := b.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}

	names := make(map[string]string)
	var mu sync.Mutex

	for _, service := range mdnsServices {
		if ctx.Err() != nil {
			break
		}

		entriesCh := make(chan *mdns.ServiceEntry, 32)
		done := make(chan struct{})

		go func(svcType string) {
			defer close(done)
			for entry := range entriesCh {
				if entry == nil || entry.AddrV4 == nil {
					continue
				}
				name := instanceName(entry.Name)
				if name == "" {
					continue
				}
				mu.Lock()
				if _, seen := names[entry.AddrV4.String()]; !seen {
					names[entry.AddrV4.String()] = name
				}
				mu.Unlock()
				log.Debug().Str("service", svcType).Str("ip", entry.AddrV4.String()).Str("name", name).Msg("mDNS entry")
			}
		}(service)

		params := &mdns.QueryParam{
			Service:             service,
			Domain:              "local",
			Timeout:             timeout,
			Entries:             entriesCh,
			WantUnicastResponse: true,
			DisableIPv6:         true,
		}
		if err := mdns.Query(params); err != nil {
			log.Debug().Err(err).Str("service", service).Msg("mDNS browse failed")
		}
		close(entriesCh)
		<-done
	}

	return names
}

// instanceName strips the service suffix and any bracketed metadata,
// e.g. "nas [00:11:22:33:44:55]._workstation._tcp.local." → "nas".
func instanceName(name string) string {
	if idx := strings.Index(name, "._"); idx > 0 {
		name = name[:idx]
	}
	if idx := strings.Index(name, " ["); idx > 0 {
		name = name[:idx]
	}
	name = strings.TrimSuffix(name, ".local")
	return strings.ReplaceAll(name, "\\", "")
}

// EnrichPeers sets Hostname on peers whose IP has an mDNS name
func EnrichPeers(peers []NetworkPeer, names map[string]string) {
	for i := range peers {
		if name, ok := names[peers[i].IPAddress]; ok {
			peers[i].Hostname = name
		}
	}
}
