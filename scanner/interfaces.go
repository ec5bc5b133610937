package scanner

import (
	"fmt"
	"net"

	"github.com/jackpal/gateway"
	"github.com/rs/zerolog/log"
	"github.com/vishvananda/netlink"
)

// LinkRecord is one raw entry from the platform link listing
type LinkRecord struct {
	Name         string
	Addrs        []net.IP
	Up           bool
	HardwareAddr net.HardwareAddr
}

// LinkLister enumerates host links in platform order
type LinkLister interface {
	Links() ([]LinkRecord, error)
}

// NetlinkLister lists links over rtnetlink
type NetlinkLister struct{}

// Links returns every link with all of its addresses
func (NetlinkLister) Links() ([]LinkRecord, error) {
	links, err := netlink.LinkList()
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}

	records := make([]LinkRecord, 0, len(links))
	for _, link := range links {
		attrs := link.Attrs()
		rec := LinkRecord{
			Name:         attrs.Name,
			Up:           attrs.Flags&net.FlagUp != 0,
			HardwareAddr: attrs.HardwareAddr,
		}
		addrs, err := netlink.AddrList(link, netlink.FAMILY_ALL)
		if err != nil {
			log.Debug().Err(err).Str("link", attrs.Name).Msg("failed to list link addresses")
		}
		for _, addr := range addrs {
			if addr.IPNet != nil {
				rec.Addrs = append(rec.Addrs, addr.IP)
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// NetLister lists links through the net package
type NetLister struct{}

// Links returns every interface reported by net.Interfaces
func (NetLister) Links() ([]LinkRecord, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("failed to list interfaces: %w", err)
	}

	records := make([]LinkRecord, 0, len(ifaces))
	for _, iface := range ifaces {
		rec := LinkRecord{
			Name:         iface.Name,
			Up:           iface.Flags&net.FlagUp != 0,
			HardwareAddr: iface.HardwareAddr,
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			if ipNet, ok := addr.(*net.IPNet); ok {
				rec.Addrs = append(rec.Addrs, ipNet.IP)
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// FallbackLister tries each lister in order until one succeeds
type FallbackLister []LinkLister

// Links returns the result of the first lister that does not fail
func (f FallbackLister) Links() ([]LinkRecord, error) {
	var lastErr error
	for _, l := range f {
		records, err := l.Links()
		if err == nil {
			return records, nil
		}
		log.Debug().Err(err).Msg("link lister failed, trying next")
		lastErr = err
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no link listers configured")
	}
	return nil, lastErr
}

// DefaultLinkLister prefers netlink and falls back to the net package
func DefaultLinkLister() LinkLister {
	return FallbackLister{NetlinkLister{}, NetLister{}}
}

// ParseInterfaces turns link records into interfaces, preserving order.
// Records without a name are dropped.
func ParseInterfaces(records []LinkRecord) []NetworkInterface {
	var ifaces []NetworkInterface
	for _, rec := range records {
		if rec.Name == "" {
			continue
		}
		iface := NetworkInterface{
			Name:        rec.Name,
			IsUp:        rec.Up,
			IPAddresses: []string{},
		}
		for _, ip := range rec.Addrs {
			if ip.To16() == nil {
				continue
			}
			iface.IPAddresses = append(iface.IPAddresses, ip.String())
		}
		if len(rec.HardwareAddr) == 6 {
			iface.MACAddress = rec.HardwareAddr.String()
		}
		ifaces = append(ifaces, iface)
	}
	return ifaces
}

// DefaultGateway returns the default route gateway, or "" when none is found
func DefaultGateway() string {
	ip, err := gateway.DiscoverGateway()
	if err != nil {
		log.Debug().Err(err).Msg("failed to discover gateway")
		return ""
	}
	return ip.String()
}
