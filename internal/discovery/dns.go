package discovery

import (
	"context"

	"github.com/coregate/gateway/internal/resolver"
)

// DNS resolves a hostname on every poll and emits one endpoint per
// returned IP at the fixed configured port. It does not cache results
// internally — the owning load balancer controls refresh cadence.
type DNS struct {
	Host     string
	Port     uint16
	Resolver resolver.Resolver
}

func NewDNS(host string, port uint16, r resolver.Resolver) *DNS {
	return &DNS{Host: host, Port: port, Resolver: r}
}

func (d *DNS) Discover(ctx context.Context) ([]Endpoint, map[string]bool, error) {
	ips, err := d.Resolver.LookupIP(ctx, d.Host)
	if err != nil {
		return nil, nil, err
	}
	endpoints := make([]Endpoint, 0, len(ips))
	for _, ip := range ips {
		endpoints = append(endpoints, Endpoint{IP: ip, Port: d.Port, Weight: 1})
	}
	return endpoints, nil, nil
}
