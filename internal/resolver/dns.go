package resolver

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/miekg/dns"
)

// DNSResolver issues A/AAAA queries against the nameservers listed in the
// system's resolv.conf, using miekg/dns directly rather than net.Resolver
// — closer to the reference implementation's dedicated async resolver
// than the stdlib's cgo-shelling-out behavior on some platforms.
type DNSResolver struct {
	client  *dns.Client
	servers []string
	mu      sync.Mutex // guards round-robining through servers
	next    int
}

// NewDNSResolver loads /etc/resolv.conf once and builds a resolver bound
// to its nameserver list. It never returns an error: if the file cannot
// be read or lists no nameservers, it uses 8.8.8.8:53 instead.
func NewDNSResolver() (*DNSResolver, error) {
	cc, err := dns.ClientConfigFromFile("/etc/resolv.conf")
	if err != nil || cc == nil || len(cc.Servers) == 0 {
		// Fall back to a well-known public resolver rather than failing
		// startup outright on minimal/container images lacking resolv.conf.
		cc = &dns.ClientConfig{Servers: []string{"8.8.8.8"}, Port: "53"}
	}
	servers := make([]string, 0, len(cc.Servers))
	for _, s := range cc.Servers {
		servers = append(servers, net.JoinHostPort(s, cc.Port))
	}
	return &DNSResolver{
		client:  &dns.Client{},
		servers: servers,
	}, nil
}

// LookupIP resolves name to its A and AAAA records.
func (r *DNSResolver) LookupIP(ctx context.Context, name string) ([]net.IP, error) {
	var ips []net.IP
	for _, qtype := range []uint16{dns.TypeA, dns.TypeAAAA} {
		found, err := r.query(ctx, name, qtype)
		if err != nil {
			return nil, &ResolveError{Name: name, Cause: err}
		}
		ips = append(ips, found...)
	}
	if len(ips) == 0 {
		return nil, &ResolveError{Name: name, Cause: fmt.Errorf("no A/AAAA records found")}
	}
	return ips, nil
}

func (r *DNSResolver) query(ctx context.Context, name string, qtype uint16) ([]net.IP, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(name), qtype)
	msg.RecursionDesired = true

	server := r.pickServer()
	in, _, err := r.client.ExchangeContext(ctx, msg, server)
	if err != nil {
		return nil, err
	}
	var ips []net.IP
	for _, rr := range in.Answer {
		switch rec := rr.(type) {
		case *dns.A:
			ips = append(ips, rec.A)
		case *dns.AAAA:
			ips = append(ips, rec.AAAA)
		}
	}
	return ips, nil
}

func (r *DNSResolver) pickServer() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.servers[r.next%len(r.servers)]
	r.next++
	return s
}
