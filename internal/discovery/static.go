package discovery

import (
	"context"
	"fmt"
	"net"
	"strconv"
)

// Static serves a frozen list of endpoints fixed at construction time.
type Static struct {
	endpoints []Endpoint
}

// NewStatic parses a list of "host:port" strings into a frozen endpoint
// set. Each entry gets weight 1.
func NewStatic(hostports []string) (*Static, error) {
	if len(hostports) == 0 {
		return nil, fmt.Errorf("static discovery requires at least one endpoint")
	}
	endpoints := make([]Endpoint, 0, len(hostports))
	for _, hp := range hostports {
		ep, err := parseHostPort(hp)
		if err != nil {
			return nil, fmt.Errorf("invalid endpoint %q: %w", hp, err)
		}
		endpoints = append(endpoints, ep)
	}
	return &Static{endpoints: endpoints}, nil
}

func parseHostPort(hp string) (Endpoint, error) {
	host, portStr, err := net.SplitHostPort(hp)
	if err != nil {
		return Endpoint{}, err
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return Endpoint{}, fmt.Errorf("invalid port %q: %w", portStr, err)
	}
	ip := net.ParseIP(host)
	if ip == nil {
		ips, err := net.LookupIP(host)
		if err != nil || len(ips) == 0 {
			return Endpoint{}, fmt.Errorf("cannot resolve static host %q", host)
		}
		ip = ips[0]
	}
	return Endpoint{IP: ip, Port: uint16(port), Weight: 1}, nil
}

func (s *Static) Discover(ctx context.Context) ([]Endpoint, map[string]bool, error) {
	out := make([]Endpoint, len(s.endpoints))
	copy(out, s.endpoints)
	return out, nil, nil
}
