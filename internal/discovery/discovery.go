// Package discovery implements the DiscoverySource variants a cluster can
// be built from: DNS polling, a frozen static list, and Docker-label
// container discovery.
package discovery

import (
	"context"
	"fmt"
	"net"
)

// Endpoint is a single backend: address, port, and relative weight.
type Endpoint struct {
	IP     net.IP
	Port   uint16
	Weight int
}

func (e Endpoint) String() string {
	return fmt.Sprintf("%s:%d", e.IP, e.Port)
}

// Source produces the current backend set for one cluster, plus an
// optional per-backend availability map keyed by a caller-defined hash of
// the endpoint. A nil/empty availability map means "no opinion, all
// endpoints returned are assumed healthy".
type Source interface {
	Discover(ctx context.Context) ([]Endpoint, map[string]bool, error)
}
