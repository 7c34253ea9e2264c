// Package resolver provides the process-wide name resolution backends
// shared by every DNS-backed cluster. Exactly one instance exists per
// resolver kind for the lifetime of the process; the Registry hands out
// references to it.
package resolver

import (
	"context"
	"fmt"
	"net"

	"github.com/coregate/gateway/internal/config"
)

// Resolver answers name -> IP lookups. Implementations must be safe for
// concurrent use; lookups may suspend (network I/O) and must respect ctx.
type Resolver interface {
	LookupIP(ctx context.Context, name string) ([]net.IP, error)
}

// ResolveError wraps a lookup failure with the name that failed.
type ResolveError struct {
	Name  string
	Cause error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("resolve %q: %v", e.Name, e.Cause)
}

func (e *ResolveError) Unwrap() error { return e.Cause }

// Registry shares one Resolver per kind. Safe for concurrent reads after
// construction; NewRegistry builds every resolver eagerly, once, at
// startup.
type Registry struct {
	resolvers map[config.ResolverKind]Resolver
}

// NewRegistry builds a Registry eagerly from the configured discovery
// providers. A DNS resolver is initialized once here rather than lazily
// per-cluster, since construction failure must abort startup (spec's
// "Global state" note), not surface mid-request.
func NewRegistry(providers []config.DiscoveryProvider) (*Registry, error) {
	reg := &Registry{resolvers: make(map[config.ResolverKind]Resolver)}
	seen := map[config.ResolverKind]bool{}
	for _, p := range providers {
		seen[p.Type] = true
	}
	// A DNS resolver is also implicitly required whenever any cluster uses
	// resolver: dns even without an explicit `resolvers:` entry, so the
	// cluster manager always has one available; dial it eagerly here too.
	seen[config.ResolverDNS] = true

	for kind := range seen {
		switch kind {
		case config.ResolverDNS:
			r, err := NewDNSResolver()
			if err != nil {
				return nil, fmt.Errorf("initializing dns resolver: %w", err)
			}
			reg.resolvers[config.ResolverDNS] = r
		case config.ResolverStatic, config.ResolverDocker:
			// Static and Docker discovery sources don't consult a shared
			// name resolver; nothing to initialize.
		}
	}
	return reg, nil
}

// Get returns the shared Resolver for kind, or false if none was
// initialized (an unknown or unconfigured resolver kind).
func (r *Registry) Get(kind config.ResolverKind) (Resolver, bool) {
	res, ok := r.resolvers[kind]
	return res, ok
}
