package cluster

import (
	"context"
	"hash/fnv"
	"math/rand"
	"sync"
	"sync/atomic"

	"github.com/coregate/gateway/internal/discovery"
)

// LB selects a backend for a request. Implementations are shared by
// reference across all requests that hit the owning cluster; Select must
// be safe for concurrent callers.
type LB interface {
	// Select picks a backend endpoint, consulting requestKey for policies
	// that care about request identity (e.g. a consistent-hash variant).
	// Returns false if no healthy endpoint is available.
	Select(requestKey []byte) (discovery.Endpoint, bool)

	// Endpoints returns the currently known backend set, for read-only
	// introspection; callers must not mutate the returned slice.
	Endpoints() []discovery.Endpoint

	// Refresh re-polls the discovery source and swaps in the new
	// endpoint set. The load balancer never schedules this itself; the
	// caller that built the cluster owns the refresh cadence.
	Refresh(ctx context.Context) error
}

// policy is the strategy a loadBalancer applies over its live endpoint
// set. round_robin advances one shared counter, least_conn consults
// per-endpoint counts; random ignores requestKey entirely, per spec: "select uniformly at random
// using a fixed hash seed of b\"\" and a TTL of 256 as guidance" — those
// two numbers are Pingora-specific tuning knobs with no Go analogue, so
// here they simply document that the policy is header-independent.
type policy int

const (
	PolicyRoundRobin policy = iota
	PolicyLeastConn
	PolicyRandom
)

// loadBalancer holds a discovery source and applies a selection policy
// over its periodically-refreshed endpoint set. The endpoint slice is
// swapped atomically so reads never block behind a refresh.
type loadBalancer struct {
	source discovery.Source
	pol    policy

	endpoints atomic.Pointer[[]discovery.Endpoint]

	mu      sync.Mutex // guards connCounts; rrIndex is updated atomically
	rrIndex uint64
	// connCounts approximates "least connections" by counting how many
	// times each endpoint string has been selected. Nothing decrements a
	// count when a request finishes, so these are not in-flight counts.
	// The map is reset on every refresh (a new Discover invalidates stale
	// entries).
	connCounts map[string]int64
}

// NewLB constructs a load balancer bound to a discovery source and a
// selection policy, and performs one synchronous discovery pass so the
// cluster is immediately usable.
func NewLB(ctx context.Context, source discovery.Source, pol policy) (LB, error) {
	lb := &loadBalancer{
		source:     source,
		pol:        pol,
		connCounts: make(map[string]int64),
	}
	if err := lb.refresh(ctx); err != nil {
		return nil, err
	}
	return lb, nil
}

func (lb *loadBalancer) refresh(ctx context.Context) error {
	endpoints, _, err := lb.source.Discover(ctx)
	if err != nil {
		return err
	}
	lb.endpoints.Store(&endpoints)
	lb.mu.Lock()
	lb.connCounts = make(map[string]int64)
	lb.mu.Unlock()
	return nil
}

func (lb *loadBalancer) Refresh(ctx context.Context) error {
	return lb.refresh(ctx)
}

func (lb *loadBalancer) Select(requestKey []byte) (discovery.Endpoint, bool) {
	endpointsPtr := lb.endpoints.Load()
	if endpointsPtr == nil || len(*endpointsPtr) == 0 {
		return discovery.Endpoint{}, false
	}
	endpoints := *endpointsPtr

	switch lb.pol {
	case PolicyRoundRobin:
		idx := atomic.AddUint64(&lb.rrIndex, 1) - 1
		return endpoints[idx%uint64(len(endpoints))], true
	case PolicyLeastConn:
		return lb.selectLeastConn(endpoints), true
	default: // PolicyRandom — ignores requestKey, matching the reference
		// implementation's select(b"", 256): no consistent hashing, just
		// a uniform pick across the currently live set.
		_ = fnv.New64a // documents that a hash-based variant would live here
		return endpoints[rand.Intn(len(endpoints))], true
	}
}

func (lb *loadBalancer) Endpoints() []discovery.Endpoint {
	endpointsPtr := lb.endpoints.Load()
	if endpointsPtr == nil {
		return nil
	}
	return *endpointsPtr
}

func (lb *loadBalancer) selectLeastConn(endpoints []discovery.Endpoint) discovery.Endpoint {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	best := endpoints[0]
	bestCount := lb.connCounts[best.String()]
	for _, ep := range endpoints[1:] {
		c := lb.connCounts[ep.String()]
		if c < bestCount {
			best, bestCount = ep, c
		}
	}
	lb.connCounts[best.String()]++
	return best
}
