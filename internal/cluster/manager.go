// Package cluster maps configured cluster names onto live load balancers,
// each backed by a discovery source (DNS, static, or Docker-label).
// Construction happens once at startup; a failure here is always fatal,
// never a per-request concern.
package cluster

import (
	"context"
	"time"

	"github.com/coregate/gateway/internal/config"
	"github.com/coregate/gateway/internal/discovery"
	"github.com/coregate/gateway/internal/resolver"
	"go.uber.org/zap"
)

// DefaultRefreshInterval is how often StartRefresher re-polls every
// cluster's discovery source. No per-cluster cadence is configurable
// today; every resolver kind shares this one default.
const DefaultRefreshInterval = 10 * time.Second

// Manager is the process-wide cluster->LB map, built once at startup and
// read concurrently by every request goroutine thereafter.
type Manager struct {
	clusters map[string]LB
}

// NewManager builds a Manager from a service's declared clusters. Every
// cluster is resolved eagerly so that a bad cluster definition fails
// startup rather than the first request that routes to it.
func NewManager(ctx context.Context, clusters []config.Cluster, resolvers *resolver.Registry) (*Manager, error) {
	m := &Manager{clusters: make(map[string]LB, len(clusters))}
	for _, c := range clusters {
		lb, err := buildLB(ctx, c, resolvers)
		if err != nil {
			return nil, err
		}
		m.clusters[c.Name] = lb
	}
	return m, nil
}

func buildLB(ctx context.Context, c config.Cluster, resolvers *resolver.Registry) (LB, error) {
	source, err := buildSource(ctx, c, resolvers)
	if err != nil {
		return nil, err
	}
	lb, err := NewLB(ctx, source, toPolicy(c.LBPolicy))
	if err != nil {
		if c.Resolver == config.ResolverDNS {
			return nil, &ResolveIpError{Name: c.Name, Cause: err}
		}
		return nil, &DiscoveryConfigError{Name: c.Name, Cause: err}
	}
	return lb, nil
}

func buildSource(ctx context.Context, c config.Cluster, resolvers *resolver.Registry) (discovery.Source, error) {
	if c.Config == nil {
		return nil, &LackConfigError{Name: c.Name}
	}

	switch c.Resolver {
	case config.ResolverDNS:
		var dc config.DNSClusterConfig
		if err := c.Config.Decode(&dc); err != nil {
			return nil, &DiscoveryConfigError{Name: c.Name, Cause: err}
		}
		if dc.Port == 0 {
			return nil, &InvalidPortError{Name: c.Name, Port: int(dc.Port)}
		}
		res, ok := resolvers.Get(config.ResolverDNS)
		if !ok {
			return nil, &UnknownResolverError{Resolver: string(config.ResolverDNS)}
		}
		return discovery.NewDNS(dc.Host, dc.Port, res), nil

	case config.ResolverStatic:
		var sc config.StaticClusterConfig
		if err := c.Config.Decode(&sc); err != nil {
			return nil, &DiscoveryConfigError{Name: c.Name, Cause: err}
		}
		if len(sc.Endpoints) == 0 {
			return nil, &InvalidEndpointsError{Name: c.Name, Reason: "no endpoints configured"}
		}
		src, err := discovery.NewStatic(sc.Endpoints)
		if err != nil {
			return nil, &StaticConfigError{Name: c.Name, Cause: err}
		}
		return src, nil

	case config.ResolverDocker:
		var dc config.DockerClusterConfig
		if err := c.Config.Decode(&dc); err != nil {
			return nil, &DiscoveryConfigError{Name: c.Name, Cause: err}
		}
		src, err := discovery.NewDocker(dc.LabelPrefix)
		if err != nil {
			return nil, &DiscoveryConfigError{Name: c.Name, Cause: err}
		}
		return src, nil

	default:
		return nil, &UnknownResolverError{Resolver: string(c.Resolver)}
	}
}

func toPolicy(p config.LBPolicy) policy {
	switch p {
	case config.LBRoundRobin:
		return PolicyRoundRobin
	case config.LBLeastConn:
		return PolicyLeastConn
	default:
		return PolicyRandom
	}
}

// Get returns the load balancer for name, or false if no cluster by that
// name was configured for the owning service.
func (m *Manager) Get(name string) (LB, bool) {
	lb, ok := m.clusters[name]
	return lb, ok
}

// All returns every configured cluster name mapped to its load balancer,
// for read-only introspection endpoints.
func (m *Manager) All() map[string]LB {
	return m.clusters
}

// StartRefresher launches a goroutine that re-polls every cluster's
// discovery source on interval until ctx is done. Discovery otherwise
// only runs once, at construction, so the backend set would stay frozen
// for the process lifetime without this.
func (m *Manager) StartRefresher(ctx context.Context, interval time.Duration, logger *zap.SugaredLogger) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				for name, lb := range m.clusters {
					if err := lb.Refresh(ctx); err != nil {
						logger.Errorw("cluster refresh failed", "cluster", name, "error", err)
					}
				}
			}
		}
	}()
}
