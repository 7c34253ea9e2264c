// Package gateway builds the runtime objects a config.Config describes:
// one proxy.Engine per service, paired with each of that service's
// listeners. The caller creates the http.Server for each listener.
package gateway

import (
	"context"
	"crypto/tls"
	"fmt"

	"github.com/coregate/gateway/internal/cluster"
	"github.com/coregate/gateway/internal/config"
	"github.com/coregate/gateway/internal/plugin"
	"github.com/coregate/gateway/internal/plugin/registry"
	"github.com/coregate/gateway/internal/proxy"
	"github.com/coregate/gateway/internal/resolver"
	"github.com/coregate/gateway/internal/router"
	"go.uber.org/zap"
)

// BuildError wraps a failure assembling the gateway from its config,
// naming the service that failed so a misconfiguration in a ten-service
// document doesn't require guessing which one.
type BuildError struct {
	Service string
	Cause   error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("building service %q: %v", e.Service, e.Cause)
}

func (e *BuildError) Unwrap() error { return e.Cause }

// Listener pairs a built engine with the config.Listener it serves,
// ready to be bound into an http.Server.
type Listener struct {
	Config config.Listener
	Engine *proxy.Engine
}

// Result is everything Build assembled from a config.Config: the
// listeners ready to be served, and each service's cluster manager for
// the admin introspection endpoint.
type Result struct {
	Listeners       []Listener
	ClusterManagers map[string]*cluster.Manager
}

// Build assembles every service in cfg into a list of listeners ready
// to be served. Any failure here is fatal: a gateway never starts
// partially configured.
func Build(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) (*Result, error) {
	resolvers, err := resolver.NewRegistry(cfg.Resolvers)
	if err != nil {
		return nil, fmt.Errorf("initializing resolvers: %w", err)
	}

	result := &Result{ClusterManagers: make(map[string]*cluster.Manager)}
	for _, svc := range cfg.Services {
		engine, err := buildEngine(ctx, svc, resolvers, logger)
		if err != nil {
			return nil, &BuildError{Service: svc.Name, Cause: err}
		}
		result.ClusterManagers[svc.Name] = engine.Clusters
		for _, l := range svc.Listeners {
			result.Listeners = append(result.Listeners, Listener{Config: l, Engine: engine})
		}
	}
	return result, nil
}

func buildEngine(ctx context.Context, svc config.Service, resolvers *resolver.Registry, logger *zap.SugaredLogger) (*proxy.Engine, error) {
	clusters, err := cluster.NewManager(ctx, svc.Clusters, resolvers)
	if err != nil {
		return nil, fmt.Errorf("clusters: %w", err)
	}

	global, err := buildPlugins(svc.Plugins)
	if err != nil {
		return nil, fmt.Errorf("global plugins: %w", err)
	}

	matcher := router.NewMatchEntry()
	for _, rt := range svc.Routes {
		if rt.Match.URI == nil {
			return nil, fmt.Errorf("route %q: uri matcher is required", rt.Name)
		}
		if _, ok := clusters.Get(rt.Cluster); !ok {
			return nil, fmt.Errorf("route %q: references unknown cluster %q", rt.Name, rt.Cluster)
		}
		routePlugins, err := buildPlugins(rt.Plugins)
		if err != nil {
			return nil, fmt.Errorf("route %q plugins: %w", rt.Name, err)
		}
		pipeline := &router.Pipeline{RouteName: rt.Name, Plugins: routePlugins, Cluster: rt.Cluster}
		if err := matcher.InsertRoute(*rt.Match.URI, pipeline); err != nil {
			return nil, fmt.Errorf("route %q: %w", rt.Name, err)
		}
	}

	return &proxy.Engine{
		ServiceName: svc.Name,
		Global:      global,
		Matcher:     matcher,
		Clusters:    clusters,
		Logger:      logger,
	}, nil
}

func buildPlugins(specs []config.Plugin) ([]plugin.Plugin, error) {
	built := make([]plugin.Plugin, 0, len(specs))
	for _, spec := range specs {
		p, err := registry.Build(spec.Name, spec.Config)
		if err != nil {
			return nil, err
		}
		built = append(built, p)
	}
	return built, nil
}

// TLSConfig loads the certificate pair a listener's SSLConfig names,
// for callers binding an HTTPS listener.
func TLSConfig(ssl *config.SSLConfig) (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(ssl.Cert, ssl.Key)
	if err != nil {
		return nil, fmt.Errorf("loading tls key pair: %w", err)
	}
	return &tls.Config{Certificates: []tls.Certificate{cert}}, nil
}
