package cluster_test

import (
	"context"
	"testing"

	"github.com/coregate/gateway/internal/cluster"
	"github.com/coregate/gateway/internal/config"
	"github.com/coregate/gateway/internal/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func rawYAML(t *testing.T, doc string) *config.RawYAML {
	t.Helper()
	var raw config.RawYAML
	require.NoError(t, yaml.Unmarshal([]byte(doc), &raw))
	return &raw
}

func TestNewManagerBuildsStaticCluster(t *testing.T) {
	resolvers, err := resolver.NewRegistry(nil)
	require.NoError(t, err)

	clusters := []config.Cluster{{
		Name:     "backend",
		Resolver: config.ResolverStatic,
		LBPolicy: config.LBRandom,
		Config:   rawYAML(t, `endpoints: ["127.0.0.1:9000"]`),
	}}

	mgr, err := cluster.NewManager(context.Background(), clusters, resolvers)
	require.NoError(t, err)

	lb, ok := mgr.Get("backend")
	require.True(t, ok)
	eps := lb.Endpoints()
	require.Len(t, eps, 1)
}

func TestNewManagerRejectsUnknownResolver(t *testing.T) {
	resolvers, err := resolver.NewRegistry(nil)
	require.NoError(t, err)

	clusters := []config.Cluster{{
		Name:     "backend",
		Resolver: "bogus",
		Config:   rawYAML(t, `{}`),
	}}

	_, err = cluster.NewManager(context.Background(), clusters, resolvers)
	require.Error(t, err)
	var unknown *cluster.UnknownResolverError
	assert.ErrorAs(t, err, &unknown)
}

func TestNewManagerRejectsMissingConfig(t *testing.T) {
	resolvers, err := resolver.NewRegistry(nil)
	require.NoError(t, err)

	clusters := []config.Cluster{{Name: "backend", Resolver: config.ResolverStatic}}

	_, err = cluster.NewManager(context.Background(), clusters, resolvers)
	require.Error(t, err)
	var lack *cluster.LackConfigError
	assert.ErrorAs(t, err, &lack)
}

func TestNewManagerRejectsEmptyStaticEndpoints(t *testing.T) {
	resolvers, err := resolver.NewRegistry(nil)
	require.NoError(t, err)

	clusters := []config.Cluster{{
		Name:     "backend",
		Resolver: config.ResolverStatic,
		Config:   rawYAML(t, `endpoints: []`),
	}}

	_, err = cluster.NewManager(context.Background(), clusters, resolvers)
	require.Error(t, err)
	var invalid *cluster.InvalidEndpointsError
	assert.ErrorAs(t, err, &invalid)
}
