package cluster

import (
	"context"
	"net"
	"testing"

	"github.com/coregate/gateway/internal/discovery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	endpoints []discovery.Endpoint
}

func (f *fakeSource) Discover(ctx context.Context) ([]discovery.Endpoint, map[string]bool, error) {
	return f.endpoints, nil, nil
}

func twoEndpoints() []discovery.Endpoint {
	return []discovery.Endpoint{
		{IP: mustIP("10.0.0.1"), Port: 80, Weight: 1},
		{IP: mustIP("10.0.0.2"), Port: 80, Weight: 1},
	}
}

func TestRoundRobinCyclesEndpoints(t *testing.T) {
	lb, err := NewLB(context.Background(), &fakeSource{endpoints: twoEndpoints()}, PolicyRoundRobin)
	require.NoError(t, err)

	first, ok := lb.Select(nil)
	require.True(t, ok)
	second, ok := lb.Select(nil)
	require.True(t, ok)
	third, ok := lb.Select(nil)
	require.True(t, ok)

	assert.NotEqual(t, first.String(), second.String())
	assert.Equal(t, first.String(), third.String())
}

func TestLeastConnPrefersIdleEndpoint(t *testing.T) {
	lb, err := NewLB(context.Background(), &fakeSource{endpoints: twoEndpoints()}, PolicyLeastConn)
	require.NoError(t, err)

	first, ok := lb.Select(nil)
	require.True(t, ok)
	second, ok := lb.Select(nil)
	require.True(t, ok)

	assert.NotEqual(t, first.String(), second.String())
}

func TestSelectOnEmptySetFails(t *testing.T) {
	lb, err := NewLB(context.Background(), &fakeSource{}, PolicyRandom)
	require.NoError(t, err)

	_, ok := lb.Select(nil)
	assert.False(t, ok)
}

func mustIP(s string) net.IP {
	return net.ParseIP(s)
}
