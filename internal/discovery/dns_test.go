package discovery_test

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/coregate/gateway/internal/discovery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	ips []net.IP
	err error
}

func (f *fakeResolver) LookupIP(ctx context.Context, name string) ([]net.IP, error) {
	return f.ips, f.err
}

func TestDNSDiscoverOneEndpointPerIP(t *testing.T) {
	res := &fakeResolver{ips: []net.IP{net.ParseIP("10.0.0.1"), net.ParseIP("10.0.0.2")}}
	src := discovery.NewDNS("backend.internal", 8080, res)

	eps, _, err := src.Discover(context.Background())
	require.NoError(t, err)
	require.Len(t, eps, 2)
	for _, ep := range eps {
		assert.EqualValues(t, 8080, ep.Port)
		assert.Equal(t, 1, ep.Weight)
	}
}

func TestDNSDiscoverPropagatesResolveFailure(t *testing.T) {
	res := &fakeResolver{err: errors.New("no such host")}
	src := discovery.NewDNS("backend.internal", 8080, res)

	_, _, err := src.Discover(context.Background())
	require.Error(t, err)
}
