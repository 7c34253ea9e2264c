package gateway_test

import (
	"context"
	"testing"

	"github.com/coregate/gateway/internal/config"
	"github.com/coregate/gateway/internal/gateway"
	"github.com/coregate/gateway/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const doc = `
services:
  - name: web
    listeners:
      - name: main
        address: ":8080"
    routes:
      - name: echo
        match:
          uri:
            exact: /echo
        plugins:
          - name: echo
            config:
              body: "hi"
        cluster: backend
    clusters:
      - name: backend
        resolver: static
        lb_policy: round_robin
        config:
          endpoints: ["127.0.0.1:9000"]
`

func loadTestConfig(t *testing.T) *config.Config {
	t.Helper()
	var cfg config.Config
	require.NoError(t, yaml.Unmarshal([]byte(doc), &cfg))
	return &cfg
}

func TestBuildSucceeds(t *testing.T) {
	cfg := loadTestConfig(t)
	result, err := gateway.Build(context.Background(), cfg, logging.New(false))
	require.NoError(t, err)
	require.Len(t, result.Listeners, 1)
	assert.Contains(t, result.ClusterManagers, "web")
}

func TestBuildRejectsUnknownClusterReference(t *testing.T) {
	cfg := loadTestConfig(t)
	cfg.Services[0].Routes[0].Cluster = "missing"

	_, err := gateway.Build(context.Background(), cfg, logging.New(false))
	require.Error(t, err)
	var buildErr *gateway.BuildError
	require.ErrorAs(t, err, &buildErr)
}

func TestBuildRejectsMissingURIMatcher(t *testing.T) {
	cfg := loadTestConfig(t)
	cfg.Services[0].Routes[0].Match.URI = nil

	_, err := gateway.Build(context.Background(), cfg, logging.New(false))
	require.Error(t, err)
}

func TestBuildRejectsUnknownPluginName(t *testing.T) {
	cfg := loadTestConfig(t)
	cfg.Services[0].Routes[0].Plugins[0].Name = "does_not_exist"

	_, err := gateway.Build(context.Background(), cfg, logging.New(false))
	require.Error(t, err)
}
