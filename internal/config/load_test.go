package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/coregate/gateway/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
services:
  - name: web
    listeners:
      - name: main
        address: ":8080"
    routes:
      - name: root
        match:
          uri:
            prefix: /
        cluster: backend
    clusters:
      - name: backend
        resolver: static
        lb_policy: round_robin
        config:
          endpoints:
            - "127.0.0.1:9000"
`

func writeTemp(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gateway.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadAndValidate(t *testing.T) {
	path := writeTemp(t, sampleYAML)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	require.Len(t, cfg.Services, 1)
	svc := cfg.Services[0]
	assert.Equal(t, "web", svc.Name)
	assert.Equal(t, config.ProtocolHTTP, svc.Listeners[0].Protocol)

	route := svc.Routes[0]
	require.NotNil(t, route.Match.URI)
	assert.Equal(t, config.StrMatchPrefix, route.Match.URI.Kind)
	assert.Equal(t, "/", route.Match.URI.Value)
}

func TestValidateRejectsEmptyServices(t *testing.T) {
	cfg := &config.Config{}
	err := cfg.Validate()
	require.Error(t, err)
}

func TestValidateRejectsHTTPSWithoutSSL(t *testing.T) {
	cfg := &config.Config{
		Services: []config.Service{{
			Name: "web",
			Listeners: []config.Listener{{
				Name:     "main",
				Address:  ":8443",
				Protocol: config.ProtocolHTTPS,
			}},
			Routes: []config.Route{{Name: "root"}},
		}},
	}
	err := cfg.Validate()
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	var loadErr *config.LoadError
	require.ErrorAs(t, err, &loadErr)
}
