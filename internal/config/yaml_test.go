package config_test

import (
	"testing"

	"github.com/coregate/gateway/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestStrMatchUnmarshalRegexp(t *testing.T) {
	var m config.StrMatch
	require.NoError(t, yaml.Unmarshal([]byte(`regexp: ^/users/(\d+)$`), &m))
	assert.Equal(t, config.StrMatchRegexp, m.Kind)
	assert.Equal(t, `^/users/(\d+)$`, m.Value)
}

func TestStrMatchUnmarshalRequiresOneKey(t *testing.T) {
	var m config.StrMatch
	err := yaml.Unmarshal([]byte(`{}`), &m)
	require.Error(t, err)
}

func TestDurationUnmarshal(t *testing.T) {
	var d config.Duration
	require.NoError(t, yaml.Unmarshal([]byte(`2s`), &d))
	assert.Equal(t, "2s", d.Duration().String())
}

func TestListenerDefaultsProtocol(t *testing.T) {
	var l config.Listener
	require.NoError(t, yaml.Unmarshal([]byte(`{name: main, address: ":80"}`), &l))
	assert.Equal(t, config.ProtocolHTTP, l.Protocol)
}

func TestRawYAMLDecode(t *testing.T) {
	var raw config.RawYAML
	require.NoError(t, yaml.Unmarshal([]byte(`{host: example.com, port: 53}`), &raw))

	var dst config.DNSClusterConfig
	require.NoError(t, raw.Decode(&dst))
	assert.Equal(t, "example.com", dst.Host)
	assert.EqualValues(t, 53, dst.Port)
}
