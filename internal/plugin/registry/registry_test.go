package registry_test

import (
	"testing"

	"github.com/coregate/gateway/internal/config"
	"github.com/coregate/gateway/internal/plugin"
	"github.com/coregate/gateway/internal/plugin/registry"
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

func TestBuildEcho(t *testing.T) {
	p, err := registry.Build("echo", rawYAML(t, `{body: "hi"}`))
	require.NoError(t, err)
	assert.NotNil(t, p)
}

func TestBuildUnknownPlugin(t *testing.T) {
	_, err := registry.Build("does_not_exist", nil)
	require.Error(t, err)
	var unknown *plugin.UnknownPluginError
	assert.ErrorAs(t, err, &unknown)
}

func TestBuildAuthPluginNameIsRecognizedButUnimplemented(t *testing.T) {
	_, err := registry.Build("jwt_auth", nil)
	require.Error(t, err)
	var specific *plugin.SpecificError
	assert.ErrorAs(t, err, &specific)
}

func TestBuildCmsRateWithNullConfigYieldsLackPluginConfig(t *testing.T) {
	_, err := registry.Build("cms_rate", rawYAML(t, `null`))
	require.Error(t, err)
	var lack *plugin.LackPluginConfigError
	assert.ErrorAs(t, err, &lack)
}
