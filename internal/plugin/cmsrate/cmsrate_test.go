package cmsrate_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/coregate/gateway/internal/config"
	"github.com/coregate/gateway/internal/plugin"
	"github.com/coregate/gateway/internal/plugin/cmsrate"
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

func TestRateLimitAllowsUpToTotal(t *testing.T) {
	p, err := cmsrate.New(rawYAML(t, `{total: 2, interval: 1s}`))
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/limited", nil)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		stop, err := p.RequestFilter(plugin.NewCtx(nil), w, r)
		require.NoError(t, err)
		assert.False(t, stop)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	stop, err := p.RequestFilter(plugin.NewCtx(nil), w, r)
	require.NoError(t, err)
	assert.True(t, stop)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRateLimitIsPerPath(t *testing.T) {
	p, err := cmsrate.New(rawYAML(t, `{total: 1, interval: 1s}`))
	require.NoError(t, err)

	r1 := httptest.NewRequest(http.MethodGet, "/a", nil)
	r2 := httptest.NewRequest(http.MethodGet, "/b", nil)

	w1 := httptest.NewRecorder()
	stop, err := p.RequestFilter(plugin.NewCtx(nil), w1, r1)
	require.NoError(t, err)
	assert.False(t, stop)

	w2 := httptest.NewRecorder()
	stop, err = p.RequestFilter(plugin.NewCtx(nil), w2, r2)
	require.NoError(t, err)
	assert.False(t, stop)
}

func TestRateLimitRejectsSubSecondInterval(t *testing.T) {
	_, err := cmsrate.New(rawYAML(t, `{total: 5, interval: 500ms}`))
	require.Error(t, err)
}

func TestRateLimitRejectsZeroTotal(t *testing.T) {
	_, err := cmsrate.New(rawYAML(t, `{total: 0, interval: 1s}`))
	require.Error(t, err)
}

func TestRateLimitRequiresConfig(t *testing.T) {
	_, err := cmsrate.New(nil)
	require.Error(t, err)
	var lack *plugin.LackPluginConfigError
	assert.ErrorAs(t, err, &lack)
}
