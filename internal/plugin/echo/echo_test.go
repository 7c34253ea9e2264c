package echo_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/coregate/gateway/internal/config"
	"github.com/coregate/gateway/internal/plugin"
	"github.com/coregate/gateway/internal/plugin/echo"
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

func TestEchoWritesBodyAndDefaultsContentType(t *testing.T) {
	p, err := echo.New(rawYAML(t, `{body: "hello"}`))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	stop, err := p.RequestFilter(plugin.NewCtx(nil), w, r)
	require.NoError(t, err)
	assert.True(t, stop)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hello", w.Body.String())
	assert.Equal(t, "text/plain", w.Header().Get("content-type"))
	assert.Equal(t, "5", w.Header().Get("content-length"))
}

func TestEchoHeadersOverrideDefaultContentType(t *testing.T) {
	p, err := echo.New(rawYAML(t, `{body: "{}", headers: {Content-Type: "application/json"}}`))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err = p.RequestFilter(plugin.NewCtx(nil), w, r)
	require.NoError(t, err)

	assert.Equal(t, "application/json", w.Header().Get("content-type"))
}

func TestEchoRequiresConfig(t *testing.T) {
	_, err := echo.New(nil)
	require.Error(t, err)
	var lack *plugin.LackPluginConfigError
	assert.ErrorAs(t, err, &lack)
}

func TestEchoCustomStatusCode(t *testing.T) {
	p, err := echo.New(rawYAML(t, `{body: "nope", status_code: 404}`))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err = p.RequestFilter(plugin.NewCtx(nil), w, r)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
