// Package echo implements the echo plugin: always responds immediately
// with a configured status, headers and body, short-circuiting the
// pipeline before any upstream connection is made.
package echo

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/coregate/gateway/internal/config"
	"github.com/coregate/gateway/internal/plugin"
)

// Config is the echo plugin's config block shape.
type Config struct {
	Body       string            `yaml:"body"`
	StatusCode int               `yaml:"status_code"`
	Headers    map[string]string `yaml:"headers"`
}

// Plugin responds to every request it sees in RequestFilter with a fixed
// body and headers, never reaching the upstream.
type Plugin struct {
	plugin.Base
	body       []byte
	statusCode int
	headers    map[string]string
}

// New builds an echo plugin from its YAML config block.
func New(raw *config.RawYAML) (plugin.Plugin, error) {
	if raw == nil || raw.IsZero() {
		return nil, &plugin.LackPluginConfigError{Name: "echo"}
	}
	var cfg Config
	if err := raw.Decode(&cfg); err != nil {
		return nil, &plugin.YamlError{Name: "echo", Cause: err}
	}
	if cfg.StatusCode == 0 {
		cfg.StatusCode = http.StatusOK
	}
	// Header keys are lowercased at construction time so request-time
	// lookups and writes are case-insensitive-consistent, matching the
	// reference implementation's behavior.
	headers := make(map[string]string, len(cfg.Headers))
	for k, v := range cfg.Headers {
		headers[strings.ToLower(k)] = v
	}
	return &Plugin{
		body:       []byte(cfg.Body),
		statusCode: cfg.StatusCode,
		headers:    headers,
	}, nil
}

func (p *Plugin) RequestFilter(ctx *plugin.Ctx, w http.ResponseWriter, r *http.Request) (bool, error) {
	hdr := w.Header()
	for k, v := range p.headers {
		hdr.Set(k, v)
	}
	if hdr.Get("content-type") == "" {
		hdr.Set("content-type", "text/plain")
	}
	hdr.Set("content-length", strconv.Itoa(len(p.body)))
	w.WriteHeader(p.statusCode)
	_, err := w.Write(p.body)
	return true, err
}
