// Package cmsrate implements the cms_rate plugin: a per-path request
// budget kept in a token bucket per URI path (up to total tokens,
// refilled at total per interval), rejecting with 429 when that path's
// bucket is empty. It does not count requests in a sliding window: once
// tokens refill, more than total requests can pass within one
// interval-long span.
package cmsrate

import (
	"net/http"
	"sync"
	"time"

	"github.com/coregate/gateway/internal/config"
	"github.com/coregate/gateway/internal/plugin"
	"golang.org/x/time/rate"
)

// Config is the cms_rate plugin's config block shape. Interval must be
// at least one second; sub-second windows aren't supported.
type Config struct {
	Total    int             `yaml:"total"`
	Interval config.Duration `yaml:"interval"`
}

// Plugin enforces a request budget per request path, counting against a
// token-bucket limiter that refills at total/interval and holds up to
// total tokens, approximating the reference implementation's sliding
// window counter.
type Plugin struct {
	plugin.Base
	total    int
	interval time.Duration

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// New builds a cms_rate plugin from its YAML config block.
func New(raw *config.RawYAML) (plugin.Plugin, error) {
	if raw == nil || raw.IsZero() {
		return nil, &plugin.LackPluginConfigError{Name: "cms_rate"}
	}
	var cfg Config
	if err := raw.Decode(&cfg); err != nil {
		return nil, &plugin.YamlError{Name: "cms_rate", Cause: err}
	}
	if cfg.Total < 1 {
		return nil, &plugin.ValidateError{Name: "cms_rate", Reason: "total must be >= 1"}
	}
	if cfg.Interval.Duration() < time.Second {
		return nil, &plugin.ValidateError{Name: "cms_rate", Reason: "interval must be >= 1s"}
	}
	return &Plugin{
		total:    cfg.Total,
		interval: cfg.Interval.Duration(),
		limiters: make(map[string]*rate.Limiter),
	}, nil
}

func (p *Plugin) limiterFor(path string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()
	l, ok := p.limiters[path]
	if !ok {
		every := rate.Every(p.interval / time.Duration(p.total))
		l = rate.NewLimiter(every, p.total)
		p.limiters[path] = l
	}
	return l
}

func (p *Plugin) RequestFilter(ctx *plugin.Ctx, w http.ResponseWriter, r *http.Request) (bool, error) {
	l := p.limiterFor(r.URL.Path)
	if l.Allow() {
		return false, nil
	}
	w.Header().Set("content-type", "text/plain")
	w.WriteHeader(http.StatusTooManyRequests)
	_, err := w.Write([]byte("rate limit exceeded"))
	return true, err
}
