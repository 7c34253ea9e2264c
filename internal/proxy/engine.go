// Package proxy runs the per-request pipeline: match a route, run its
// plugins across all five phases, and forward whatever survives to the
// selected cluster backend.
package proxy

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"github.com/coregate/gateway/internal/cluster"
	"github.com/coregate/gateway/internal/plugin"
	"github.com/coregate/gateway/internal/router"
	"github.com/coregate/gateway/internal/session"
	"go.uber.org/zap"
)

// Engine is the per-service request handler: it owns the service's
// global plugin chain, route matcher, and cluster manager, and is
// shared by reference across every goroutine serving that service's
// listeners.
type Engine struct {
	ServiceName string
	Global      []plugin.Plugin
	Matcher     *router.MatchEntry
	Clusters    *cluster.Manager
	Logger      *zap.SugaredLogger
}

// ServeHTTP implements the eleven-step request flow: global pre-request
// filters, route match, route pre-request filters, request body
// filters, backend selection, upstream request filters, proxying,
// response filters, response body filters, and an access-log entry
// emitted unconditionally on the way out.
func (e *Engine) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	sess := session.New(w, r)
	ctx := plugin.NewCtx(nil)

	if e.runRequestFilters(e.Global, ctx, sess) {
		e.logAccess(sess, start, nil)
		return
	}

	params, pipeline, ok := e.Matcher.MatchRequest(r)
	if !ok {
		_ = sendResponse(sess, http.StatusNotFound, []byte("not found"), nil)
		e.logAccess(sess, start, nil)
		return
	}
	ctx.RouteParams = params

	if e.runRequestFilters(pipeline.Plugins, ctx, sess) {
		e.logAccess(sess, start, nil)
		return
	}
	if e.runRequestBodyFilters(e.Global, ctx, sess) {
		e.logAccess(sess, start, nil)
		return
	}
	if e.runRequestBodyFilters(pipeline.Plugins, ctx, sess) {
		e.logAccess(sess, start, nil)
		return
	}

	if pipeline.Cluster == "" {
		err := &NoClusterError{RouteName: pipeline.RouteName}
		_ = sendResponse(sess, http.StatusBadGateway, []byte("bad gateway"), nil)
		e.logAccess(sess, start, err)
		return
	}
	lb, ok := e.Clusters.Get(pipeline.Cluster)
	if !ok {
		err := &ConnectNoRouteError{Cluster: pipeline.Cluster}
		_ = sendResponse(sess, http.StatusBadGateway, []byte("bad gateway"), nil)
		e.logAccess(sess, start, err)
		return
	}
	backend, ok := lb.Select(nil)
	if !ok {
		err := &NoBackendError{Cluster: pipeline.Cluster}
		_ = sendResponse(sess, http.StatusBadGateway, []byte("bad gateway"), nil)
		e.logAccess(sess, start, err)
		return
	}

	upstreamStopped := false
	for _, p := range e.Global {
		if stop, err := p.UpstreamRequestFilter(ctx, r); stop || err != nil {
			if err != nil {
				e.logAccess(sess, start, err)
				return
			}
			upstreamStopped = true
			break
		}
	}
	for _, p := range pipeline.Plugins {
		if upstreamStopped {
			break
		}
		if stop, err := p.UpstreamRequestFilter(ctx, r); stop || err != nil {
			if err != nil {
				e.logAccess(sess, start, err)
				return
			}
			break
		}
	}

	target := &url.URL{Scheme: "http", Host: fmt.Sprintf("%s:%d", backend.IP, backend.Port)}
	rp := httputil.NewSingleHostReverseProxy(target)
	rp.ModifyResponse = func(resp *http.Response) error {
		for _, p := range e.Global {
			if stop, err := p.ResponseFilter(ctx, sess, resp); stop || err != nil {
				return err
			}
		}
		for _, p := range pipeline.Plugins {
			if stop, err := p.ResponseFilter(ctx, sess, resp); stop || err != nil {
				return err
			}
		}
		for _, p := range e.Global {
			if stop, err := p.ResponseBodyFilter(ctx, sess, resp); stop || err != nil {
				return err
			}
		}
		for _, p := range pipeline.Plugins {
			if stop, err := p.ResponseBodyFilter(ctx, sess, resp); stop || err != nil {
				return err
			}
		}
		return nil
	}
	var proxyErr error
	rp.ErrorHandler = func(w http.ResponseWriter, _ *http.Request, err error) {
		proxyErr = err
		w.WriteHeader(http.StatusBadGateway)
	}
	rp.ServeHTTP(sess, r)
	e.logAccess(sess, start, proxyErr)
}

// runRequestFilters runs a RequestFilter pass across plugins and
// reports whether any of them stopped the pipeline; a plugin that stops
// the pipeline has already written the client response itself.
func (e *Engine) runRequestFilters(plugins []plugin.Plugin, ctx *plugin.Ctx, sess *session.Session) bool {
	for _, p := range plugins {
		stop, err := p.RequestFilter(ctx, sess, sess.Request)
		if err != nil {
			e.Logger.Errorw("plugin request filter failed", "service", e.ServiceName, "error", err)
			return true
		}
		if stop {
			return true
		}
	}
	return false
}

// runRequestBodyFilters is runRequestFilters' counterpart for the
// request-body phase.
func (e *Engine) runRequestBodyFilters(plugins []plugin.Plugin, ctx *plugin.Ctx, sess *session.Session) bool {
	for _, p := range plugins {
		stop, err := p.RequestBodyFilter(ctx, sess, sess.Request)
		if err != nil {
			e.Logger.Errorw("plugin request body filter failed", "service", e.ServiceName, "error", err)
			return true
		}
		if stop {
			return true
		}
	}
	return false
}

// logAccess emits one Common-Log-like access line per request, in the
// same "<remote> \"<method> <uri>\" <status> <bytes_sent>" shape the
// reference implementation's logging hook writes, plus a structured
// error log whenever the transport surfaced one.
func (e *Engine) logAccess(sess *session.Session, start time.Time, err error) {
	line := fmt.Sprintf("%s %q %d %d",
		sess.ClientIP,
		sess.Request.Method+" "+sess.Request.URL.RequestURI(),
		sess.StatusCode(),
		sess.BytesWritten(),
	)
	e.Logger.Infow(line,
		"service", e.ServiceName,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	if err != nil {
		e.Logger.Errorw("request failed",
			"service", e.ServiceName,
			"method", sess.Request.Method,
			"path", sess.Request.URL.Path,
			"error", err.Error(),
		)
	}
}
