// Package plugin defines the request-pipeline extension point: a plugin
// observes and may short-circuit each of the five phases a request
// passes through on its way upstream and back.
package plugin

import "net/http"

// Phase identifies one of the five points in the request lifecycle a
// plugin can hook. Phases run in this order for a single request:
// RequestFilter, RequestBodyFilter, UpstreamRequestFilter,
// ResponseFilter, ResponseBodyFilter.
type Phase int

const (
	PhaseRequest Phase = iota
	PhaseRequestBody
	PhaseUpstreamRequest
	PhaseResponse
	PhaseResponseBody
)

// RouteParams holds the positional captures a route's matcher extracted
// from the request path (named params from httprouter, or regex capture
// groups), addressable by index in match order.
type RouteParams struct {
	params []string
}

// NewRouteParams wraps an ordered list of captured path segments.
func NewRouteParams(captures []string) *RouteParams {
	return &RouteParams{params: captures}
}

// Get returns the capture at idx, or ("", false) if idx is out of range.
func (p *RouteParams) Get(idx int) (string, bool) {
	if p == nil || idx < 0 || idx >= len(p.params) {
		return "", false
	}
	return p.params[idx], true
}

// Ctx is threaded through every phase of a single request's pipeline
// run. Plugins may stash arbitrary per-request state in Scratch to pass
// data between phases (e.g. a rate-limit decision made in
// RequestFilter that ResponseFilter wants to log).
type Ctx struct {
	RouteParams *RouteParams
	Scratch     map[string]any
}

// NewCtx builds an empty per-request plugin context.
func NewCtx(params *RouteParams) *Ctx {
	return &Ctx{RouteParams: params, Scratch: make(map[string]any)}
}

// Plugin is implemented by every request-pipeline extension. All five
// methods are no-ops in Base; concrete plugins embed Base and override
// only the phases they care about, mirroring the reference
// implementation's default trait method bodies.
//
// A phase returning stop=true skips the remaining global and route
// plugins for that phase. After RequestFilter or RequestBodyFilter it
// also ends the request: all later phases are skipped, and whatever
// response state the plugin has already written is what the client
// receives. After UpstreamRequestFilter the request is still proxied and
// the response phases still run; after ResponseFilter the
// ResponseBodyFilter phase is skipped.
type Plugin interface {
	RequestFilter(ctx *Ctx, w http.ResponseWriter, r *http.Request) (stop bool, err error)
	RequestBodyFilter(ctx *Ctx, w http.ResponseWriter, r *http.Request) (stop bool, err error)
	UpstreamRequestFilter(ctx *Ctx, r *http.Request) (stop bool, err error)
	ResponseFilter(ctx *Ctx, w http.ResponseWriter, resp *http.Response) (stop bool, err error)
	ResponseBodyFilter(ctx *Ctx, w http.ResponseWriter, resp *http.Response) (stop bool, err error)
}

// Base gives every concrete plugin a no-op implementation of all five
// phases; embed it and override only what's needed.
type Base struct{}

func (Base) RequestFilter(*Ctx, http.ResponseWriter, *http.Request) (bool, error) { return false, nil }
func (Base) RequestBodyFilter(*Ctx, http.ResponseWriter, *http.Request) (bool, error) {
	return false, nil
}
func (Base) UpstreamRequestFilter(*Ctx, *http.Request) (bool, error) { return false, nil }
func (Base) ResponseFilter(*Ctx, http.ResponseWriter, *http.Response) (bool, error) {
	return false, nil
}
func (Base) ResponseBodyFilter(*Ctx, http.ResponseWriter, *http.Response) (bool, error) {
	return false, nil
}
