// Package router matches an inbound request against a service's
// configured routes, producing the pipeline to run and the path
// parameters any matched plugin may read.
package router

import (
	"net/http"
	"regexp"
	"strings"
	"sync"

	"github.com/coregate/gateway/internal/config"
	"github.com/coregate/gateway/internal/plugin"
	"github.com/julienschmidt/httprouter"
)

// Pipeline is the ordered list of plugins and target cluster a matched
// route resolves to.
type Pipeline struct {
	RouteName string
	Plugins   []plugin.Plugin
	Cluster   string
}

// regexRoute is a route whose matcher is a regexp, checked in the order
// routes were inserted after the httprouter tree finds no match.
type regexRoute struct {
	re       *regexp.Regexp
	pipeline *Pipeline
}

// pseudoMethod is the single method bucket every route is registered
// under, since route matching here is path-only and doesn't vary by
// HTTP method.
const pseudoMethod = "ROUTE"

// MatchEntry combines an httprouter tree (for exact and prefix matches,
// which support fast indexed lookup and named/catch-all parameters)
// with an ordered regexp fallback list, mirroring the reference
// implementation's split between a radix-tree router and a linear
// regex scan.
//
// httprouter's Lookup returns a Handle rather than the value registered
// against a path, so each registered Handle closes over its Pipeline and
// writes it to matched under lookupMu's protection; MatchRequest holds
// the lock across Lookup-and-invoke so concurrent requests never observe
// each other's result.
type MatchEntry struct {
	tree    *httprouter.Router
	regexes []regexRoute

	lookupMu sync.Mutex
	matched  *Pipeline
}

// NewMatchEntry builds an empty MatchEntry ready for InsertRoute calls.
func NewMatchEntry() *MatchEntry {
	return &MatchEntry{tree: httprouter.New()}
}

// InsertRoute adds route's pipeline to the matcher according to its URI
// matcher kind. A route with no URI matcher is rejected by the builder
// before it ever reaches here. Inserting a route whose path already has
// an entry is a silent no-op, matching the reference router's
// insert_route behavior.
func (m *MatchEntry) InsertRoute(uri config.StrMatch, p *Pipeline) error {
	switch uri.Kind {
	case config.StrMatchExact:
		m.insertTree(uri.Value, p)
	case config.StrMatchPrefix:
		m.insertTree(revisePrefix(uri.Value), p)
	case config.StrMatchRegexp:
		re, err := regexp.Compile(uri.Value)
		if err != nil {
			return err
		}
		m.regexes = append(m.regexes, regexRoute{re: re, pipeline: p})
	}
	return nil
}

// revisePrefix turns a configured prefix into an httprouter catch-all
// path: a trailing "*" is replaced with httprouter's "*rest" catch-all
// parameter; otherwise one is appended after ensuring a trailing slash.
func revisePrefix(prefix string) string {
	if strings.HasSuffix(prefix, "*") {
		return strings.TrimSuffix(prefix, "*") + "*rest"
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix + "*rest"
}

func (m *MatchEntry) insertTree(path string, p *Pipeline) {
	defer func() {
		// httprouter panics on a conflicting/duplicate path registration;
		// the reference matcher treats re-inserting an existing route as
		// a no-op rather than an error.
		_ = recover()
	}()
	m.tree.Handle(pseudoMethod, path, func(http.ResponseWriter, *http.Request, httprouter.Params) {
		m.matched = p
	})
}

// MatchRequest finds the pipeline bound to r's path, trying the
// httprouter tree first, then the regexp list in insertion order.
// Returns the captured path parameters, the pipeline, and whether
// anything matched.
func (m *MatchEntry) MatchRequest(r *http.Request) (*plugin.RouteParams, *Pipeline, bool) {
	if params, pipeline, ok := m.lookupTree(r); ok {
		return params, pipeline, true
	}
	for _, rr := range m.regexes {
		if loc := rr.re.FindStringSubmatch(r.URL.Path); loc != nil {
			return plugin.NewRouteParams(loc), rr.pipeline, true
		}
	}
	return nil, nil, false
}

func (m *MatchEntry) lookupTree(r *http.Request) (*plugin.RouteParams, *Pipeline, bool) {
	m.lookupMu.Lock()
	defer m.lookupMu.Unlock()

	handle, params, _ := m.tree.Lookup(pseudoMethod, r.URL.Path)
	if handle == nil {
		return nil, nil, false
	}
	m.matched = nil
	handle(nil, nil, params)
	if m.matched == nil {
		return nil, nil, false
	}
	return routeParamsFrom(params), m.matched, true
}

func routeParamsFrom(params httprouter.Params) *plugin.RouteParams {
	captures := make([]string, len(params))
	for i, p := range params {
		captures[i] = p.Value
	}
	return plugin.NewRouteParams(captures)
}
