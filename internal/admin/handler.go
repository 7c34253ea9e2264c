// Package admin exposes a small opt-in read-only introspection surface,
// deliberately kept separate from the request-serving engines: nothing
// here can mutate gateway state.
package admin

import (
	"encoding/json"
	"net/http"

	"github.com/coregate/gateway/internal/cluster"
)

// clusterView is the JSON shape returned for one cluster.
type clusterView struct {
	Name      string   `json:"name"`
	Endpoints []string `json:"endpoints"`
}

// Handler serves GET /debug/clusters, listing every cluster known to
// the given managers and their currently resolved backend endpoints.
// Construction is opt-in: the caller only mounts this handler when the
// config enables it.
func Handler(managers map[string]*cluster.Manager) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /debug/clusters", func(w http.ResponseWriter, r *http.Request) {
		views := make(map[string][]clusterView, len(managers))
		for service, mgr := range managers {
			var clusters []clusterView
			for name, lb := range mgr.All() {
				var eps []string
				for _, ep := range lb.Endpoints() {
					eps = append(eps, ep.String())
				}
				clusters = append(clusters, clusterView{Name: name, Endpoints: eps})
			}
			views[service] = clusters
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(views)
	})
	return mux
}
