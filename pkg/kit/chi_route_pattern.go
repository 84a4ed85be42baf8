package kit

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

const unmatchedRoute = "unmatched"

// RoutePattern labels a request by the chi pattern it matched so that ids in
// the path do not explode metric cardinality.
func RoutePattern(r *http.Request) string {
	rc := chi.RouteContext(r.Context())
	if rc == nil {
		return unmatchedRoute
	}
	if rp := rc.RoutePattern(); rp != "" {
		return rp
	}
	return unmatchedRoute
}
