package metrics

import (
	"net/http"
	"strconv"
	"time"

	chimw "github.com/go-chi/chi/middleware"
	"github.com/joeydtaylor/steeze-viewlet/pkg/middleware/auth"
)

// Collect records request counters and latency for every path off the skip
// list. The role label comes from ca; nil records an empty role.
func Collect(ca *auth.Middleware) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isSkipPath(r) {
				next.ServeHTTP(w, r)
				return
			}
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			defer observeRequest(ca, ww, r, time.Now())
			next.ServeHTTP(ww, r)
		})
	}
}

// observeRequest runs after routing, so normalizePath sees the matched
// route pattern rather than the raw path.
func observeRequest(ca *auth.Middleware, ww chimw.WrapResponseWriter, r *http.Request, start time.Time) {
	role := ""
	if ca != nil {
		role = ca.GetUser(r.Context()).Role.Name
	}
	status := ww.Status()
	if status == 0 {
		status = http.StatusOK
	}
	code := strconv.Itoa(status)

	totalHttpRequestsFromRole.WithLabelValues(role).Inc()
	totalHttpRequestsToUri.WithLabelValues(code, normalizePath(r), r.Method).Inc()
	totalHttpRequests.WithLabelValues(code, r.Method).Inc()
	responseTime.Observe(time.Since(start).Seconds())
}
