package core

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimd "github.com/go-chi/chi/v5/middleware"
	"github.com/joeydtaylor/steeze-viewlet/pkg/codec"
	manifest "github.com/joeydtaylor/steeze-viewlet/pkg/manifest"
	hmetrics "github.com/joeydtaylor/steeze-viewlet/pkg/middleware/metrics"
	"github.com/joeydtaylor/steeze-viewlet/pkg/security"
	"go.uber.org/zap"
)

// FragmentsPath is the route of the region fragments endpoint.
const FragmentsPath = "/_fragments/{region}"

func BuildRouter(cfg manifest.Config, d BuildDeps) http.Handler {
	r := d.Router
	r.Use(chimd.RequestID, chimd.Recoverer, chimd.Heartbeat("/ping"))

	var principal security.Principal
	if d.Auth != nil {
		principal = d.Auth
		r.Use(d.Auth.Middleware())
		if d.LogMW != nil {
			r.Use(d.LogMW.Middleware(d.Auth))
		}
		// metrics collector that references auth state without copying it
		r.Use(hmetrics.Collect(d.Auth))
	} else if d.LogMW != nil {
		r.Use(d.LogMW.Middleware(nil))
	}

	if d.Metrics != nil {
		r.Get("/metrics", d.Metrics)
	}
	r.Get(FragmentsPath, fragmentsHandler(d.Runtime))
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		d.Runtime.Log.Debug("no page for path", zap.String("path", req.URL.Path))
		http.NotFound(w, req)
	})

	for _, p := range cfg.Pages {
		h := pageHandler(d.Runtime, p)
		if p.Timeout > 0 {
			h = withTimeout(h, time.Duration(p.Timeout)*time.Millisecond)
		}
		r.Get(p.Path, withGuard(h, principal, p.Guard))
	}
	return r.Mux()
}

func pageHandler(rt *Runtime, p manifest.Page) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := rt.RenderPage(r.Context(), p, r, urlParams(r))
		if err != nil {
			rt.Log.Warn("page render failed",
				zap.String("path", p.Path),
				zap.String("requestId", chimd.GetReqID(r.Context())),
				zap.Error(err),
			)
			status := statusFor(err)
			http.Error(w, http.StatusText(status), status)
			return
		}
		writeHTML(w, out, http.StatusOK)
	}
}

func fragmentsHandler(rt *Runtime) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		frags, err := rt.Fragments(r.Context(), FragmentQuery{
			Region: chi.URLParam(r, "region"),
			Name:   q.Get("name"),
			View:   q.Get("view"),
			Layer:  q.Get("layer"),
		}, r)
		if err != nil {
			status := statusFor(err)
			rt.Log.Debug("fragments failed", zap.Int("status", status), zap.Error(err))
			http.Error(w, http.StatusText(status), status)
			return
		}
		body, err := codec.JSONStrict.Marshal(frags)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, body, http.StatusOK)
	}
}

// urlParams copies the matched chi route parameters.
func urlParams(r *http.Request) map[string]string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return map[string]string{}
	}
	out := make(map[string]string, len(rctx.URLParams.Keys))
	for i, k := range rctx.URLParams.Keys {
		if k == "*" {
			continue
		}
		out[k] = rctx.URLParams.Values[i]
	}
	return out
}
