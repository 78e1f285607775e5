package logger

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimd "github.com/go-chi/chi/v5/middleware"
	"github.com/joeydtaylor/steeze-viewlet/pkg/middleware/auth"
	"go.uber.org/zap"
)

// Middleware writes one access-log record per page request.
type Middleware struct {
	access *zap.Logger

	mu    sync.RWMutex
	quiet map[string]struct{}
}

// NewMiddleware returns an access logger writing to l.
func NewMiddleware(l *zap.Logger) *Middleware {
	if l == nil {
		l = zap.NewNop()
	}
	return &Middleware{
		access: l,
		quiet:  map[string]struct{}{"/ping": {}, "/metrics": {}},
	}
}

// AddQuietPaths excludes paths (health checks, scrapes) from the access log.
func (m *Middleware) AddQuietPaths(paths ...string) {
	m.mu.Lock()
	for _, p := range paths {
		if p = strings.TrimSpace(p); p != "" {
			m.quiet[p] = struct{}{}
		}
	}
	m.mu.Unlock()
}

func (m *Middleware) isQuiet(p string) bool {
	m.mu.RLock()
	_, ok := m.quiet[p]
	m.mu.RUnlock()
	return ok
}

func (m *Middleware) Middleware(ca *auth.Middleware) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m.isQuiet(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			ww := chimd.NewWrapResponseWriter(w, r.ProtoMajor)
			scheme := "http"
			if r.TLS != nil {
				scheme = "https"
			}

			start := time.Now()
			defer func() {
				isAuth := false
				username, role, provider := "", "", ""
				if ca != nil {
					isAuth = ca.IsAuthenticated(r.Context())
					u := ca.GetUser(r.Context())
					username = u.Username
					role = u.Role.Name
					provider = u.AuthenticationSource.Provider
				}
				pattern := ""
				if rc := chi.RouteContext(r.Context()); rc != nil {
					pattern = rc.RoutePattern()
				}

				m.access.Info("request",
					zap.String("requestId", chimd.GetReqID(r.Context())),
					zap.String("httpScheme", scheme),
					zap.Bool("isAuthenticated", isAuth),
					zap.String("username", username),
					zap.String("role", role),
					zap.String("authenticationProvider", provider),
					zap.String("httpProto", r.Proto),
					zap.String("httpMethod", r.Method),
					zap.String("remoteAddr", r.RemoteAddr),
					zap.String("uri", r.URL.Path),
					zap.String("route", pattern),
					zap.Duration("lat", time.Since(start)),
					zap.Int("responseSize", ww.BytesWritten()),
					zap.Int("status", ww.Status()),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
