package core

import (
	"net/http"

	manifest "github.com/joeydtaylor/steeze-viewlet/pkg/manifest"
	"github.com/joeydtaylor/steeze-viewlet/pkg/security"
)

// withGuard enforces a page guard: 401 for a missing principal, 403 for one
// that does not qualify. Viewlet guards are checked separately, per provider,
// by the security gate.
func withGuard(next http.HandlerFunc, p security.Principal, g manifest.Guard) http.HandlerFunc {
	if g.Open() {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if p == nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		ctx := r.Context()
		if g.RequireAuth && !p.IsAuthenticated(ctx) {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		if len(g.Users) > 0 {
			u := p.GetUser(ctx).Username
			if u == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			for _, x := range g.Users {
				if u == x {
					next(w, r)
					return
				}
			}
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		if len(g.Roles) > 0 {
			u := p.GetUser(ctx)
			if u.Username == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			if p.IsAdmin(ctx) {
				next(w, r)
				return
			}
			for _, x := range g.Roles {
				if u.Role.Name == x {
					next(w, r)
					return
				}
			}
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next(w, r)
	}
}
