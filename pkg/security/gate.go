// Package security decides whether the current principal may render a
// provider. The principal travels in the request context, placed there by
// the auth middleware.
package security

import (
	"context"

	"github.com/joeydtaylor/steeze-viewlet/pkg/middleware/auth"
	"github.com/joeydtaylor/steeze-viewlet/pkg/viewlet"
	"go.uber.org/fx"
)

// Gate is the authorization predicate consulted before providers reach a
// template.
type Gate interface {
	CanAccess(ctx context.Context, target any, op string) bool
}

// GateFunc adapts a function to Gate.
type GateFunc func(ctx context.Context, target any, op string) bool

func (f GateFunc) CanAccess(ctx context.Context, target any, op string) bool {
	return f(ctx, target, op)
}

// AllowAll grants every check.
var AllowAll Gate = GateFunc(func(context.Context, any, string) bool { return true })

// Principal answers identity questions about the request context.
// *auth.Middleware satisfies it.
type Principal interface {
	IsAuthenticated(ctx context.Context) bool
	IsAdmin(ctx context.Context) bool
	GetUser(ctx context.Context) auth.User
}

// PermissionGate checks a provider's declared viewlet.Permission against the
// principal in ctx, with the same precedence as route guards: auth, then
// users, then roles (admins pass role checks).
type PermissionGate struct {
	p Principal
}

// NewPermissionGate returns a gate over p. A nil principal only admits
// public providers.
func NewPermissionGate(p Principal) *PermissionGate { return &PermissionGate{p: p} }

func (g *PermissionGate) CanAccess(ctx context.Context, target any, op string) bool {
	if op != viewlet.OpRender {
		return false
	}
	perm := viewlet.PermissionOf(target)
	if perm.Public() {
		return true
	}
	if g == nil || g.p == nil {
		return false
	}
	if perm.RequireAuth && !g.p.IsAuthenticated(ctx) {
		return false
	}
	if len(perm.Users) > 0 {
		u := g.p.GetUser(ctx).Username
		if u == "" {
			return false
		}
		for _, x := range perm.Users {
			if u == x {
				return true
			}
		}
		return false
	}
	if len(perm.Roles) > 0 {
		u := g.p.GetUser(ctx)
		if u.Username == "" {
			return false
		}
		if g.p.IsAdmin(ctx) {
			return true
		}
		for _, x := range perm.Roles {
			if u.Role.Name == x {
				return true
			}
		}
		return false
	}
	return true
}

// ProvideGate wires the permission gate over the auth middleware.
func ProvideGate(a *auth.Middleware) Gate {
	if a == nil {
		return NewPermissionGate(nil)
	}
	return NewPermissionGate(a)
}

var Module = fx.Options(
	fx.Provide(ProvideGate),
)
