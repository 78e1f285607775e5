// Package manager resolves, authorizes and orders the providers of a region
// for one (context, request, view) scope.
package manager

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/joeydtaylor/steeze-viewlet/pkg/adapter"
	"github.com/joeydtaylor/steeze-viewlet/pkg/region"
	"github.com/joeydtaylor/steeze-viewlet/pkg/security"
	"github.com/joeydtaylor/steeze-viewlet/pkg/viewlet"
	"go.uber.org/zap"
)

// Manager is the public provider-manager contract.
type Manager interface {
	// Values returns the authorized providers of r ordered by weight.
	Values(ctx context.Context, r *region.Region) ([]viewlet.Provider, error)
	// Item returns the single provider named name in r, not yet rendered.
	Item(ctx context.Context, name string, r *region.Region) (viewlet.Provider, error)
}

// Observer receives lookup outcomes; the metrics package implements it.
type Observer interface {
	Lookup(op, outcome string)
	Excluded(region string)
}

type nopObserver struct{}

func (nopObserver) Lookup(string, string) {}
func (nopObserver) Excluded(string)       {}

// Deps are the shared, read-only collaborators of a manager.
type Deps struct {
	Registry *adapter.Registry
	Gate     security.Gate
	Logger   *zap.Logger
	Observer Observer
}

func (d Deps) withDefaults() Deps {
	if d.Gate == nil {
		d.Gate = security.NewPermissionGate(nil)
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Observer == nil {
		d.Observer = nopObserver{}
	}
	if d.Registry == nil {
		d.Registry = adapter.NewRegistry()
	}
	return d
}

// Default looks up every provider from the adapter registry, drops the ones
// the principal cannot render and sorts the rest by weight. It is cheap to
// build and must not outlive one render.
type Default struct {
	scope viewlet.Scope
	deps  Deps
	log   *zap.Logger
}

// NewDefault binds a default manager to scope.
func NewDefault(scope viewlet.Scope, d Deps) *Default {
	d = d.withDefaults()
	return &Default{
		scope: scope,
		deps:  d,
		log:   d.Logger.With(zap.String("scope_id", uuid.NewString())),
	}
}

// Scope returns the (context, request, view) the manager is bound to.
func (m *Default) Scope() viewlet.Scope { return m.scope }

func (m *Default) Values(ctx context.Context, r *region.Region) ([]viewlet.Provider, error) {
	all := m.deps.Registry.LookupAll(m.scope, r.Name())
	out := all[:0]
	for _, p := range all {
		if !m.deps.Gate.CanAccess(ctx, p, viewlet.OpRender) {
			m.deps.Observer.Excluded(r.Name())
			m.log.Debug("viewlet excluded",
				zap.String("region", r.Name()),
				zap.String("viewlet", viewlet.NameOf(p)),
			)
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Weight() < out[j].Weight() })
	m.deps.Observer.Lookup("values", "ok")
	return out, nil
}

func (m *Default) Item(ctx context.Context, name string, r *region.Region) (viewlet.Provider, error) {
	p, ok := m.deps.Registry.Lookup(m.scope, r.Name(), name)
	if !ok {
		m.deps.Observer.Lookup("item", "not_found")
		return nil, &LookupError{Name: name, Region: r.Name()}
	}
	if !m.deps.Gate.CanAccess(ctx, p, viewlet.OpRender) {
		m.deps.Observer.Lookup("item", "unauthorized")
		m.log.Debug("viewlet unauthorized",
			zap.String("region", r.Name()),
			zap.String("viewlet", name),
		)
		return nil, &UnauthorizedError{Name: name, Region: r.Name()}
	}
	m.deps.Observer.Lookup("item", "ok")
	return p, nil
}
