package manager

import (
	"github.com/joeydtaylor/steeze-viewlet/pkg/adapter"
	"github.com/joeydtaylor/steeze-viewlet/pkg/viewlet"
)

// Factory builds a custom manager for a scope.
type Factory func(scope viewlet.Scope, d Deps) Manager

// table region for manager registrations
const managerSlot = "__manager__"

// Managers holds custom manager registrations keyed like providers (context,
// request, view) and falls back to Default.
type Managers struct {
	table adapter.Table[Factory]
	deps  Deps
}

// NewManagers returns a manager source over d.
func NewManagers(d Deps) *Managers {
	return &Managers{deps: d.withDefaults()}
}

// Deps returns the collaborators handed to every manager.
func (m *Managers) Deps() Deps { return m.deps }

// Register files a custom manager factory for the key triple.
func (m *Managers) Register(forKey, layer, view adapter.TypeKey, f Factory) error {
	return m.table.Add([3]adapter.TypeKey{forKey, layer, view}, managerSlot, "", f)
}

// Freeze ends the registration phase.
func (m *Managers) Freeze() { m.table.Freeze() }

// For returns the most specific custom manager for scope, or a Default.
func (m *Managers) For(scope viewlet.Scope) Manager {
	d := adapter.For(scope.Context, scope.Request, scope.View)
	if match, ok := m.table.Lookup(d, managerSlot, ""); ok {
		if mgr := match.Factory(scope, m.deps); mgr != nil {
			return mgr
		}
	}
	return NewDefault(scope, m.deps)
}
