package expr

import (
	"fmt"

	"github.com/joeydtaylor/steeze-viewlet/pkg/viewlet"
)

// Names of the variables every evaluation context must bind.
const (
	VarContext = "context"
	VarRequest = "request"
	VarView    = "view"
)

// Context is the evaluation context handed in by the template engine.
type Context interface {
	Var(name string) (any, bool)
}

// Vars is a flat Context.
type Vars map[string]any

func (v Vars) Var(name string) (any, bool) {
	x, ok := v[name]
	return x, ok
}

type layered struct {
	local  Vars
	parent Context
}

func (l layered) Var(name string) (any, bool) {
	if x, ok := l.local[name]; ok {
		return x, true
	}
	if l.parent == nil {
		return nil, false
	}
	return l.parent.Var(name)
}

// With returns a Context where local shadows parent.
func With(parent Context, local Vars) Context {
	return layered{local: local, parent: parent}
}

// MissingVarError reports an evaluation context that lacks a required
// binding.
type MissingVarError struct {
	Name string
}

func (e *MissingVarError) Error() string {
	return fmt.Sprintf("expr: evaluation context has no %q variable", e.Name)
}

// scopeOf extracts the (context, request, view) triple from ec.
func scopeOf(ec Context) (viewlet.Scope, error) {
	if ec == nil {
		return viewlet.Scope{}, &MissingVarError{Name: VarContext}
	}
	var s viewlet.Scope
	for _, b := range []struct {
		name string
		dst  *any
	}{
		{VarContext, &s.Context},
		{VarRequest, &s.Request},
		{VarView, &s.View},
	} {
		v, ok := ec.Var(b.name)
		if !ok {
			return viewlet.Scope{}, &MissingVarError{Name: b.name}
		}
		*b.dst = v
	}
	return s, nil
}
