// Package viewlet defines content providers: render-capable components bound
// to one region and scoped to a (context, request, view) triple.
package viewlet

import (
	"context"
	"fmt"
)

// OpRender is the operation name checked by the authorization gate before a
// provider is handed to a template.
const OpRender = "render"

// Scope is the selection context a provider is constructed for. Name is the
// name the provider was registered under.
type Scope struct {
	Context any
	Request any
	View    any
	Name    string
}

// Provider is the minimal content provider contract.
type Provider interface {
	Weight() int
	View() any
	Render(ctx context.Context) (string, error)
}

// Updatable providers follow the two-phase protocol: Update exactly once with
// the region's field data, then Render.
type Updatable interface {
	Provider
	Update(ctx context.Context, fields Fields) error
}

// FieldReceiver is implemented by single-call providers that still want the
// region's field data.
type FieldReceiver interface {
	SetFields(fields Fields)
}

// Named is implemented by providers that know their registration name.
type Named interface {
	Name() string
}

// Fields is the field-data bag copied from template variables onto a provider.
type Fields map[string]any

// Get returns the value for name or nil.
func (f Fields) Get(name string) any { return f[name] }

// String returns the value for name formatted as a string ("" when absent).
func (f Fields) String(name string) string {
	v, ok := f[name]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Discipline selects how the expression layer drives providers.
type Discipline int

const (
	// Collapsed delivers field data and renders in a single step; providers
	// only need to implement Provider.
	Collapsed Discipline = iota
	// TwoPhase requires every registered provider to be Updatable.
	TwoPhase
)

func (d Discipline) String() string {
	switch d {
	case Collapsed:
		return "collapsed"
	case TwoPhase:
		return "two-phase"
	default:
		return "unknown"
	}
}

// ParseDiscipline maps "collapsed" / "two-phase" to a Discipline.
func ParseDiscipline(s string) (Discipline, error) {
	switch s {
	case "", "collapsed":
		return Collapsed, nil
	case "two-phase", "twophase", "strict":
		return TwoPhase, nil
	}
	return Collapsed, fmt.Errorf("viewlet: unknown discipline %q", s)
}

// Deliver hands field data to p: Update for Updatable providers, SetFields
// for FieldReceivers. Providers with neither ignore the data.
func Deliver(ctx context.Context, p Provider, fields Fields) error {
	switch x := p.(type) {
	case Updatable:
		return x.Update(ctx, fields)
	case FieldReceiver:
		x.SetFields(fields)
	}
	return nil
}

// Call delivers fields and renders p in one step.
func Call(ctx context.Context, p Provider, fields Fields) (string, error) {
	if err := Deliver(ctx, p, fields); err != nil {
		return "", err
	}
	return p.Render(ctx)
}

// NameOf returns p's registration name, if it knows it.
func NameOf(p Provider) string {
	if n, ok := p.(Named); ok {
		return n.Name()
	}
	return ""
}
