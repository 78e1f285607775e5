package core

import (
	"context"

	"github.com/joeydtaylor/steeze-viewlet/pkg/expr"
	"github.com/joeydtaylor/steeze-viewlet/pkg/region"
	"github.com/joeydtaylor/steeze-viewlet/pkg/viewlet"
)

type weighted interface{ SetWeight(int) }

type guarded interface {
	SetPermission(viewlet.Permission)
}

// directed carries a directive's weight, guard and attribute for class
// instances that cannot hold them themselves. Field data is passed through
// to the instance.
type directed struct {
	inner  viewlet.Provider
	name   string
	weight int
	perm   viewlet.Permission
	attr   Attribute
}

func (d *directed) Weight() int                    { return d.weight }
func (d *directed) View() any                      { return d.inner.View() }
func (d *directed) Name() string                   { return d.name }
func (d *directed) Permission() viewlet.Permission { return d.perm }
func (d *directed) Unwrap() viewlet.Provider       { return d.inner }

func (d *directed) Update(ctx context.Context, f viewlet.Fields) error {
	return viewlet.Deliver(ctx, d.inner, f)
}

func (d *directed) DeclaredFields() []region.Field {
	if fd, ok := d.inner.(expr.FieldDeclarer); ok {
		return fd.DeclaredFields()
	}
	return nil
}

func (d *directed) Render(ctx context.Context) (string, error) {
	if d.attr != nil {
		return d.attr(ctx, d.inner)
	}
	return d.inner.Render(ctx)
}

// direct applies weight and guard to p, wrapping it only when it cannot take
// them or when an attribute replaces its Render.
func direct(p viewlet.Provider, name string, weight int, perm viewlet.Permission, attr Attribute) viewlet.Provider {
	w, okW := p.(weighted)
	g, okG := p.(guarded)
	if attr == nil && okW && okG {
		w.SetWeight(weight)
		g.SetPermission(perm)
		return p
	}
	return &directed{inner: p, name: name, weight: weight, perm: perm, attr: attr}
}
