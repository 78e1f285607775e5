package expr

import (
	"context"
	"fmt"

	"github.com/joeydtaylor/steeze-viewlet/pkg/region"
	"github.com/joeydtaylor/steeze-viewlet/pkg/viewlet"
)

// FieldDeclarer is implemented by providers that declare field-data
// specifications of their own, on top of their region's.
type FieldDeclarer interface {
	DeclaredFields() []region.Field
}

// Fields collects the field data for p: every field declared by r (and by p
// itself) takes the value bound in vars, or its declared default.
func Fields(p viewlet.Provider, r *region.Region, vars Context) viewlet.Fields {
	out := viewlet.Fields{}
	collect := func(specs []region.Field) {
		for _, f := range specs {
			if vars != nil {
				if v, ok := vars.Var(f.Name); ok {
					out[f.Name] = v
					continue
				}
			}
			out[f.Name] = f.Default
		}
	}
	if r != nil {
		collect(r.Fields())
	}
	if d, ok := p.(FieldDeclarer); ok {
		collect(d.DeclaredFields())
	}
	return out
}

// Inject copies template-declared data onto a resolved provider before it is
// rendered. Providers are built by the adapter registry without knowing the
// region's schema, so this is the one path by which template variables reach
// a provider: Update for two-phase providers, SetFields for single-call ones.
// It must run exactly once per provider per render.
func Inject(ctx context.Context, p viewlet.Provider, r *region.Region, vars Context, d viewlet.Discipline) error {
	fields := Fields(p, r, vars)
	if d == viewlet.TwoPhase {
		u, ok := p.(viewlet.Updatable)
		if !ok {
			return fmt.Errorf("expr: viewlet %q is not updatable", viewlet.NameOf(p))
		}
		return u.Update(ctx, fields)
	}
	return viewlet.Deliver(ctx, p, fields)
}
