package viewlet

import "context"

// RenderFunc produces content for a Func provider.
type RenderFunc func(ctx context.Context, v *Func) (string, error)

// Func adapts a RenderFunc to the two-phase provider contract.
type Func struct {
	Base
	fn RenderFunc
}

// NewFunc returns a Func provider.
func NewFunc(s Scope, weight int, fn RenderFunc) *Func {
	return &Func{Base: NewBase(s, weight), fn: fn}
}

func (f *Func) Render(ctx context.Context) (string, error) {
	if err := f.BeginRender(); err != nil {
		return "", err
	}
	if f.fn == nil {
		return "", nil
	}
	return f.fn(ctx, f)
}

// Static returns a factory-friendly constructor for providers that always
// render the same content.
func Static(weight int, content string) func(Scope) *Func {
	return func(s Scope) *Func {
		return NewFunc(s, weight, func(context.Context, *Func) (string, error) { return content, nil })
	}
}
