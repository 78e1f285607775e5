package viewlet

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
)

// TemplateData is what a Template provider exposes to its template.
type TemplateData struct {
	Context any
	Request any
	View    any
	Name    string
	Fields  Fields
	Viewlet Provider // the wrapped class instance, nil for template-only viewlets
}

// Template renders an html/template. When Inner is set (class + template
// registrations) field data is delivered to it as well and it is exposed to
// the template as .Viewlet.
type Template struct {
	Base
	tmpl  *template.Template
	inner Provider
}

// NewTemplate returns a template-backed provider.
func NewTemplate(s Scope, weight int, tmpl *template.Template, inner Provider) *Template {
	return &Template{Base: NewBase(s, weight), tmpl: tmpl, inner: inner}
}

func (t *Template) Update(ctx context.Context, f Fields) error {
	if err := t.Base.Update(ctx, f); err != nil {
		return err
	}
	if t.inner != nil {
		return Deliver(ctx, t.inner, f)
	}
	return nil
}

func (t *Template) Render(ctx context.Context) (string, error) {
	if err := t.BeginRender(); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	data := TemplateData{
		Context: t.Context(),
		Request: t.Request(),
		View:    t.View(),
		Name:    t.Name(),
		Fields:  t.Fields(),
		Viewlet: t.inner,
	}
	if err := t.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("viewlet %q: template: %w", t.Name(), err)
	}
	return buf.String(), nil
}
