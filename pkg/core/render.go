package core

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/joeydtaylor/steeze-viewlet/pkg/expr"
	manifest "github.com/joeydtaylor/steeze-viewlet/pkg/manifest"
	"github.com/joeydtaylor/steeze-viewlet/pkg/viewlet"
)

// evalContext binds the (context, request, view) triple and the page
// variables. Later maps in vars shadow earlier ones; the triple always wins.
func evalContext(ctxObj any, req *Request, view *PageView, vars ...map[string]any) expr.Vars {
	ec := expr.Vars{}
	for _, m := range vars {
		for k, v := range m {
			ec[k] = v
		}
	}
	ec[expr.VarContext] = ctxObj
	ec[expr.VarRequest] = req
	ec[expr.VarView] = view
	return ec
}

// queryVars flattens the request query, first value per key.
func queryVars(r *http.Request) map[string]any {
	q := r.URL.Query()
	out := make(map[string]any, len(q))
	for k, v := range q {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}

// pageContext resolves the page's context object.
func (rt *Runtime) pageContext(p manifest.Page, r *http.Request, params map[string]string) (any, error) {
	if p.Context == "" {
		return Resource{Path: r.URL.Path, Params: params}, nil
	}
	fn, ok := rt.Catalog.Context(p.Context)
	if !ok {
		return nil, fmt.Errorf("unknown context %q", p.Context)
	}
	return fn(r, params)
}

// RenderPage executes p's template for r. Query values are visible to field
// injection and override the page's declared vars.
func (rt *Runtime) RenderPage(ctx context.Context, p manifest.Page, r *http.Request, params map[string]string) (string, error) {
	t, err := rt.Pages.Load(p)
	if err != nil {
		return "", err
	}
	ctxObj, err := rt.pageContext(p, r, params)
	if err != nil {
		return "", err
	}
	req := &Request{Request: r, Layer: p.Layer}
	view := &PageView{Key: p.View, Path: p.Path, Template: p.Template}
	ec := evalContext(ctxObj, req, view, p.Vars, queryVars(r))

	bound, err := t.Clone()
	if err != nil {
		return "", err
	}
	bound.Funcs(rt.Engine.FuncMap(ctx, ec))

	var buf bytes.Buffer
	if err := bound.Execute(&buf, PageData{Context: ctxObj, Request: req, View: view, Vars: ec}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// FragmentQuery selects what the fragments endpoint renders.
type FragmentQuery struct {
	Region string
	Name   string // single provider when set
	View   string
	Layer  string
	Vars   map[string]any // bound after the query values
}

// Fragments renders the providers of a region (or one of them) for r, in
// manager order.
func (rt *Runtime) Fragments(ctx context.Context, q FragmentQuery, r *http.Request) ([]Fragment, error) {
	req := &Request{Request: r, Layer: q.Layer}
	view := &PageView{Key: q.View, Path: r.URL.Path}
	ec := evalContext(Resource{Path: r.URL.Path}, req, view, queryVars(r), q.Vars)

	if q.Name != "" {
		x, err := rt.Engine.ParseProvider(q.Region + "/" + q.Name)
		if err != nil {
			return nil, err
		}
		reg, err := rt.Regions.Resolve(x.Region())
		if err != nil {
			return nil, err
		}
		scope := viewlet.Scope{Context: ec[expr.VarContext], Request: req, View: view}
		p, err := rt.Managers.For(scope).Item(ctx, x.Name(), reg)
		if err != nil {
			return nil, err
		}
		if err := expr.Inject(ctx, p, reg, ec, rt.Engine.Discipline()); err != nil {
			return nil, err
		}
		html, err := rt.Engine.Render(ctx, p)
		if err != nil {
			return nil, err
		}
		return []Fragment{{Name: x.Name(), Weight: p.Weight(), HTML: html}}, nil
	}

	x, err := rt.Engine.ParseProviders(q.Region)
	if err != nil {
		return nil, err
	}
	ps, err := x.Eval(ctx, ec)
	if err != nil {
		return nil, err
	}
	out := make([]Fragment, 0, len(ps))
	for _, p := range ps {
		html, err := rt.Engine.Render(ctx, p)
		if err != nil {
			return nil, err
		}
		out = append(out, Fragment{Name: viewlet.NameOf(p), Weight: p.Weight(), HTML: html})
	}
	return out, nil
}
