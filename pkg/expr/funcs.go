package expr

import (
	"context"
	"errors"
	"html/template"
	"text/template/parse"

	"github.com/joeydtaylor/steeze-viewlet/pkg/viewlet"
)

// FuncMap exposes the engine's expressions to html/template under their
// prefix keywords, plus "render" for looping over providers:
//
//	{{ provider "Main/title" }}
//	{{ range providers "Main" }}{{ render . }}{{ end }}
//	{{ content "footer" }}
//
// Output is returned as template.HTML: providers produce markup and the
// expression layer does not transform it. A template parsed with
// FuncMap(context.Background(), nil) can be cloned and rebound per render.
func (e *Engine) FuncMap(ctx context.Context, ec Context) template.FuncMap {
	fm := template.FuncMap{
		"render": func(p viewlet.Provider) (template.HTML, error) {
			out, err := e.Render(ctx, p)
			return template.HTML(out), err
		},
	}
	for kw, kind := range e.prefixes {
		switch kind {
		case KindProvider:
			fm[kw] = func(text string) (template.HTML, error) {
				x, err := e.Compile(kw + ":" + text)
				if err != nil {
					return "", err
				}
				out, err := x.(*ProviderExpr).Eval(ctx, ec)
				return template.HTML(out), err
			}
		case KindProviders:
			fm[kw] = func(text string) ([]viewlet.Provider, error) {
				x, err := e.Compile(kw + ":" + text)
				if err != nil {
					return nil, err
				}
				return x.(*ProvidersExpr).Eval(ctx, ec)
			}
		case KindContent:
			fm[kw] = func(text string) (template.HTML, error) {
				x, err := e.Compile(kw + ":" + text)
				if err != nil {
					return "", err
				}
				out, err := x.(*ContentExpr).Eval(ctx, ec)
				return template.HTML(out), err
			}
		}
	}
	return fm
}

// Precompile walks a parsed template and compiles every literal expression
// passed to the engine's functions, so malformed expressions fail when the
// template is loaded rather than when a page is served.
func (e *Engine) Precompile(t *template.Template) error {
	var errs []error
	for _, tt := range t.Templates() {
		if tt.Tree == nil || tt.Tree.Root == nil {
			continue
		}
		e.walk(tt.Tree.Root, &errs)
	}
	return errors.Join(errs...)
}

func (e *Engine) precompile(keyword, text string, errs *[]error) {
	if err := e.pin(keyword + ":" + text); err != nil {
		*errs = append(*errs, err)
	}
}

func (e *Engine) walk(n parse.Node, errs *[]error) {
	switch n := n.(type) {
	case *parse.ListNode:
		if n == nil {
			return
		}
		for _, c := range n.Nodes {
			e.walk(c, errs)
		}
	case *parse.ActionNode:
		e.walk(n.Pipe, errs)
	case *parse.PipeNode:
		if n == nil {
			return
		}
		for i, c := range n.Cmds {
			e.walk(c, errs)
			// {{ "Main/x" | provider }}: the literal is the previous command.
			if i == 0 || len(c.Args) != 1 {
				continue
			}
			id, ok := c.Args[0].(*parse.IdentifierNode)
			if !ok {
				continue
			}
			if _, known := e.prefixes[id.Ident]; !known {
				continue
			}
			prev := n.Cmds[i-1]
			if len(prev.Args) != 1 {
				continue
			}
			if s, ok := prev.Args[0].(*parse.StringNode); ok {
				e.precompile(id.Ident, s.Text, errs)
			}
		}
	case *parse.CommandNode:
		for i, a := range n.Args {
			id, ok := a.(*parse.IdentifierNode)
			if !ok {
				e.walk(a, errs)
				continue
			}
			if _, known := e.prefixes[id.Ident]; !known || i+1 >= len(n.Args) {
				continue
			}
			if s, ok := n.Args[i+1].(*parse.StringNode); ok {
				e.precompile(id.Ident, s.Text, errs)
			}
		}
	case *parse.IfNode:
		e.walk(n.Pipe, errs)
		e.walk(n.List, errs)
		e.walk(n.ElseList, errs)
	case *parse.RangeNode:
		e.walk(n.Pipe, errs)
		e.walk(n.List, errs)
		e.walk(n.ElseList, errs)
	case *parse.WithNode:
		e.walk(n.Pipe, errs)
		e.walk(n.List, errs)
		e.walk(n.ElseList, errs)
	case *parse.TemplateNode:
		e.walk(n.Pipe, errs)
	}
}
