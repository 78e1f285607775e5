package expr

import (
	"context"

	"github.com/joeydtaylor/steeze-viewlet/pkg/region"
	"github.com/joeydtaylor/steeze-viewlet/pkg/viewlet"
)

// ProviderExpr renders one named provider: "region/name".
type ProviderExpr struct {
	text   string
	region string
	name   string
	eng    *Engine
}

// ParseProvider validates "region/name". Exactly one '/' is required.
func ParseProvider(text string) (*ProviderExpr, error) {
	r, n, err := splitProvider(text)
	if err != nil {
		return nil, err
	}
	return &ProviderExpr{text: text, region: r, name: n}, nil
}

func (x *ProviderExpr) Text() string   { return x.text }
func (x *ProviderExpr) Region() string { return x.region }
func (x *ProviderExpr) Name() string   { return x.name }

// Eval resolves, injects and renders the provider. The content is returned
// verbatim.
func (x *ProviderExpr) Eval(ctx context.Context, ec Context) (string, error) {
	if x.eng == nil {
		return "", ErrUnbound
	}
	_, r, mgr, err := x.eng.resolve(ec, x.region)
	if err != nil {
		return "", err
	}
	p, err := mgr.Item(ctx, x.name, r)
	if err != nil {
		return "", err
	}
	return x.eng.renderOne(ctx, "provider", p, r, ec)
}

func (x *ProviderExpr) Evaluate(ctx context.Context, ec Context) (any, error) {
	return x.Eval(ctx, ec)
}

// ProvidersExpr yields the ordered providers of a region: "region".
type ProvidersExpr struct {
	text   string
	region string
	eng    *Engine
}

// ParseProviders validates a bare region name.
func ParseProviders(text string) (*ProvidersExpr, error) {
	r, err := singleToken(text, "region")
	if err != nil {
		return nil, err
	}
	return &ProvidersExpr{text: text, region: r}, nil
}

func (x *ProvidersExpr) Text() string   { return x.text }
func (x *ProvidersExpr) Region() string { return x.region }

// Eval returns the region's providers, each field-injected but not rendered;
// the caller renders them in order.
func (x *ProvidersExpr) Eval(ctx context.Context, ec Context) ([]viewlet.Provider, error) {
	if x.eng == nil {
		return nil, ErrUnbound
	}
	_, r, mgr, err := x.eng.resolve(ec, x.region)
	if err != nil {
		return nil, err
	}
	ps, err := mgr.Values(ctx, r)
	if err != nil {
		return nil, err
	}
	for _, p := range ps {
		if err := Inject(ctx, p, r, ec, x.eng.discipline); err != nil {
			return nil, err
		}
	}
	return ps, nil
}

func (x *ProvidersExpr) Evaluate(ctx context.Context, ec Context) (any, error) {
	return x.Eval(ctx, ec)
}

// ContentExpr renders a provider registered directly for the scope under a
// global name: "name".
type ContentExpr struct {
	text string
	name string
	eng  *Engine
}

// ParseContent validates a global provider name.
func ParseContent(text string) (*ContentExpr, error) {
	n, err := singleToken(text, "name")
	if err != nil {
		return nil, err
	}
	return &ContentExpr{text: text, name: n}, nil
}

func (x *ContentExpr) Text() string { return x.text }
func (x *ContentExpr) Name() string { return x.name }

func (x *ContentExpr) Eval(ctx context.Context, ec Context) (string, error) {
	if x.eng == nil {
		return "", ErrUnbound
	}
	_, r, mgr, err := x.eng.resolve(ec, region.ContentProviders)
	if err != nil {
		return "", err
	}
	p, err := mgr.Item(ctx, x.name, r)
	if err != nil {
		return "", err
	}
	return x.eng.renderOne(ctx, "content", p, r, ec)
}

func (x *ContentExpr) Evaluate(ctx context.Context, ec Context) (any, error) {
	return x.Eval(ctx, ec)
}
