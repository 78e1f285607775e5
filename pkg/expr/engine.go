package expr

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joeydtaylor/steeze-viewlet/pkg/manager"
	"github.com/joeydtaylor/steeze-viewlet/pkg/region"
	"github.com/joeydtaylor/steeze-viewlet/pkg/viewlet"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// ErrUnbound is returned when an expression parsed without an Engine is
// evaluated.
var ErrUnbound = errors.New("expr: expression not bound to an engine")

// DefaultCompileTTL bounds how long an expression compiled at render time
// stays memoized. Expressions found by Precompile never expire.
const DefaultCompileTTL = 10 * time.Minute

// Kind identifies an expression type.
type Kind int

const (
	KindProvider Kind = iota
	KindProviders
	KindContent
)

// Default prefix keywords.
var defaultPrefixes = map[string]Kind{
	"provider":  KindProvider,
	"providers": KindProviders,
	"content":   KindContent,
}

// Expression is a compiled, prefix-dispatched expression.
type Expression interface {
	Text() string
	Evaluate(ctx context.Context, ec Context) (any, error)
}

// RenderObserver is told how long provider renders take.
type RenderObserver interface {
	Rendered(op string, d time.Duration)
}

type nopRenderObserver struct{}

func (nopRenderObserver) Rendered(string, time.Duration) {}

// Engine binds expressions to the region registry and manager source.
type Engine struct {
	regions    *region.Registry
	managers   *manager.Managers
	discipline viewlet.Discipline
	prefixes   map[string]Kind
	log        *zap.Logger
	obs        RenderObserver
	compiled   *gocache.Cache
}

// Option configures an Engine.
type Option func(*Engine)

// WithDiscipline selects how providers are driven (Collapsed by default).
func WithDiscipline(d viewlet.Discipline) Option { return func(e *Engine) { e.discipline = d } }

// WithLogger sets the engine logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithRenderObserver records render timings.
func WithRenderObserver(o RenderObserver) Option {
	return func(e *Engine) {
		if o != nil {
			e.obs = o
		}
	}
}

// WithCompileTTL sets how long render-time compiled expressions are kept.
func WithCompileTTL(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.compiled = gocache.New(d, cleanupInterval(d))
		}
	}
}

func cleanupInterval(ttl time.Duration) time.Duration {
	if ttl < time.Minute {
		return ttl
	}
	return time.Minute
}

// WithPrefix registers keyword as the prefix for kind, replacing the
// default keyword of that kind.
func WithPrefix(kind Kind, keyword string) Option {
	return func(e *Engine) {
		for k, v := range e.prefixes {
			if v == kind {
				delete(e.prefixes, k)
			}
		}
		e.prefixes[keyword] = kind
	}
}

// NewEngine returns an engine over regions and managers.
func NewEngine(regions *region.Registry, managers *manager.Managers, opts ...Option) *Engine {
	e := &Engine{
		regions:  regions,
		managers: managers,
		prefixes: make(map[string]Kind, len(defaultPrefixes)),
		log:      zap.NewNop(),
		obs:      nopRenderObserver{},
		compiled: gocache.New(DefaultCompileTTL, cleanupInterval(DefaultCompileTTL)),
	}
	for k, v := range defaultPrefixes {
		e.prefixes[k] = v
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Discipline reports the discipline in force.
func (e *Engine) Discipline() viewlet.Discipline { return e.discipline }

// Keyword returns the prefix keyword registered for kind.
func (e *Engine) Keyword(kind Kind) string {
	for k, v := range e.prefixes {
		if v == kind {
			return k
		}
	}
	return ""
}

// Compile parses "prefix:body". Results are memoized by text for the
// compile TTL.
func (e *Engine) Compile(text string) (Expression, error) {
	if x, ok := e.compiled.Get(text); ok {
		return x.(Expression), nil
	}
	x, err := e.parse(text)
	if err != nil {
		return nil, err
	}
	e.compiled.Set(text, x, gocache.DefaultExpiration)
	return x, nil
}

// pin compiles text and keeps it for the life of the engine.
func (e *Engine) pin(text string) error {
	x, err := e.parse(text)
	if err != nil {
		return err
	}
	e.compiled.Set(text, x, gocache.NoExpiration)
	return nil
}

func (e *Engine) parse(text string) (Expression, error) {
	prefix, body, ok := strings.Cut(strings.TrimSpace(text), ":")
	if !ok {
		return nil, &SyntaxError{Expr: text, Reason: "missing expression type prefix"}
	}
	kind, ok := e.prefixes[strings.TrimSpace(prefix)]
	if !ok {
		return nil, &SyntaxError{Expr: text, Reason: fmt.Sprintf("unknown expression type %q", prefix)}
	}
	var (
		x   Expression
		err error
	)
	switch kind {
	case KindProvider:
		x, err = e.ParseProvider(body)
	case KindProviders:
		x, err = e.ParseProviders(body)
	case KindContent:
		x, err = e.ParseContent(body)
	}
	if err != nil {
		return nil, err
	}
	return x, nil
}

// ParseProvider parses and binds a "region/name" expression.
func (e *Engine) ParseProvider(text string) (*ProviderExpr, error) {
	x, err := ParseProvider(text)
	if err != nil {
		return nil, err
	}
	x.eng = e
	return x, nil
}

// ParseProviders parses and binds a bare region expression.
func (e *Engine) ParseProviders(text string) (*ProvidersExpr, error) {
	x, err := ParseProviders(text)
	if err != nil {
		return nil, err
	}
	x.eng = e
	return x, nil
}

// ParseContent parses and binds a global content-provider name.
func (e *Engine) ParseContent(text string) (*ContentExpr, error) {
	x, err := ParseContent(text)
	if err != nil {
		return nil, err
	}
	x.eng = e
	return x, nil
}

// resolve runs the shared front half of every evaluation: scope, region and
// manager.
func (e *Engine) resolve(ec Context, regionName string) (viewlet.Scope, *region.Region, manager.Manager, error) {
	scope, err := scopeOf(ec)
	if err != nil {
		return viewlet.Scope{}, nil, nil, err
	}
	r, err := e.regions.Resolve(regionName)
	if err != nil {
		return viewlet.Scope{}, nil, nil, err
	}
	return scope, r, e.managers.For(scope), nil
}

// Render renders an already injected provider and records the duration.
func (e *Engine) Render(ctx context.Context, p viewlet.Provider) (string, error) {
	start := time.Now()
	out, err := p.Render(ctx)
	e.obs.Rendered("render", time.Since(start))
	return out, err
}

// renderOne injects fields into p and renders it.
func (e *Engine) renderOne(ctx context.Context, op string, p viewlet.Provider, r *region.Region, ec Context) (string, error) {
	if err := Inject(ctx, p, r, ec, e.discipline); err != nil {
		return "", err
	}
	start := time.Now()
	out, err := p.Render(ctx)
	e.obs.Rendered(op, time.Since(start))
	if err != nil {
		e.log.Debug("viewlet render failed",
			zap.String("region", r.Name()),
			zap.String("viewlet", viewlet.NameOf(p)),
			zap.Error(err),
		)
		return "", err
	}
	return out, nil
}
