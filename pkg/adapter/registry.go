package adapter

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/joeydtaylor/steeze-viewlet/pkg/viewlet"
	"go.uber.org/zap"
)

// Factory constructs a fresh provider for one scope.
type Factory func(viewlet.Scope) viewlet.Provider

// Capability is what a factory's product can do, decided at registration.
type Capability int

const (
	Renderable Capability = iota
	UpdatableCap
)

var updatableType = reflect.TypeFor[viewlet.Updatable]()

// CapabilityOf reports the capability of the concrete provider type T.
func CapabilityOf[T viewlet.Provider]() Capability {
	if reflect.TypeFor[T]().Implements(updatableType) {
		return UpdatableCap
	}
	return Renderable
}

// Registration is the key a provider factory is filed under.
type Registration struct {
	For    TypeKey // context key
	Layer  TypeKey // request key
	View   TypeKey // view key
	Region string
	Name   string
}

func (r Registration) keys() [3]TypeKey { return [3]TypeKey{r.For, r.Layer, r.View} }

// Registry files provider factories by region. It is written at startup and
// read concurrently afterwards.
type Registry struct {
	providers  Table[Factory]
	discipline viewlet.Discipline
	log        *zap.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithDiscipline sets the provider discipline enforced at registration.
func WithDiscipline(d viewlet.Discipline) Option { return func(r *Registry) { r.discipline = d } }

// WithLogger sets the registry logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.log = l
		}
	}
}

// NewRegistry returns an empty registry (Collapsed discipline by default).
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{log: zap.NewNop()}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Discipline reports the discipline in force.
func (r *Registry) Discipline() viewlet.Discipline { return r.discipline }

// Register files a typed constructor. The Updatable capability of T is
// checked here, once.
func Register[T viewlet.Provider](r *Registry, reg Registration, fn func(viewlet.Scope) T) error {
	if fn == nil {
		return fmt.Errorf("adapter: nil factory for %s/%q", reg.Region, reg.Name)
	}
	return r.RegisterFactory(reg, CapabilityOf[T](), FactoryOf(fn))
}

// FactoryOf adapts a typed constructor to a Factory. A nil product, typed or
// not, comes back as an untyped nil so lookups treat it as a miss.
func FactoryOf[T viewlet.Provider](fn func(viewlet.Scope) T) Factory {
	return func(s viewlet.Scope) viewlet.Provider {
		p := fn(s)
		if isNil(p) {
			return nil
		}
		return p
	}
}

func isNil(p any) bool {
	if p == nil {
		return true
	}
	switch v := reflect.ValueOf(p); v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return v.IsNil()
	}
	return false
}

// MustRegister is Register that panics on error.
func MustRegister[T viewlet.Provider](r *Registry, reg Registration, fn func(viewlet.Scope) T) {
	if err := Register(r, reg, fn); err != nil {
		panic(err)
	}
}

// RegisterFactory files an untyped factory whose capability the caller has
// already established.
func (r *Registry) RegisterFactory(reg Registration, c Capability, f Factory) error {
	if strings.TrimSpace(reg.Region) == "" || strings.TrimSpace(reg.Name) == "" {
		return fmt.Errorf("adapter: region and name required")
	}
	if f == nil {
		return fmt.Errorf("adapter: nil factory for %s/%q", reg.Region, reg.Name)
	}
	if r.discipline == viewlet.TwoPhase && c != UpdatableCap {
		return fmt.Errorf("adapter: %s/%q: two-phase discipline requires an updatable provider", reg.Region, reg.Name)
	}
	if err := r.providers.Add(reg.keys(), reg.Region, reg.Name, f); err != nil {
		return err
	}
	r.log.Debug("viewlet registered",
		zap.String("region", reg.Region),
		zap.String("name", reg.Name),
		zap.String("for", string(normalize(reg.For))),
		zap.String("layer", string(normalize(reg.Layer))),
		zap.String("view", string(normalize(reg.View))),
	)
	return nil
}

// Freeze ends the registration phase.
func (r *Registry) Freeze() { r.providers.Freeze() }

// Lookup constructs the provider registered under name for s and region.
func (r *Registry) Lookup(s viewlet.Scope, region, name string) (viewlet.Provider, bool) {
	m, ok := r.providers.Lookup(For(s.Context, s.Request, s.View), region, name)
	if !ok {
		return nil, false
	}
	s.Name = m.Name
	p := m.Factory(s)
	return p, p != nil
}

// LookupAll constructs every provider registered for s and region, in
// discovery order.
func (r *Registry) LookupAll(s viewlet.Scope, region string) []viewlet.Provider {
	matches := r.providers.LookupAll(For(s.Context, s.Request, s.View), region)
	out := make([]viewlet.Provider, 0, len(matches))
	for _, m := range matches {
		sc := s
		sc.Name = m.Name
		if p := m.Factory(sc); p != nil {
			out = append(out, p)
		}
	}
	return out
}
