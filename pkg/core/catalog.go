// Package core turns a manifest into live registries and serves pages whose
// templates pull content from them.
package core

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"sync"

	"github.com/joeydtaylor/steeze-viewlet/pkg/adapter"
	"github.com/joeydtaylor/steeze-viewlet/pkg/viewlet"
)

// Attribute is an alternate render method of a class, selected by a
// directive's attribute key.
type Attribute func(ctx context.Context, p viewlet.Provider) (string, error)

// Class is a Go provider type made available to manifests by name.
type Class struct {
	Name  string
	New   adapter.Factory
	Cap   adapter.Capability
	Attrs map[string]Attribute
}

// ContextResolver builds the page context object for a request. Params are
// the route's URL parameters.
type ContextResolver func(r *http.Request, params map[string]string) (any, error)

// Catalog holds the Go-side pieces a manifest refers to by name: provider
// classes and page context resolvers.
type Catalog struct {
	mu       sync.RWMutex
	classes  map[string]Class
	contexts map[string]ContextResolver
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		classes:  map[string]Class{},
		contexts: map[string]ContextResolver{},
	}
}

// RegisterClass makes fn available as class name. attrs are optional
// alternate render methods on T.
func RegisterClass[T viewlet.Provider](c *Catalog, name string, fn func(viewlet.Scope) T, attrs map[string]func(T, context.Context) (string, error)) error {
	if name == "" || fn == nil {
		return fmt.Errorf("class name and constructor required")
	}
	cls := Class{
		Name:  name,
		New:   adapter.FactoryOf(fn),
		Cap:   adapter.CapabilityOf[T](),
		Attrs: make(map[string]Attribute, len(attrs)),
	}
	for k, m := range attrs {
		if m == nil {
			return fmt.Errorf("class %q: nil attribute %q", name, k)
		}
		cls.Attrs[k] = func(ctx context.Context, p viewlet.Provider) (string, error) {
			t, ok := p.(T)
			if !ok {
				return "", fmt.Errorf("class %q: attribute %q on %T", name, k, p)
			}
			return m(t, ctx)
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, dup := c.classes[name]; dup {
		return fmt.Errorf("class %q already registered", name)
	}
	c.classes[name] = cls
	return nil
}

// MustRegisterClass is RegisterClass that panics on error.
func MustRegisterClass[T viewlet.Provider](c *Catalog, name string, fn func(viewlet.Scope) T, attrs map[string]func(T, context.Context) (string, error)) {
	if err := RegisterClass(c, name, fn, attrs); err != nil {
		panic(err)
	}
}

// Class looks up a registered class.
func (c *Catalog) Class(name string) (Class, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cls, ok := c.classes[name]
	return cls, ok
}

// Classes lists the registered class names, sorted.
func (c *Catalog) Classes() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.classes))
	for k := range c.classes {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// RegisterContext makes a page context resolver available under name.
func (c *Catalog) RegisterContext(name string, fn ContextResolver) error {
	if name == "" || fn == nil {
		return fmt.Errorf("context name and resolver required")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, dup := c.contexts[name]; dup {
		return fmt.Errorf("context %q already registered", name)
	}
	c.contexts[name] = fn
	return nil
}

// Context looks up a registered context resolver.
func (c *Catalog) Context(name string) (ContextResolver, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	fn, ok := c.contexts[name]
	return fn, ok
}
