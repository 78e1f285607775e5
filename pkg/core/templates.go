package core

import (
	"context"
	"fmt"
	"html/template"
	"path/filepath"
	"time"

	"github.com/joeydtaylor/steeze-viewlet/pkg/expr"
	manifest "github.com/joeydtaylor/steeze-viewlet/pkg/manifest"
	gocache "github.com/patrickmn/go-cache"
)

// DefaultTemplateTTL is how long a parsed page template is served before the
// file is parsed again.
const DefaultTemplateTTL = 5 * time.Minute

// PageTemplates parses page templates against an engine's function map and
// caches the result. Cached templates are never executed directly; every
// render works on a clone bound to its own evaluation context.
type PageTemplates struct {
	eng   *expr.Engine
	dir   string
	ttl   time.Duration
	cache *gocache.Cache
}

// NewPageTemplates returns a cache resolving relative paths against dir.
// ttl <= 0 keeps templates until the process exits.
func NewPageTemplates(eng *expr.Engine, dir string, ttl time.Duration) *PageTemplates {
	exp := ttl
	if ttl <= 0 {
		exp = gocache.NoExpiration
	}
	return &PageTemplates{eng: eng, dir: dir, ttl: exp, cache: gocache.New(exp, 10*time.Minute)}
}

// Load returns the parsed template for p, parsing and precompiling its
// expressions on a cache miss.
func (pt *PageTemplates) Load(p manifest.Page) (*template.Template, error) {
	path := manifest.ResolvePath(pt.dir, p.Template)
	if t, ok := pt.cache.Get(path); ok {
		return t.(*template.Template), nil
	}
	t, err := template.New(filepath.Base(path)).
		Funcs(pt.eng.FuncMap(context.Background(), nil)).
		ParseFiles(path)
	if err != nil {
		return nil, err
	}
	if err := pt.eng.Precompile(t); err != nil {
		return nil, fmt.Errorf("template %s: %w", p.Template, err)
	}
	pt.cache.Set(path, t, pt.ttl)
	return t, nil
}

// Flush drops every cached template.
func (pt *PageTemplates) Flush() { pt.cache.Flush() }
