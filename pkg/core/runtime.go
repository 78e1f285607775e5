package core

import (
	"errors"
	"fmt"
	"html/template"
	"path/filepath"
	"time"

	"github.com/joeydtaylor/steeze-viewlet/pkg/adapter"
	"github.com/joeydtaylor/steeze-viewlet/pkg/expr"
	"github.com/joeydtaylor/steeze-viewlet/pkg/manager"
	manifest "github.com/joeydtaylor/steeze-viewlet/pkg/manifest"
	"github.com/joeydtaylor/steeze-viewlet/pkg/region"
	"github.com/joeydtaylor/steeze-viewlet/pkg/security"
	"github.com/joeydtaylor/steeze-viewlet/pkg/viewlet"
	"go.uber.org/zap"
)

// Runtime is the frozen set of registries a manifest was applied to, plus
// the engine and page templates that read them.
type Runtime struct {
	Regions  *region.Registry
	Adapters *adapter.Registry
	Managers *manager.Managers
	Engine   *expr.Engine
	Catalog  *Catalog
	Pages    *PageTemplates
	Log      *zap.Logger
}

// Options are the collaborators of a Runtime. Zero values fall back to a nop
// logger, the permission gate without a principal and no metrics.
type Options struct {
	Gate        security.Gate
	Observer    manager.Observer
	Renders     expr.RenderObserver
	Logger      *zap.Logger
	TemplateTTL time.Duration
}

// NewRuntime builds registries for cfg's discipline, applies cfg and freezes
// everything. A nil catalog is treated as empty.
func NewRuntime(cat *Catalog, cfg manifest.Config, o Options) (*Runtime, error) {
	d, err := viewlet.ParseDiscipline(cfg.Discipline)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		cat = NewCatalog()
	}
	log := o.Logger
	if log == nil {
		log = zap.NewNop()
	}
	regions := region.NewRegistry()
	adapters := adapter.NewRegistry(adapter.WithDiscipline(d), adapter.WithLogger(log))
	managers := manager.NewManagers(manager.Deps{
		Registry: adapters,
		Gate:     o.Gate,
		Logger:   log,
		Observer: o.Observer,
	})
	eng := expr.NewEngine(regions, managers,
		expr.WithDiscipline(d),
		expr.WithLogger(log),
		expr.WithRenderObserver(o.Renders),
	)
	rt := &Runtime{
		Regions:  regions,
		Adapters: adapters,
		Managers: managers,
		Engine:   eng,
		Catalog:  cat,
		Pages:    NewPageTemplates(eng, cfg.Dir, o.TemplateTTL),
		Log:      log,
	}
	if err := rt.Apply(cfg); err != nil {
		return nil, err
	}
	rt.Freeze()
	return rt, nil
}

// Freeze ends the registration phase of every registry.
func (rt *Runtime) Freeze() {
	rt.Regions.Freeze()
	rt.Adapters.Freeze()
	rt.Managers.Freeze()
}

// Apply defines cfg's regions, registers its viewlet directives and loads its
// page templates. cfg must have been validated.
func (rt *Runtime) Apply(cfg manifest.Config) error {
	for i, r := range cfg.Regions {
		fields := make([]region.Field, 0, len(r.Fields))
		for _, f := range r.Fields {
			fields = append(fields, region.Field{Name: f.Name, Default: f.Default})
		}
		reg, err := region.New(r.Name, fields...)
		if err == nil {
			err = rt.Regions.Define(reg)
		}
		if err != nil {
			return &manifest.ConfigError{Directive: "region", Index: i, Name: r.Name, Err: err}
		}
		rt.Log.Info("region defined", zap.String("region", r.Name), zap.Int("fields", len(fields)))
	}

	for i, v := range cfg.Viewlets {
		f, c, err := rt.factory(cfg.Dir, v)
		if err == nil {
			err = rt.Adapters.RegisterFactory(adapter.Registration{
				For:    adapter.TypeKey(v.For),
				Layer:  adapter.TypeKey(v.Layer),
				View:   adapter.TypeKey(v.View),
				Region: v.Region,
				Name:   v.Name,
			}, c, f)
		}
		if err != nil {
			return &manifest.ConfigError{Directive: "viewlet", Index: i, Name: v.Name, Err: err}
		}
		rt.Log.Info("viewlet registered",
			zap.String("region", v.Region),
			zap.String("name", v.Name),
			zap.String("class", v.Class),
			zap.String("template", v.Template),
			zap.Int("weight", v.Weight),
		)
	}

	for i, p := range cfg.Pages {
		if p.Context != "" {
			if _, ok := rt.Catalog.Context(p.Context); !ok {
				return &manifest.ConfigError{Directive: "page", Index: i, Name: p.Path, Err: fmt.Errorf("unknown context %q", p.Context)}
			}
		}
		if _, err := rt.Pages.Load(p); err != nil {
			return &manifest.ConfigError{Directive: "page", Index: i, Name: p.Path, Err: err}
		}
	}
	return nil
}

// factory turns a viewlet directive into an adapter factory and the
// capability of what it builds.
func (rt *Runtime) factory(dir string, v manifest.Viewlet) (adapter.Factory, adapter.Capability, error) {
	perm := viewlet.Permission{
		RequireAuth: v.Guard.RequireAuth,
		Roles:       append([]string(nil), v.Guard.Roles...),
		Users:       append([]string(nil), v.Guard.Users...),
	}
	var cls Class
	if v.Class != "" {
		var ok bool
		if cls, ok = rt.Catalog.Class(v.Class); !ok {
			return nil, 0, fmt.Errorf("unknown class %q", v.Class)
		}
	}
	var attr Attribute
	if v.Attribute != "" {
		var ok bool
		if attr, ok = cls.Attrs[v.Attribute]; !ok {
			return nil, 0, fmt.Errorf("class %q has no attribute %q", v.Class, v.Attribute)
		}
	}

	if v.Template == "" {
		if cls.New == nil {
			return nil, 0, errors.New("must specify a class or template")
		}
		return func(s viewlet.Scope) viewlet.Provider {
			p := cls.New(s)
			if p == nil {
				return nil
			}
			return direct(p, s.Name, v.Weight, perm, attr)
		}, cls.Cap, nil
	}

	path := manifest.ResolvePath(dir, v.Template)
	tmpl, err := template.New(filepath.Base(path)).ParseFiles(path)
	if err != nil {
		return nil, 0, err
	}
	return func(s viewlet.Scope) viewlet.Provider {
		var inner viewlet.Provider
		if cls.New != nil {
			inner = cls.New(s)
		}
		t := viewlet.NewTemplate(s, v.Weight, tmpl, inner)
		t.SetPermission(perm)
		return t
	}, adapter.UpdatableCap, nil
}
