package manifest

import (
	"errors"
	"fmt"
	"os"
	"path"
	"strings"
)

// Page maps a route to a page template whose expressions pull in viewlets.
type Page struct {
	Path     string         `toml:"path" yaml:"path"`
	Template string         `toml:"template" yaml:"template"`
	View     string         `toml:"view" yaml:"view"`       // view key viewlets register against
	Layer    string         `toml:"layer" yaml:"layer"`     // request key
	Context  string         `toml:"context" yaml:"context"` // registered context resolver, "" = resource
	Guard    Guard          `toml:"guard" yaml:"guard"`
	Timeout  int            `toml:"timeout_ms" yaml:"timeout_ms"`
	Vars     map[string]any `toml:"vars" yaml:"vars"` // template variables, visible to field injection
}

func (p *Page) normalize() error {
	p.Path = strings.TrimSpace(p.Path)
	if p.Path == "" {
		return errors.New("path is required")
	}
	if !strings.HasPrefix(p.Path, "/") {
		p.Path = "/" + p.Path
	}
	if p.Path != "/" {
		p.Path = path.Clean(p.Path)
	}
	p.Template = strings.TrimSpace(p.Template)
	p.View = strings.TrimSpace(p.View)
	p.Layer = strings.TrimSpace(p.Layer)
	p.Context = strings.TrimSpace(p.Context)
	return nil
}

func (p *Page) validate(dir string) error {
	if p.Template == "" {
		return errors.New("template is required")
	}
	if _, err := os.Stat(ResolvePath(dir, p.Template)); err != nil {
		return fmt.Errorf("no such template file %q", p.Template)
	}
	if p.View == "" {
		return errors.New("view is required")
	}
	if p.Timeout < 0 {
		return errors.New("timeout_ms must not be negative")
	}
	for _, reserved := range []string{"context", "request", "view"} {
		if _, ok := p.Vars[reserved]; ok {
			return fmt.Errorf("vars.%s is reserved", reserved)
		}
	}
	return nil
}

func (c *Config) validatePages() error {
	seen := map[string]struct{}{}
	for i := range c.Pages {
		p := &c.Pages[i]
		if err := p.normalize(); err != nil {
			return &ConfigError{Directive: "page", Index: i, Err: err}
		}
		if err := p.validate(c.Dir); err != nil {
			return &ConfigError{Directive: "page", Index: i, Name: p.Path, Err: err}
		}
		if _, dup := seen[p.Path]; dup {
			return &ConfigError{Directive: "page", Index: i, Name: p.Path, Err: errors.New("duplicate path")}
		}
		seen[p.Path] = struct{}{}
	}
	return nil
}
