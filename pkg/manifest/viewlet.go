package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Viewlet is the directive that registers one content provider.
type Viewlet struct {
	Name      string `toml:"name" yaml:"name"`
	Region    string `toml:"region" yaml:"region"`
	For       string `toml:"for" yaml:"for"`     // context key, "" = any
	Layer     string `toml:"layer" yaml:"layer"` // request key, "" = any
	View      string `toml:"view" yaml:"view"`   // view key, "" = any
	Class     string `toml:"class" yaml:"class"`
	Template  string `toml:"template" yaml:"template"`
	Attribute string `toml:"attribute" yaml:"attribute"`
	Weight    int    `toml:"weight" yaml:"weight"`
	Guard     Guard  `toml:"guard" yaml:"guard"`
}

func (v *Viewlet) normalize() {
	v.Name = strings.TrimSpace(v.Name)
	v.Region = strings.TrimSpace(v.Region)
	v.For = strings.TrimSpace(v.For)
	v.Layer = strings.TrimSpace(v.Layer)
	v.View = strings.TrimSpace(v.View)
	v.Class = strings.TrimSpace(v.Class)
	v.Template = strings.TrimSpace(v.Template)
	v.Attribute = strings.TrimSpace(v.Attribute)
}

// validate checks the fields that are independent of registered classes.
func (v *Viewlet) validate(dir string) error {
	if v.Name == "" {
		return errors.New("name is required")
	}
	if err := checkName(v.Name); err != nil {
		return err
	}
	if v.Region == "" {
		return errors.New("region is required")
	}
	if v.Class == "" && v.Template == "" {
		return errors.New("must specify a class or template")
	}
	if v.Attribute != "" {
		if v.Template != "" {
			return errors.New("attribute and template cannot be used together")
		}
		if v.Class == "" {
			return errors.New("a class must be provided if attribute is used")
		}
	}
	if v.Template != "" {
		if _, err := os.Stat(ResolvePath(dir, v.Template)); err != nil {
			return fmt.Errorf("no such template file %q", v.Template)
		}
	}
	return nil
}

func (c *Config) validateViewlets() error {
	type key struct{ region, name, f, l, v string }
	seen := map[key]struct{}{}
	for i := range c.Viewlets {
		v := &c.Viewlets[i]
		v.normalize()
		if err := v.validate(c.Dir); err != nil {
			return &ConfigError{Directive: "viewlet", Index: i, Name: v.Name, Err: err}
		}
		if !c.hasRegion(v.Region) {
			return &ConfigError{Directive: "viewlet", Index: i, Name: v.Name, Err: fmt.Errorf("region %q is not declared", v.Region)}
		}
		k := key{v.Region, v.Name, v.For, v.Layer, v.View}
		if _, dup := seen[k]; dup {
			return &ConfigError{Directive: "viewlet", Index: i, Name: v.Name, Err: errors.New("conflicting registration")}
		}
		seen[k] = struct{}{}
	}
	return nil
}

// ResolvePath joins a relative path onto the manifest directory.
func ResolvePath(dir, p string) string {
	if p == "" || filepath.IsAbs(p) || dir == "" {
		return p
	}
	return filepath.Join(dir, p)
}
