package manifest

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/joeydtaylor/steeze-viewlet/pkg/region"
)

// Region declares a page slot and its field-data specification.
type Region struct {
	Name   string  `toml:"name" yaml:"name"`
	Fields []Field `toml:"fields" yaml:"fields"`
}

// Field is one named, defaulted value copied onto the region's viewlets.
type Field struct {
	Name    string `toml:"name" yaml:"name"`
	Default any    `toml:"default" yaml:"default"`
}

func (c *Config) validateRegions() error {
	seen := map[string]struct{}{}
	for i := range c.Regions {
		r := &c.Regions[i]
		r.Name = strings.TrimSpace(r.Name)
		if r.Name == "" {
			return &ConfigError{Directive: "region", Index: i, Err: errors.New("name is required")}
		}
		if err := checkName(r.Name); err != nil {
			return &ConfigError{Directive: "region", Index: i, Name: r.Name, Err: err}
		}
		if _, dup := seen[r.Name]; dup {
			return &ConfigError{Directive: "region", Index: i, Name: r.Name, Err: errors.New("duplicate region")}
		}
		seen[r.Name] = struct{}{}
		fields := map[string]struct{}{}
		for j := range r.Fields {
			f := &r.Fields[j]
			f.Name = strings.TrimSpace(f.Name)
			if f.Name == "" {
				return &ConfigError{Directive: "region", Index: i, Name: r.Name, Err: fmt.Errorf("field %d: name is required", j)}
			}
			if _, dup := fields[f.Name]; dup {
				return &ConfigError{Directive: "region", Index: i, Name: r.Name, Err: fmt.Errorf("duplicate field %q", f.Name)}
			}
			fields[f.Name] = struct{}{}
		}
	}
	return nil
}

// checkName rejects names expressions cannot refer to: "/" separates region
// from viewlet and whitespace is trimmed from expression text.
func checkName(name string) error {
	if strings.Contains(name, "/") {
		return fmt.Errorf("name %q must not contain '/'", name)
	}
	if strings.IndexFunc(name, unicode.IsSpace) >= 0 {
		return fmt.Errorf("name %q must not contain whitespace", name)
	}
	return nil
}

// hasRegion reports whether name is declared (or built in).
func (c *Config) hasRegion(name string) bool {
	if name == BuiltinContentRegion {
		return true
	}
	for _, r := range c.Regions {
		if r.Name == name {
			return true
		}
	}
	return false
}

// BuiltinContentRegion is always declared: viewlets registered in it are
// the global content providers reached by content expressions.
const BuiltinContentRegion = region.ContentProviders
