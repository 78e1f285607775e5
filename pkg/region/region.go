// Package region defines page slots (regions) and the process-wide name
// registry templates resolve them through.
package region

import (
	"fmt"
	"strings"
)

// ContentProviders is the built-in region backing `content:<name>`
// expressions: providers registered directly for a scope under a global name.
const ContentProviders = "IContentProvider"

// Field is one entry of a region's field-data specification.
type Field struct {
	Name    string
	Default any
}

// Region is an immutable named marker for a page slot. Fields, when present,
// are copied from the template's variables onto every provider resolved for
// the region before it renders.
type Region struct {
	name   string
	fields []Field
}

// New builds a Region. Field names must be unique and non-empty.
func New(name string, fields ...Field) (*Region, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("region: name required")
	}
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if strings.TrimSpace(f.Name) == "" {
			return nil, fmt.Errorf("region %q: field name required", name)
		}
		if _, dup := seen[f.Name]; dup {
			return nil, fmt.Errorf("region %q: duplicate field %q", name, f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	return &Region{name: name, fields: append([]Field(nil), fields...)}, nil
}

// MustNew is New that panics on error.
func MustNew(name string, fields ...Field) *Region {
	r, err := New(name, fields...)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Region) Name() string   { return r.name }
func (r *Region) String() string { return r.name }

// Fields returns a copy of the field-data specification.
func (r *Region) Fields() []Field {
	return append([]Field(nil), r.fields...)
}

// HasFields reports whether the region declares a field-data specification.
func (r *Region) HasFields() bool { return len(r.fields) > 0 }
