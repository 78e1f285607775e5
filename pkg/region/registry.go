package region

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

// ErrFrozen is returned by Define once the registry has been frozen.
var ErrFrozen = errors.New("region: registry frozen")

// LookupError reports a template reference to an undefined region.
type LookupError struct {
	Name string
}

func (e *LookupError) Error() string { return fmt.Sprintf("region %q is not defined", e.Name) }

// Registry maps names to regions. Writers (configuration) are serialized;
// readers load an immutable snapshot and never lock.
type Registry struct {
	mu     sync.Mutex
	snap   atomic.Pointer[map[string]*Region]
	frozen atomic.Bool
}

// NewRegistry returns a registry that already knows the ContentProviders region.
func NewRegistry() *Registry {
	r := &Registry{}
	m := map[string]*Region{ContentProviders: {name: ContentProviders}}
	r.snap.Store(&m)
	return r
}

// Define registers a region under its name. Redefining a name is an error.
func (r *Registry) Define(reg *Region) error {
	if reg == nil {
		return fmt.Errorf("region: nil region")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen.Load() {
		return ErrFrozen
	}
	cur := *r.snap.Load()
	if _, dup := cur[reg.name]; dup {
		return fmt.Errorf("region %q already defined", reg.name)
	}
	next := make(map[string]*Region, len(cur)+1)
	for k, v := range cur {
		next[k] = v
	}
	next[reg.name] = reg
	r.snap.Store(&next)
	return nil
}

// MustDefine is Define that panics on error.
func (r *Registry) MustDefine(reg *Region) *Region {
	if err := r.Define(reg); err != nil {
		panic(err)
	}
	return reg
}

// Freeze ends the configuration phase; later Define calls fail.
func (r *Registry) Freeze() { r.frozen.Store(true) }

// Resolve returns the region registered under name or a *LookupError.
func (r *Registry) Resolve(name string) (*Region, error) {
	if reg, ok := (*r.snap.Load())[name]; ok {
		return reg, nil
	}
	return nil, &LookupError{Name: name}
}

// Names lists the defined region names (unordered).
func (r *Registry) Names() []string {
	m := *r.snap.Load()
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
