// Package adapter is the multi-dimensional lookup table behind provider and
// manager resolution: factories are registered for a (context, request, view)
// key triple plus a region and a name, and resolved by specificity.
package adapter

import "reflect"

// TypeKey names a capability an object provides. By default it is the Go
// type string ("*http.Request"); objects may declare more via Keyed.
type TypeKey string

// Any matches every object and is the least specific key.
const Any TypeKey = "*"

// Keyed objects declare their capability keys, most specific first.
type Keyed interface {
	TypeKeys() []TypeKey
}

// KeysOf returns v's key chain: declared keys, then the Go type, then Any.
func KeysOf(v any) []TypeKey {
	var out []TypeKey
	seen := map[TypeKey]struct{}{}
	add := func(k TypeKey) {
		if k == "" {
			return
		}
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	if k, ok := v.(Keyed); ok {
		for _, x := range k.TypeKeys() {
			add(x)
		}
	}
	if v != nil {
		add(TypeKey(reflect.TypeOf(v).String()))
	}
	add(Any)
	return out
}

// KeyFor returns the Go type key for T.
func KeyFor[T any]() TypeKey {
	return TypeKey(reflect.TypeFor[T]().String())
}

// Discriminators are the key chains of a (context, request, view) triple.
type Discriminators [3][]TypeKey

// For computes the discriminators of a triple.
func For(context, request, view any) Discriminators {
	return Discriminators{KeysOf(context), KeysOf(request), KeysOf(view)}
}

// normalize maps the empty key to Any.
func normalize(k TypeKey) TypeKey {
	if k == "" {
		return Any
	}
	return k
}
