package core

import (
	"net/http"

	"github.com/joeydtaylor/steeze-viewlet/pkg/adapter"
)

// Keys the page objects answer to besides their Go types.
const (
	KeyResource adapter.TypeKey = "resource"
	KeyBrowser  adapter.TypeKey = "browser"
	KeyPage     adapter.TypeKey = "page"
)

// Resource is the default page context: the routed path and its URL
// parameters.
type Resource struct {
	Path   string
	Params map[string]string
}

func (Resource) TypeKeys() []adapter.TypeKey { return []adapter.TypeKey{KeyResource} }

// Param returns the URL parameter name ("" when absent).
func (r Resource) Param(name string) string { return r.Params[name] }

// Request wraps the HTTP request with the page's layer key.
type Request struct {
	*http.Request
	Layer string
}

func (r *Request) TypeKeys() []adapter.TypeKey {
	if r.Layer == "" {
		return []adapter.TypeKey{KeyBrowser}
	}
	return []adapter.TypeKey{adapter.TypeKey(r.Layer), KeyBrowser}
}

// PageView is the view a page template renders as.
type PageView struct {
	Key      string
	Path     string
	Template string
}

func (v *PageView) TypeKeys() []adapter.TypeKey {
	if v.Key == "" {
		return []adapter.TypeKey{KeyPage}
	}
	return []adapter.TypeKey{adapter.TypeKey(v.Key), KeyPage}
}

// PageData is the dot value of a page template.
type PageData struct {
	Context any
	Request *Request
	View    *PageView
	Vars    map[string]any
}

// Fragment is one rendered provider as served by the fragments endpoint.
type Fragment struct {
	Name   string `json:"name"`
	Weight int    `json:"weight"`
	HTML   string `json:"html"`
}
