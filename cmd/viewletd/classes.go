package main

import (
	"context"
	"html/template"
	"strings"

	"github.com/joeydtaylor/steeze-viewlet/pkg/core"
	"github.com/joeydtaylor/steeze-viewlet/pkg/viewlet"
)

// message renders the "message" field, escaped. It follows the two-phase
// protocol, so it is usable under either discipline.
type message struct {
	viewlet.Base
}

func newMessage(s viewlet.Scope) *message { return &message{Base: viewlet.NewBase(s, 0)} }

func (m *message) Render(context.Context) (string, error) {
	if err := m.BeginRender(); err != nil {
		return "", err
	}
	return template.HTMLEscapeString(m.Fields().String("message")), nil
}

// title is the "title" attribute: the "title" field as a heading.
func (m *message) title(context.Context) (string, error) {
	if err := m.BeginRender(); err != nil {
		return "", err
	}
	t := strings.TrimSpace(m.Fields().String("title"))
	if t == "" {
		return "", nil
	}
	return "<h2>" + template.HTMLEscapeString(t) + "</h2>", nil
}

// builtinCatalog is the catalog the binary serves with. Embedders register
// their own classes on a catalog passed to serverfx.WithCatalog.
func builtinCatalog() *core.Catalog {
	c := core.NewCatalog()
	core.MustRegisterClass(c, "message", newMessage, map[string]func(*message, context.Context) (string, error){
		"title": (*message).title,
	})
	return c
}
