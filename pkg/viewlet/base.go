package viewlet

import (
	"context"
	"errors"
	"fmt"
)

// State tracks a provider through the two-phase protocol.
type State int

const (
	StateUninitialized State = iota
	StateUpdated
	StateRendered
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateUpdated:
		return "updated"
	case StateRendered:
		return "rendered"
	default:
		return "unknown"
	}
}

// ErrAlreadyUpdated is returned when Update is called a second time.
var ErrAlreadyUpdated = errors.New("viewlet: update already called")

// UpdateNotCalledError reports a render attempted before Update.
type UpdateNotCalledError struct {
	Name string
}

func (e *UpdateNotCalledError) Error() string {
	if e.Name == "" {
		return "viewlet: render called before update"
	}
	return fmt.Sprintf("viewlet %q: render called before update", e.Name)
}

// Base carries the scope, weight, field data and protocol state shared by
// concrete providers. Embedding types implement Render and call BeginRender
// first. Render may be repeated once Updated; the first render moves the
// state to StateRendered.
type Base struct {
	scope  Scope
	weight int
	fields Fields
	state  State
	perm   Permission
}

// NewBase returns a Base for scope with the given weight.
func NewBase(s Scope, weight int) Base {
	return Base{scope: s, weight: weight}
}

func (b *Base) Weight() int        { return b.weight }
func (b *Base) SetWeight(w int)    { b.weight = w }
func (b *Base) View() any          { return b.scope.View }
func (b *Base) Context() any       { return b.scope.Context }
func (b *Base) Request() any       { return b.scope.Request }
func (b *Base) Name() string       { return b.scope.Name }
func (b *Base) Scope() Scope       { return b.scope }
func (b *Base) State() State       { return b.state }
func (b *Base) Fields() Fields     { return b.fields }
func (b *Base) SetFields(f Fields) { b.fields = f }

// Permission is the access requirement set at registration.
func (b *Base) Permission() Permission { return b.perm }

// SetPermission is called by registration code before the provider is
// handed out.
func (b *Base) SetPermission(p Permission) { b.perm = p }

// Update stores the field data and moves Uninitialized -> Updated.
func (b *Base) Update(_ context.Context, f Fields) error {
	if b.state != StateUninitialized {
		return ErrAlreadyUpdated
	}
	b.fields = f
	b.state = StateUpdated
	return nil
}

// BeginRender enforces the protocol for Render implementations.
func (b *Base) BeginRender() error {
	if b.state == StateUninitialized {
		return &UpdateNotCalledError{Name: b.scope.Name}
	}
	b.state = StateRendered
	return nil
}
