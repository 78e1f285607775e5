package auth

import (
	"crypto/rsa"
	"time"
)

// Middleware authenticates requests from a signed assertion (cookie or
// bearer token) and answers principal questions for route guards and the
// viewlet permission gate.
type Middleware struct {
	adminRole string
	devBypass bool

	assertCookieName string
	assertIssuer     string
	assertAudience   string
	assertLeeway     time.Duration
	assertKey        *rsa.PublicKey
}

// Option configures a Middleware.
type Option func(*Middleware)

func WithAdminRole(role string) Option  { return func(m *Middleware) { m.adminRole = role } }
func WithDevBypass(on bool) Option      { return func(m *Middleware) { m.devBypass = on } }
func WithCookieName(name string) Option { return func(m *Middleware) { m.assertCookieName = name } }
func WithIssuer(iss string) Option      { return func(m *Middleware) { m.assertIssuer = iss } }
func WithAudience(aud string) Option    { return func(m *Middleware) { m.assertAudience = aud } }
func WithLeeway(d time.Duration) Option { return func(m *Middleware) { m.assertLeeway = d } }
func WithKey(k *rsa.PublicKey) Option   { return func(m *Middleware) { m.assertKey = k } }

// New returns a Middleware with defaults: "assert" cookie, 60s leeway.
func New(opts ...Option) *Middleware {
	m := &Middleware{
		assertCookieName: "assert",
		assertLeeway:     60 * time.Second,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}
