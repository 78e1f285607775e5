package auth

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/fx"
)

// ProvideAuthentication wires the middleware from env. A missing or
// unreadable ASSERTION_PUBLIC_KEY_FILE leaves assertion checks disabled;
// requests then stay anonymous unless AUTH_DEV_BYPASS is set.
func ProvideAuthentication() *Middleware {
	opts := []Option{
		WithAdminRole(os.Getenv("ADMIN_ROLE_NAME")),
		WithDevBypass(os.Getenv("AUTH_DEV_BYPASS") == "true"),
		WithIssuer(strings.TrimSpace(os.Getenv("ASSERTION_ISSUER"))),
		WithAudience(strings.TrimSpace(os.Getenv("ASSERTION_AUDIENCE"))),
	}
	if v := strings.TrimSpace(os.Getenv("ASSERTION_COOKIE_NAME")); v != "" {
		opts = append(opts, WithCookieName(v))
	}
	if v := strings.TrimSpace(os.Getenv("ASSERTION_LEEWAY_SECONDS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			opts = append(opts, WithLeeway(time.Duration(n)*time.Second))
		}
	}
	if path := strings.TrimSpace(os.Getenv("ASSERTION_PUBLIC_KEY_FILE")); path != "" {
		if k, err := LoadPublicKey(path); err == nil {
			opts = append(opts, WithKey(k))
		}
	}
	return New(opts...)
}

// LoadPublicKey reads a PEM-encoded RSA public key.
func LoadPublicKey(path string) (*rsa.PublicKey, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParsePublicKey(b)
}

// ParsePublicKey decodes a PEM-encoded PKIX RSA public key.
func ParsePublicKey(b []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(b)
	if block == nil {
		return nil, errors.New("no PEM block in key")
	}
	keyAny, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse key: %w", err)
	}
	rk, ok := keyAny.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("PEM is not RSA public key")
	}
	return rk, nil
}

var Module = fx.Options(
	fx.Provide(ProvideAuthentication),
)
