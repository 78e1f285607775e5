// Package expr implements the template expressions that pull content
// providers into a page:
//
//	provider:Region/name   render one named provider of a region
//	providers:Region       the ordered, field-injected providers of a region
//	content:name           render a provider registered directly for the scope
//
// Expressions are parsed once, when a template is compiled, and evaluated on
// every render against a fresh Context.
package expr

import (
	"fmt"
	"strings"
)

// SyntaxError reports a malformed expression. It is raised at parse time,
// never during a render.
type SyntaxError struct {
	Expr   string
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("expr: invalid expression %q: %s", e.Expr, e.Reason)
}

// splitProvider validates "region/name" with exactly one separator.
func splitProvider(text string) (string, string, error) {
	t := strings.TrimSpace(text)
	switch n := strings.Count(t, "/"); {
	case n == 0:
		return "", "", &SyntaxError{Expr: text, Reason: "expected region/name"}
	case n > 1:
		return "", "", &SyntaxError{Expr: text, Reason: "too many '/' separators"}
	}
	region, name, _ := strings.Cut(t, "/")
	region, name = strings.TrimSpace(region), strings.TrimSpace(name)
	if region == "" {
		return "", "", &SyntaxError{Expr: text, Reason: "empty region"}
	}
	if name == "" {
		return "", "", &SyntaxError{Expr: text, Reason: "empty viewlet name"}
	}
	return region, name, nil
}

// singleToken validates a bare name with no separator.
func singleToken(text, what string) (string, error) {
	t := strings.TrimSpace(text)
	if t == "" {
		return "", &SyntaxError{Expr: text, Reason: "empty " + what}
	}
	if strings.Contains(t, "/") {
		return "", &SyntaxError{Expr: text, Reason: what + " must not contain '/'"}
	}
	if strings.ContainsAny(t, " \t\n") {
		return "", &SyntaxError{Expr: text, Reason: what + " must be a single token"}
	}
	return t, nil
}
