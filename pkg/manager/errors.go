package manager

import (
	"errors"
	"fmt"
)

var (
	// ErrProviderNotFound matches every *LookupError.
	ErrProviderNotFound = errors.New("viewlet not found")
	// ErrUnauthorized matches every *UnauthorizedError.
	ErrUnauthorized = errors.New("viewlet unauthorized")
)

// LookupError reports that no provider is registered under Name for the
// scope and region.
type LookupError struct {
	Name   string
	Region string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("no viewlet with name %q found in region %q", e.Name, e.Region)
}

func (e *LookupError) Is(target error) bool { return target == ErrProviderNotFound }

// UnauthorizedError reports that the provider exists but the principal may
// not render it.
type UnauthorizedError struct {
	Name   string
	Region string
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("not authorized to access the viewlet called %q in region %q", e.Name, e.Region)
}

func (e *UnauthorizedError) Is(target error) bool { return target == ErrUnauthorized }
