package core

import (
	"errors"
	"net/http"

	"github.com/joeydtaylor/steeze-viewlet/pkg/codec"
	"github.com/joeydtaylor/steeze-viewlet/pkg/expr"
	"github.com/joeydtaylor/steeze-viewlet/pkg/manager"
	"github.com/joeydtaylor/steeze-viewlet/pkg/region"
)

func writeJSON(w http.ResponseWriter, payload []byte, status int) {
	w.Header().Set("Content-Type", codec.JSONStrict.ContentType())
	w.WriteHeader(status)
	if len(payload) > 0 {
		_, _ = w.Write(payload)
		return
	}
	_, _ = w.Write([]byte(`{}`))
}

func writeHTML(w http.ResponseWriter, body string, status int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// statusFor maps lookup and evaluation errors to HTTP statuses.
func statusFor(err error) int {
	var (
		re *region.LookupError
		se *expr.SyntaxError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &re), errors.Is(err, manager.ErrProviderNotFound):
		return http.StatusNotFound
	case errors.Is(err, manager.ErrUnauthorized):
		return http.StatusForbidden
	case errors.As(err, &se):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
