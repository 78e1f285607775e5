package core

import (
	"net/http"
	"time"
)

// withTimeout bounds a page render. Providers see the deadline on their
// context; a render still running when it passes is answered with 503.
func withTimeout(next http.HandlerFunc, d time.Duration) http.HandlerFunc {
	return http.TimeoutHandler(next, d, "page render timed out").ServeHTTP
}
