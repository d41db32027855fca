package middleware

import (
	"context"
	"net/http"
	"time"
)

// Timeout bounds the lifetime of every request context. Handlers that pass
// the context to the database or a storage disk give up once it expires.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
