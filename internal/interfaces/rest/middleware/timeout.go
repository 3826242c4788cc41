package middleware

import (
	"context"
	"net/http"
	"time"
)

// Timeout creates middleware that bounds each request's context. Gateway
// calls inherit the deadline, so a slow processor cannot pin a request
// past the server's own limits.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
