package middleware

import (
	"net/http"
	"time"

	"github.com/rpattn/apiconf/internal/metadata"
)

type ctxKey string

// DataLoaderMiddleware attaches a request scoped metadata loader to the request context
func DataLoaderMiddleware(source metadata.BatchSource, wait time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			loader := metadata.NewLoader(source, wait)
			ctx := metadata.WithLoader(r.Context(), loader)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
