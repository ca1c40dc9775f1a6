package middleware

import (
	"net/http"

	"catalog-graphql/internal/dataloader"
)

// LoaderScopeMiddleware installs a fresh dataloader registry on every request
// context. Loader caches and pending batches therefore never leak between
// requests.
func LoaderScopeMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := dataloader.NewContext(r.Context())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
