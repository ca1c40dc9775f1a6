package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"

	"catalog-graphql/internal/catalog"
	"catalog-graphql/internal/resolver"
)

const defaultStaffTokenHeader = "X-Staff-Token"

// StaffTokenAuthConfig controls shared-token authentication for staff callers.
type StaffTokenAuthConfig struct {
	Token      string
	HeaderName string
}

// StaffTokenAuthMiddleware grants catalog-read permissions to requests that
// present the shared staff token. Requests without the header proceed as
// anonymous; a present but wrong token is rejected. With no token configured,
// every request is anonymous.
func StaffTokenAuthMiddleware(cfg StaffTokenAuthConfig) func(http.Handler) http.Handler {
	token := strings.TrimSpace(cfg.Token)
	headerName := strings.TrimSpace(cfg.HeaderName)
	if headerName == "" {
		headerName = defaultStaffTokenHeader
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := strings.TrimSpace(r.Header.Get(headerName))
			if token == "" || provided == "" {
				next.ServeHTTP(w, r)
				return
			}
			if !constantTimeTokenMatch(provided, token) {
				writeUnauthorized(w)
				return
			}

			ctx := resolver.WithRequestor(r.Context(), StaffRequestor{})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// StaffRequestor is the caller identity behind a valid staff token. It holds
// every catalog-read permission.
type StaffRequestor struct{}

func (StaffRequestor) HasAnyPermission(permissions ...catalog.Permission) bool {
	for _, permission := range permissions {
		for _, granted := range catalog.CatalogReadPermissions {
			if permission == granted {
				return true
			}
		}
	}
	return false
}

func constantTimeTokenMatch(provided string, expected string) bool {
	providedDigest := sha256.Sum256([]byte(provided))
	expectedDigest := sha256.Sum256([]byte(expected))
	return subtle.ConstantTimeCompare(providedDigest[:], expectedDigest[:]) == 1
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = fmt.Fprint(w, `{"error":"unauthorized"}`)
}
