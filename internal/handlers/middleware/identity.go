// internal/handlers/middleware/identity.go
package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mkarlin/stocksync-be/internal/core/ports"
	"github.com/mkarlin/stocksync-be/internal/pkg/logger"
)

type identityCtxKey struct{}

// Identity resolves the calling tenant and user on every request and rejects
// requests the resolver cannot place.
func Identity(resolver ports.IdentityResolver, slogger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := resolver.Resolve(r)
			if err != nil {
				slogger.WarnContext(r.Context(), "identity resolution failed",
					slog.String("path", r.URL.Path),
					slog.String("error", err.Error()))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
				return
			}

			ctx := context.WithValue(r.Context(), identityCtxKey{}, identity)
			// Expose the tenant scope to the logging pipeline
			ctx = context.WithValue(ctx, logger.ContextKeyTenantID, identity.TenantID)
			ctx = context.WithValue(ctx, logger.ContextKeyUserID, identity.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFrom returns the resolved identity stored by the Identity
// middleware.
func IdentityFrom(ctx context.Context) (ports.Identity, bool) {
	identity, ok := ctx.Value(identityCtxKey{}).(ports.Identity)
	return identity, ok
}
