package middleware

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// RequireShop rejects sessions issued for a shop other than the one this
// instance manages. It must run after SessionTokenMiddleware.
func RequireShop(shopDomain string, logger *zap.Logger) func(http.Handler) http.Handler {
	expected := normalizeShop(shopDomain)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			shop, ok := GetShop(r.Context())
			if !ok {
				logger.Warn("Shop not found in context")
				RespondWithError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			if normalizeShop(shop) != expected {
				logger.Warn("Session for another shop rejected",
					zap.String("shop", shop),
					zap.String("expected", expected),
				)
				RespondWithError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func normalizeShop(shop string) string {
	shop = strings.TrimPrefix(shop, "https://")
	shop = strings.TrimPrefix(shop, "http://")
	return strings.ToLower(strings.TrimSuffix(shop, "/"))
}
