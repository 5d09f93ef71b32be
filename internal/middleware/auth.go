package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type contextKey string

const (
	ShopKey   contextKey = "shop"
	UserIDKey contextKey = "user_id"
)

// SessionClaims are the claims of an App Bridge session token
type SessionClaims struct {
	Dest string `json:"dest"`
	SID  string `json:"sid,omitempty"`
	jwt.RegisteredClaims
}

// SessionTokenMiddleware verifies the session token the embedded admin sends as a
// bearer token. Tokens are HS256-signed with the app's API secret and addressed to its API key.
func SessionTokenMiddleware(apiKey, apiSecret string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Debug("Missing authorization header")
				RespondWithError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				logger.Debug("Invalid authorization header format")
				RespondWithError(w, http.StatusUnauthorized, "invalid authorization header format")
				return
			}

			claims := &SessionClaims{}
			token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				return []byte(apiSecret), nil
			},
				jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
				jwt.WithAudience(apiKey),
				jwt.WithExpirationRequired(),
				jwt.WithLeeway(5*time.Second),
			)
			if err != nil {
				logger.Debug("Session token validation failed", zap.Error(err))
				if errors.Is(err, jwt.ErrTokenExpired) {
					RespondWithError(w, http.StatusUnauthorized, "token expired")
				} else {
					RespondWithError(w, http.StatusUnauthorized, "invalid token")
				}
				return
			}

			if !token.Valid {
				logger.Debug("Invalid token")
				RespondWithError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			shop, ok := shopFromClaims(claims)
			if !ok {
				logger.Warn("Session token issuer does not match destination",
					zap.String("iss", claims.Issuer),
					zap.String("dest", claims.Dest),
				)
				RespondWithError(w, http.StatusUnauthorized, "invalid token claims")
				return
			}

			ctx := context.WithValue(r.Context(), ShopKey, shop)
			ctx = context.WithValue(ctx, UserIDKey, claims.Subject)
			annotateShop(ctx, shop)

			logger.Debug("Session authenticated",
				zap.String("shop", shop),
				zap.String("user_id", claims.Subject),
			)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// shopFromClaims returns the shop host when iss and dest agree
func shopFromClaims(claims *SessionClaims) (string, bool) {
	dest, err := url.Parse(claims.Dest)
	if err != nil || dest.Host == "" {
		return "", false
	}
	iss, err := url.Parse(claims.Issuer)
	if err != nil || iss.Host != dest.Host {
		return "", false
	}
	return dest.Host, true
}

// GetShop extracts the authenticated shop domain from request context
func GetShop(ctx context.Context) (string, bool) {
	shop, ok := ctx.Value(ShopKey).(string)
	return shop, ok
}

// GetUserID extracts the staff user id from request context
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok
}
