package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/smartwallet/bff-go/internal/domain"
)

type contextKey string

const userIDKey contextKey = "userID"

// JWTAuthMiddleware validates Bearer tokens issued by the identity
// provider and injects the subject into context as the user id. The
// dashboard never stores credentials itself; a token's signature and
// issuer are the only trust anchors.
func JWTAuthMiddleware(secret, issuer string, logger *zap.Logger) func(http.Handler) http.Handler {
	key := []byte(secret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("auth: missing token",
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
				)
				handleServiceError(w, &domain.ErrUnauthorized{Message: "authentication token not provided"}, logger)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				logger.Warn("auth: invalid token format",
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
				)
				handleServiceError(w, &domain.ErrUnauthorized{Message: "invalid token format"}, logger)
				return
			}

			claims := &jwt.RegisteredClaims{}
			token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return key, nil
			}, jwt.WithIssuer(issuer), jwt.WithExpirationRequired())
			if err != nil || !token.Valid || claims.Subject == "" {
				logger.Warn("auth: invalid or expired token",
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
					zap.Error(err),
				)
				handleServiceError(w, &domain.ErrUnauthorized{Message: "invalid or expired token"}, logger)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext extracts the authenticated user id from context.
// Empty when token enforcement is disabled.
func UserIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(userIDKey).(string)
	return v
}

// UserScopeMiddleware rejects requests whose {userId} path segment does
// not match the authenticated token subject. Without token enforcement
// there is no subject and every user id passes.
func UserScopeMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject := UserIDFromContext(r.Context())
			if subject != "" && subject != chi.URLParam(r, "userId") {
				logger.Warn("cross-user access rejected",
					zap.String("subject", subject),
					zap.String("path", r.URL.Path),
				)
				handleServiceError(w, &domain.ErrForbidden{Action: "access another user's data"}, logger)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
