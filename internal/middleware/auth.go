package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"coursecatalog/internal/api/v1/dto"
	"coursecatalog/internal/model"
	"coursecatalog/internal/util"

	"github.com/rs/zerolog"
)

// Injected key type to avoid context collisions
type contextKey string

const AdminContextKey = contextKey("admin")

// AdminFromContext returns the identity attached by AuthMiddleware, if any.
func AdminFromContext(ctx context.Context) (model.AdminIdentity, bool) {
	identity, ok := ctx.Value(AdminContextKey).(model.AdminIdentity)
	return identity, ok
}

// AuthMiddleware verifies the bearer token and attaches the resolved identity
// to the request context. Requests without a verifiable credential are
// rejected with 401 before any handler work runs.
func AuthMiddleware(jwtSecret string, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn().Str("path", r.URL.Path).Msg("Authorization header missing")
				writeAuthError(w, http.StatusUnauthorized, "Unauthenticated", "not authorized, no token")
				return
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				logger.Warn().Str("path", r.URL.Path).Msg("Invalid authorization header")
				writeAuthError(w, http.StatusUnauthorized, "Unauthenticated", "not authorized, invalid authorization header")
				return
			}
			claims, err := util.ValidateJWT(parts[1], jwtSecret)
			if err != nil {
				logger.Warn().Err(err).Str("path", r.URL.Path).Msg("Token verification failed")
				writeAuthError(w, http.StatusUnauthorized, "Unauthenticated", "not authorized, token failed")
				return
			}
			identity := model.AdminIdentity{Subject: claims.Subject, IsAdmin: claims.IsAdmin}
			ctx := context.WithValue(r.Context(), AdminContextKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminOnly rejects authenticated principals that lack the admin capability.
// It must run after AuthMiddleware.
func AdminOnly(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := AdminFromContext(r.Context())
			if !ok || !identity.IsAdmin {
				logger.Warn().Str("subject", identity.Subject).Str("path", r.URL.Path).Msg("Non-admin principal rejected")
				writeAuthError(w, http.StatusForbidden, "Forbidden", "access denied: admins only")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeAuthError(w http.ResponseWriter, status int, kind, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{Error: dto.ErrorDetail{Kind: kind, Message: message}})
}
