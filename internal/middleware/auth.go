package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"hifz_tracker/internal/config"
	"hifz_tracker/internal/model"
	"hifz_tracker/internal/webutil"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTAuthMiddleware verifies the Authorization bearer token and places
// the caller's user ID in the context. Identity issuance (login,
// password handling) lives in the external auth service; this only
// verifies.
func JWTAuthMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := GetLogger(r.Context())

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("JWT auth failed: Authorization header missing")
				webutil.HandleError(w, logger, model.NewAppError(
					"UNAUTHENTICATED", "Authorization header is required.", "", model.ErrUnauthenticated))
				return
			}

			headerParts := strings.Split(authHeader, " ")
			if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
				logger.Warn("JWT auth failed: Invalid Authorization header format")
				webutil.HandleError(w, logger, model.NewAppError(
					"UNAUTHENTICATED", "Invalid Authorization header format.", "", model.ErrUnauthenticated))
				return
			}

			token, err := jwt.Parse(headerParts[1], func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, errors.New("unexpected signing method")
				}
				return []byte(cfg.JWT.SecretKey), nil
			})
			if err != nil || !token.Valid {
				logger.Warn("JWT auth failed: Invalid token", "error", err)
				webutil.HandleError(w, logger, model.NewAppError(
					"INVALID_TOKEN", "Token is invalid or expired.", "", model.ErrUnauthenticated))
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				logger.Warn("JWT auth failed: Unknown claims type")
				webutil.HandleError(w, logger, model.NewAppError(
					"INVALID_TOKEN", "Token claims are malformed.", "", model.ErrUnauthenticated))
				return
			}

			subject, err := claims.GetSubject()
			if err != nil {
				logger.Warn("JWT auth failed: Subject claim missing", "error", err)
				webutil.HandleError(w, logger, model.NewAppError(
					"INVALID_TOKEN", "Token carries no user identity.", "", model.ErrUnauthenticated))
				return
			}

			userID, err := uuid.Parse(subject)
			if err != nil {
				logger.Warn("JWT auth failed: Invalid subject format", "subject", subject)
				webutil.HandleError(w, logger, model.NewAppError(
					"INVALID_TOKEN", "Token user identity is malformed.", "", model.ErrUnauthenticated))
				return
			}

			ctx := context.WithValue(r.Context(), model.UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// DevUserContextMiddleware resolves the caller from the X-User-ID
// header without verification. Only wired when auth is disabled in
// config.
func DevUserContextMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := GetLogger(r.Context())

		userIDStr := r.Header.Get("X-User-ID")
		if userIDStr == "" {
			webutil.HandleError(w, logger, model.NewAppError(
				"UNAUTHENTICATED", "Missing X-User-ID header.", "", model.ErrUnauthenticated))
			return
		}
		userID, err := uuid.Parse(userIDStr)
		if err != nil {
			webutil.HandleError(w, logger, model.NewAppError(
				"UNAUTHENTICATED", "Invalid X-User-ID format.", "", model.ErrUnauthenticated))
			return
		}

		ctx := context.WithValue(r.Context(), model.UserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserIDFromContext returns the authenticated caller's user ID.
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, error) {
	userID, ok := ctx.Value(model.UserIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, model.ErrUnauthenticated
	}
	return userID, nil
}
