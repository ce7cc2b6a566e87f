package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ContextKey is a private key type for request-scoped values.
type ContextKey string

const (
	UserIDCtxKey    = ContextKey("user_id")
	RequestIDCtxKey = ContextKey("request_id")
)

// UserIDFromContext returns the authenticated user id, if any. The id is an
// opaque token subject; this service never interprets it beyond equality.
func UserIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(UserIDCtxKey).(string); ok {
		return v
	}
	return ""
}

func RequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := uuid.NewString()
			start := time.Now()

			ctx := context.WithValue(r.Context(), RequestIDCtxKey, requestID)
			next.ServeHTTP(w, r.WithContext(ctx))

			logger.Info("HTTP request",
				zap.String("request_id", requestID),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}

// JWTAuth extracts the current user from a bearer token and stores it in the
// request context. With required=false an absent or invalid token simply
// leaves the request anonymous.
func JWTAuth(secret string, required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := userIDFromBearer(r, secret)
			if userID == "" && required {
				writeError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if userID != "" {
				ctx := context.WithValue(r.Context(), UserIDCtxKey, userID)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func userIDFromBearer(r *http.Request, secret string) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	tokenStr := strings.TrimPrefix(header, "Bearer ")

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return ""
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	if sub, ok := claims["sub"].(string); ok && sub != "" {
		return sub
	}
	if uid, ok := claims["user_id"].(string); ok {
		return uid
	}
	return ""
}
