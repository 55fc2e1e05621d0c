// internal/auth/middleware.go
// Bearer token authentication for the discovery API

package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/imadgeboyega/sangam-discovery/internal/common/utils"
)

type contextKey string

const userIDKey contextKey = "userID"

// TokenValidator turns a raw token into claims.
type TokenValidator interface {
	ValidateToken(token string) (*utils.JWTClaims, error)
}

// SecretValidator validates HS256 tokens signed with a shared secret.
type SecretValidator struct {
	Secret string
}

// ValidateToken implements TokenValidator.
func (v SecretValidator) ValidateToken(token string) (*utils.JWTClaims, error) {
	return utils.ValidateJWT(token, v.Secret)
}

// Middleware provides authentication middleware
type Middleware struct {
	validator TokenValidator
}

// NewMiddleware creates a new auth middleware
func NewMiddleware(validator TokenValidator) *Middleware {
	return &Middleware{validator: validator}
}

// Authenticate verifies the bearer token and stores the user ID in the
// request context.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			utils.RespondWithError(w, http.StatusUnauthorized, "unauthorized", "Missing or invalid authorization header")
			return
		}

		claims, err := m.validator.ValidateToken(token)
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
			return
		}

		// refresh tokens are not accepted on API routes
		if claims.Type != "" && claims.Type != "access" {
			utils.RespondWithError(w, http.StatusUnauthorized, "unauthorized", "Invalid token type")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), claims.UserID)))
	})
}

// extractToken supports "Bearer <token>"
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// WithUserID returns a context carrying the authenticated user ID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserIDFromContext extracts user ID from request context
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}
