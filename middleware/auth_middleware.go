package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/medimart/medi-server/auth"
	"github.com/medimart/medi-server/models"
	"github.com/medimart/medi-server/repositories"
	"github.com/medimart/medi-server/utils"
	"go.uber.org/zap"
)

// TokenVerifier validates a bearer token and returns its claims
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// AuthMiddleware builds the authorization gates
type AuthMiddleware struct {
	verifier TokenVerifier
	users    repositories.Collection[models.User]
	logger   *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(verifier TokenVerifier, users repositories.Collection[models.User], logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		users:    users,
		logger:   logger,
	}
}

// VerifyToken checks the Authorization bearer token and stores the claims in the context
func (m *AuthMiddleware) VerifyToken() Gate {
	return GateFunc(func(r *http.Request) (context.Context, *Rejection) {
		ctx := r.Context()
		requestID := GetRequestIDFromContext(ctx)

		token := extractBearerToken(r)
		if token == "" {
			m.logger.Warn("missing token",
				zap.String("request_id", requestID))
			return nil, Unauthenticated("Missing or invalid authorization")
		}

		claims, err := m.verifier.Verify(token)
		if err != nil {
			m.logger.Warn("token validation failed",
				zap.String("request_id", requestID),
				zap.Error(err))
			return nil, Unauthenticated("Invalid or expired token")
		}

		m.logger.Debug("authentication successful",
			zap.String("request_id", requestID),
			zap.String("email", claims.Email))

		return WithClaims(ctx, claims), nil
	})
}

// RequireRole loads the caller's user record on every request and requires role.
// A missing record and a different role produce the same 403.
func (m *AuthMiddleware) RequireRole(role models.UserRole) Gate {
	return GateFunc(func(r *http.Request) (context.Context, *Rejection) {
		ctx := r.Context()
		requestID := GetRequestIDFromContext(ctx)

		claims := GetClaimsFromContext(ctx)
		if claims == nil {
			m.logger.Error("claims not found in context",
				zap.String("request_id", requestID))
			return nil, Unauthenticated("Authentication required")
		}

		user, err := m.users.FindOne(ctx, repositories.Filter{"email": claims.Email})
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				m.logger.Warn("role check failed: no user record",
					zap.String("request_id", requestID),
					zap.String("email", claims.Email),
					zap.String("required_role", string(role)))
				return nil, Forbidden("Insufficient permissions")
			}
			m.logger.Error("role lookup failed",
				zap.String("request_id", requestID),
				zap.Error(err))
			return nil, Internal()
		}

		if !user.HasRole(role) {
			m.logger.Warn("role check failed: role mismatch",
				zap.String("request_id", requestID),
				zap.String("email", claims.Email),
				zap.String("required_role", string(role)),
				zap.String("user_role", string(user.Role)))
			return nil, Forbidden("Insufficient permissions")
		}

		m.logger.Debug("role check passed",
			zap.String("request_id", requestID),
			zap.String("required_role", string(role)))

		return WithUser(ctx, user), nil
	})
}

// RequireIdentityMatch requires the decoded route parameter param to equal the token's email exactly
func (m *AuthMiddleware) RequireIdentityMatch(param string) Gate {
	return GateFunc(func(r *http.Request) (context.Context, *Rejection) {
		ctx := r.Context()

		claims := GetClaimsFromContext(ctx)
		if claims == nil {
			m.logger.Error("claims not found in context",
				zap.String("request_id", GetRequestIDFromContext(ctx)))
			return nil, Unauthenticated("Authentication required")
		}

		value, err := utils.PathParam(r, param)
		if err != nil {
			m.logger.Warn("malformed identity parameter",
				zap.String("request_id", GetRequestIDFromContext(ctx)),
				zap.Error(err))
			return nil, Forbidden("Forbidden access")
		}
		if value == "" || value != claims.Email {
			m.logger.Warn("identity mismatch",
				zap.String("request_id", GetRequestIDFromContext(ctx)),
				zap.String("email", claims.Email),
				zap.String("requested", value))
			return nil, Forbidden("Forbidden access")
		}

		return ctx, nil
	})
}

// RequireAuth is a middleware that only requires a valid token
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return Guard(m.VerifyToken())(next)
}

// extractBearerToken extracts the Bearer token from the Authorization header
func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
