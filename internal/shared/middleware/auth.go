package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bookstore-api/internal/shared/response"
	"bookstore-api/pkg/jwt"
)

// Identity is the verified caller identity a passing AuthMiddleware leaves
// in the request context. Handlers obtain it only through CurrentIdentity,
// so a handler that compiles against Identity can only run behind the
// middleware that proves it.
type Identity struct {
	ID       uuid.UUID
	Email    string
	Username string
}

const identityKey = "auth.identity"

// CurrentIdentity returns the authenticated identity, or ok=false when the
// route was not protected by AuthMiddleware.
func CurrentIdentity(c *gin.Context) (Identity, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}

// AuthMiddleware verifies the bearer token and stores the caller identity
// in the context. The JWT manager is injected; there is no package-level
// signing key.
func AuthMiddleware(manager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.ErrorResponse(c, 401, "AUTH_MISSING", "authorization header missing")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			response.ErrorResponse(c, 401, "AUTH_MALFORMED", "invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := manager.ValidateToken(parts[1])
		if err != nil {
			code, message := classifyTokenError(err)
			response.ErrorResponse(c, 401, code, message)
			c.Abort()
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			response.ErrorResponse(c, 401, "AUTH_INVALID", "invalid user id in token")
			c.Abort()
			return
		}

		c.Set(identityKey, Identity{
			ID:       userID,
			Email:    claims.Email,
			Username: claims.Username,
		})

		c.Next()
	}
}

func classifyTokenError(err error) (code, message string) {
	switch {
	case errors.Is(err, jwt.ErrTokenMissing):
		return "AUTH_MISSING", "bearer token missing"
	case errors.Is(err, jwt.ErrTokenMalformed):
		return "AUTH_MALFORMED", "malformed token"
	case errors.Is(err, jwt.ErrTokenExpired):
		return "AUTH_EXPIRED", "token has expired"
	default:
		return "AUTH_INVALID", "invalid token"
	}
}
