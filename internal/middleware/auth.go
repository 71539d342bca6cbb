// Package middleware provides the HTTP middleware used by the API: JWT
// authentication and the admin guard.
package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"paygrow/internal/models"
	"paygrow/internal/utils"
)

// ClaimsKey is the fiber locals key the validated claims are stored under.
const ClaimsKey = "claims"

// AuthMiddleware validates bearer tokens and stores the claims on the
// request context.
type AuthMiddleware struct {
	secret string
}

func NewAuthMiddleware(secret string) *AuthMiddleware {
	return &AuthMiddleware{secret: secret}
}

// Handler rejects requests without a valid bearer token.
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return utils.Unauthorized(c, "missing authorization header")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return utils.Unauthorized(c, "invalid authorization format")
	}

	claims, err := utils.ParseToken(strings.TrimPrefix(authHeader, "Bearer "), m.secret)
	if err != nil {
		return utils.Unauthorized(c, "invalid token")
	}

	c.Locals(ClaimsKey, claims)
	return c.Next()
}

// AdminOnly rejects authenticated requests whose token lacks the admin role.
// It must run after Handler.
func (m *AuthMiddleware) AdminOnly(c *fiber.Ctx) error {
	claims, ok := c.Locals(ClaimsKey).(*models.UserClaims)
	if !ok || !claims.IsAdmin() {
		return utils.Forbidden(c, "admin access required")
	}
	return c.Next()
}

// Claims extracts the validated claims from the request context.
func Claims(c *fiber.Ctx) *models.UserClaims {
	claims, _ := c.Locals(ClaimsKey).(*models.UserClaims)
	return claims
}
