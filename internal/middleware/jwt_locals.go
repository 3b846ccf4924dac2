package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/taplive-app/taplive_be/internal/utils"
)

// AttachJWTLocals copies the verified claims into c.Locals("userId") and
// c.Locals("role") so handlers never touch the raw token.
func AttachJWTLocals() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals("session").(*utils.SessionClaims)
		if !ok || claims == nil {
			return fiber.ErrUnauthorized
		}

		c.Locals("userId", claims.UserID)
		c.Locals("role", strings.ToLower(strings.TrimSpace(claims.Role)))

		return c.Next()
	}
}
