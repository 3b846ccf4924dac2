package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/taplive-app/taplive_be/internal/models"
	"github.com/taplive-app/taplive_be/internal/utils"
)

// RequireRoles allows the request through only when the session role matches
// one of the given roles. Comparison is case-insensitive; tokens issued
// before a rename may carry mixed-case roles.
func RequireRoles(allowed ...models.Role) fiber.Handler {
	allowedSet := map[models.Role]bool{}
	for _, r := range allowed {
		allowedSet[models.Role(strings.ToLower(string(r)))] = true
	}

	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals("session").(*utils.SessionClaims)
		if !ok || claims == nil {
			return fiber.ErrUnauthorized
		}

		role := models.Role(strings.ToLower(strings.TrimSpace(claims.Role)))
		if !allowedSet[role] {
			return fiber.NewError(fiber.StatusForbidden, "forbidden: insufficient role")
		}

		return c.Next()
	}
}
