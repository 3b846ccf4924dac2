package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/taplive-app/taplive_be/internal/utils"
)

// JWTFromCookie verifies the session cookie and stashes the parsed claims
// for the rest of the chain.
func JWTFromCookie(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr := c.Cookies(utils.SessionCookieName)
		if tokenStr == "" {
			return fiber.ErrUnauthorized
		}

		claims, err := utils.ParseSession(secret, tokenStr)
		if err != nil {
			return fiber.ErrUnauthorized
		}

		c.Locals("session", claims)
		return c.Next()
	}
}
