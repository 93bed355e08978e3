package auth

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// RequireMember ensures the session identifies a member.
func RequireMember() fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, ok := SessionFromContext(c)
		if !ok {
			return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
		}
		if !session.HasIdentity() {
			return fiber.NewError(http.StatusForbidden, "member identity required")
		}
		return c.Next()
	}
}
