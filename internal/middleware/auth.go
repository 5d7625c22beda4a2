package middleware

import (
	"inkwell/internal/models"
	"inkwell/internal/session"

	"github.com/gofiber/fiber/v2"
)

// CurrentUser resolves the session cookie to a user ID on every request.
// Resolution is best-effort: a missing, tampered, or dead session leaves
// the request anonymous rather than failing it.
func CurrentUser(store session.Store, secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(session.CookieName)
		if token == "" {
			return c.Next()
		}

		sessionID, err := session.Verify(token, secret)
		if err != nil {
			return c.Next()
		}

		userID, err := store.Resolve(c.Context(), sessionID)
		if err != nil || userID == 0 {
			return c.Next()
		}

		c.Locals("userID", userID)
		c.Locals("sessionID", sessionID)
		return c.Next()
	}
}

// UserID returns the authenticated user's ID from the request, or 0 for
// an anonymous caller.
func UserID(c *fiber.Ctx) uint {
	if uid, ok := c.Locals("userID").(uint); ok {
		return uid
	}
	return 0
}

// RequireAdmin gates admin-only routes. Authorization is a plain
// identity check against the configured admin user ID, not a role
// lookup.
func RequireAdmin(adminID uint) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if UserID(c) != adminID {
			return models.RespondWithError(c, fiber.StatusForbidden, models.NewForbiddenError())
		}
		return c.Next()
	}
}
