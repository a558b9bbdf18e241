package middleware

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/packrat-app/packrat/services"
	"github.com/packrat-app/packrat/utils"
)

// AuthRequired ensures the request carries a valid session and stores
// it in the context under "user".
func AuthRequired(sessions *services.SessionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, err := sessions.GetSession(c)
		if err != nil {
			slog.Debug("Auth required: no valid session", slog.String("error", err.Error()))
			return utils.SendUnauthorized(c, "Authentication required")
		}
		if session.UserID == 0 {
			slog.Debug("Auth required: invalid session")
			return utils.SendUnauthorized(c, "Authentication required")
		}

		c.Locals("user", session)
		return c.Next()
	}
}

// AdminRequired ensures the authenticated user has admin rights. Must
// run after AuthRequired.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, ok := utils.ExtractUserSession(c)
		if !ok {
			slog.Warn("Admin required: no user in context")
			return utils.SendForbidden(c, "Access denied")
		}
		if !session.IsAdmin {
			slog.Warn("Admin required: user lacks admin privileges",
				slog.Int64("user_id", session.UserID),
				slog.String("email", session.Email))
			return utils.SendForbidden(c, "Admin access required")
		}
		return c.Next()
	}
}

// OptionalAuth adds the session to the context when present but does
// not require one.
func OptionalAuth(sessions *services.SessionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if session, err := sessions.GetSession(c); err == nil && session.UserID != 0 {
			c.Locals("user", session)
		}
		return c.Next()
	}
}
