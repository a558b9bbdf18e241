package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/packrat-app/packrat/models"
)

// CustomErrorHandler maps unhandled errors to the JSON envelope. The
// API is JSON-only, so no HTML fallback exists.
func CustomErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	}

	return c.Status(code).JSON(models.NewErrorResponse("SERVER_ERROR", message, nil))
}

// SecurityHeaders adds baseline security headers to every response.
func SecurityHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		return c.Next()
	}
}
