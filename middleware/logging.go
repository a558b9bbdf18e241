package middleware

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/packrat-app/packrat/utils"
)

// LoggingMiddleware logs every request with a level derived from the
// response status.
func LoggingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start)
		statusCode := c.Response().StatusCode()

		logLevel := slog.LevelInfo
		if statusCode >= 400 && statusCode < 500 {
			logLevel = slog.LevelWarn
		} else if statusCode >= 500 {
			logLevel = slog.LevelError
		}

		logger := slog.With(
			slog.String("type", "http"),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", statusCode),
			slog.Duration("duration", duration),
			slog.String("ip", utils.GetIPAddress(c)),
			slog.String("user_agent", utils.GetUserAgent(c)),
		)

		if session, ok := utils.ExtractUserSession(c); ok {
			logger = logger.With(slog.Int64("user_id", session.UserID))
		}
		if err != nil {
			logger = logger.With(slog.String("error", err.Error()))
		}

		logger.Log(c.UserContext(), logLevel, "HTTP request processed")
		return err
	}
}
