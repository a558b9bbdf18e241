package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/packrat-app/packrat/config"
	"github.com/packrat-app/packrat/database"
	"github.com/packrat-app/packrat/models"
	"github.com/packrat-app/packrat/services"
	"github.com/packrat-app/packrat/trading"
)

// WebApp bundles every dependency the route handlers need.
type WebApp struct {
	Config   *config.Config
	DB       *database.DB
	Repos    *models.Repositories
	Sessions *services.SessionService
	Packs    *services.PackService
	Trades   *trading.Service
	Version  string
	Commit   string
}

// HealthCheck reports service and database health.
func HealthCheck(app *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbStatus := "up"
		if err := app.DB.Pool().Ping(c.UserContext()); err != nil {
			dbStatus = "down"
		}

		status := fiber.StatusOK
		if dbStatus != "up" {
			status = fiber.StatusServiceUnavailable
		}

		return c.Status(status).JSON(fiber.Map{
			"status":    dbStatus,
			"version":   app.Version,
			"commit":    app.Commit,
			"timestamp": time.Now(),
		})
	}
}
