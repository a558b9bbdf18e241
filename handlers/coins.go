package handlers

import (
	"errors"
	"math/rand"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/packrat-app/packrat/database/repositories"
	"github.com/packrat-app/packrat/utils"
)

const (
	dailyCoinsMin = 100
	dailyCoinsMax = 499
)

type grantCoinsRequest struct {
	UserID int64 `json:"user_id"`
	Coins  int64 `json:"coins"`
}

// GetCoins returns the user's balance and last daily collection time.
func GetCoins(app *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, ok := utils.ExtractUserSession(c)
		if !ok {
			return utils.SendUnauthorized(c, "Authentication required")
		}

		user, err := app.Repos.User.GetByID(c.UserContext(), session.UserID)
		if err != nil {
			return utils.SendInternalServerError(c, "Failed to load balance")
		}

		return utils.SendSuccess(c, fiber.Map{
			"coins":          user.Coins,
			"last_collected": user.LastCollected,
		}, "")
	}
}

// GrantCoins credits coins to any user. Admin only.
func GrantCoins(app *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req grantCoinsRequest
		if err := c.BodyParser(&req); err != nil {
			return utils.SendBadRequest(c, "Invalid request body", nil)
		}
		if req.Coins <= 0 {
			return utils.SendBadRequest(c, "Coins must be positive", nil)
		}

		if err := app.Repos.User.AddCoins(c.UserContext(), req.UserID, req.Coins); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return utils.SendNotFound(c, "User not found")
			}
			return utils.SendInternalServerError(c, "Failed to grant coins")
		}
		return utils.SendSuccess(c, nil, "Coins granted")
	}
}

// CollectDaily pays out the once-per-day coin bonus.
func CollectDaily(app *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, ok := utils.ExtractUserSession(c)
		if !ok {
			return utils.SendUnauthorized(c, "Authentication required")
		}

		amount := int64(rand.Intn(dailyCoinsMax-dailyCoinsMin+1) + dailyCoinsMin)
		err := app.Repos.User.CollectDaily(c.UserContext(), session.UserID, amount, time.Now())
		if err != nil {
			if errors.Is(err, repositories.ErrAlreadyCollected) {
				return utils.SendBadRequest(c, "Daily coins already collected", nil)
			}
			return utils.SendInternalServerError(c, "Failed to collect daily coins")
		}

		return utils.SendSuccess(c, fiber.Map{"coins": amount}, "Daily coins collected")
	}
}
