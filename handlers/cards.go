package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/packrat-app/packrat/database/repositories"
	"github.com/packrat-app/packrat/utils"
)

// ListOwnCards returns the authenticated user's collection.
func ListOwnCards(app *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, ok := utils.ExtractUserSession(c)
		if !ok {
			return utils.SendUnauthorized(c, "Authentication required")
		}

		cards, err := app.Repos.Card.GetByOwner(c.UserContext(), session.UserID)
		if err != nil {
			return utils.SendInternalServerError(c, "Failed to list cards")
		}
		return utils.SendSuccess(c, cards, "")
	}
}

// ListUserCards returns any user's collection; collections are public.
func ListUserCards(app *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := utils.ParseID(c, "userId")
		if !ok {
			return utils.SendBadRequest(c, "Invalid user id", nil)
		}

		cards, err := app.Repos.Card.GetByOwner(c.UserContext(), userID)
		if err != nil {
			return utils.SendInternalServerError(c, "Failed to list cards")
		}
		return utils.SendSuccess(c, cards, "")
	}
}

// ListPacks returns the pack catalogue.
func ListPacks(app *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		packs, err := app.Repos.Pack.List(c.UserContext())
		if err != nil {
			return utils.SendInternalServerError(c, "Failed to list packs")
		}
		return utils.SendSuccess(c, packs, "")
	}
}

// OpenPack charges the user for a pack and mints its cards.
func OpenPack(app *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, ok := utils.ExtractUserSession(c)
		if !ok {
			return utils.SendUnauthorized(c, "Authentication required")
		}
		packID, ok := utils.ParseID(c, "packId")
		if !ok {
			return utils.SendBadRequest(c, "Invalid pack id", nil)
		}

		cards, err := app.Packs.OpenPack(c.UserContext(), session.UserID, packID)
		if err != nil {
			switch {
			case errors.Is(err, repositories.ErrNotFound):
				return utils.SendNotFound(c, "Pack not found")
			case errors.Is(err, repositories.ErrInsufficientCoins):
				return utils.SendForbidden(c, "Not enough coins")
			default:
				slog.Error("Failed to open pack",
					slog.Int64("user_id", session.UserID),
					slog.Int64("pack_id", packID),
					slog.String("error", err.Error()))
				return utils.SendInternalServerError(c, "Failed to open pack")
			}
		}

		return utils.SendSuccess(c, cards, "Pack opened")
	}
}
