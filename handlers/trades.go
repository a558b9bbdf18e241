package handlers

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/packrat-app/packrat/models"
	"github.com/packrat-app/packrat/trading"
	"github.com/packrat-app/packrat/utils"
)

type createTradeRequest struct {
	UserID int64   `json:"user_id"` // receiver
	Cards  []int64 `json:"cards"`
}

// CreateTrade offers a set of the sender's cards to another user.
func CreateTrade(app *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, ok := utils.ExtractUserSession(c)
		if !ok {
			return utils.SendUnauthorized(c, "Authentication required")
		}

		var req createTradeRequest
		if err := c.BodyParser(&req); err != nil {
			return utils.SendBadRequest(c, "Invalid request body", nil)
		}

		tradeID, err := app.Trades.CreateTrade(c.UserContext(), session.UserID, req.UserID, req.Cards)
		if err != nil {
			switch {
			case errors.Is(err, trading.ErrSelfTrade):
				return utils.SendBadRequest(c, "Cannot trade with yourself", nil)
			case errors.Is(err, trading.ErrNoCards):
				return utils.SendBadRequest(c, "Trade must include at least one card", nil)
			default:
				slog.Error("Failed to create trade", slog.String("error", err.Error()))
				return utils.SendInternalServerError(c, "Failed to create trade")
			}
		}

		return utils.SendSuccess(c, fiber.Map{"trade_id": tradeID}, "Trade created")
	}
}

// ListPendingTrades returns the acting user's open trades.
func ListPendingTrades(app *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, ok := utils.ExtractUserSession(c)
		if !ok {
			return utils.SendUnauthorized(c, "Authentication required")
		}

		trades, err := app.Trades.ListPendingTrades(c.UserContext(), session.UserID)
		if err != nil {
			return utils.SendInternalServerError(c, "Failed to list trades")
		}
		return utils.SendSuccess(c, models.NewTradeDTOs(trades), "")
	}
}

// ListTradeHistory returns the acting user's settled trades.
func ListTradeHistory(app *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, ok := utils.ExtractUserSession(c)
		if !ok {
			return utils.SendUnauthorized(c, "Authentication required")
		}

		trades, err := app.Trades.ListTradeHistory(c.UserContext(), session.UserID)
		if err != nil {
			return utils.SendInternalServerError(c, "Failed to list trade history")
		}
		return utils.SendSuccess(c, models.NewTradeDTOs(trades), "")
	}
}

// GetPendingTrade returns the actionable detail view of one trade.
func GetPendingTrade(app *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tradeID := strings.TrimSpace(c.Params("tradeId"))
		if tradeID == "" {
			return utils.SendBadRequest(c, "Missing trade id", nil)
		}

		trade, err := app.Trades.GetPendingTrade(c.UserContext(), tradeID)
		if err != nil {
			switch {
			case errors.Is(err, trading.ErrTradeNotFound):
				return utils.SendNotFound(c, "Trade not found")
			case errors.Is(err, trading.ErrNotPending):
				return utils.SendBadRequest(c, "Trade is not pending", nil)
			default:
				return utils.SendInternalServerError(c, "Failed to load trade")
			}
		}

		return utils.SendSuccess(c, models.NewTradeDTO(trade), "")
	}
}

// AcceptTrade settles a trade, moving card ownership atomically.
func AcceptTrade(app *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, ok := utils.ExtractUserSession(c)
		if !ok {
			return utils.SendUnauthorized(c, "Authentication required")
		}
		tradeID := strings.TrimSpace(c.Params("tradeId"))
		if tradeID == "" {
			return utils.SendBadRequest(c, "Missing trade id", nil)
		}

		if err := app.Trades.AcceptTrade(c.UserContext(), session.UserID, tradeID); err != nil {
			return sendTradeError(c, err, "Failed to accept trade")
		}
		return utils.SendSuccess(c, nil, "Trade accepted")
	}
}

// RejectTrade declines a trade. No cards change hands.
func RejectTrade(app *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, ok := utils.ExtractUserSession(c)
		if !ok {
			return utils.SendUnauthorized(c, "Authentication required")
		}
		tradeID := strings.TrimSpace(c.Params("tradeId"))
		if tradeID == "" {
			return utils.SendBadRequest(c, "Missing trade id", nil)
		}

		if err := app.Trades.RejectTrade(c.UserContext(), session.UserID, tradeID); err != nil {
			return sendTradeError(c, err, "Failed to reject trade")
		}
		return utils.SendSuccess(c, nil, "Trade rejected")
	}
}

func sendTradeError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, trading.ErrTradeNotFound):
		return utils.SendNotFound(c, "Trade not found")
	case errors.Is(err, trading.ErrNotPending):
		return utils.SendBadRequest(c, "Trade is not pending", nil)
	case errors.Is(err, trading.ErrNotReceiver):
		return utils.SendForbidden(c, "Only the trade receiver can do this")
	default:
		slog.Error("Trade operation failed", slog.String("error", err.Error()))
		return utils.SendInternalServerError(c, fallback)
	}
}
