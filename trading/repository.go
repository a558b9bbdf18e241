package trading

import (
	"context"

	"github.com/packrat-app/packrat/database/models"
)

// Repository is the storage contract for trades and the ownership ledger.
//
// Accept and Reject must be atomic: a partially applied settlement
// (ownership moved but status still pending, or the reverse) must never
// be observable. Both re-check the pending status inside the same
// transaction that writes, so of two concurrent settlements exactly one
// commits and the other gets ErrNotPending.
type Repository interface {
	Create(ctx context.Context, trade *models.Trade, cardIDs []int64) error
	GetByTradeID(ctx context.Context, tradeID string) (*models.Trade, error)
	ListByUser(ctx context.Context, userID int64, status models.TradeStatus) ([]*models.Trade, error)
	ListTerminalByUser(ctx context.Context, userID int64) ([]*models.Trade, error)

	// Accept swaps ownership of the trade's cards and marks the trade
	// accepted in one transaction. Each referenced card moves to the
	// counterparty of whoever owns it at accept time; cards owned by
	// neither participant are skipped.
	Accept(ctx context.Context, id int64) error

	// Reject marks a pending trade rejected. No ownership changes.
	Reject(ctx context.Context, id int64) error
}
