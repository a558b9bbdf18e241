package trading

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/packrat-app/packrat/database/models"
)

// Service owns the trade state machine:
//
//	          CreateTrade
//	(none) ───────────────▶ pending
//	                           │  AcceptTrade (re-validates ownership)
//	                           ├───────────────▶ accepted (terminal)
//	                           │  RejectTrade
//	                           └───────────────▶ rejected (terminal)
//
// Every method takes the acting user explicitly; nothing here reads
// ambient session state.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateTrade records a pending trade offering cardIDs from sender to
// receiver. Ownership is deliberately not validated here: the sender may
// dispose of a card between offer and acceptance, and the accept
// transaction re-checks ownership and skips cards that moved.
func (s *Service) CreateTrade(ctx context.Context, senderID, receiverID int64, cardIDs []int64) (string, error) {
	if senderID == receiverID {
		return "", ErrSelfTrade
	}
	if len(cardIDs) == 0 {
		return "", ErrNoCards
	}

	trade := &models.Trade{
		TradeID:    uuid.NewString(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Status:     models.TradePending,
	}
	if err := s.repo.Create(ctx, trade, cardIDs); err != nil {
		return "", fmt.Errorf("failed to create trade: %w", err)
	}

	slog.Info("Trade created",
		slog.String("trade_id", trade.TradeID),
		slog.Int64("sender_id", senderID),
		slog.Int64("receiver_id", receiverID),
		slog.Int("cards", len(cardIDs)))
	return trade.TradeID, nil
}

// GetPendingTrade returns the actionable view of a trade. Terminal
// trades are only reachable through ListTradeHistory.
func (s *Service) GetPendingTrade(ctx context.Context, tradeID string) (*models.Trade, error) {
	trade, err := s.repo.GetByTradeID(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	if trade.Status != models.TradePending {
		return nil, ErrNotPending
	}
	return trade, nil
}

// ListPendingTrades returns all pending trades the user participates in,
// as sender or receiver.
func (s *Service) ListPendingTrades(ctx context.Context, actingUserID int64) ([]*models.Trade, error) {
	return s.repo.ListByUser(ctx, actingUserID, models.TradePending)
}

// ListTradeHistory returns the user's settled trades.
func (s *Service) ListTradeHistory(ctx context.Context, actingUserID int64) ([]*models.Trade, error) {
	return s.repo.ListTerminalByUser(ctx, actingUserID)
}

// AcceptTrade settles a pending trade. Only the receiver may accept.
// The status check here is a fast path; the repository repeats it inside
// the settlement transaction, so a concurrent accept or reject cannot
// apply twice.
func (s *Service) AcceptTrade(ctx context.Context, actingUserID int64, tradeID string) error {
	trade, err := s.repo.GetByTradeID(ctx, tradeID)
	if err != nil {
		return err
	}
	if trade.Status != models.TradePending {
		return ErrNotPending
	}
	if trade.ReceiverID != actingUserID {
		return ErrNotReceiver
	}

	if err := s.repo.Accept(ctx, trade.ID); err != nil {
		return err
	}

	slog.Info("Trade accepted",
		slog.String("trade_id", trade.TradeID),
		slog.Int64("sender_id", trade.SenderID),
		slog.Int64("receiver_id", trade.ReceiverID))
	return nil
}

// RejectTrade marks a pending trade rejected. Only the receiver may
// reject. No card changes hands.
func (s *Service) RejectTrade(ctx context.Context, actingUserID int64, tradeID string) error {
	trade, err := s.repo.GetByTradeID(ctx, tradeID)
	if err != nil {
		return err
	}
	if trade.Status != models.TradePending {
		return ErrNotPending
	}
	if trade.ReceiverID != actingUserID {
		return ErrNotReceiver
	}

	if err := s.repo.Reject(ctx, trade.ID); err != nil {
		return err
	}

	slog.Info("Trade rejected",
		slog.String("trade_id", trade.TradeID),
		slog.Int64("receiver_id", trade.ReceiverID))
	return nil
}
