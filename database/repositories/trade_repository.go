package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/uptrace/bun"

	"github.com/packrat-app/packrat/database/models"
	"github.com/packrat-app/packrat/trading"
)

type tradeRepository struct {
	db *bun.DB
}

// NewTradeRepository returns the Postgres-backed trading.Repository.
func NewTradeRepository(db *bun.DB) trading.Repository {
	return &tradeRepository{db: db}
}

func (r *tradeRepository) Create(ctx context.Context, trade *models.Trade, cardIDs []int64) error {
	trade.Status = models.TradePending
	trade.CreatedAt = time.Now()
	trade.UpdatedAt = time.Now()

	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(trade).Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert trade: %w", err)
		}

		lines := make([]*models.TradeCard, 0, len(cardIDs))
		for _, cardID := range cardIDs {
			lines = append(lines, &models.TradeCard{
				TradeID: trade.ID,
				CardID:  cardID,
			})
		}
		if _, err := tx.NewInsert().Model(&lines).Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert trade cards: %w", err)
		}
		return nil
	})
}

func (r *tradeRepository) GetByTradeID(ctx context.Context, tradeID string) (*models.Trade, error) {
	trade := new(models.Trade)
	err := r.db.NewSelect().
		Model(trade).
		Relation("Cards").
		Relation("Cards.Card").
		Where("trade_id = ?", tradeID).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, trading.ErrTradeNotFound
		}
		return nil, fmt.Errorf("failed to get trade: %w", err)
	}
	return trade, nil
}

func (r *tradeRepository) ListByUser(ctx context.Context, userID int64, status models.TradeStatus) ([]*models.Trade, error) {
	var trades []*models.Trade
	err := r.db.NewSelect().
		Model(&trades).
		Relation("Cards").
		Relation("Cards.Card").
		Where("(sender_id = ? OR receiver_id = ?) AND status = ?", userID, userID, status).
		Order("created_at DESC").
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to list user trades: %w", err)
	}
	return trades, nil
}

func (r *tradeRepository) ListTerminalByUser(ctx context.Context, userID int64) ([]*models.Trade, error) {
	var trades []*models.Trade
	err := r.db.NewSelect().
		Model(&trades).
		Where("(sender_id = ? OR receiver_id = ?) AND status != ?", userID, userID, models.TradePending).
		Order("updated_at DESC").
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to list trade history: %w", err)
	}
	return trades, nil
}

// Accept settles a trade in a single serializable transaction.
//
// The pending check runs inside the transaction with the row locked, so
// of two concurrent settlements only the first commit observes pending;
// the loser gets trading.ErrNotPending and no partial effect. Ownership
// moves through conditional bulk updates whose predicate re-checks the
// current owner, which excludes any card that changed hands between
// offer and acceptance instead of double-transferring it.
func (r *tradeRepository) Accept(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	trade := new(models.Trade)
	err = tx.NewSelect().
		Model(trade).
		Where("id = ?", id).
		For("UPDATE").
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return trading.ErrTradeNotFound
		}
		return fmt.Errorf("failed to lock trade: %w", err)
	}
	if trade.Status != models.TradePending {
		return trading.ErrNotPending
	}

	var cardIDs []int64
	err = tx.NewSelect().
		Model((*models.TradeCard)(nil)).
		Column("card_id").
		Where("trade_id = ?", id).
		Scan(ctx, &cardIDs)
	if err != nil {
		return fmt.Errorf("failed to load trade cards: %w", err)
	}

	// Each direction moves only the subset still owned by the expected
	// party. Both subsets must be resolved before either update flips
	// owners: an update scoped to the full card list would see the other
	// direction's writes inside this transaction and move those cards
	// straight back.
	var senderOwned []int64
	err = tx.NewSelect().
		Model((*models.Card)(nil)).
		Column("id").
		Where("id IN (?) AND owner_id = ?", bun.In(cardIDs), trade.SenderID).
		Scan(ctx, &senderOwned)
	if err != nil {
		return fmt.Errorf("failed to resolve sender cards: %w", err)
	}

	var receiverOwned []int64
	err = tx.NewSelect().
		Model((*models.Card)(nil)).
		Column("id").
		Where("id IN (?) AND owner_id = ?", bun.In(cardIDs), trade.ReceiverID).
		Scan(ctx, &receiverOwned)
	if err != nil {
		return fmt.Errorf("failed to resolve receiver cards: %w", err)
	}

	moved := 0
	if len(senderOwned) > 0 {
		res, err := tx.NewUpdate().
			Model((*models.Card)(nil)).
			Set("owner_id = ?", trade.ReceiverID).
			Where("id IN (?) AND owner_id = ?", bun.In(senderOwned), trade.SenderID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to transfer cards to receiver: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil {
			moved += int(n)
		}
	}

	if len(receiverOwned) > 0 {
		res, err := tx.NewUpdate().
			Model((*models.Card)(nil)).
			Set("owner_id = ?", trade.SenderID).
			Where("id IN (?) AND owner_id = ?", bun.In(receiverOwned), trade.ReceiverID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to transfer cards to sender: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil {
			moved += int(n)
		}
	}

	_, err = tx.NewUpdate().
		Model((*models.Trade)(nil)).
		Set("status = ?", models.TradeAccepted).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update trade status: %w", err)
	}

	activities := []*models.Activity{
		{UserID: trade.SenderID, Type: models.ActivityTradeAccepted, RefID: trade.ID, CreatedAt: time.Now()},
		{UserID: trade.ReceiverID, Type: models.ActivityTradeAccepted, RefID: trade.ID, CreatedAt: time.Now()},
	}
	if _, err = tx.NewInsert().Model(&activities).Exec(ctx); err != nil {
		return fmt.Errorf("failed to record trade activity: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit trade settlement: %w", err)
	}

	slog.Info("Trade settled",
		slog.String("type", "db"),
		slog.String("trade_id", trade.TradeID),
		slog.Int("cards_referenced", len(cardIDs)),
		slog.Int("cards_moved", moved))
	return nil
}

// Reject is a single conditional update: the pending predicate sits in
// the statement itself, so a raced settlement loses cleanly.
func (r *tradeRepository) Reject(ctx context.Context, id int64) error {
	res, err := r.db.NewUpdate().
		Model((*models.Trade)(nil)).
		Set("status = ?", models.TradeRejected).
		Set("updated_at = ?", time.Now()).
		Where("id = ? AND status = ?", id, models.TradePending).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to reject trade: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return trading.ErrNotPending
	}
	return nil
}
