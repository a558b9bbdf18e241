package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/packrat-app/packrat/database/models"
)

type PackRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Pack, error)
	List(ctx context.Context) ([]*models.Pack, error)

	// Open charges the buyer and mints the cards in one transaction.
	// The price is deducted by a conditional update (coins >= price in
	// the predicate), so a concurrent opening cannot overdraw.
	Open(ctx context.Context, userID int64, pack *models.Pack, cards []*models.Card) error
}

type packRepository struct {
	db *bun.DB
}

func NewPackRepository(db *bun.DB) PackRepository {
	return &packRepository{db: db}
}

func (r *packRepository) GetByID(ctx context.Context, id int64) (*models.Pack, error) {
	pack := new(models.Pack)
	err := r.db.NewSelect().
		Model(pack).
		Where("id = ?", id).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get pack: %w", err)
	}
	return pack, nil
}

func (r *packRepository) List(ctx context.Context) ([]*models.Pack, error) {
	var packs []*models.Pack
	err := r.db.NewSelect().
		Model(&packs).
		Order("price ASC").
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to list packs: %w", err)
	}
	return packs, nil
}

func (r *packRepository) Open(ctx context.Context, userID int64, pack *models.Pack, cards []*models.Card) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model((*models.User)(nil)).
			Set("coins = coins - ?", pack.Price).
			Set("updated_at = ?", time.Now()).
			Where("id = ? AND coins >= ?", userID, pack.Price).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to charge for pack: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return ErrInsufficientCoins
		}

		for _, card := range cards {
			card.OwnerID = userID
			card.PackID = pack.ID
			card.CreatedAt = time.Now()
		}
		if _, err := tx.NewInsert().Model(&cards).Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert cards: %w", err)
		}

		activity := &models.Activity{
			UserID:    userID,
			Type:      models.ActivityPackOpened,
			RefID:     pack.ID,
			CreatedAt: time.Now(),
		}
		if _, err := tx.NewInsert().Model(activity).Exec(ctx); err != nil {
			return fmt.Errorf("failed to record pack activity: %w", err)
		}
		return nil
	})
}
