package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/packrat-app/packrat/database/models"
)

type CardRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Card, error)
	GetByOwner(ctx context.Context, ownerID int64) ([]*models.Card, error)
	CountByOwner(ctx context.Context, ownerID int64) (int, error)
}

type cardRepository struct {
	db *bun.DB
}

func NewCardRepository(db *bun.DB) CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) GetByID(ctx context.Context, id int64) (*models.Card, error) {
	card := new(models.Card)
	err := r.db.NewSelect().
		Model(card).
		Relation("Pack").
		Where("c.id = ?", id).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get card: %w", err)
	}
	return card, nil
}

func (r *cardRepository) GetByOwner(ctx context.Context, ownerID int64) ([]*models.Card, error) {
	var cards []*models.Card
	err := r.db.NewSelect().
		Model(&cards).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	return cards, nil
}

func (r *cardRepository) CountByOwner(ctx context.Context, ownerID int64) (int, error) {
	count, err := r.db.NewSelect().
		Model((*models.Card)(nil)).
		Where("owner_id = ?", ownerID).
		Count(ctx)

	if err != nil {
		return 0, fmt.Errorf("failed to count cards: %w", err)
	}
	return count, nil
}
