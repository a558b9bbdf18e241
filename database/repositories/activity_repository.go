package repositories

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/packrat-app/packrat/database/models"
)

type ActivityRepository interface {
	// Feed returns activities of users the given user follows, newest
	// first, plus the total count for pagination.
	Feed(ctx context.Context, userID int64, limit, offset int) ([]*models.Activity, int64, error)
	ListByUser(ctx context.Context, userID int64, limit int) ([]*models.Activity, error)
}

type activityRepository struct {
	db *bun.DB
}

func NewActivityRepository(db *bun.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Feed(ctx context.Context, userID int64, limit, offset int) ([]*models.Activity, int64, error) {
	var activities []*models.Activity

	base := func() *bun.SelectQuery {
		return r.db.NewSelect().
			Model(&activities).
			Join("JOIN follows AS f ON f.followee_id = a.user_id").
			Where("f.follower_id = ?", userID)
	}

	count, err := base().Count(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count feed: %w", err)
	}

	err = base().
		Order("a.created_at DESC").
		Limit(limit).
		Offset(offset).
		Scan(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load feed: %w", err)
	}
	return activities, int64(count), nil
}

func (r *activityRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*models.Activity, error) {
	var activities []*models.Activity
	err := r.db.NewSelect().
		Model(&activities).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	return activities, nil
}
