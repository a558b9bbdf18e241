package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/packrat-app/packrat/database/models"
)

type FollowRepository interface {
	Follow(ctx context.Context, followerID, followeeID int64) error
	Unfollow(ctx context.Context, followerID, followeeID int64) error
	Followers(ctx context.Context, userID int64) ([]*models.User, error)
	Following(ctx context.Context, userID int64) ([]*models.User, error)
}

type followRepository struct {
	db *bun.DB
}

func NewFollowRepository(db *bun.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) Follow(ctx context.Context, followerID, followeeID int64) error {
	follow := &models.Follow{
		FollowerID: followerID,
		FolloweeID: followeeID,
		CreatedAt:  time.Now(),
	}

	res, err := r.db.NewInsert().
		Model(follow).
		On("CONFLICT (follower_id, followee_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to follow user: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrAlreadyFollowing
	}
	return nil
}

func (r *followRepository) Unfollow(ctx context.Context, followerID, followeeID int64) error {
	res, err := r.db.NewDelete().
		Model((*models.Follow)(nil)).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to unfollow user: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFollowing
	}
	return nil
}

func (r *followRepository) Followers(ctx context.Context, userID int64) ([]*models.User, error) {
	var users []*models.User
	err := r.db.NewSelect().
		Model(&users).
		Join("JOIN follows AS f ON f.follower_id = u.id").
		Where("f.followee_id = ?", userID).
		Order("f.created_at DESC").
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to list followers: %w", err)
	}
	return users, nil
}

func (r *followRepository) Following(ctx context.Context, userID int64) ([]*models.User, error) {
	var users []*models.User
	err := r.db.NewSelect().
		Model(&users).
		Join("JOIN follows AS f ON f.followee_id = u.id").
		Where("f.follower_id = ?", userID).
		Order("f.created_at DESC").
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to list following: %w", err)
	}
	return users, nil
}
