package models

import (
	"github.com/packrat-app/packrat/database/repositories"
	"github.com/packrat-app/packrat/trading"
)

// Repositories bundles every storage interface the handlers need.
type Repositories struct {
	User     repositories.UserRepository
	Card     repositories.CardRepository
	Pack     repositories.PackRepository
	Follow   repositories.FollowRepository
	Activity repositories.ActivityRepository
	Trade    trading.Repository
}

func NewRepositories(
	user repositories.UserRepository,
	card repositories.CardRepository,
	pack repositories.PackRepository,
	follow repositories.FollowRepository,
	activity repositories.ActivityRepository,
	trade trading.Repository,
) *Repositories {
	return &Repositories{
		User:     user,
		Card:     card,
		Pack:     pack,
		Follow:   follow,
		Activity: activity,
		Trade:    trade,
	}
}
