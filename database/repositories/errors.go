package repositories

import "errors"

var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrInsufficientCoins = errors.New("not enough coins")
	ErrAlreadyCollected  = errors.New("daily coins already collected")
	ErrAlreadyFollowing  = errors.New("already following user")
	ErrNotFollowing      = errors.New("not following user")
)
