package models

import (
	"time"

	"github.com/uptrace/bun"
)

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           int64    `bun:"id,pk,autoincrement"`
	Email        string   `bun:"email,notnull,unique"`
	Username     string   `bun:"username,notnull"`
	PasswordHash string   `bun:"password_hash,notnull"`
	Role         UserRole `bun:"role,notnull,default:'user'"`

	// Coin economy
	Coins         int64     `bun:"coins,notnull,default:0"`
	LastCollected time.Time `bun:"last_collected"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
