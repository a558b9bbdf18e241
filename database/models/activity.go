package models

import (
	"time"

	"github.com/uptrace/bun"
)

type ActivityType string

const (
	ActivityPackOpened    ActivityType = "pack_opened"
	ActivityTradeAccepted ActivityType = "trade_accepted"
)

// Activity is one feed entry. RefID points at the pack or trade the
// entry is about, depending on Type.
type Activity struct {
	bun.BaseModel `bun:"table:activities,alias:a"`

	ID        int64        `bun:"id,pk,autoincrement" json:"id"`
	UserID    int64        `bun:"user_id,notnull" json:"user_id"`
	Type      ActivityType `bun:"type,notnull" json:"type"`
	RefID     int64        `bun:"ref_id,notnull" json:"ref_id"`
	CreatedAt time.Time    `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}
