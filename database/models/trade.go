package models

import (
	"time"

	"github.com/uptrace/bun"
)

type TradeStatus string

const (
	TradePending  TradeStatus = "pending"
	TradeAccepted TradeStatus = "accepted"
	TradeRejected TradeStatus = "rejected"
)

// Terminal reports whether no further transition may leave this status.
func (s TradeStatus) Terminal() bool {
	return s == TradeAccepted || s == TradeRejected
}

// Trade is a proposal to move a set of cards between two users. It is
// mutated at most twice (pending -> accepted or pending -> rejected)
// and never deleted; terminal trades remain as history.
type Trade struct {
	bun.BaseModel `bun:"table:trades,alias:t"`

	ID         int64       `bun:"id,pk,autoincrement"`
	TradeID    string      `bun:"trade_id,notnull,unique"`
	SenderID   int64       `bun:"sender_id,notnull"`
	ReceiverID int64       `bun:"receiver_id,notnull"`
	Status     TradeStatus `bun:"status,notnull"`
	CreatedAt  time.Time   `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt  time.Time   `bun:"updated_at,notnull,default:current_timestamp"`

	Cards []*TradeCard `bun:"rel:has-many,join:id=trade_id"`
}

// TradeCard is one line item of a trade, referencing a card by id. The
// direction a card moves is resolved at accept time from its current owner.
type TradeCard struct {
	bun.BaseModel `bun:"table:trade_cards,alias:tc"`

	ID      int64 `bun:"id,pk,autoincrement"`
	TradeID int64 `bun:"trade_id,notnull"`
	CardID  int64 `bun:"card_id,notnull"`

	Card *Card `bun:"rel:belongs-to,join:card_id=id"`
}

// CardIDs returns the ids of all line items, in insertion order.
func (t *Trade) CardIDs() []int64 {
	ids := make([]int64, 0, len(t.Cards))
	for _, tc := range t.Cards {
		ids = append(ids, tc.CardID)
	}
	return ids
}
