package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Pack defines a purchasable bundle: a price, a tag pool the GIFs are
// drawn from, and how many cards one opening mints.
type Pack struct {
	bun.BaseModel `bun:"table:packs,alias:p"`

	ID           int64     `bun:"id,pk,autoincrement" json:"id"`
	Name         string    `bun:"name,notnull,unique" json:"name"`
	Price        int64     `bun:"price,notnull" json:"price"`
	Tags         []string  `bun:"tags,type:jsonb" json:"tags"`
	CardsPerPack int       `bun:"cards_per_pack,notnull,default:1" json:"cards_per_pack"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}
