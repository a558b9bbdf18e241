package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Card is a collected GIF. GIF and Source are immutable provenance;
// OwnerID is the only mutable column and changes exclusively through
// the trade accept transaction.
type Card struct {
	bun.BaseModel `bun:"table:cards,alias:c"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	GIF       string    `bun:"gif,notnull" json:"gif"`
	Source    string    `bun:"source" json:"source"`
	OwnerID   int64     `bun:"owner_id,notnull" json:"owner_id"`
	PackID    int64     `bun:"pack_id,notnull" json:"pack_id"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`

	Pack *Pack `bun:"rel:belongs-to,join:pack_id=id" json:"pack,omitempty"`
}
