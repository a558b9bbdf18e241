package models

import (
	"time"

	dbmodels "github.com/packrat-app/packrat/database/models"
)

// UserDTO is the public view of a user; it never carries the password
// hash and only exposes coin data for the user themself.
type UserDTO struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	Coins     *int64 `json:"coins,omitempty"`
	CardCount *int   `json:"card_count,omitempty"`
	CreatedAt string `json:"created_at"`
}

func NewUserDTO(u *dbmodels.User, includeCoins bool) *UserDTO {
	dto := &UserDTO{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
	if includeCoins {
		coins := u.Coins
		dto.Coins = &coins
	}
	return dto
}

func NewUserDTOs(users []*dbmodels.User) []*UserDTO {
	dtos := make([]*UserDTO, 0, len(users))
	for _, u := range users {
		dtos = append(dtos, NewUserDTO(u, false))
	}
	return dtos
}

// TradeCardDTO is one card line of a trade detail.
type TradeCardDTO struct {
	CardID  int64  `json:"card_id"`
	GIF     string `json:"gif,omitempty"`
	OwnerID int64  `json:"owner_id,omitempty"`
}

// TradeDTO is the API view of a trade.
type TradeDTO struct {
	TradeID    string         `json:"trade_id"`
	SenderID   int64          `json:"sender_id"`
	ReceiverID int64          `json:"receiver_id"`
	Status     string         `json:"status"`
	Cards      []TradeCardDTO `json:"cards,omitempty"`
	CreatedAt  string         `json:"created_at"`
}

func NewTradeDTO(t *dbmodels.Trade) *TradeDTO {
	dto := &TradeDTO{
		TradeID:    t.TradeID,
		SenderID:   t.SenderID,
		ReceiverID: t.ReceiverID,
		Status:     string(t.Status),
		CreatedAt:  t.CreatedAt.Format(time.RFC3339),
	}
	for _, tc := range t.Cards {
		card := TradeCardDTO{CardID: tc.CardID}
		if tc.Card != nil {
			card.GIF = tc.Card.GIF
			card.OwnerID = tc.Card.OwnerID
		}
		dto.Cards = append(dto.Cards, card)
	}
	return dto
}

func NewTradeDTOs(trades []*dbmodels.Trade) []*TradeDTO {
	dtos := make([]*TradeDTO, 0, len(trades))
	for _, t := range trades {
		dtos = append(dtos, NewTradeDTO(t))
	}
	return dtos
}
