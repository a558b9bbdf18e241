package trading

import "errors"

var (
	// ErrTradeNotFound means no trade exists for the given id.
	ErrTradeNotFound = errors.New("trade not found")

	// ErrNotPending means the trade already reached a terminal status.
	ErrNotPending = errors.New("trade is not pending")

	// ErrNotReceiver means the acting user may not settle this trade.
	ErrNotReceiver = errors.New("only the trade receiver can settle a trade")

	// ErrSelfTrade means sender and receiver are the same user.
	ErrSelfTrade = errors.New("cannot trade with yourself")

	// ErrNoCards means the trade references no cards.
	ErrNoCards = errors.New("trade must include at least one card")
)
