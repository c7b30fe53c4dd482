package domain

import "context"

// TradeViewRepository is the abstraction for any kind of database intended to
// persist the last known view of the tracked trades.
type TradeViewRepository interface {
	// AddOrUpdateTradeView stores the given view, replacing any previous one
	// with the same id.
	AddOrUpdateTradeView(ctx context.Context, view TradeView) error
	// GetTradeView returns the view with the given id or ErrTradeViewNotFound.
	GetTradeView(ctx context.Context, id string) (*TradeView, error)
	// GetAllTradeViews returns all the stored views, most recently updated
	// first.
	GetAllTradeViews(ctx context.Context) ([]TradeView, error)
	// DeleteTradeView removes the view with the given id, if any.
	DeleteTradeView(ctx context.Context, id string) error
	// Close releases the resources of the repository.
	Close()
}
