package ports

import (
	"context"

	"github.com/swapgate-network/swapgate-daemon/pkg/trocador"
)

// TradeSource is the remote service owning the trades.
type TradeSource interface {
	// GetTrade returns the current record of the trade. Rate limit failures
	// must be recognizable with trocador.IsRateLimited.
	GetTrade(ctx context.Context, tradeID string) (*trocador.Trade, error)
}

// QuoteSource is the remote service quoting and creating swaps.
type QuoteSource interface {
	GetRates(ctx context.Context, params trocador.RateParams) (*trocador.RateResponse, error)
	NewTrade(ctx context.Context, params trocador.TradeParams) (*trocador.Trade, error)
}

// ExchangeAPI groups all the operations of the remote aggregator.
type ExchangeAPI interface {
	TradeSource
	QuoteSource
}
