package tracker_test

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"
	"github.com/swapgate-network/swapgate-daemon/internal/core/domain"
	"github.com/swapgate-network/swapgate-daemon/pkg/trocador"
)

/*
 * TradeSource
 */
type mockTradeSource struct {
	mock.Mock
}

func (m *mockTradeSource) GetTrade(
	ctx context.Context, tradeID string,
) (*trocador.Trade, error) {
	args := m.Called(ctx, tradeID)

	var res *trocador.Trade
	if a := args.Get(0); a != nil {
		res = a.(*trocador.Trade)
	}
	return res, args.Error(1)
}

type funcTradeSource func(ctx context.Context, tradeID string) (*trocador.Trade, error)

func (f funcTradeSource) GetTrade(
	ctx context.Context, tradeID string,
) (*trocador.Trade, error) {
	return f(ctx, tradeID)
}

/*
 * TradeViewRepository
 */
type mockTradeViewRepository struct {
	lock  sync.Mutex
	views map[string]domain.TradeView
}

func newMockTradeViewRepository() *mockTradeViewRepository {
	return &mockTradeViewRepository{views: make(map[string]domain.TradeView)}
}

func (r *mockTradeViewRepository) AddOrUpdateTradeView(
	_ context.Context, view domain.TradeView,
) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.views[view.ID] = view
	return nil
}

func (r *mockTradeViewRepository) GetTradeView(
	_ context.Context, id string,
) (*domain.TradeView, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	view, ok := r.views[id]
	if !ok {
		return nil, domain.ErrTradeViewNotFound
	}
	return &view, nil
}

func (r *mockTradeViewRepository) GetAllTradeViews(
	_ context.Context,
) ([]domain.TradeView, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	views := make([]domain.TradeView, 0, len(r.views))
	for _, v := range r.views {
		views = append(views, v)
	}
	return views, nil
}

func (r *mockTradeViewRepository) DeleteTradeView(_ context.Context, id string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	delete(r.views, id)
	return nil
}

func (r *mockTradeViewRepository) Close() {}

func newTrade(id, status string) *trocador.Trade {
	return &trocador.Trade{
		TradeID:         id,
		TickerFrom:      "btc",
		TickerTo:        "xmr",
		NetworkFrom:     "Mainnet",
		NetworkTo:       "Mainnet",
		AddressProvider: "bc1qprovider",
		AddressUser:     "48user",
		Provider:        "ChangeNow",
		Status:          status,
	}
}

func rateLimitedErr() error {
	return &trocador.HTTPError{StatusCode: 429}
}
