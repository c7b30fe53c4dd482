package dbbadger

import (
	"context"
	"errors"

	"github.com/swapgate-network/swapgate-daemon/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type tradeViewRepositoryImpl struct {
	db *DbManager
}

// NewTradeViewRepositoryImpl returns a domain.TradeViewRepository backed by
// the given store.
func NewTradeViewRepositoryImpl(db *DbManager) domain.TradeViewRepository {
	return &tradeViewRepositoryImpl{db}
}

func (r *tradeViewRepositoryImpl) AddOrUpdateTradeView(
	_ context.Context, view domain.TradeView,
) error {
	if view.ID == "" {
		return ErrMissingTradeViewID
	}
	return r.db.Store.Upsert(view.ID, &view)
}

func (r *tradeViewRepositoryImpl) GetTradeView(
	_ context.Context, id string,
) (*domain.TradeView, error) {
	var view domain.TradeView
	if err := r.db.Store.Get(id, &view); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, domain.ErrTradeViewNotFound
		}
		return nil, err
	}
	return &view, nil
}

func (r *tradeViewRepositoryImpl) GetAllTradeViews(
	_ context.Context,
) ([]domain.TradeView, error) {
	query := badgerhold.Where("ID").Ne("").SortBy("UpdatedAt").Reverse()

	var views []domain.TradeView
	if err := r.db.Store.Find(&views, query); err != nil {
		return nil, err
	}
	return views, nil
}

func (r *tradeViewRepositoryImpl) DeleteTradeView(
	_ context.Context, id string,
) error {
	if err := r.db.Store.Delete(id, domain.TradeView{}); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil
		}
		return err
	}
	return nil
}

func (r *tradeViewRepositoryImpl) Close() {
	r.db.Close()
}
