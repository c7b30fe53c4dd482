package tracker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/swapgate-network/swapgate-daemon/internal/core/domain"
	"github.com/swapgate-network/swapgate-daemon/pkg/trocador"
)

type nopTradeSource struct{}

func (nopTradeSource) GetTrade(context.Context, string) (*trocador.Trade, error) {
	return nil, trocador.ErrTradeNotFound
}

func TestSessionNotifyOrder(t *testing.T) {
	var updates []string
	session, err := NewSession(SessionOpts{
		TradeID: "abc",
		Source:  nopTradeSource{},
		OnUpdate: func(view domain.TradeView) {
			updates = append(updates, view.Status)
		},
	})
	require.NoError(t, err)

	// The view of request 2 is handed over before the one of request 1,
	// which must then be dropped.
	session.notify(2, domain.TradeView{ID: "abc", Status: "confirming"})
	session.notify(1, domain.TradeView{ID: "abc", Status: "waiting"})
	session.notify(3, domain.TradeView{ID: "abc", Status: "sending"})
	session.notify(3, domain.TradeView{ID: "abc", Status: "finished"})

	require.Equal(t, []string{"confirming", "sending"}, updates)
}
