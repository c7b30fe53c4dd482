package tracker_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/swapgate-network/swapgate-daemon/internal/core/application/tracker"
	"github.com/swapgate-network/swapgate-daemon/internal/core/domain"
	"github.com/swapgate-network/swapgate-daemon/pkg/trocador"
)

func TestMapTrade(t *testing.T) {
	t.Run("full record", func(t *testing.T) {
		trade := trocador.Trade{
			TradeID:         "abc",
			TickerFrom:      "btc",
			TickerTo:        "usdt",
			NetworkFrom:     "Mainnet",
			NetworkTo:       "ERC20",
			AmountFrom:      decimal.RequireFromString("0.5"),
			AmountTo:        decimal.RequireFromString("30000"),
			AddressFrom:     "bc1qfrom",
			AddressProvider: "bc1qprovider",
			AddressTo:       "0xto",
			AddressUser:     "0xuser",
			Provider:        "FixedFloat",
			Fixed:           true,
			Status:          "confirming",
			Details:         &trocador.TradeDetails{ExpiresAt: "2024-05-01T10:30:00Z"},
		}

		view := tracker.MapTrade(trade, "fallback")
		require.Equal(t, "abc", view.ID)
		require.Equal(t, domain.RateTypeFixed, view.RateType)
		require.Equal(t, "60000.00000000", view.ImpliedRate)
		require.Equal(t, "confirming", view.Status)
		require.Equal(t, "bc1qprovider", view.DepositAddress)
		require.Equal(t, "0xuser", view.PayoutAddress)
		require.Equal(t, domain.Asset{Ticker: "btc", Network: "Mainnet"}, view.SourceAsset)
		require.Equal(t, domain.Asset{Ticker: "usdt", Network: "ERC20"}, view.TargetAsset)
		require.Equal(t, "0.5", view.ExpectedSourceAmount)
		require.Equal(t, "30000", view.ExpectedTargetAmount)
		require.Equal(t, "0.5", view.DepositedSourceAmount)
		require.Equal(t, "30000", view.SettledTargetAmount)
		require.Zero(t, view.Confirmations)
		require.Equal(t, "FixedFloat", view.ProviderName)
		require.NotNil(t, view.ExpiresAt)
		require.True(t, view.ExpiresAt.Equal(time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)))
	})

	t.Run("defaults and fallbacks", func(t *testing.T) {
		trade := trocador.Trade{
			AddressFrom: "bc1qfrom",
			AddressTo:   "0xto",
		}

		view := tracker.MapTrade(trade, "fallback")
		require.Equal(t, "fallback", view.ID)
		require.Equal(t, domain.RateTypeFloating, view.RateType)
		require.Equal(t, "0", view.ImpliedRate)
		require.Equal(t, domain.StatusWaiting, view.Status)
		require.Nil(t, view.ExpiresAt)
		require.Equal(t, "bc1qfrom", view.DepositAddress)
		require.Equal(t, "0xto", view.PayoutAddress)
	})

	t.Run("expiry formats", func(t *testing.T) {
		tests := []struct {
			value string
			valid bool
		}{
			{"2024-05-01T10:30:00Z", true},
			{"2024-05-01T10:30:00.123456+02:00", true},
			{"2024-05-01T10:30:00", true},
			{"2024-05-01T10:30:00.123456", true},
			{"2024-05-01 10:30:00", true},
			{"", false},
			{"tomorrow", false},
		}
		for _, tt := range tests {
			trade := trocador.Trade{
				TradeID: "abc",
				Details: &trocador.TradeDetails{ExpiresAt: tt.value},
			}
			view := tracker.MapTrade(trade, "")
			require.Equal(t, tt.valid, view.ExpiresAt != nil, tt.value)
		}
	})
}
