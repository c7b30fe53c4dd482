package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/swapgate-network/swapgate-daemon/internal/core/domain"
)

func TestParseCurrencyID(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		tests := []struct {
			id       string
			expected domain.Asset
		}{
			{"btc_Mainnet", domain.Asset{Ticker: "btc", Network: "Mainnet"}},
			{"usdt_ERC20", domain.Asset{Ticker: "usdt", Network: "ERC20"}},
			{"usdc_AVAX_C", domain.Asset{Ticker: "usdc", Network: "AVAX_C"}},
			{"xmr", domain.Asset{Ticker: "xmr", Network: "xmr"}},
		}
		for _, tt := range tests {
			asset, err := domain.ParseCurrencyID(tt.id)
			require.NoError(t, err)
			require.Equal(t, tt.expected, asset)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		for _, id := range []string{"", "  ", "_Mainnet", "btc_"} {
			_, err := domain.ParseCurrencyID(id)
			require.ErrorIs(t, err, domain.ErrInvalidCurrencyID, id)
		}
	})
}

func TestParseAmount(t *testing.T) {
	valid := map[string]string{
		"1":      "1",
		"0.5":    "0.5",
		".5":     "0.5",
		"2.":     "2",
		" 10.25": "10.25",
	}
	for in, expected := range valid {
		amount, err := domain.ParseAmount(in)
		require.NoError(t, err, in)
		require.Equal(t, expected, amount.String())
	}

	for _, in := range []string{"", ".", "abc", "1.2.3", "-1", "1e5"} {
		_, err := domain.ParseAmount(in)
		require.ErrorIs(t, err, domain.ErrInvalidAmount, in)
	}

	for _, in := range []string{"0", "0.000"} {
		_, err := domain.ParseAmount(in)
		require.ErrorIs(t, err, domain.ErrNonPositiveAmount, in)
	}
}

func TestCurrencyPopular(t *testing.T) {
	require.True(t, domain.IsPopular(domain.Asset{Ticker: "BTC", Network: "mainnet"}))
	require.True(t, domain.IsPopular(domain.Asset{Ticker: "usdt", Network: "ERC20"}))
	require.False(t, domain.IsPopular(domain.Asset{Ticker: "usdt", Network: "TRC20"}))

	c := domain.Currency{Ticker: "eth", Network: "ERC20"}
	require.Equal(t, "eth_ERC20", c.ID())
	require.Equal(t, domain.Asset{Ticker: "eth", Network: "ERC20"}, c.Asset())
}
