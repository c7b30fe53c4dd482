package domain

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is an asset listed by the exchange.
type Currency struct {
	Name    string  `json:"name"`
	Ticker  string  `json:"ticker"`
	Network string  `json:"network"`
	Memo    bool    `json:"memo"`
	Image   string  `json:"image"`
	Minimum float64 `json:"minimum"`
	Maximum float64 `json:"maximum"`
	Popular bool    `json:"popular"`
}

// ID returns the currency id in the ticker_network format.
func (c Currency) ID() string {
	return CurrencyID(c.Ticker, c.Network)
}

// Asset returns the ticker/network pair of the currency.
func (c Currency) Asset() Asset {
	return Asset{Ticker: c.Ticker, Network: c.Network}
}

// PopularAssets are the currencies flagged as popular in the catalog.
var PopularAssets = []Asset{
	{"btc", "Mainnet"},
	{"eth", "ERC20"},
	{"usdt", "ERC20"},
	{"sol", "Mainnet"},
	{"usdc", "ERC20"},
	{"xrp", "Mainnet"},
	{"doge", "Mainnet"},
	{"trx", "Mainnet"},
	{"ton", "Mainnet"},
}

// IsPopular returns whether the asset is one of PopularAssets, ignoring case.
func IsPopular(asset Asset) bool {
	for _, p := range PopularAssets {
		if strings.EqualFold(p.Ticker, asset.Ticker) &&
			strings.EqualFold(p.Network, asset.Network) {
			return true
		}
	}
	return false
}

// CurrencyID joins ticker and network in the ticker_network format.
func CurrencyID(ticker, network string) string {
	return fmt.Sprintf("%s_%s", ticker, network)
}

// ParseCurrencyID splits a ticker_network currency id. The network is
// everything after the first underscore, an id without underscore uses the
// ticker as network.
func ParseCurrencyID(id string) (Asset, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Asset{}, ErrInvalidCurrencyID
	}
	parts := strings.SplitN(id, "_", 2)
	if parts[0] == "" {
		return Asset{}, ErrInvalidCurrencyID
	}
	if len(parts) == 1 {
		return Asset{Ticker: parts[0], Network: parts[0]}, nil
	}
	if parts[1] == "" {
		return Asset{}, ErrInvalidCurrencyID
	}
	return Asset{Ticker: parts[0], Network: parts[1]}, nil
}

var amountRegexp = regexp.MustCompile(`^\d*\.?\d*$`)

// ParseAmount validates a user provided amount, made of digits with at most
// one dot, and returns it if greater than zero.
func ParseAmount(amount string) (decimal.Decimal, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" || !amountRegexp.MatchString(amount) {
		return decimal.Zero, ErrInvalidAmount
	}
	if amount == "." {
		return decimal.Zero, ErrInvalidAmount
	}
	// A trailing or leading dot is accepted while typing.
	normalized := strings.TrimSuffix(amount, ".")
	if strings.HasPrefix(normalized, ".") {
		normalized = "0" + normalized
	}
	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if !d.IsPositive() {
		return decimal.Zero, ErrNonPositiveAmount
	}
	return d, nil
}
