package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RateType tells whether a trade was made at a fixed or floating rate.
type RateType string

const (
	RateTypeFixed    RateType = "fixed"
	RateTypeFloating RateType = "floating"
)

// ParseRateType returns the rate type for the given string, defaulting to
// floating for anything but "fixed".
func ParseRateType(s string) RateType {
	if strings.EqualFold(strings.TrimSpace(s), string(RateTypeFixed)) {
		return RateTypeFixed
	}
	return RateTypeFloating
}

// Asset identifies a currency on a specific network. Network may be empty.
type Asset struct {
	Ticker  string `json:"ticker"`
	Network string `json:"network"`
}

// ID returns the currency id of the asset in the ticker_network format.
func (a Asset) ID() string {
	return CurrencyID(a.Ticker, a.Network)
}

// TradeView is the normalized projection of a remote trade that every
// status page renders. It is replaced wholesale on every successful fetch.
type TradeView struct {
	ID                    string     `json:"id"`
	RateType              RateType   `json:"rate_type"`
	ImpliedRate           string     `json:"implied_rate"`
	Status                string     `json:"status"`
	ExpiresAt             *time.Time `json:"expires_at,omitempty"`
	DepositAddress        string     `json:"deposit_address"`
	PayoutAddress         string     `json:"payout_address"`
	SourceAsset           Asset      `json:"source_asset"`
	TargetAsset           Asset      `json:"target_asset"`
	ExpectedSourceAmount  string     `json:"expected_source_amount"`
	ExpectedTargetAmount  string     `json:"expected_target_amount"`
	DepositedSourceAmount string     `json:"deposited_source_amount"`
	SettledTargetAmount   string     `json:"settled_target_amount"`
	Confirmations         int        `json:"confirmations"`
	ProviderName          string     `json:"provider_name"`
	// UpdatedAt is the time the view was last fetched. It is used only by the
	// store to list views by recency.
	UpdatedAt int64 `json:"updated_at"`
}

// Stage returns the lifecycle stage of the trade, derived from its status.
func (v TradeView) Stage() StatusStage {
	return DeriveStage(v.Status)
}

// PaymentURI returns the wallet payment uri for the deposit of the trade.
func (v TradeView) PaymentURI() string {
	return PaymentURI(v.DepositAddress, v.ExpectedSourceAmount, v.SourceAsset)
}

// IsExpired returns whether the trade has an expiration that is not in the
// future with respect to now.
func (v TradeView) IsExpired(now time.Time) bool {
	if v.ExpiresAt == nil {
		return false
	}
	return Countdown(*v.ExpiresAt, now).Expired
}

// ImpliedRate returns targetAmount / sourceAmount with 8 fractional digits, or
// "0" if sourceAmount is zero.
func ImpliedRate(sourceAmount, targetAmount decimal.Decimal) string {
	if sourceAmount.IsZero() {
		return "0"
	}
	return targetAmount.DivRound(sourceAmount, 16).StringFixed(8)
}
