package trocador

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// FixedTrue and FixedFalse are the literal values used by the API to flag
	// a quote as fixed or floating rate.
	FixedTrue  = "True"
	FixedFalse = "False"
)

// Quote is one provider offer for a proposed swap.
type Quote struct {
	Provider               string  `json:"provider"`
	KYCRating              string  `json:"kycrating"`
	LogPolicy              string  `json:"logpolicy"`
	Insurance              float64 `json:"insurance"`
	Fixed                  string  `json:"fixed"`
	AmountTo               string  `json:"amount_to"`
	UnadjustedAmountTo     float64 `json:"unadjusted_amount_to,omitempty"`
	Waste                  string  `json:"waste"`
	ETA                    float64 `json:"eta"`
	ProviderLogo           string  `json:"provider_logo"`
	AmountToUSD            string  `json:"amount_to_USD"`
	AmountFromUSD          string  `json:"amount_from_USD"`
	USDTotalCostPercentage string  `json:"USD_total_cost_percentage"`
	Partner                string  `json:"partner,omitempty"`
}

// IsFixed returns whether the quote is a fixed rate one.
func (q Quote) IsFixed() bool {
	return strings.EqualFold(q.Fixed, FixedTrue)
}

// QuoteSet is the list of quotes returned for a rate request together with
// the deposit limits and the KYC/log policy legends.
type QuoteSet struct {
	Quotes        []Quote  `json:"quotes"`
	MinDeposit    float64  `json:"min_deposit"`
	MaxDeposit    float64  `json:"max_deposit"`
	KYCList       []string `json:"kyc_list"`
	LogPolicyList []string `json:"logpolicy_list"`
	Markup        bool     `json:"markup"`
	BestOnly      bool     `json:"best_only"`
}

// RateResponse is the body returned by the new_rate endpoint.
type RateResponse struct {
	TradeID     string          `json:"trade_id"`
	Date        string          `json:"date"`
	TickerFrom  string          `json:"ticker_from"`
	TickerTo    string          `json:"ticker_to"`
	CoinFrom    string          `json:"coin_from"`
	CoinTo      string          `json:"coin_to"`
	NetworkFrom string          `json:"network_from"`
	NetworkTo   string          `json:"network_to"`
	AmountFrom  decimal.Decimal `json:"amount_from"`
	AmountTo    decimal.Decimal `json:"amount_to"`
	Provider    string          `json:"provider"`
	Fixed       bool            `json:"fixed"`
	Payment     bool            `json:"payment"`
	Status      string          `json:"status"`
	Quotes      QuoteSet        `json:"quotes"`
}

// TradeDetails holds the optional nested details of a trade.
type TradeDetails struct {
	ExpiresAt                    string          `json:"expiresAt,omitempty"`
	HashOut                      *string         `json:"hashout,omitempty"`
	Support                      json.RawMessage `json:"support,omitempty"`
	AmountBTC                    float64         `json:"amount_btc,omitempty"`
	OriginalETA                  float64         `json:"original_eta,omitempty"`
	OriginalAmountFromUSD        float64         `json:"original_amount_from_USD,omitempty"`
	OriginalAmountToUSD          float64         `json:"original_amount_to_USD,omitempty"`
	OriginalUSDTotalCostPercent  float64         `json:"original_USD_total_cost_percentage,omitempty"`
	OriginalWaste                float64         `json:"original_waste,omitempty"`
	MarketRateCreation           float64         `json:"marketrate_creation,omitempty"`
	EstimationCreationDifference float64         `json:"estimation_creation_diff,omitempty"`
	ProviderLogo                 string          `json:"provider_logo,omitempty"`
}

// Trade is a trade record as returned by the trade and new_trade endpoints.
type Trade struct {
	TradeID         string          `json:"trade_id"`
	Date            string          `json:"date"`
	TickerFrom      string          `json:"ticker_from"`
	TickerTo        string          `json:"ticker_to"`
	CoinFrom        string          `json:"coin_from"`
	CoinTo          string          `json:"coin_to"`
	NetworkFrom     string          `json:"network_from"`
	NetworkTo       string          `json:"network_to"`
	AmountFrom      decimal.Decimal `json:"amount_from"`
	AmountTo        decimal.Decimal `json:"amount_to"`
	AddressFrom     string          `json:"address_from"`
	AddressTo       string          `json:"address_to"`
	AddressUser     string          `json:"address_user"`
	AddressProvider string          `json:"address_provider"`
	Provider        string          `json:"provider"`
	Fixed           bool            `json:"fixed"`
	Payment         bool            `json:"payment"`
	Status          string          `json:"status"`
	HashIn          string          `json:"hash_in,omitempty"`
	HashOut         string          `json:"hash_out,omitempty"`
	URLStatus       string          `json:"url_status,omitempty"`
	Details         *TradeDetails   `json:"details,omitempty"`
	Quotes          *QuoteSet       `json:"quotes,omitempty"`
}

// IsNew returns whether the trade has only been quoted and not yet created
// with any provider.
func (t Trade) IsNew() bool {
	return strings.EqualFold(strings.TrimSpace(t.Status), "new")
}

// RateResponse converts the trade into the rate response shape, reusing the
// quotes embedded in the trade. It returns nil if the trade carries no quotes.
func (t Trade) RateResponse() *RateResponse {
	if t.Quotes == nil {
		return nil
	}
	return &RateResponse{
		TradeID:     t.TradeID,
		Date:        t.Date,
		TickerFrom:  t.TickerFrom,
		TickerTo:    t.TickerTo,
		CoinFrom:    t.CoinFrom,
		CoinTo:      t.CoinTo,
		NetworkFrom: t.NetworkFrom,
		NetworkTo:   t.NetworkTo,
		AmountFrom:  t.AmountFrom,
		AmountTo:    t.AmountTo,
		Provider:    t.Provider,
		Fixed:       t.Fixed,
		Payment:     t.Payment,
		Status:      t.Status,
		Quotes:      *t.Quotes,
	}
}

// RateParams are the arguments of a new_rate request.
type RateParams struct {
	TickerFrom  string
	TickerTo    string
	NetworkFrom string
	NetworkTo   string
	AmountFrom  decimal.Decimal
}

func (p RateParams) validate() error {
	if p.TickerFrom == "" || p.TickerTo == "" {
		return ErrMissingTicker
	}
	if p.NetworkFrom == "" || p.NetworkTo == "" {
		return ErrMissingNetwork
	}
	if !p.AmountFrom.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

func (p RateParams) query() url.Values {
	q := url.Values{}
	q.Set("ticker_from", p.TickerFrom)
	q.Set("ticker_to", p.TickerTo)
	q.Set("network_from", p.NetworkFrom)
	q.Set("network_to", p.NetworkTo)
	q.Set("amount_from", p.AmountFrom.String())
	return q
}

// TradeParams are the arguments of a new_trade request, committing to the
// quote of the given provider for a previously rated trade.
type TradeParams struct {
	RateParams
	TradeID  string
	Address  string
	Provider string
	Fixed    bool
}

func (p TradeParams) validate() error {
	if p.TradeID == "" {
		return ErrMissingTradeID
	}
	if err := p.RateParams.validate(); err != nil {
		return err
	}
	if strings.TrimSpace(p.Address) == "" {
		return ErrMissingAddress
	}
	if p.Provider == "" {
		return ErrMissingProvider
	}
	return nil
}

func (p TradeParams) query() url.Values {
	q := p.RateParams.query()
	q.Set("id", p.TradeID)
	q.Set("address", strings.TrimSpace(p.Address))
	q.Set("provider", p.Provider)
	q.Set("fixed", fmt.Sprintf("%t", p.Fixed))
	return q
}
