package exchange

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/swapgate-network/swapgate-daemon/internal/core/domain"
	"github.com/swapgate-network/swapgate-daemon/internal/core/ports"
	"github.com/swapgate-network/swapgate-daemon/pkg/trocador"
)

//go:embed currencies.json
var currenciesJSON []byte

// OpenKind tells how an opened trade must be presented.
type OpenKind string

const (
	// OpenKindQuote is returned for trades that are only quoted: the user has
	// to choose one of the quotes.
	OpenKindQuote OpenKind = "quote"
	// OpenKindStatus is returned for created trades, whose status must be
	// tracked.
	OpenKindStatus OpenKind = "status"
)

// OpenedTrade is the result of opening a trade by id.
type OpenedTrade struct {
	Kind  OpenKind
	Trade *trocador.Trade
	// Rates is set only for OpenKindQuote.
	Rates *trocador.RateResponse
}

// RateRequest ...
type RateRequest struct {
	From     string
	To       string
	Amount   string
	RateType domain.RateType
}

// Rates is a rate response with the quotes filtered by rate type.
type Rates struct {
	*trocador.RateResponse
	Source   domain.Currency  `json:"source_currency"`
	Target   domain.Currency  `json:"target_currency"`
	RateType domain.RateType  `json:"rate_type"`
	Filtered []trocador.Quote `json:"filtered_quotes"`
	// Best is the first of the filtered quotes, if any.
	Best *trocador.Quote `json:"best_quote,omitempty"`
}

// CreateTradeRequest ...
type CreateTradeRequest struct {
	TradeID  string
	From     string
	To       string
	Amount   string
	Address  string
	Provider string
	Fixed    bool
}

// Service implements the exchange flow: currency catalog, rate discovery,
// trade creation and trade opening.
type Service struct {
	api        ports.ExchangeAPI
	currencies []domain.Currency
	byID       map[string]domain.Currency
}

// NewService returns a service backed by the given API and the embedded
// currency catalog.
func NewService(api ports.ExchangeAPI) (*Service, error) {
	if api == nil {
		return nil, fmt.Errorf("missing exchange api")
	}

	currencies, err := loadCurrencies(currenciesJSON)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]domain.Currency, len(currencies))
	for _, c := range currencies {
		byID[strings.ToLower(c.ID())] = c
	}

	return &Service{api, currencies, byID}, nil
}

// Currencies returns the catalog, or only its popular currencies.
func (s *Service) Currencies(popularOnly bool) []domain.Currency {
	if !popularOnly {
		list := make([]domain.Currency, len(s.currencies))
		copy(list, s.currencies)
		return list
	}

	list := make([]domain.Currency, 0)
	for _, c := range s.currencies {
		if c.Popular {
			list = append(list, c)
		}
	}
	return list
}

// Currency returns the currency with the given ticker_network id. Unlisted
// currencies are accepted too, since the remote API lists more than the
// embedded catalog.
func (s *Service) Currency(id string) (domain.Currency, error) {
	asset, err := domain.ParseCurrencyID(id)
	if err != nil {
		return domain.Currency{}, err
	}
	if c, ok := s.byID[strings.ToLower(asset.ID())]; ok {
		return c, nil
	}
	return domain.Currency{
		Name:    strings.ToUpper(asset.Ticker),
		Ticker:  asset.Ticker,
		Network: asset.Network,
		Popular: domain.IsPopular(asset),
	}, nil
}

// GetRates returns the quotes for swapping Amount of From into To.
func (s *Service) GetRates(ctx context.Context, req RateRequest) (*Rates, error) {
	params, err := s.rateParams(req.From, req.To, req.Amount)
	if err != nil {
		return nil, err
	}

	res, err := s.api.GetRates(ctx, params)
	if err != nil {
		return nil, err
	}

	source, err := s.Currency(req.From)
	if err != nil {
		return nil, err
	}
	target, err := s.Currency(req.To)
	if err != nil {
		return nil, err
	}

	rateType := req.RateType
	if rateType == "" {
		rateType = domain.RateTypeFloating
	}
	rates := &Rates{
		RateResponse: res,
		Source:       source,
		Target:       target,
		RateType:     rateType,
		Filtered:     FilterQuotes(res.Quotes.Quotes, rateType),
	}
	if best, ok := BestQuote(rates.Filtered); ok {
		rates.Best = &best
	}
	return rates, nil
}

// CreateTrade commits to the quote of the given provider and returns the
// created trade.
func (s *Service) CreateTrade(
	ctx context.Context, req CreateTradeRequest,
) (*trocador.Trade, error) {
	if req.TradeID == "" {
		return nil, ErrMissingTradeID
	}
	if strings.TrimSpace(req.Address) == "" {
		return nil, ErrMissingAddress
	}
	if req.Provider == "" {
		return nil, ErrMissingProvider
	}

	params, err := s.rateParams(req.From, req.To, req.Amount)
	if err != nil {
		return nil, err
	}

	trade, err := s.api.NewTrade(ctx, trocador.TradeParams{
		RateParams: params,
		TradeID:    req.TradeID,
		Address:    req.Address,
		Provider:   req.Provider,
		Fixed:      req.Fixed,
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"trade_id": trade.TradeID,
		"provider": trade.Provider,
	}).Info("trade created")
	return trade, nil
}

// OpenTrade fetches the trade and tells whether it is still to be quoted or
// must be tracked. Quotes embedded in the trade are reused, otherwise they
// are requested again.
func (s *Service) OpenTrade(ctx context.Context, tradeID string) (*OpenedTrade, error) {
	if tradeID == "" {
		return nil, ErrMissingTradeID
	}

	trade, err := s.api.GetTrade(ctx, tradeID)
	if err != nil {
		return nil, err
	}

	if !trade.IsNew() {
		return &OpenedTrade{Kind: OpenKindStatus, Trade: trade}, nil
	}

	rates := trade.RateResponse()
	if rates == nil {
		rates, err = s.api.GetRates(ctx, trocador.RateParams{
			TickerFrom:  trade.TickerFrom,
			TickerTo:    trade.TickerTo,
			NetworkFrom: trade.NetworkFrom,
			NetworkTo:   trade.NetworkTo,
			AmountFrom:  trade.AmountFrom,
		})
		if err != nil {
			return nil, err
		}
	}
	return &OpenedTrade{Kind: OpenKindQuote, Trade: trade, Rates: rates}, nil
}

func (s *Service) rateParams(from, to, amount string) (trocador.RateParams, error) {
	fromAsset, err := domain.ParseCurrencyID(from)
	if err != nil {
		return trocador.RateParams{}, fmt.Errorf("invalid source currency: %w", err)
	}
	toAsset, err := domain.ParseCurrencyID(to)
	if err != nil {
		return trocador.RateParams{}, fmt.Errorf("invalid target currency: %w", err)
	}
	if strings.EqualFold(fromAsset.ID(), toAsset.ID()) {
		return trocador.RateParams{}, ErrSameCurrency
	}
	amountFrom, err := domain.ParseAmount(amount)
	if err != nil {
		return trocador.RateParams{}, err
	}

	return trocador.RateParams{
		TickerFrom:  fromAsset.Ticker,
		TickerTo:    toAsset.Ticker,
		NetworkFrom: fromAsset.Network,
		NetworkTo:   toAsset.Network,
		AmountFrom:  amountFrom,
	}, nil
}

// FilterQuotes returns the quotes matching the given rate type, in the
// original order.
func FilterQuotes(quotes []trocador.Quote, rateType domain.RateType) []trocador.Quote {
	wantFixed := rateType == domain.RateTypeFixed

	filtered := make([]trocador.Quote, 0, len(quotes))
	for _, q := range quotes {
		if q.IsFixed() == wantFixed {
			filtered = append(filtered, q)
		}
	}
	return filtered
}

// BestQuote returns the first quote of the list, which the API sorts best
// first.
func BestQuote(quotes []trocador.Quote) (trocador.Quote, bool) {
	if len(quotes) == 0 {
		return trocador.Quote{}, false
	}
	return quotes[0], true
}

func loadCurrencies(data []byte) ([]domain.Currency, error) {
	var currencies []domain.Currency
	if err := json.Unmarshal(data, &currencies); err != nil {
		return nil, fmt.Errorf("invalid currency catalog: %w", err)
	}
	if len(currencies) == 0 {
		return nil, fmt.Errorf("invalid currency catalog: empty list")
	}

	for i := range currencies {
		currencies[i].Popular = domain.IsPopular(currencies[i].Asset())
	}
	return currencies, nil
}
