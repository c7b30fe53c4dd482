package tracker

import (
	"strings"
	"time"

	"github.com/swapgate-network/swapgate-daemon/internal/core/domain"
	"github.com/swapgate-network/swapgate-daemon/pkg/trocador"
)

var expiryLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// MapTrade normalizes a remote trade record into a TradeView. fallbackID is
// used when the record carries no id.
func MapTrade(trade trocador.Trade, fallbackID string) domain.TradeView {
	id := trade.TradeID
	if id == "" {
		id = fallbackID
	}

	rateType := domain.RateTypeFloating
	if trade.Fixed {
		rateType = domain.RateTypeFixed
	}

	status := strings.TrimSpace(trade.Status)
	if status == "" {
		status = domain.StatusWaiting
	}

	var expiresAt *time.Time
	if trade.Details != nil {
		expiresAt = parseExpiry(trade.Details.ExpiresAt)
	}

	return domain.TradeView{
		ID:                    id,
		RateType:              rateType,
		ImpliedRate:           domain.ImpliedRate(trade.AmountFrom, trade.AmountTo),
		Status:                status,
		ExpiresAt:             expiresAt,
		DepositAddress:        firstNonEmpty(trade.AddressProvider, trade.AddressFrom),
		PayoutAddress:         firstNonEmpty(trade.AddressUser, trade.AddressTo),
		SourceAsset:           domain.Asset{Ticker: trade.TickerFrom, Network: trade.NetworkFrom},
		TargetAsset:           domain.Asset{Ticker: trade.TickerTo, Network: trade.NetworkTo},
		ExpectedSourceAmount:  trade.AmountFrom.String(),
		ExpectedTargetAmount:  trade.AmountTo.String(),
		DepositedSourceAmount: trade.AmountFrom.String(),
		SettledTargetAmount:   trade.AmountTo.String(),
		Confirmations:         0,
		ProviderName:          trade.Provider,
	}
}

// parseExpiry returns nil for empty or unparsable values. Timestamps without
// zone are taken as UTC.
func parseExpiry(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	for _, layout := range expiryLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
