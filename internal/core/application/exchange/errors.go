package exchange

import "errors"

var (
	ErrMissingTradeID  = errors.New("missing trade id")
	ErrMissingAddress  = errors.New("please enter the recipient address")
	ErrMissingProvider = errors.New("please select a provider")
	ErrSameCurrency    = errors.New("source and target currency must differ")
)
