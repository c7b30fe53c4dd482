package domain

import "errors"

var (
	// ErrInvalidCurrencyID is returned when a currency id is not in the
	// ticker_network format.
	ErrInvalidCurrencyID = errors.New("currency id must be in the ticker_network format")
	// ErrInvalidAmount is returned for amounts that are not plain decimals.
	ErrInvalidAmount = errors.New("amount must be a decimal number")
	// ErrNonPositiveAmount ...
	ErrNonPositiveAmount = errors.New("please enter a valid amount")
	// ErrTradeViewNotFound is returned by repositories when no view is stored
	// for the given trade id.
	ErrTradeViewNotFound = errors.New("trade view not found")
)
