package dbbadger

import "errors"

var (
	// ErrMissingTradeViewID ...
	ErrMissingTradeViewID = errors.New("trade view must have an id")
)
