package tracker

import "errors"

var (
	// ErrManagerStopped is returned when acquiring a session from a stopped
	// manager.
	ErrManagerStopped = errors.New("trade tracker is stopped")
	// ErrTradeNotTracked is returned when refreshing a trade that has no
	// session.
	ErrTradeNotTracked = errors.New("trade is not tracked")
)
