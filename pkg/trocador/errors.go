package trocador

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnavailable is returned when the API could not be reached, either
	// because of a transport failure or because the circuit breaker is open.
	ErrUnavailable = errors.New("trocador API is unavailable")
	// ErrRateLimited matches, via errors.Is, any HTTPError with status 429.
	ErrRateLimited = errors.New("too many requests")
	// ErrNotFound matches, via errors.Is, any HTTPError with status 404.
	ErrNotFound = errors.New("not found")
	// ErrTradeNotFound is returned when the trade endpoint answers with an
	// empty list.
	ErrTradeNotFound = errors.New("trade not found")
	// ErrMalformedResponse is returned when the response body cannot be
	// decoded.
	ErrMalformedResponse = errors.New("malformed response")

	ErrMissingTradeID  = errors.New("missing trade id")
	ErrMissingTicker   = errors.New("missing ticker")
	ErrMissingNetwork  = errors.New("missing network")
	ErrInvalidAmount   = errors.New("amount must be greater than zero")
	ErrMissingAddress  = errors.New("missing recipient address")
	ErrMissingProvider = errors.New("missing provider")
)

// HTTPError is returned for every non-2xx response of the API.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("Trocador API error: %d", e.StatusCode)
}

func (e *HTTPError) Is(target error) bool {
	switch target {
	case ErrRateLimited:
		return e.StatusCode == http.StatusTooManyRequests
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

// IsRateLimited returns whether err signals that the caller exceeded the
// allowed request rate.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}
