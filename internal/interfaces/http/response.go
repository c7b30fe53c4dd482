package httpinterface

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/swapgate-network/swapgate-daemon/internal/core/application/exchange"
	"github.com/swapgate-network/swapgate-daemon/internal/core/application/tracker"
	"github.com/swapgate-network/swapgate-daemon/internal/core/domain"
	"github.com/swapgate-network/swapgate-daemon/pkg/trocador"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Path    string `json:"path,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Debug("failed to write response")
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := errorStatus(err)
	writeJSON(w, status, errorResponse{
		Error:   http.StatusText(status),
		Message: err.Error(),
	})
}

// errorStatus maps the errors of the application layer to HTTP codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, trocador.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, trocador.ErrTradeNotFound),
		errors.Is(err, trocador.ErrNotFound),
		errors.Is(err, domain.ErrTradeViewNotFound),
		errors.Is(err, tracker.ErrTradeNotTracked):
		return http.StatusNotFound
	case errors.Is(err, trocador.ErrUnavailable),
		errors.Is(err, trocador.ErrMalformedResponse):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrInvalidCurrencyID),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrNonPositiveAmount),
		errors.Is(err, exchange.ErrMissingTradeID),
		errors.Is(err, exchange.ErrMissingAddress),
		errors.Is(err, exchange.ErrMissingProvider),
		errors.Is(err, exchange.ErrSameCurrency),
		errors.Is(err, trocador.ErrMissingTradeID),
		errors.Is(err, trocador.ErrMissingTicker),
		errors.Is(err, trocador.ErrMissingNetwork),
		errors.Is(err, trocador.ErrMissingAddress),
		errors.Is(err, trocador.ErrMissingProvider),
		errors.Is(err, trocador.ErrInvalidAmount),
		errors.Is(err, errInvalidBody):
		return http.StatusBadRequest
	case errors.Is(err, tracker.ErrManagerStopped):
		return http.StatusServiceUnavailable
	}

	var httpErr *trocador.HTTPError
	if errors.As(err, &httpErr) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
