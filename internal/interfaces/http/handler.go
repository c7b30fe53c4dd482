package httpinterface

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"
	"github.com/swapgate-network/swapgate-daemon/internal/core/application/exchange"
	"github.com/swapgate-network/swapgate-daemon/internal/core/application/tracker"
	"github.com/swapgate-network/swapgate-daemon/internal/core/domain"
	"github.com/swapgate-network/swapgate-daemon/pkg/trocador"
)

// heldTradeTTL is how long the session of a trade opened through the API
// is kept alive waiting for its stream to be opened.
const heldTradeTTL = time.Minute

var errInvalidBody = errors.New("invalid request body")

type createTradeBody struct {
	TradeID  string `json:"trade_id"`
	From     string `json:"from"`
	To       string `json:"to"`
	Amount   string `json:"amount"`
	Address  string `json:"address"`
	Provider string `json:"provider"`
	Fixed    bool   `json:"fixed"`
}

type openTradeResponse struct {
	Kind   exchange.OpenKind      `json:"kind"`
	Rates  *trocador.RateResponse `json:"rates,omitempty"`
	Report *tracker.Report        `json:"report,omitempty"`
	// Stale is set when the report is built from the last stored view
	// because the exchange API could not be reached.
	Stale bool `json:"stale,omitempty"`
}

type handler struct {
	exchangeSvc *exchange.Service
	tracker     *tracker.Manager
	repo        domain.TradeViewRepository
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *handler) currencies(w http.ResponseWriter, r *http.Request) {
	popular, _ := strconv.ParseBool(r.URL.Query().Get("popular"))
	writeJSON(w, http.StatusOK, h.exchangeSvc.Currencies(popular))
}

func (h *handler) rates(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rates, err := h.exchangeSvc.GetRates(r.Context(), exchange.RateRequest{
		From:     q.Get("from"),
		To:       q.Get("to"),
		Amount:   q.Get("amount"),
		RateType: domain.ParseRateType(q.Get("type")),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rates)
}

func (h *handler) createTrade(w http.ResponseWriter, r *http.Request) {
	var body createTradeBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, errInvalidBody)
		return
	}

	trade, err := h.exchangeSvc.CreateTrade(r.Context(), exchange.CreateTradeRequest{
		TradeID:  body.TradeID,
		From:     body.From,
		To:       body.To,
		Amount:   body.Amount,
		Address:  body.Address,
		Provider: body.Provider,
		Fixed:    body.Fixed,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	view := tracker.MapTrade(*trade, body.TradeID)
	h.storeView(r.Context(), view)
	writeJSON(w, http.StatusCreated, view)
}

func (h *handler) listTrades(w http.ResponseWriter, r *http.Request) {
	views := make([]domain.TradeView, 0)
	if h.repo != nil {
		stored, err := h.repo.GetAllTradeViews(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		views = append(views, stored...)
	}
	writeJSON(w, http.StatusOK, views)
}

// getTrade answers with the quotes of a trade not created yet, or with the
// status report of a created one. A trade already tracked is reported from
// its session without calling the API.
func (h *handler) getTrade(w http.ResponseWriter, r *http.Request) {
	tradeID := chi.URLParam(r, "id")
	now := time.Now()

	if session, ok := h.tracker.Get(tradeID); ok {
		report := session.Report(now)
		if report.Trade != nil {
			writeJSON(w, http.StatusOK, openTradeResponse{
				Kind: exchange.OpenKindStatus, Report: &report,
			})
			return
		}
	}

	opened, err := h.exchangeSvc.OpenTrade(r.Context(), tradeID)
	if err != nil {
		if report, ok := h.storedReport(r.Context(), tradeID, now); ok {
			log.WithError(err).WithField("trade_id", tradeID).Debug(
				"exchange API failed, answering with stored trade view",
			)
			writeJSON(w, http.StatusOK, openTradeResponse{
				Kind: exchange.OpenKindStatus, Report: report, Stale: true,
			})
			return
		}
		writeError(w, err)
		return
	}

	if opened.Kind == exchange.OpenKindQuote {
		writeJSON(w, http.StatusOK, openTradeResponse{
			Kind: opened.Kind, Rates: opened.Rates,
		})
		return
	}

	// The fetched record seeds the session that a following stream request
	// will share.
	session, err := h.tracker.Hold(tradeID, opened.Trade, heldTradeTTL)
	if err != nil {
		log.WithError(err).WithField("trade_id", tradeID).Debug(
			"failed to track opened trade",
		)
	} else if report := session.Report(now); report.Trade != nil {
		writeJSON(w, http.StatusOK, openTradeResponse{
			Kind: opened.Kind, Report: &report,
		})
		return
	}

	view := tracker.MapTrade(*opened.Trade, tradeID)
	h.storeView(r.Context(), view)
	report := tracker.NewReport(tracker.Snapshot{
		Phase:     tracker.PhaseReady,
		View:      &view,
		UpdatedAt: now,
	}, now)
	writeJSON(w, http.StatusOK, openTradeResponse{
		Kind: opened.Kind, Report: &report,
	})
}

// refreshTrade asks the session of a tracked trade to fetch it now. The
// result reaches the viewers of the trade through their stream.
func (h *handler) refreshTrade(w http.ResponseWriter, r *http.Request) {
	tradeID := chi.URLParam(r, "id")
	if err := h.tracker.Refresh(tradeID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// deleteTrade forgets the stored view of a trade.
func (h *handler) deleteTrade(w http.ResponseWriter, r *http.Request) {
	tradeID := chi.URLParam(r, "id")
	if h.repo != nil {
		if err := h.repo.DeleteTradeView(r.Context(), tradeID); err != nil {
			writeError(w, err)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) notFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, errorResponse{
		Error: "Not Found",
		Path:  r.URL.RequestURI(),
	})
}

func (h *handler) storedReport(
	ctx context.Context, tradeID string, now time.Time,
) (*tracker.Report, bool) {
	if h.repo == nil {
		return nil, false
	}
	view, err := h.repo.GetTradeView(ctx, tradeID)
	if err != nil {
		return nil, false
	}
	report := tracker.NewReport(tracker.Snapshot{
		Phase:     tracker.PhaseReady,
		View:      view,
		UpdatedAt: time.Unix(view.UpdatedAt, 0),
	}, now)
	return &report, true
}

func (h *handler) storeView(ctx context.Context, view domain.TradeView) {
	if h.repo == nil || view.ID == "" {
		return
	}
	view.UpdatedAt = time.Now().Unix()
	if err := h.repo.AddOrUpdateTradeView(ctx, view); err != nil {
		log.WithError(err).WithField("trade_id", view.ID).Warn(
			"failed to store trade view",
		)
	}
}
