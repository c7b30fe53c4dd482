package httpinterface

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swapgate-network/swapgate-daemon/internal/core/application/exchange"
	"github.com/swapgate-network/swapgate-daemon/internal/core/application/tracker"
	"github.com/swapgate-network/swapgate-daemon/internal/core/domain"
)

const requestTimeout = 30 * time.Second

var apiAllowedMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}

// RouterOpts ...
type RouterOpts struct {
	APIURL      string
	APIKey      string
	ProxyPrefix string
	CORS        CORSConfig
	RateLimiter *RateLimiter

	ExchangeSvc *exchange.Service
	Tracker     *tracker.Manager
	// Repo is optional, without it trades are not listed nor served when the
	// API is down.
	Repo  domain.TradeViewRepository
	Clock *tracker.SharedClock
}

func (o RouterOpts) validate() error {
	if o.ProxyPrefix == "" || o.ProxyPrefix == "/" {
		return fmt.Errorf("missing proxy prefix")
	}
	if o.ExchangeSvc == nil {
		return fmt.Errorf("missing exchange service")
	}
	if o.Tracker == nil {
		return fmt.Errorf("missing trade tracker")
	}
	return nil
}

// NewRouter returns the handler of every route served by the daemon.
func NewRouter(opts RouterOpts) (http.Handler, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	proxy, err := NewProxy(ProxyOpts{
		Target:      opts.APIURL,
		APIKey:      opts.APIKey,
		StripPrefix: opts.ProxyPrefix,
		CORS:        opts.CORS,
	})
	if err != nil {
		return nil, err
	}

	clock := opts.Clock
	if clock == nil {
		clock = tracker.DefaultClock
	}

	h := &handler{
		exchangeSvc: opts.ExchangeSvc,
		tracker:     opts.Tracker,
		repo:        opts.Repo,
	}
	stream := newStreamHandler(opts.Tracker, clock, opts.CORS)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.NotFound(h.notFound)

	r.Get("/health", h.health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route(opts.ProxyPrefix, func(sr chi.Router) {
		sr.Use(opts.RateLimiter.Middleware)
		sr.Handle("/*", proxy)
	})

	apiCORS := opts.CORS
	if len(apiCORS.AllowedMethods) <= 0 {
		apiCORS.AllowedMethods = apiAllowedMethods
	}

	r.Route("/v1", func(sr chi.Router) {
		sr.Use(CORS(apiCORS))
		sr.Get("/trades/{id}/stream", stream.ServeHTTP)

		sr.Group(func(gr chi.Router) {
			gr.Use(middleware.Timeout(requestTimeout))
			gr.Get("/currencies", h.currencies)
			gr.Get("/rates", h.rates)
			gr.Post("/trades", h.createTrade)
			gr.Get("/trades", h.listTrades)
			gr.Get("/trades/{id}", h.getTrade)
			gr.Delete("/trades/{id}", h.deleteTrade)
			gr.Post("/trades/{id}/refresh", h.refreshTrade)
		})
	})

	return r, nil
}
