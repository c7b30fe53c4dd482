package httpinterface

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/swapgate-network/swapgate-daemon/internal/core/application/exchange"
	"github.com/swapgate-network/swapgate-daemon/internal/core/application/tracker"
	"github.com/swapgate-network/swapgate-daemon/internal/core/domain"
	"github.com/swapgate-network/swapgate-daemon/internal/interfaces"
)

const shutdownTimeout = 10 * time.Second

// ServiceOpts ...
type ServiceOpts struct {
	Address string

	APIURL         string
	APIKey         string
	ProxyPrefix    string
	AllowedOrigins []string
	// ProxyRateLimit is the max number of requests per minute accepted from
	// every client by the proxy. Zero disables the limit.
	ProxyRateLimit int

	ExchangeSvc *exchange.Service
	Tracker     *tracker.Manager
	Repo        domain.TradeViewRepository
}

func (o ServiceOpts) validate() error {
	if _, _, err := net.SplitHostPort(o.Address); err != nil {
		return fmt.Errorf("address is not valid: %s", o.Address)
	}
	if o.ProxyRateLimit < 0 {
		return fmt.Errorf("proxy rate limit must not be negative")
	}
	return nil
}

type service struct {
	opts        ServiceOpts
	server      *http.Server
	rateLimiter *RateLimiter
}

// NewService returns the HTTP interface of the daemon, serving the exchange
// API proxy and the trade endpoints on a single port.
func NewService(opts ServiceOpts) (interfaces.Service, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("invalid opts: %s", err)
	}

	rateLimiter := NewRateLimiter(opts.ProxyRateLimit)
	router, err := NewRouter(RouterOpts{
		APIURL:      opts.APIURL,
		APIKey:      opts.APIKey,
		ProxyPrefix: opts.ProxyPrefix,
		CORS:        CORSConfig{AllowedOrigins: opts.AllowedOrigins},
		RateLimiter: rateLimiter,
		ExchangeSvc: opts.ExchangeSvc,
		Tracker:     opts.Tracker,
		Repo:        opts.Repo,
	})
	if err != nil {
		rateLimiter.Stop()
		return nil, err
	}

	return &service{
		opts: opts,
		server: &http.Server{
			Addr:              opts.Address,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		rateLimiter: rateLimiter,
	}, nil
}

func (s *service) Start() error {
	lis, err := net.Listen("tcp", s.opts.Address)
	if err != nil {
		return err
	}

	go func() {
		if err := s.server.Serve(lis); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("http server stopped unexpectedly")
		}
	}()

	log.Infof("http interface is listening on %s", s.opts.Address)
	log.Infof("forwarding %s -> %s", s.opts.ProxyPrefix, s.opts.APIURL)
	return nil
}

func (s *service) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.Debug("stop http server")
	if err := s.server.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("failed to gracefully stop http server")
	}
	s.rateLimiter.Stop()
}
