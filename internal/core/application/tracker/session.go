package tracker

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/swapgate-network/swapgate-daemon/internal/core/domain"
	"github.com/swapgate-network/swapgate-daemon/internal/core/ports"
	"github.com/swapgate-network/swapgate-daemon/pkg/stats"
	"github.com/swapgate-network/swapgate-daemon/pkg/trocador"
)

// DefaultPollInterval is the interval between background refreshes.
const DefaultPollInterval = 10 * time.Second

// UpdateHandler is called with every view applied by a session, in request
// order. Calls are serialized.
type UpdateHandler func(view domain.TradeView)

// Session tracks the status of one trade: it owns the poller, the
// synchronizer and the request sequence counter.
type Session struct {
	tradeID  string
	source   ports.TradeSource
	poller   *Poller
	sync     *Synchronizer
	seq      uint64
	onUpdate UpdateHandler

	notifyLock sync.Mutex
	notified   uint64
}

// SessionOpts ...
type SessionOpts struct {
	TradeID      string
	Source       ports.TradeSource
	PollInterval time.Duration
	// Seed is an already fetched record. When given, the session starts ready
	// and skips its initial fetch.
	Seed     *trocador.Trade
	OnUpdate UpdateHandler
}

func (o SessionOpts) validate() error {
	if o.TradeID == "" {
		return fmt.Errorf("missing trade id")
	}
	if o.Source == nil {
		return fmt.Errorf("missing trade source")
	}
	if o.PollInterval < 0 {
		return fmt.Errorf("poll interval must not be negative")
	}
	return nil
}

// NewSession returns a session for the given trade, not started yet.
func NewSession(opts SessionOpts) (*Session, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	interval := opts.PollInterval
	if interval == 0 {
		interval = DefaultPollInterval
	}

	var seed *domain.TradeView
	if opts.Seed != nil {
		view := MapTrade(*opts.Seed, opts.TradeID)
		seed = &view
	}

	s := &Session{
		tradeID:  opts.TradeID,
		source:   opts.Source,
		poller:   NewPoller(interval, seed != nil),
		sync:     NewSynchronizer(opts.TradeID, seed),
		onUpdate: opts.OnUpdate,
	}
	if seed != nil && s.onUpdate != nil {
		s.onUpdate(*seed)
	}
	return s, nil
}

// TradeID ...
func (s *Session) TradeID() string {
	return s.tradeID
}

// Start starts polling the trade source.
func (s *Session) Start(ctx context.Context) {
	s.poller.Start(ctx, s.fetch)
}

// Stop stops polling. Results of in-flight fetches are ignored.
func (s *Session) Stop() {
	s.poller.Stop()
	s.sync.Close()
}

// Snapshot returns the current state of the tracked trade.
func (s *Session) Snapshot() Snapshot {
	return s.sync.Snapshot()
}

// Report returns everything a status page renders at the given time.
func (s *Session) Report(now time.Time) Report {
	return NewReport(s.sync.Snapshot(), now)
}

// Subscribe returns a channel on which every change of the tracked trade is
// published.
func (s *Session) Subscribe() (string, <-chan Snapshot) {
	return s.sync.Subscribe()
}

// Unsubscribe ...
func (s *Session) Unsubscribe(id string) {
	s.sync.Unsubscribe(id)
}

// Refresh triggers an out of schedule background fetch.
func (s *Session) Refresh(ctx context.Context) {
	go s.fetch(ctx, FetchBackground)
}

func (s *Session) fetch(ctx context.Context, mode FetchMode) {
	seq := atomic.AddUint64(&s.seq, 1)

	res := Result{Seq: seq, Mode: mode}
	trade, err := s.source.GetTrade(ctx, s.tradeID)
	if err != nil {
		res.Err = err
	} else {
		view := MapTrade(*trade, s.tradeID)
		res.View = &view
	}

	stats.TradeFetches.WithLabelValues(mode.String(), outcome(err)).Inc()

	if applied := s.sync.Apply(res); applied && res.View != nil {
		s.notify(seq, *res.View)
	}
}

// notify hands view to the update handler unless a view of a later request
// has already been handed over.
func (s *Session) notify(seq uint64, view domain.TradeView) {
	if s.onUpdate == nil {
		return
	}

	s.notifyLock.Lock()
	defer s.notifyLock.Unlock()

	if seq <= s.notified {
		return
	}
	s.notified = seq
	s.onUpdate(view)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case trocador.IsRateLimited(err):
		return "rate_limited"
	default:
		return "error"
	}
}
