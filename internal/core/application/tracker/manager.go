package tracker

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/swapgate-network/swapgate-daemon/internal/core/domain"
	"github.com/swapgate-network/swapgate-daemon/internal/core/ports"
	"github.com/swapgate-network/swapgate-daemon/pkg/stats"
	"github.com/swapgate-network/swapgate-daemon/pkg/trocador"
)

type trackedTrade struct {
	session *Session
	viewers int
}

// Manager keeps one session per trade id, shared by all of its viewers. The
// session of a trade is stopped and forgotten when its last viewer releases
// it, so acquiring the trade again starts from scratch.
type Manager struct {
	source       ports.TradeSource
	repo         domain.TradeViewRepository
	pollInterval time.Duration

	lock     sync.Mutex
	sessions map[string]*trackedTrade
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewManager returns a manager polling source every pollInterval. repo is
// optional, if given every applied view is stored there.
func NewManager(
	source ports.TradeSource, repo domain.TradeViewRepository,
	pollInterval time.Duration,
) (*Manager, error) {
	if source == nil {
		return nil, fmt.Errorf("missing trade source")
	}
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		source:       source,
		repo:         repo,
		pollInterval: pollInterval,
		sessions:     make(map[string]*trackedTrade),
		ctx:          ctx,
		cancel:       cancel,
	}, nil
}

// Acquire returns the session of the given trade, starting it if this is the
// first viewer, and a function to release it. seed is used only when the
// session is created. The release function is idempotent.
func (m *Manager) Acquire(
	tradeID string, seed *trocador.Trade,
) (*Session, func(), error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.ctx.Err() != nil {
		return nil, nil, ErrManagerStopped
	}

	tracked, ok := m.sessions[tradeID]
	if !ok {
		session, err := NewSession(SessionOpts{
			TradeID:      tradeID,
			Source:       m.source,
			PollInterval: m.pollInterval,
			Seed:         seed,
			OnUpdate:     m.storeView,
		})
		if err != nil {
			return nil, nil, err
		}
		session.Start(m.ctx)

		tracked = &trackedTrade{session: session}
		m.sessions[tradeID] = tracked
		stats.TrackedTrades.Inc()
		log.Debugf("started tracking trade %s", tradeID)
	}
	tracked.viewers++

	var once sync.Once
	release := func() {
		once.Do(func() { m.release(tradeID, tracked) })
	}
	return tracked.session, release, nil
}

// Hold acquires the session of the given trade on behalf of a viewer that is
// expected to come back within ttl, like a client that fetched the trade and
// is about to open its stream. The session is released once ttl elapses or
// the manager is stopped.
func (m *Manager) Hold(
	tradeID string, seed *trocador.Trade, ttl time.Duration,
) (*Session, error) {
	session, release, err := m.Acquire(tradeID, seed)
	if err != nil {
		return nil, err
	}

	go func() {
		timer := time.NewTimer(ttl)
		defer timer.Stop()

		select {
		case <-timer.C:
		case <-m.ctx.Done():
		}
		release()
	}()
	return session, nil
}

// Refresh triggers an out of schedule fetch of a tracked trade.
func (m *Manager) Refresh(tradeID string) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	tracked, ok := m.sessions[tradeID]
	if !ok {
		return ErrTradeNotTracked
	}
	tracked.session.Refresh(m.ctx)
	return nil
}

// Get returns the session of the given trade if it is being tracked.
func (m *Manager) Get(tradeID string) (*Session, bool) {
	m.lock.Lock()
	defer m.lock.Unlock()

	tracked, ok := m.sessions[tradeID]
	if !ok {
		return nil, false
	}
	return tracked.session, true
}

// Tracked returns the ids of the trades currently tracked.
func (m *Manager) Tracked() []string {
	m.lock.Lock()
	defer m.lock.Unlock()

	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	return ids
}

// Stop stops all sessions. Any further Acquire fails.
func (m *Manager) Stop() {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.cancel()
	for id, tracked := range m.sessions {
		tracked.session.Stop()
		delete(m.sessions, id)
		stats.TrackedTrades.Dec()
	}
}

func (m *Manager) release(tradeID string, tracked *trackedTrade) {
	m.lock.Lock()
	defer m.lock.Unlock()

	// The session may have been replaced after a Stop.
	if current, ok := m.sessions[tradeID]; !ok || current != tracked {
		return
	}

	tracked.viewers--
	if tracked.viewers > 0 {
		return
	}
	tracked.session.Stop()
	delete(m.sessions, tradeID)
	stats.TrackedTrades.Dec()
	log.Debugf("stopped tracking trade %s", tradeID)
}

func (m *Manager) storeView(view domain.TradeView) {
	if m.repo == nil {
		return
	}
	view.UpdatedAt = time.Now().Unix()
	if err := m.repo.AddOrUpdateTradeView(context.Background(), view); err != nil {
		log.WithError(err).Warnf("failed to store view of trade %s", view.ID)
	}
}
