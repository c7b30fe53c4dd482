package tracker

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/swapgate-network/swapgate-daemon/internal/core/domain"
	"github.com/swapgate-network/swapgate-daemon/pkg/trocador"
)

// Phase is the display phase of a tracked trade.
type Phase string

const (
	PhaseLoading Phase = "loading"
	PhaseReady   Phase = "ready"
	PhaseError   Phase = "error"
)

const errorMessagePrefix = "Failed to load transaction details"

// Snapshot is the state of a synchronizer at a given time.
type Snapshot struct {
	Phase     Phase             `json:"phase"`
	View      *domain.TradeView `json:"view,omitempty"`
	Error     string            `json:"error,omitempty"`
	Seq       uint64            `json:"seq"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Result is the outcome of a fetch, tagged with the sequence number of the
// request that produced it.
type Result struct {
	Seq  uint64
	Mode FetchMode
	View *domain.TradeView
	Err  error
}

// Synchronizer holds the authoritative view of a trade and applies fetch
// results to it. Once a view has been obtained no later failure blanks it or
// surfaces an error.
type Synchronizer struct {
	lock        sync.RWMutex
	phase       Phase
	view        *domain.TradeView
	err         string
	lastSeq     uint64
	updatedAt   time.Time
	closed      bool
	subscribers map[string]chan Snapshot

	logger *log.Entry
}

// NewSynchronizer returns a synchronizer in loading phase, or in ready phase
// if a seed view is given.
func NewSynchronizer(tradeID string, seed *domain.TradeView) *Synchronizer {
	s := &Synchronizer{
		phase:       PhaseLoading,
		subscribers: make(map[string]chan Snapshot),
		logger:      log.WithField("trade_id", tradeID),
	}
	if seed != nil {
		view := *seed
		s.view = &view
		s.phase = PhaseReady
		s.updatedAt = time.Now()
	}
	return s
}

// Apply applies the result of a fetch and returns whether the state changed.
// Results older than the last applied success and results arriving after
// Close are discarded.
func (s *Synchronizer) Apply(res Result) bool {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.closed {
		return false
	}
	if res.Seq < s.lastSeq {
		s.logger.Debugf(
			"discarding stale result %d, last applied is %d", res.Seq, s.lastSeq,
		)
		return false
	}

	if res.Err == nil {
		if res.View == nil {
			return false
		}
		view := *res.View
		s.view = &view
		s.err = ""
		s.phase = PhaseReady
		s.lastSeq = res.Seq
		s.publish()
		return true
	}

	if res.Mode == FetchBackground {
		if trocador.IsRateLimited(res.Err) {
			s.logger.WithError(res.Err).Warn("background refresh rate limited")
		} else {
			s.logger.WithError(res.Err).Debug("background refresh failed")
		}
		return false
	}

	rateLimited := trocador.IsRateLimited(res.Err)
	switch {
	case rateLimited && s.view == nil:
		s.logger.Warn("rate limited while loading trade, waiting for next poll")
		return false
	case s.view == nil:
		s.logger.WithError(res.Err).Warn("failed to load trade")
		s.phase = PhaseError
		s.err = fmt.Sprintf("%s: %s", errorMessagePrefix, res.Err)
	default:
		s.logger.WithError(res.Err).Debug("initial fetch failed, keeping known trade")
		s.phase = PhaseReady
		s.err = ""
	}
	s.publish()
	return true
}

// Snapshot returns the current state.
func (s *Synchronizer) Snapshot() Snapshot {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.snapshot()
}

// View returns a copy of the current view, if any.
func (s *Synchronizer) View() *domain.TradeView {
	s.lock.RLock()
	defer s.lock.RUnlock()

	if s.view == nil {
		return nil
	}
	view := *s.view
	return &view
}

// Subscribe returns a channel on which every applied change is published,
// starting with the current state. Only the latest snapshot is kept for slow
// subscribers. The channel is
// closed by Unsubscribe or Close.
func (s *Synchronizer) Subscribe() (string, <-chan Snapshot) {
	s.lock.Lock()
	defer s.lock.Unlock()

	id := uuid.New().String()
	ch := make(chan Snapshot, 1)
	if s.closed {
		close(ch)
		return id, ch
	}
	s.subscribers[id] = ch
	ch <- s.snapshot()
	return id, ch
}

// Unsubscribe removes the subscriber with the given id.
func (s *Synchronizer) Unsubscribe(id string) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if ch, ok := s.subscribers[id]; ok {
		delete(s.subscribers, id)
		close(ch)
	}
}

// Close makes the synchronizer ignore any further result and closes all the
// subscriber channels.
func (s *Synchronizer) Close() {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	for id, ch := range s.subscribers {
		delete(s.subscribers, id)
		close(ch)
	}
}

// IsClosed ...
func (s *Synchronizer) IsClosed() bool {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.closed
}

func (s *Synchronizer) snapshot() Snapshot {
	var view *domain.TradeView
	if s.view != nil {
		v := *s.view
		view = &v
	}
	return Snapshot{
		Phase:     s.phase,
		View:      view,
		Error:     s.err,
		Seq:       s.lastSeq,
		UpdatedAt: s.updatedAt,
	}
}

// publish must be called with the lock held.
func (s *Synchronizer) publish() {
	s.updatedAt = time.Now()
	snap := s.snapshot()
	for _, ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
			// Replace the pending snapshot with the latest one.
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}
