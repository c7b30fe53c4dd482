package httpinterface

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"github.com/swapgate-network/swapgate-daemon/internal/core/application/tracker"
	"github.com/swapgate-network/swapgate-daemon/pkg/stats"
)

const writeTimeout = 10 * time.Second

type streamHandler struct {
	tracker  *tracker.Manager
	clock    *tracker.SharedClock
	upgrader websocket.Upgrader
}

func newStreamHandler(
	manager *tracker.Manager, clock *tracker.SharedClock, cors CORSConfig,
) *streamHandler {
	cors = cors.withDefaults()
	return &streamHandler{
		tracker: manager,
		clock:   clock,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				allowed := cors.allowOrigin(origin)
				return allowed == "*" || allowed == origin
			},
		},
	}
}

// ServeHTTP streams the status report of a trade: one frame on every tick
// of the shared clock and one on every change of the trade.
func (s *streamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	tradeID := chi.URLParam(r, "id")

	session, release, err := s.tracker.Acquire(tradeID, nil)
	if err != nil {
		writeError(w, err)
		return
	}
	defer release()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Debug("failed to upgrade stream connection")
		return
	}
	defer conn.Close()

	logger := log.WithFields(log.Fields{
		"trade_id": tradeID,
		"conn_id":  uuid.New().String(),
	})
	logger.Debug("stream client connected")
	stats.StreamClients.Inc()
	defer func() {
		stats.StreamClients.Dec()
		logger.Debug("stream client disconnected")
	}()

	clockID, ticks := s.clock.Subscribe()
	defer s.clock.Unsubscribe(clockID)
	subID, updates := session.Subscribe()
	defer session.Unsubscribe(subID)

	// The client is not expected to send anything, reading is needed only to
	// detect when it goes away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(
					err, websocket.CloseGoingAway, websocket.CloseNormalClosure,
				) {
					logger.WithError(err).Debug("stream connection closed")
				}
				return
			}
		}
	}()

	for {
		var report tracker.Report
		select {
		case <-done:
			return
		case now, ok := <-ticks:
			if !ok {
				return
			}
			report = session.Report(now)
		case snap, ok := <-updates:
			if !ok {
				s.closeConn(conn)
				return
			}
			report = tracker.NewReport(snap, time.Now())
		}

		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(report); err != nil {
			logger.WithError(err).Debug("failed to write stream frame")
			return
		}
	}
}

func (s *streamHandler) closeConn(conn *websocket.Conn) {
	msg := websocket.FormatCloseMessage(
		websocket.CloseGoingAway, "trade tracking stopped",
	)
	conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeTimeout))
}
