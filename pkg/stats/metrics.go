package stats

import (
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	log "github.com/sirupsen/logrus"
)

var (
	// TradeFetches counts the fetches of trade records, by mode (initial,
	// background) and outcome (ok, rate_limited, error).
	TradeFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "swapgate",
			Name:      "trade_fetches_total",
			Help:      "Number of trade record fetches by mode and outcome.",
		},
		[]string{"mode", "outcome"},
	)
	// TrackedTrades is the number of trades currently tracked by a session.
	TrackedTrades = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "swapgate",
		Name:      "tracked_trades",
		Help:      "Number of trades with an active tracking session.",
	})
	// StreamClients is the number of connected status stream clients.
	StreamClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "swapgate",
		Name:      "stream_clients",
		Help:      "Number of connected trade status stream clients.",
	})
	// ProxyRequests counts the requests forwarded by the proxy, by upstream
	// status code.
	ProxyRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "swapgate",
			Name:      "proxy_requests_total",
			Help:      "Number of requests forwarded to the exchange API.",
		},
		[]string{"method", "code"},
	)
)

func init() {
	prometheus.MustRegister(
		TradeFetches, TrackedTrades, StreamClients, ProxyRequests,
	)
}

// PrintTrackedTrades logs the number of tracked trades and stream clients.
func PrintTrackedTrades() {
	log.Infof(
		"Tracked trades: %v, stream clients: %v",
		gaugeValue(TrackedTrades), gaugeValue(StreamClients),
	)
}

func gaugeValue(g prometheus.Gauge) float64 {
	m := &dto.Metric{}
	if err := g.Write(m); err != nil {
		return 0
	}
	return m.GetGauge().GetValue()
}
