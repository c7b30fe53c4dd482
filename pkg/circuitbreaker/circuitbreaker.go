package circuitbreaker

import (
	"github.com/sony/gobreaker"
	log "github.com/sirupsen/logrus"
)

var (
	// MinNumOfRequests is the number of requests to observe in the current
	// window before the breaker is allowed to trip.
	MinNumOfRequests = 10
	// FailingRatio is the ratio of failing requests over the observed ones
	// above which the breaker trips.
	FailingRatio = 0.6
)

// NewCircuitBreaker returns a *gobreaker.CircuitBreaker named after the
// service it protects. It trips once more than MinNumOfRequests have been
// made and at least FailingRatio of them failed, and logs every state change
// so that operators can see when the upstream is considered down.
func NewCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: name,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests == 0 {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return int(counts.Requests) > MinNumOfRequests && ratio >= FailingRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if to == gobreaker.StateOpen {
				log.Warnf("%s seems down, stop allowing requests", name)
			}
			if from == gobreaker.StateOpen && to == gobreaker.StateHalfOpen {
				log.Infof("checking %s status", name)
			}
			if from == gobreaker.StateHalfOpen && to == gobreaker.StateClosed {
				log.Infof("%s seems ok, restart allowing requests", name)
			}
		},
	})
}
