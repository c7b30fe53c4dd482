package domain

import (
	"fmt"
	"time"
)

// TimeRemaining is the time left before an expiration, split in units.
type TimeRemaining struct {
	Expired bool `json:"expired"`
	Hours   int  `json:"hours"`
	Minutes int  `json:"minutes"`
	Seconds int  `json:"seconds"`
}

// Urgency classifies how close an expiration is.
type Urgency string

const (
	UrgencyExpired Urgency = "expired"
	UrgencyUrgent  Urgency = "urgent"
	UrgencySoon    Urgency = "soon"
	UrgencyRelaxed Urgency = "relaxed"
)

// Countdown returns the time remaining from now to expiresAt. An expiration
// that is not in the future is reported as expired with all units zero.
func Countdown(expiresAt, now time.Time) TimeRemaining {
	diff := expiresAt.Sub(now).Milliseconds()
	if diff <= 0 {
		return TimeRemaining{Expired: true}
	}
	return TimeRemaining{
		Hours:   int(diff / 3600000),
		Minutes: int(diff % 3600000 / 60000),
		Seconds: int(diff % 60000 / 1000),
	}
}

// Urgency returns urgent with less than 10 minutes left, soon with less than
// 30, relaxed otherwise.
func (t TimeRemaining) Urgency() Urgency {
	switch {
	case t.Expired:
		return UrgencyExpired
	case t.Hours == 0 && t.Minutes < 10:
		return UrgencyUrgent
	case t.Hours == 0 && t.Minutes < 30:
		return UrgencySoon
	default:
		return UrgencyRelaxed
	}
}

func (t TimeRemaining) String() string {
	if t.Expired {
		return "Expired"
	}
	return fmt.Sprintf("%02d:%02d:%02d", t.Hours, t.Minutes, t.Seconds)
}
