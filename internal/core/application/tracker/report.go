package tracker

import (
	"time"

	"github.com/swapgate-network/swapgate-daemon/internal/core/domain"
)

// Report is everything a status page renders for a trade at a given time.
type Report struct {
	Phase       Phase                 `json:"phase"`
	Error       string                `json:"error,omitempty"`
	Trade       *domain.TradeView     `json:"trade,omitempty"`
	Stage       string                `json:"stage"`
	StageIndex  int                   `json:"stage_index"`
	Stages      []string              `json:"stages"`
	Progress    float64               `json:"progress"`
	Headline    string                `json:"headline,omitempty"`
	Message     string                `json:"message,omitempty"`
	Severity    domain.Severity       `json:"severity,omitempty"`
	Alert       bool                  `json:"alert"`
	AlertDetail string                `json:"alert_detail,omitempty"`
	PaymentURI  string                `json:"payment_uri,omitempty"`
	Countdown   *domain.TimeRemaining `json:"countdown,omitempty"`
	Expired     bool                  `json:"expired"`
	Urgency     domain.Urgency        `json:"urgency,omitempty"`
	Seq         uint64                `json:"seq"`
	UpdatedAt   time.Time             `json:"updated_at"`
	GeneratedAt time.Time             `json:"generated_at"`
}

var stageLabels = func() []string {
	labels := make([]string, 0, len(domain.Stages))
	for _, s := range domain.Stages {
		labels = append(labels, s.String())
	}
	return labels
}()

// NewReport derives the report of the given snapshot at time now.
func NewReport(snap Snapshot, now time.Time) Report {
	r := Report{
		Phase:       snap.Phase,
		Error:       snap.Error,
		Stages:      stageLabels,
		Stage:       domain.StageAwaitingDeposit.String(),
		Seq:         snap.Seq,
		UpdatedAt:   snap.UpdatedAt,
		GeneratedAt: now,
	}
	if snap.View == nil {
		return r
	}

	view := *snap.View
	stage := view.Stage().Stage

	r.Trade = &view
	r.Stage = stage.String()
	r.StageIndex = stage.Index()
	r.Progress = stage.Progress()
	r.Headline = domain.StatusHeadline(view.Status)
	r.Message = domain.StatusMessage(view.Status)
	r.Severity = domain.StatusSeverity(view.Status)
	r.Alert = domain.IsAlertStatus(view.Status)
	r.AlertDetail = domain.AlertDetail(view.Status)
	r.PaymentURI = view.PaymentURI()
	// The payment window may be over before the status says so.
	r.Expired = view.IsExpired(now)

	if view.ExpiresAt != nil && domain.ShowsCountdown(view.Status) {
		left := domain.Countdown(*view.ExpiresAt, now)
		r.Countdown = &left
		r.Urgency = left.Urgency()
	}
	return r
}
