package domain

import "strings"

// Stage is one of the ordered steps of a trade lifecycle.
type Stage int

const (
	StageAwaitingDeposit Stage = iota
	StageConfirming
	StageSending
	StageFinished
)

var stageNames = map[Stage]string{
	StageAwaitingDeposit: "awaiting-deposit",
	StageConfirming:      "confirming",
	StageSending:         "sending",
	StageFinished:        "finished",
}

// Stages lists every stage in lifecycle order.
var Stages = []Stage{
	StageAwaitingDeposit, StageConfirming, StageSending, StageFinished,
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return stageNames[StageAwaitingDeposit]
}

// Index returns the position of the stage in Stages.
func (s Stage) Index() int {
	return int(s)
}

// Progress returns the completed fraction of the lifecycle, from 0 to 1.
func (s Stage) Progress() float64 {
	return float64(s) / float64(len(Stages)-1)
}

// Remote statuses with a dedicated treatment.
const (
	StatusWaiting       = "waiting"
	StatusNew           = "new"
	StatusConfirming    = "confirming"
	StatusSending       = "sending"
	StatusFinished      = "finished"
	StatusFailed        = "failed"
	StatusExpired       = "expired"
	StatusHalted        = "halted"
	StatusRefunded      = "refunded"
	StatusPaidPartially = "paid partially"
)

var stageByStatus = map[string]Stage{
	StatusWaiting:    StageAwaitingDeposit,
	StatusNew:        StageAwaitingDeposit,
	StatusConfirming: StageConfirming,
	StatusSending:    StageSending,
	StatusFinished:   StageFinished,
}

// StatusStage is the open tagged value for a remote status: the derived stage,
// whether the status is one of the recognized ones, and the raw string.
type StatusStage struct {
	Stage Stage
	Known bool
	Raw   string
}

// DeriveStage maps a free-text status to its lifecycle stage. Matching is
// case-insensitive and ignores surrounding whitespace. Unknown statuses map
// to the first stage.
func DeriveStage(status string) StatusStage {
	stage, ok := stageByStatus[normalizeStatus(status)]
	return StatusStage{Stage: stage, Known: ok, Raw: status}
}

// Severity classifies a status for display purposes.
type Severity string

const (
	SeverityPending  Severity = "pending"
	SeverityProgress Severity = "progress"
	SeveritySuccess  Severity = "success"
	SeverityFailure  Severity = "failure"
	SeverityRefunded Severity = "refunded"
	SeverityPartial  Severity = "partial"
)

type statusInfo struct {
	headline string
	message  string
	severity Severity
	alert    bool
}

var statusInfos = map[string]statusInfo{
	StatusNew: {
		"Rates Available", "Rates available, swap not created yet",
		SeverityPending, false,
	},
	StatusWaiting: {
		"Awaiting Deposit", "Swap created, awaiting your deposit",
		SeverityPending, false,
	},
	StatusConfirming: {
		"Confirming Deposit", "Deposit detected and being confirmed",
		SeverityProgress, false,
	},
	StatusSending: {
		"Sending", "Deposit confirmed, provider is sending coins",
		SeverityProgress, false,
	},
	StatusFinished: {
		"Exchange Complete", "Exchange complete!", SeveritySuccess, false,
	},
	StatusFailed: {
		"Exchange Failed", "Something went wrong - please contact support",
		SeverityFailure, true,
	},
	StatusExpired: {
		"This Exchange Has Expired", "Payment time expired",
		SeverityFailure, true,
	},
	StatusHalted: {
		"Exchange Halted", "Exchange halted - please contact support",
		SeverityFailure, true,
	},
	StatusRefunded: {
		"Exchange Refunded", "Exchange refunded by provider",
		SeverityRefunded, true,
	},
	StatusPaidPartially: {
		"Partial Payment Detected",
		"Partial deposit detected - please contact support",
		SeverityPartial, true,
	},
}

// StatusMessage returns the human readable message for the status. Unknown
// statuses are returned as they are.
func StatusMessage(status string) string {
	if info, ok := statusInfos[normalizeStatus(status)]; ok {
		return info.message
	}
	return status
}

// StatusHeadline returns a short title for the status.
func StatusHeadline(status string) string {
	if info, ok := statusInfos[normalizeStatus(status)]; ok {
		return info.headline
	}
	return "Exchange In Progress"
}

// AlertDetail returns the explanation shown along with an alert status, or
// an empty string if the status is not an alert one.
func AlertDetail(status string) string {
	switch s := normalizeStatus(status); {
	case !IsAlertStatus(s):
		return ""
	case s == StatusExpired:
		return "The payment window for this exchange has expired. " +
			"You can still send the deposit to the address below, but you'll " +
			"need to contact support to process it manually, or start a new exchange."
	case s == StatusPaidPartially:
		return "You sent less than the required amount. " +
			"Please contact support for assistance."
	default:
		return "Please contact support with your exchange ID for assistance."
	}
}

// StatusSeverity returns the display severity of the status. Unknown
// statuses are pending.
func StatusSeverity(status string) Severity {
	if info, ok := statusInfos[normalizeStatus(status)]; ok {
		return info.severity
	}
	return SeverityPending
}

// IsAlertStatus returns whether the status denotes a problem the user must
// be warned about.
func IsAlertStatus(status string) bool {
	return statusInfos[normalizeStatus(status)].alert
}

// IsTerminalStatus returns whether the status is final, meaning the trade
// will not move any further on its own.
func IsTerminalStatus(status string) bool {
	switch normalizeStatus(status) {
	case StatusFinished, StatusFailed, StatusExpired, StatusHalted, StatusRefunded:
		return true
	}
	return false
}

// ShowsCountdown returns whether a countdown to the expiration must be
// displayed for a trade with the given status.
func ShowsCountdown(status string) bool {
	s := normalizeStatus(status)
	return s != StatusFinished && s != StatusExpired
}

func normalizeStatus(status string) string {
	return strings.ToLower(strings.TrimSpace(status))
}
