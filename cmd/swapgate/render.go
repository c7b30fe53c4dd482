package main

import (
	"fmt"
	"strings"

	"github.com/swapgate-network/swapgate-daemon/internal/core/application/tracker"
	"github.com/swapgate-network/swapgate-daemon/internal/core/domain"
)

// formatReport renders a status report as a few human readable lines.
func formatReport(r tracker.Report) string {
	switch r.Phase {
	case tracker.PhaseLoading:
		return "Loading transaction details..."
	case tracker.PhaseError:
		return r.Error
	}
	if r.Trade == nil {
		return ""
	}

	lines := []string{
		fmt.Sprintf(
			"[%s] %s (%d/%d) %s",
			r.Trade.ID, r.Headline, r.StageIndex+1, len(r.Stages), r.Stage,
		),
		r.Message,
	}
	if r.Alert {
		lines = append(lines, "! "+r.AlertDetail)
	}
	if r.StageIndex == domain.StageAwaitingDeposit.Index() && !r.Alert {
		lines = append(lines, fmt.Sprintf(
			"send %s %s to %s",
			r.Trade.ExpectedSourceAmount, strings.ToUpper(r.Trade.SourceAsset.Ticker),
			r.Trade.DepositAddress,
		))
		if r.PaymentURI != "" && r.PaymentURI != r.Trade.DepositAddress {
			lines = append(lines, "payment uri: "+r.PaymentURI)
		}
	}
	if r.Countdown != nil {
		lines = append(lines, fmt.Sprintf(
			"expires in %s (%s)", r.Countdown.String(), r.Urgency,
		))
	}
	return strings.Join(lines, "\n")
}
