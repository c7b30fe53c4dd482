package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/swapgate-network/swapgate-daemon/internal/core/application/tracker"
	"github.com/swapgate-network/swapgate-daemon/internal/core/domain"
	"github.com/swapgate-network/swapgate-daemon/pkg/trocador"
	"github.com/urfave/cli/v2"
)

var watchFlag = cli.BoolFlag{
	Name:  "watch",
	Usage: "keep following the status of the trade until it is over",
}

var watch = cli.Command{
	Name:      "watch",
	Usage:     "follow the status of a trade until it is over",
	ArgsUsage: "<trade id>",
	Action:    watchAction,
}

func watchAction(ctx *cli.Context) error {
	tradeID := ctx.Args().First()
	if tradeID == "" {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}
	return followTrade(ctx, tradeID, nil)
}

// followTrade renders the status of the trade until it is over or the
// process is interrupted. A non nil seed is the record just fetched, the
// session starts from it without fetching it again.
func followTrade(ctx *cli.Context, tradeID string, seed *trocador.Trade) error {
	client, err := getExchangeClient()
	if err != nil {
		return err
	}

	session, err := tracker.NewSession(tracker.SessionOpts{
		TradeID:      tradeID,
		Source:       client,
		PollInterval: getPollInterval(),
		Seed:         seed,
	})
	if err != nil {
		return err
	}

	sigCtx, cancel := signal.NotifyContext(
		ctx.Context, os.Interrupt, syscall.SIGTERM,
	)
	defer cancel()

	return watchSession(sigCtx, session, tracker.DefaultClock, func(s string) {
		fmt.Fprintf(ctx.App.Writer, "%s\n\n", s)
	})
}

// watchSession renders the report of the session on every tick of the clock
// and every change of the trade, skipping unchanged renderings. It returns
// once the trade reaches a terminal status, failures included, or ctx is
// done.
func watchSession(
	ctx context.Context, session *tracker.Session, clock *tracker.SharedClock,
	render func(string),
) error {
	session.Start(ctx)
	defer session.Stop()

	clockID, ticks := clock.Subscribe()
	defer clock.Unsubscribe(clockID)
	subID, updates := session.Subscribe()
	defer session.Unsubscribe(subID)

	var last string
	for {
		var report tracker.Report
		select {
		case <-ctx.Done():
			return nil
		case now, ok := <-ticks:
			if !ok {
				return nil
			}
			report = session.Report(now)
		case snap, ok := <-updates:
			if !ok {
				return nil
			}
			report = tracker.NewReport(snap, time.Now())
		}

		if rendered := formatReport(report); rendered != "" && rendered != last {
			render(rendered)
			last = rendered
		}
		if report.Trade != nil && domain.IsTerminalStatus(report.Trade.Status) {
			return nil
		}
	}
}
