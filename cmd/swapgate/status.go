package main

import (
	"fmt"
	"time"

	"github.com/swapgate-network/swapgate-daemon/internal/core/application/exchange"
	"github.com/swapgate-network/swapgate-daemon/internal/core/application/tracker"
	"github.com/urfave/cli/v2"
)

var status = cli.Command{
	Name:      "status",
	Usage:     "show the quotes or the status of a trade",
	ArgsUsage: "<trade id>",
	Flags:     []cli.Flag{&jsonFlag, &watchFlag},
	Action:    statusAction,
}

func statusAction(ctx *cli.Context) error {
	tradeID := ctx.Args().First()
	if tradeID == "" {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}

	svc, err := getExchangeService()
	if err != nil {
		return err
	}

	opened, err := svc.OpenTrade(ctx.Context, tradeID)
	if err != nil {
		return err
	}

	if opened.Kind == exchange.OpenKindQuote {
		if ctx.Bool(jsonFlag.Name) {
			printJSON(ctx.App.Writer, opened.Rates)
			return nil
		}
		fmt.Fprintf(
			ctx.App.Writer,
			"trade %s is not created yet, choose one of the quotes:\n",
			tradeID,
		)
		for _, q := range opened.Rates.Quotes.Quotes {
			rateType := "floating"
			if q.IsFixed() {
				rateType = "fixed"
			}
			fmt.Fprintf(
				ctx.App.Writer, "  %s: %s (%s)\n", q.Provider, q.AmountTo, rateType,
			)
		}
		return nil
	}

	if ctx.Bool(watchFlag.Name) {
		return followTrade(ctx, tradeID, opened.Trade)
	}

	now := time.Now()
	view := tracker.MapTrade(*opened.Trade, tradeID)
	report := tracker.NewReport(tracker.Snapshot{
		Phase: tracker.PhaseReady, View: &view, UpdatedAt: now,
	}, now)

	if ctx.Bool(jsonFlag.Name) {
		printJSON(ctx.App.Writer, report)
		return nil
	}
	fmt.Fprintln(ctx.App.Writer, formatReport(report))
	return nil
}
