package main

import (
	"fmt"

	"github.com/swapgate-network/swapgate-daemon/internal/core/application/exchange"
	"github.com/swapgate-network/swapgate-daemon/internal/core/application/tracker"
	"github.com/urfave/cli/v2"
)

var (
	tradeIDFlag = cli.StringFlag{
		Name:     "id",
		Usage:    "the trade id returned by the rates command",
		Required: true,
	}
	addressFlag = cli.StringFlag{
		Name:     "address",
		Usage:    "the address receiving the swapped currency",
		Required: true,
	}
	providerFlag = cli.StringFlag{
		Name:     "provider",
		Usage:    "the provider of the chosen quote",
		Required: true,
	}
)

var trade = cli.Command{
	Name:  "trade",
	Usage: "create a trade with the quote of a provider",
	Flags: []cli.Flag{
		&tradeIDFlag, &fromFlag, &toFlag, &amountFlag,
		&addressFlag, &providerFlag, &fixedFlag, &watchFlag,
	},
	Action: tradeAction,
}

func tradeAction(ctx *cli.Context) error {
	svc, err := getExchangeService()
	if err != nil {
		return err
	}

	res, err := svc.CreateTrade(ctx.Context, exchange.CreateTradeRequest{
		TradeID:  ctx.String(tradeIDFlag.Name),
		From:     ctx.String(fromFlag.Name),
		To:       ctx.String(toFlag.Name),
		Amount:   ctx.String(amountFlag.Name),
		Address:  ctx.String(addressFlag.Name),
		Provider: ctx.String(providerFlag.Name),
		Fixed:    ctx.Bool(fixedFlag.Name),
	})
	if err != nil {
		return err
	}

	view := tracker.MapTrade(*res, ctx.String(tradeIDFlag.Name))
	printJSON(ctx.App.Writer, view)

	fmt.Fprintf(
		ctx.App.Writer, "\nsend %s %s to %s\npayment uri: %s\n",
		view.ExpectedSourceAmount, view.SourceAsset.Ticker,
		view.DepositAddress, view.PaymentURI(),
	)
	if ctx.Bool(watchFlag.Name) {
		fmt.Fprintln(ctx.App.Writer)
		return followTrade(ctx, view.ID, res)
	}
	fmt.Fprintf(ctx.App.Writer, "follow the trade with `watch %s`\n", view.ID)
	return nil
}
