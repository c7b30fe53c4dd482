package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/swapgate-network/swapgate-daemon/internal/core/application/exchange"
	"github.com/swapgate-network/swapgate-daemon/internal/core/domain"
	"github.com/urfave/cli/v2"
)

var (
	fromFlag = cli.StringFlag{
		Name:     "from",
		Usage:    "id of the currency to send, ie. btc_Mainnet",
		Required: true,
	}
	toFlag = cli.StringFlag{
		Name:     "to",
		Usage:    "id of the currency to receive, ie. xmr_Mainnet",
		Required: true,
	}
	amountFlag = cli.StringFlag{
		Name:     "amount",
		Usage:    "the amount of currency to send",
		Required: true,
	}
	fixedFlag = cli.BoolFlag{
		Name:  "fixed",
		Usage: "use fixed rate quotes instead of floating ones",
	}
	jsonFlag = cli.BoolFlag{
		Name:  "json",
		Usage: "print the raw response",
	}
)

var rates = cli.Command{
	Name:  "rates",
	Usage: "get the quotes of every provider for a swap",
	Flags: []cli.Flag{
		&fromFlag, &toFlag, &amountFlag, &fixedFlag, &jsonFlag,
	},
	Action: ratesAction,
}

func ratesAction(ctx *cli.Context) error {
	svc, err := getExchangeService()
	if err != nil {
		return err
	}

	rateType := domain.RateTypeFloating
	if ctx.Bool(fixedFlag.Name) {
		rateType = domain.RateTypeFixed
	}

	res, err := svc.GetRates(ctx.Context, exchange.RateRequest{
		From:     ctx.String(fromFlag.Name),
		To:       ctx.String(toFlag.Name),
		Amount:   ctx.String(amountFlag.Name),
		RateType: rateType,
	})
	if err != nil {
		return err
	}

	if ctx.Bool(jsonFlag.Name) {
		printJSON(ctx.App.Writer, res)
		return nil
	}

	fmt.Fprintf(ctx.App.Writer, "trade id: %s (%s rate)\n", res.TradeID, res.RateType)
	if len(res.Filtered) <= 0 {
		fmt.Fprintln(ctx.App.Writer, "no quotes available")
		return nil
	}

	w := tabwriter.NewWriter(ctx.App.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PROVIDER\tAMOUNT\tKYC\tETA (min)")
	for _, q := range res.Filtered {
		fmt.Fprintf(
			w, "%s\t%s\t%s (%s)\t%v\n",
			q.Provider, q.AmountTo, q.KYCRating,
			exchange.KYCRatingDescription(q.KYCRating), q.ETA,
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if res.Best != nil {
		fmt.Fprintf(
			ctx.App.Writer, "best quote: %s %s %s\n",
			res.Best.Provider, res.Best.AmountTo, strings.ToUpper(res.Target.Ticker),
		)
	}
	return nil
}
