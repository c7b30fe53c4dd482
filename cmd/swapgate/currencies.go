package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v2"
)

var allFlag = cli.BoolFlag{
	Name:  "all",
	Usage: "list every currency, not only the popular ones",
}

var currencies = cli.Command{
	Name:   "currencies",
	Usage:  "list the currencies that can be swapped",
	Flags:  []cli.Flag{&allFlag},
	Action: currenciesAction,
}

func currenciesAction(ctx *cli.Context) error {
	svc, err := getExchangeService()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(ctx.App.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tMIN\tMAX")
	for _, c := range svc.Currencies(!ctx.Bool(allFlag.Name)) {
		fmt.Fprintf(w, "%s\t%s\t%v\t%v\n", c.ID(), c.Name, c.Minimum, c.Maximum)
	}
	return w.Flush()
}
