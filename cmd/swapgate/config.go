package main

import (
	"errors"
	"fmt"
	"sort"

	"github.com/swapgate-network/swapgate-daemon/internal/core/application/tracker"
	"github.com/urfave/cli/v2"
)

var (
	proxyURLFlag = cli.StringFlag{
		Name:  "proxy-url",
		Usage: "url of the exchange API proxy served by swapgated",
		Value: defaultProxyURL,
	}

	pollIntervalFlag = cli.DurationFlag{
		Name:  "poll-interval",
		Usage: "interval between refreshes of a watched trade",
		Value: tracker.DefaultPollInterval,
	}
)

var config = cli.Command{
	Name:   "config",
	Usage:  "Print local configuration of the swapgate CLI",
	Action: configAction,
	Subcommands: []*cli.Command{
		{
			Name:   "set",
			Usage:  "set a <key> <value> in the local state",
			Action: configSetAction,
		},
		{
			Name:   "init",
			Usage:  "initialize the local state with flags",
			Action: configInitAction,
			Flags: []cli.Flag{
				&proxyURLFlag,
				&pollIntervalFlag,
			},
		},
	},
}

func configAction(ctx *cli.Context) error {
	state, err := getState()
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(state))
	for key := range state {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		fmt.Fprintln(ctx.App.Writer, key+": "+state[key])
	}
	return nil
}

func configInitAction(ctx *cli.Context) error {
	return setState(map[string]string{
		proxyURLKey:     ctx.String(proxyURLFlag.Name),
		pollIntervalKey: ctx.Duration(pollIntervalFlag.Name).String(),
	})
}

func configSetAction(ctx *cli.Context) error {
	if ctx.NArg() < 2 {
		return errors.New("key and value are missing")
	}

	key := ctx.Args().Get(0)
	value := ctx.Args().Get(1)

	if err := setState(map[string]string{key: value}); err != nil {
		return err
	}

	fmt.Fprintf(ctx.App.Writer, "%s %s has been set\n", key, value)
	return nil
}
