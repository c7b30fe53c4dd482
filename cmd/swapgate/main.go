package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/swapgate-network/swapgate-daemon/internal/core/application/exchange"
	"github.com/swapgate-network/swapgate-daemon/internal/core/application/tracker"
	"github.com/swapgate-network/swapgate-daemon/pkg/trocador"
	"github.com/urfave/cli/v2"
)

const (
	proxyURLKey     = "proxy_url"
	pollIntervalKey = "poll_interval"

	defaultProxyURL = "http://localhost:4000/api/trocador"
)

var (
	version = "dev"

	swapgateDataDir = btcutil.AppDataDir("swapgate-cli", false)
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fatal(err)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()

	app.Version = version
	app.Name = "swapgate CLI"
	app.Usage = "Command line interface to swap crypto through the swapgate daemon"
	app.Commands = append(
		app.Commands,
		&config,
		&currencies,
		&rates,
		&trade,
		&status,
		&watch,
	)
	return app
}

// getExchangeClient returns a client for the daemon proxy. The daemon injects
// the API key, so none is set here.
func getExchangeClient() (*trocador.Client, error) {
	state, err := getState()
	if err != nil {
		return nil, err
	}
	proxyURL, ok := state[proxyURLKey]
	if !ok || proxyURL == "" {
		return nil, errors.New("set proxy url with `config set proxy_url`")
	}
	return trocador.NewClient(proxyURL, "")
}

func getExchangeService() (*exchange.Service, error) {
	client, err := getExchangeClient()
	if err != nil {
		return nil, err
	}
	return exchange.NewService(client)
}

func getPollInterval() time.Duration {
	state, err := getState()
	if err != nil {
		return tracker.DefaultPollInterval
	}
	interval, err := time.ParseDuration(state[pollIntervalKey])
	if err != nil || interval < time.Second {
		return tracker.DefaultPollInterval
	}
	return interval
}

func printJSON(w io.Writer, resp interface{}) {
	buf, err := json.MarshalIndent(resp, "", "\t")
	if err != nil {
		fmt.Fprintln(w, "unable to decode response: ", err)
		return
	}
	fmt.Fprintln(w, string(buf))
}

type invalidUsageError struct {
	ctx     *cli.Context
	command string
}

func (e *invalidUsageError) Error() string {
	return fmt.Sprintf("invalid usage of command %s", e.command)
}

func fatal(err error) {
	var e *invalidUsageError
	if errors.As(err, &e) {
		_ = cli.ShowCommandHelp(e.ctx, e.command)
	} else {
		_, _ = fmt.Fprintf(os.Stderr, "[swapgate] %v\n", err)
	}
	os.Exit(1)
}
