package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/swapgate-network/swapgate-daemon/internal/core/application/tracker"
	"github.com/swapgate-network/swapgate-daemon/internal/core/domain"
	"github.com/swapgate-network/swapgate-daemon/pkg/trocador"
)

const (
	waitingTrade = `[{
		"trade_id": "abc",
		"ticker_from": "btc",
		"ticker_to": "xmr",
		"network_from": "Mainnet",
		"network_to": "Mainnet",
		"amount_from": 0.1,
		"amount_to": 12.5,
		"address_provider": "bc1qprovider",
		"provider": "ChangeNow",
		"status": "waiting"
	}]`
	finishedTrade = `[{
		"trade_id": "done",
		"ticker_from": "btc",
		"ticker_to": "xmr",
		"network_from": "Mainnet",
		"network_to": "Mainnet",
		"amount_from": 0.1,
		"address_provider": "bc1qprovider",
		"status": "Finished"
	}]`
	failedTrade = `[{
		"trade_id": "failed",
		"ticker_from": "btc",
		"ticker_to": "xmr",
		"network_from": "Mainnet",
		"network_to": "Mainnet",
		"amount_from": 0.1,
		"address_provider": "bc1qprovider",
		"status": "failed"
	}]`
	newTrade = `[{
		"trade_id": "quoted",
		"status": "new",
		"quotes": {"quotes": [
			{"provider": "A", "fixed": "True", "amount_to": "12.1"}
		]}
	}]`
	rateResponse = `{
		"trade_id": "rate1",
		"quotes": {"quotes": [
			{"provider": "A", "fixed": "True", "amount_to": "60.1", "kycrating": "A"},
			{"provider": "B", "fixed": "False", "amount_to": "61.2", "kycrating": "C"}
		]}
	}`
)

func setupState(t *testing.T) {
	prev := statePath
	statePath = filepath.Join(t.TempDir(), "cli", "state.json")
	t.Cleanup(func() { statePath = prev })
}

// exchangeAPI returns a fake exchange API and the number of trade requests
// it served.
func exchangeAPI(t *testing.T) (*httptest.Server, *int32) {
	var tradeRequests int32
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/trade":
				atomic.AddInt32(&tradeRequests, 1)
				switch r.URL.Query().Get("id") {
				case "abc":
					w.Write([]byte(waitingTrade))
				case "done":
					w.Write([]byte(finishedTrade))
				case "failed":
					w.Write([]byte(failedTrade))
				case "quoted":
					w.Write([]byte(newTrade))
				default:
					w.Write([]byte("[]"))
				}
			case "/new_rate":
				w.Write([]byte(rateResponse))
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		},
	))
	t.Cleanup(srv.Close)
	return srv, &tradeRequests
}

func runCLICommand(t *testing.T, args ...string) (string, error) {
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{"swapgate"}, args...))
	return out.String(), err
}

func TestState(t *testing.T) {
	setupState(t)

	_, err := getState()
	require.Error(t, err)

	require.NoError(t, setState(map[string]string{"a": "1", "b": "2"}))
	require.NoError(t, setState(map[string]string{"b": "3"}))

	state, err := getState()
	require.NoError(t, err)
	require.Equal(t, map[string]string{"a": "1", "b": "3"}, state)
}

func TestConfigCommands(t *testing.T) {
	setupState(t)

	_, err := runCLICommand(t, "config")
	require.Error(t, err)

	_, err = runCLICommand(t, "config", "init", "--poll-interval", "3s")
	require.NoError(t, err)

	out, err := runCLICommand(t, "config")
	require.NoError(t, err)
	require.Contains(t, out, "proxy_url: "+defaultProxyURL)
	require.Contains(t, out, "poll_interval: 3s")
	require.Equal(t, 3*time.Second, getPollInterval())

	out, err = runCLICommand(t, "config", "set", "poll_interval", "bad")
	require.NoError(t, err)
	require.Contains(t, out, "poll_interval bad has been set")
	require.Equal(t, tracker.DefaultPollInterval, getPollInterval())

	_, err = runCLICommand(t, "config", "set", "poll_interval")
	require.Error(t, err)
}

func TestExchangeCommands(t *testing.T) {
	setupState(t)
	api, tradeRequests := exchangeAPI(t)
	_, err := runCLICommand(t, "config", "init", "--proxy-url", api.URL)
	require.NoError(t, err)

	t.Run("currencies", func(t *testing.T) {
		out, err := runCLICommand(t, "currencies")
		require.NoError(t, err)
		require.Contains(t, out, "btc_Mainnet")
		require.Equal(t, len(domain.PopularAssets)+1, strings.Count(out, "\n"))
	})

	t.Run("rates", func(t *testing.T) {
		out, err := runCLICommand(
			t, "rates", "--from", "btc_Mainnet", "--to", "xmr_Mainnet",
			"--amount", "0.5",
		)
		require.NoError(t, err)
		require.Contains(t, out, "trade id: rate1 (floating rate)")
		require.Contains(t, out, "B")
		require.NotContains(t, out, "60.1")
		require.Contains(t, out, "best quote: B 61.2 XMR")

		_, err = runCLICommand(
			t, "rates", "--from", "btc_Mainnet", "--to", "xmr_Mainnet",
			"--amount", "zero",
		)
		require.ErrorIs(t, err, domain.ErrInvalidAmount)
	})

	t.Run("status", func(t *testing.T) {
		out, err := runCLICommand(t, "status", "abc")
		require.NoError(t, err)
		require.Contains(t, out, "[abc]")
		require.Contains(t, out, "payment uri: bitcoin:bc1qprovider?amount=0.1")

		out, err = runCLICommand(t, "status", "quoted")
		require.NoError(t, err)
		require.Contains(t, out, "is not created yet")
		require.Contains(t, out, "A: 12.1 (fixed)")

		_, err = runCLICommand(t, "status", "missing")
		require.ErrorIs(t, err, trocador.ErrTradeNotFound)

		_, err = runCLICommand(t, "status")
		require.Error(t, err)
	})

	t.Run("status watch", func(t *testing.T) {
		before := atomic.LoadInt32(tradeRequests)
		out, err := runCLICommand(t, "status", "--watch", "done")
		require.NoError(t, err)
		require.Contains(t, out, "(4/4) finished")
		// The fetched record seeds the watch, which does not ask again.
		require.EqualValues(t, 1, atomic.LoadInt32(tradeRequests)-before)
	})
}

func TestWatchSession(t *testing.T) {
	api, tradeRequests := exchangeAPI(t)
	client, err := trocador.NewClient(api.URL, "", trocador.WithRateLimit(0))
	require.NoError(t, err)

	finished := &trocador.Trade{
		TradeID:         "done",
		TickerFrom:      "btc",
		NetworkFrom:     "Mainnet",
		AddressProvider: "bc1qprovider",
		Status:          "finished",
	}

	tests := []struct {
		name             string
		tradeID          string
		seed             *trocador.Trade
		expectedLast     string
		expectedRequests int32
	}{
		{"finished", "done", nil, "(4/4) finished", 1},
		{"failed", "failed", nil, "! ", 1},
		{"seeded", "done", finished, "(4/4) finished", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			atomic.StoreInt32(tradeRequests, 0)

			session, err := tracker.NewSession(tracker.SessionOpts{
				TradeID:      tt.tradeID,
				Source:       client,
				PollInterval: time.Hour,
				Seed:         tt.seed,
			})
			require.NoError(t, err)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			rendered := make([]string, 0)
			err = watchSession(
				ctx, session, tracker.NewSharedClock(10*time.Millisecond),
				func(s string) { rendered = append(rendered, s) },
			)
			require.NoError(t, err)
			require.NoError(t, ctx.Err())
			require.NotEmpty(t, rendered)
			require.Contains(t, rendered[len(rendered)-1], tt.expectedLast)
			require.Equal(t, tt.expectedRequests, atomic.LoadInt32(tradeRequests))
		})
	}
}

func TestFormatReport(t *testing.T) {
	now := time.Now()
	expiresAt := now.Add(90 * time.Minute)

	tests := []struct {
		name     string
		snap     tracker.Snapshot
		contains []string
	}{
		{
			name:     "loading",
			snap:     tracker.Snapshot{Phase: tracker.PhaseLoading},
			contains: []string{"Loading transaction details..."},
		},
		{
			name: "error",
			snap: tracker.Snapshot{
				Phase: tracker.PhaseError,
				Error: "Failed to load transaction details: boom",
			},
			contains: []string{"Failed to load transaction details: boom"},
		},
		{
			name: "awaiting deposit",
			snap: tracker.Snapshot{Phase: tracker.PhaseReady, View: &domain.TradeView{
				ID:                   "abc",
				Status:               "waiting",
				ExpiresAt:            &expiresAt,
				DepositAddress:       "bc1qprovider",
				SourceAsset:          domain.Asset{Ticker: "btc", Network: "Mainnet"},
				ExpectedSourceAmount: "0.10000000",
			}},
			contains: []string{
				"[abc]", "(1/4) awaiting-deposit", "send 0.10000000 BTC to bc1qprovider",
				"payment uri: bitcoin:bc1qprovider?amount=0.1", "expires in 01:",
			},
		},
		{
			name: "alert",
			snap: tracker.Snapshot{Phase: tracker.PhaseReady, View: &domain.TradeView{
				ID: "abc", Status: "failed",
			}},
			contains: []string{"! "},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := formatReport(tracker.NewReport(tt.snap, now))
			for _, s := range tt.contains {
				require.Contains(t, out, s)
			}
		})
	}
}
