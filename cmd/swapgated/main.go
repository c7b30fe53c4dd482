package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/swapgate-network/swapgate-daemon/internal/config"
	"github.com/swapgate-network/swapgate-daemon/internal/core/application/exchange"
	"github.com/swapgate-network/swapgate-daemon/internal/core/application/tracker"
	dbbadger "github.com/swapgate-network/swapgate-daemon/internal/infrastructure/storage/db/badger"
	httpinterface "github.com/swapgate-network/swapgate-daemon/internal/interfaces/http"
	"github.com/swapgate-network/swapgate-daemon/pkg/stats"
	"github.com/swapgate-network/swapgate-daemon/pkg/trocador"
	"golang.org/x/sync/errgroup"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"

	errInterrupted = errors.New("interrupted")
)

func main() {
	if err := config.InitConfig(); err != nil {
		log.WithError(err).Fatal("failed to load config")
	}
	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	log.Infof("swapgated version: %s, commit: %s, date: %s", version, commit, date)

	if err := run(); err != nil && !errors.Is(err, errInterrupted) {
		log.WithError(err).Fatal("daemon stopped unexpectedly")
	}
	log.Info("shutdown")
}

func run() error {
	apiURL := config.GetString(config.APIURLKey)
	apiKey := config.GetString(config.APIKeyKey)

	client, err := trocador.NewClient(
		apiURL, apiKey,
		trocador.WithRequestTimeout(config.GetDuration(config.RequestTimeoutKey)),
		trocador.WithRateLimit(config.GetInt(config.UpstreamRateLimitKey)),
	)
	if err != nil {
		return fmt.Errorf("failed to create exchange API client: %w", err)
	}

	dbManager, err := dbbadger.NewDbManager(config.GetDbDir(), badgerLogger())
	if err != nil {
		return err
	}
	repo := dbbadger.NewTradeViewRepositoryImpl(dbManager)
	defer repo.Close()

	exchangeSvc, err := exchange.NewService(client)
	if err != nil {
		return err
	}
	manager, err := tracker.NewManager(
		client, repo, config.GetDuration(config.PollIntervalKey),
	)
	if err != nil {
		return err
	}
	defer manager.Stop()

	svc, err := httpinterface.NewService(httpinterface.ServiceOpts{
		Address:        fmt.Sprintf(":%d", config.GetInt(config.ListeningPortKey)),
		APIURL:         apiURL,
		APIKey:         apiKey,
		ProxyPrefix:    config.GetProxyPrefix(),
		AllowedOrigins: config.GetAllowedOrigins(),
		ProxyRateLimit: config.GetInt(config.ProxyRateLimitKey),
		ExchangeSvc:    exchangeSvc,
		Tracker:        manager,
		Repo:           repo,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if interval := config.GetInt(config.StatsIntervalKey); interval > 0 {
		dumpPath := filepath.Join(
			config.GetDatadir(), config.ProfilerLocation, "metrics.txt",
		)
		stats.EnableMemoryStatistics(
			ctx, time.Duration(interval)*time.Second, dumpPath,
		)
	}

	if err := svc.Start(); err != nil {
		return err
	}
	log.Info("daemon started")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return waitForSignal(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		// Streams are closed by stopping the tracked sessions, only then the
		// server can shut down without waiting for them.
		manager.Stop()
		svc.Stop()
		return nil
	})
	return g.Wait()
}

func waitForSignal(ctx context.Context) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer signal.Stop(sigChan)

	select {
	case sig := <-sigChan:
		log.Debugf("received signal %s", sig)
		return errInterrupted
	case <-ctx.Done():
		return nil
	}
}

// badgerLogger returns the logger used by the store, which logs only
// warnings and errors unless the daemon runs at debug level.
func badgerLogger() *log.Logger {
	logger := log.New()
	logger.SetLevel(log.WarnLevel)
	if log.GetLevel() >= log.DebugLevel {
		logger.SetLevel(log.GetLevel())
	}
	return logger
}
