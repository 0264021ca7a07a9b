// @title Lotto API
// @version 1.0
// @description Participation pool with verifiable random winner selection
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/osse101/lotto/internal/bootstrap"
	"github.com/osse101/lotto/internal/clock"
	"github.com/osse101/lotto/internal/config"
	"github.com/osse101/lotto/internal/discord"
	"github.com/osse101/lotto/internal/handler"
	"github.com/osse101/lotto/internal/lotto"
	"github.com/osse101/lotto/internal/metrics"
	"github.com/osse101/lotto/internal/scheduler"
	"github.com/osse101/lotto/internal/server"
	"github.com/osse101/lotto/internal/sse"
	"github.com/osse101/lotto/internal/worker"
)

const (
	shutdownTimeout = 30 * time.Second
	workerQueueSize = 16
	upkeepJobName   = "upkeep"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		slog.Error("Failed to set up logging", "error", err)
		os.Exit(1)
	}
	defer logFile.Close()

	warnings, err := config.ValidateEnvWithWarnings()
	if err != nil {
		slog.Error("Environment validation failed", "error", err)
		os.Exit(1)
	}
	for _, w := range warnings {
		slog.Warn(w)
	}

	if err := run(cfg); err != nil {
		slog.Error("Lotto stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx := context.Background()
	clk := clock.NewRealClock()

	profile, err := cfg.LoadNetwork()
	if err != nil {
		return err
	}

	storage, err := bootstrap.OpenStorage(ctx, cfg)
	if err != nil {
		return err
	}

	bus, publisher, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		_ = storage.Close()
		return err
	}

	oracle, err := bootstrap.SetupOracle(profile, clk)
	if err != nil {
		_ = storage.Close()
		return err
	}

	pool, err := bootstrap.DeployPool(ctx, storage.Repo, clk, cfg.PoolID, profile, oracle)
	if err != nil {
		_ = storage.Close()
		return err
	}

	lottoService := lotto.NewService(storage.Repo, oracle.Coordinator, publisher, clk, lotto.Config{
		PoolID:        cfg.PoolID,
		DrawTimeout:   cfg.DrawTimeout,
		DrawCacheSize: cfg.DrawCacheSize,
		DrawCacheTTL:  cfg.DrawCacheTTL,
	})
	if err := bootstrap.ConnectOracle(ctx, oracle, storage.Repo, pool, lottoService); err != nil {
		_ = storage.Close()
		return err
	}

	hub := sse.NewHub()
	hub.Start()

	var bot *discord.Bot
	if cfg.DiscordEnabled() {
		bot, err = discord.New(discord.Config{
			Token:     cfg.DiscordToken,
			AppID:     cfg.DiscordAppID,
			ChannelID: cfg.DiscordChannelID,
		}, lottoService)
		if err != nil {
			slog.Error("Failed to create Discord bot, announcements disabled", "error", err)
			bot = nil
		}
	}

	if err := bootstrap.RegisterEventHandlers(bootstrap.EventHandlerDependencies{
		EventBus: bus,
		Hub:      hub,
		Bot:      bot,
	}); err != nil {
		_ = storage.Close()
		return err
	}

	workerPool := worker.NewPool(cfg.WorkerCount, workerQueueSize).WithJobTimeout(cfg.KeeperInterval)
	workerPool.Start()
	sched := scheduler.New(workerPool)
	sched.Schedule(upkeepJobName, cfg.KeeperInterval, worker.NewUpkeepJob(lottoService, metrics.ObserveKeeperRun))

	// only the in-process coordinator can be driven from here
	var fulfiller handler.ManualFulfiller
	var fulfillmentWorker *worker.FulfillmentWorker
	if oracle.Mock != nil {
		fulfiller = oracle.Mock
		fulfillmentWorker = worker.NewFulfillmentWorker(oracle.Mock, lottoService, cfg.VRFFulfillDelay, metrics.ObserveFulfillment)
		fulfillmentWorker.Subscribe(bus)
		fulfillmentWorker.Start(ctx)
	}

	if bot != nil {
		if err := bot.Start(); err != nil {
			slog.Error("Failed to start Discord bot", "error", err)
		}
	}

	srv := server.NewServer(server.Config{
		Port:           cfg.Port,
		APIKey:         cfg.APIKey,
		TrustedProxies: cfg.TrustedProxies,
	}, server.Deps{
		Health:    storage.Health,
		Service:   lottoService,
		Fulfiller: fulfiller,
		Hub:       hub,
	})

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case sig := <-quit:
		slog.Info("Received shutdown signal", "signal", sig.String())
	case runErr = <-serverErr:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Server:             srv,
		Scheduler:          sched,
		WorkerPool:         workerPool,
		FulfillmentWorker:  fulfillmentWorker,
		LottoService:       lottoService,
		Bot:                bot,
		Hub:                hub,
		ResilientPublisher: publisher,
		Storage:            storage,
	})
	return runErr
}
