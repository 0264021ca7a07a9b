package bootstrap

import (
	"context"
	"log/slog"

	"github.com/osse101/lotto/internal/discord"
	"github.com/osse101/lotto/internal/event"
	"github.com/osse101/lotto/internal/lotto"
	"github.com/osse101/lotto/internal/scheduler"
	"github.com/osse101/lotto/internal/server"
	"github.com/osse101/lotto/internal/sse"
	"github.com/osse101/lotto/internal/worker"
)

// ShutdownComponents holds all components that need graceful shutdown.
// Nil fields are skipped.
type ShutdownComponents struct {
	Server             *server.Server
	Scheduler          *scheduler.Scheduler
	WorkerPool         *worker.Pool
	FulfillmentWorker  *worker.FulfillmentWorker
	LottoService       lotto.Service
	Bot                *discord.Bot
	Hub                *sse.Hub
	ResilientPublisher *event.ResilientPublisher
	Storage            *Storage
}

// GracefulShutdown stops the components in dependency order: the HTTP
// server first, then the triggers that drive the pool, then the pool
// service, the event consumers, the publisher and finally storage.
//
// Errors during shutdown are logged but do not stop the shutdown sequence.
func GracefulShutdown(ctx context.Context, c ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	if c.Server != nil {
		if err := c.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	// no new upkeep runs once the scheduler is gone
	if c.Scheduler != nil {
		c.Scheduler.Stop()
	}
	if c.WorkerPool != nil {
		c.WorkerPool.Stop()
	}
	if c.FulfillmentWorker != nil {
		if err := c.FulfillmentWorker.Shutdown(ctx); err != nil {
			slog.Error(LogMsgWorkerShutdownFailed, "error", err)
		}
	}

	if c.LottoService != nil {
		shutdownService(ctx, ServiceNameLotto, c.LottoService)
	}

	if c.Bot != nil {
		if err := c.Bot.Stop(); err != nil {
			slog.Error(LogMsgDiscordStopFailed, "error", err)
		}
	}
	if c.Hub != nil {
		c.Hub.Stop()
	}

	if c.ResilientPublisher != nil {
		slog.Info(LogMsgShuttingDownEventPublisher)
		if err := c.ResilientPublisher.Shutdown(ctx); err != nil {
			slog.Error(LogMsgResilientPublisherFailed, "error", err)
		}
	}

	if c.Storage != nil {
		if err := c.Storage.Close(); err != nil {
			slog.Error(LogMsgStorageCloseFailed, "error", err)
		}
	}

	slog.Info(LogMsgServerStopped)
}

// shutdownService shuts down a service and logs any error
func shutdownService(ctx context.Context, name string, svc interface{ Shutdown(context.Context) error }) {
	if err := svc.Shutdown(ctx); err != nil {
		slog.Error(name+LogMsgServiceShutdownFailed, "error", err)
	}
}
