package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/osse101/lotto/internal/discord"
	"github.com/osse101/lotto/internal/event"
	"github.com/osse101/lotto/internal/metrics"
	"github.com/osse101/lotto/internal/sse"
)

// EventHandlerDependencies holds the dependencies needed for event handler registration.
type EventHandlerDependencies struct {
	EventBus event.Bus
	Hub      *sse.Hub
	Bot      *discord.Bot
}

// RegisterEventHandlers sets up all event subscribers: the metrics
// collector, the SSE bridge and, when a bot is configured, the Discord
// notifier.
func RegisterEventHandlers(deps EventHandlerDependencies) error {
	metricsCollector := metrics.NewEventMetricsCollector()
	if err := metricsCollector.Register(deps.EventBus); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedRegisterMetrics, err)
	}
	slog.Info(LogMsgMetricsCollectorRegistered)

	if deps.Hub != nil {
		sse.NewSubscriber(deps.Hub, deps.EventBus).Subscribe()
		slog.Info(LogMsgSSESubscriberRegistered)
	}

	if deps.Bot != nil {
		deps.Bot.Notifier().Subscribe(deps.EventBus)
		slog.Info(LogMsgDiscordNotifierRegistered)
	}

	return nil
}
