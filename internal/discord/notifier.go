package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/lotto/internal/event"
	"github.com/osse101/lotto/internal/logger"
)

// Sender is the part of a discordgo session used to post announcements
type Sender interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Notifier posts pool announcements to a Discord channel
type Notifier struct {
	sender    Sender
	channelID string
}

// NewNotifier creates a notifier posting to channelID
func NewNotifier(sender Sender, channelID string) *Notifier {
	return &Notifier{sender: sender, channelID: channelID}
}

// Subscribe registers the notifier for the draw lifecycle events. Entries
// are not announced.
func (n *Notifier) Subscribe(bus event.Bus) {
	bus.Subscribe(event.PoolDrawRequested, n.handleDrawRequested)
	bus.Subscribe(event.PoolWinnerPicked, n.handleWinnerPicked)
	bus.Subscribe(event.PoolPayoutFailed, n.handlePayoutFailed)
	bus.Subscribe(event.PoolDrawReset, n.handleDrawReset)
}

func (n *Notifier) handleDrawRequested(ctx context.Context, evt event.Event) error {
	p, err := event.DecodePayload[event.DrawRequestedPayloadV1](evt.Payload)
	if err != nil {
		return n.invalid(ctx, evt, err)
	}
	return n.send(ctx, evt, DrawRequestedEmbed(p))
}

func (n *Notifier) handleWinnerPicked(ctx context.Context, evt event.Event) error {
	p, err := event.DecodePayload[event.WinnerPickedPayloadV1](evt.Payload)
	if err != nil {
		return n.invalid(ctx, evt, err)
	}
	return n.send(ctx, evt, WinnerEmbed(p))
}

func (n *Notifier) handlePayoutFailed(ctx context.Context, evt event.Event) error {
	p, err := event.DecodePayload[event.PayoutFailedPayloadV1](evt.Payload)
	if err != nil {
		return n.invalid(ctx, evt, err)
	}
	return n.send(ctx, evt, PayoutFailedEmbed(p))
}

func (n *Notifier) handleDrawReset(ctx context.Context, evt event.Event) error {
	p, err := event.DecodePayload[event.DrawResetPayloadV1](evt.Payload)
	if err != nil {
		return n.invalid(ctx, evt, err)
	}
	return n.send(ctx, evt, DrawResetEmbed(p))
}

func (n *Notifier) invalid(ctx context.Context, evt event.Event, err error) error {
	logger.FromContext(ctx).Warn(LogMsgPayloadInvalid, "event_type", evt.Type, "error", err)
	return nil
}

// send posts embed. Delivery failures are logged, never returned.
func (n *Notifier) send(ctx context.Context, evt event.Event, embed *discordgo.MessageEmbed) error {
	log := logger.FromContext(ctx)
	if n.channelID == "" {
		return nil
	}
	if _, err := n.sender.ChannelMessageSendEmbed(n.channelID, embed); err != nil {
		log.Error(LogMsgNotificationFailed, "event_type", evt.Type, "error", err)
		return nil
	}
	log.Info(LogMsgNotificationSent, "event_type", evt.Type, "channel_id", n.channelID)
	return nil
}

// WinnerEmbed announces a settled draw
func WinnerEmbed(p event.WinnerPickedPayloadV1) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🏆 " + title("winner_picked"),
		Description: fmt.Sprintf("**%s** won **%s**!", shortAddress(p.Winner), FormatWei(p.Payout)),
		Color:       colorWinner,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Winner", Value: p.Winner},
			{Name: "Slot", Value: fmt.Sprintf("#%d of %s", p.WinnerIndex, FormatCount(p.NumParticipants)), Inline: true},
			{Name: "Request", Value: fmt.Sprintf("%d", p.RequestID), Inline: true},
		},
		Timestamp: embedTime(p.Timestamp),
		Footer:    &discordgo.MessageEmbedFooter{Text: embedFooter + " · " + p.PoolID},
	}
}

// DrawRequestedEmbed announces that entries are closed until the draw settles
func DrawRequestedEmbed(p event.DrawRequestedPayloadV1) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🎲 " + title("draw_requested"),
		Description: fmt.Sprintf("Drawing among %s slots for a pot of **%s**. Entries are closed until the winner is picked.", FormatCount(p.NumParticipants), FormatWei(p.Pot)),
		Color:       colorDrawRequested,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Request", Value: fmt.Sprintf("%d", p.RequestID), Inline: true},
		},
		Timestamp: embedTime(p.Timestamp),
		Footer:    &discordgo.MessageEmbedFooter{Text: embedFooter + " · " + p.PoolID},
	}
}

// PayoutFailedEmbed warns that the winner refused the payout and the draw is still pending
func PayoutFailedEmbed(p event.PayoutFailedPayloadV1) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "⚠️ " + title("payout_failed"),
		Description: fmt.Sprintf("The payout of **%s** to %s was refused. The draw stays pending and can be retried.", FormatWei(p.Amount), shortAddress(p.Winner)),
		Color:       colorPayoutFailed,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Request", Value: fmt.Sprintf("%d", p.RequestID), Inline: true},
		},
		Timestamp: embedTime(p.Timestamp),
		Footer:    &discordgo.MessageEmbedFooter{Text: embedFooter + " · " + p.PoolID},
	}
}

// DrawResetEmbed announces that an operator reopened the pool
func DrawResetEmbed(p event.DrawResetPayloadV1) *discordgo.MessageEmbed {
	pending := time.Duration(p.PendingSeconds * float64(time.Second)).Round(time.Second)
	return &discordgo.MessageEmbed{
		Title:       "🔓 " + title("draw_reset"),
		Description: fmt.Sprintf("Request %d was abandoned after %s. The pool is open again and keeps its entries.", p.RequestID, pending),
		Color:       colorDrawReset,
		Timestamp:   embedTime(p.Timestamp),
		Footer:      &discordgo.MessageEmbedFooter{Text: embedFooter + " · " + p.PoolID},
	}
}

func embedTime(unix int64) string {
	return time.Unix(unix, 0).UTC().Format(time.RFC3339)
}
