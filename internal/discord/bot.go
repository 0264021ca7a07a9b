package discord

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/ethereum/go-ethereum/common"

	"github.com/osse101/lotto/internal/domain"
)

// StatusSource reads the pool shown by slash commands
type StatusSource interface {
	GetPool(ctx context.Context) (*domain.Pool, error)
}

// Bot represents the Discord bot
type Bot struct {
	Session   *discordgo.Session
	AppID     string
	ChannelID string
	Registry  *CommandRegistry
}

// Config holds the bot configuration
type Config struct {
	Token     string
	AppID     string
	ChannelID string
}

// New creates a new Discord bot
func New(cfg Config, status StatusSource) (*Bot, error) {
	s, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}

	b := &Bot{
		Session:   s,
		AppID:     cfg.AppID,
		ChannelID: cfg.ChannelID,
		Registry:  NewCommandRegistry(),
	}
	b.Registry.Register(PoolCommand(status))
	b.Registry.Register(WinnerCommand(status))
	return b, nil
}

// Notifier returns a notifier posting to the bot's channel
func (b *Bot) Notifier() *Notifier {
	return NewNotifier(b.Session, b.ChannelID)
}

// Start opens the gateway connection and registers slash commands when an app id is set
func (b *Bot) Start() error {
	b.Session.AddHandler(b.ready)
	b.Session.AddHandler(b.interactionCreate)

	if err := b.Session.Open(); err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}
	if b.AppID != "" {
		if err := b.RegisterCommands(false); err != nil {
			return err
		}
	}

	slog.Info(LogMsgBotStarted)
	return nil
}

// Stop closes the gateway connection
func (b *Bot) Stop() error {
	return b.Session.Close()
}

func (b *Bot) ready(s *discordgo.Session, _ *discordgo.Ready) {
	slog.Info(LogMsgBotReady, "user", s.State.User.Username)
}

func (b *Bot) interactionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	b.Registry.Handle(s, i)
}

// PoolCommand shows the current round
func PoolCommand(status StatusSource) (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        CommandPool,
		Description: "Show the current lottery round",
	}
	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		respond(s, i, PoolStatusResponse(loadPool(status)))
	}
	return cmd, handler
}

// WinnerCommand shows the most recent winner
func WinnerCommand(status StatusSource) (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        CommandWinner,
		Description: "Show the most recent lottery winner",
	}
	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		respond(s, i, RecentWinnerResponse(loadPool(status)))
	}
	return cmd, handler
}

func loadPool(status StatusSource) *domain.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	pool, err := status.GetPool(ctx)
	if err != nil {
		slog.Warn(LogMsgPoolLoadFailed, "error", err)
		return nil
	}
	return pool
}

func respond(s *discordgo.Session, i *discordgo.InteractionCreate, data *discordgo.InteractionResponseData) {
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	}); err != nil {
		slog.Error(LogMsgRespondFailed, "error", err)
	}
}

// PoolStatusResponse renders a pool snapshot. A nil pool renders the unavailable message.
func PoolStatusResponse(pool *domain.Pool) *discordgo.InteractionResponseData {
	if pool == nil {
		return &discordgo.InteractionResponseData{Content: MsgPoolUnavailable}
	}
	fields := []*discordgo.MessageEmbedField{
		{Name: "State", Value: title(string(pool.State)), Inline: true},
		{Name: "Players", Value: FormatCount(pool.NumParticipants), Inline: true},
		{Name: "Pot", Value: FormatWei(pool.Balance.String()), Inline: true},
		{Name: "Entry fee", Value: FormatWei(pool.Config.EntryFee.String()), Inline: true},
		{Name: "Draw interval", Value: pool.Config.Interval.String(), Inline: true},
	}
	if pool.PendingRequestID != nil {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: "Pending request", Value: fmt.Sprintf("%d", *pool.PendingRequestID), Inline: true,
		})
	}
	return &discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{{
			Title:  "🎟️ " + pool.ID,
			Color:  colorStatus,
			Fields: fields,
			Footer: &discordgo.MessageEmbedFooter{Text: embedFooter},
		}},
	}
}

// RecentWinnerResponse renders the last paid participant
func RecentWinnerResponse(pool *domain.Pool) *discordgo.InteractionResponseData {
	if pool == nil {
		return &discordgo.InteractionResponseData{Content: MsgPoolUnavailable}
	}
	if pool.RecentWinner == (common.Address{}) {
		return &discordgo.InteractionResponseData{Content: MsgNoWinnerYet}
	}
	return &discordgo.InteractionResponseData{
		Content: fmt.Sprintf("🏆 The most recent winner is **%s** (%s)", shortAddress(pool.RecentWinner.Hex()), pool.RecentWinner.Hex()),
	}
}
