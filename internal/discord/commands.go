package discord

import (
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
)

// CommandHandler handles a slash command
type CommandHandler func(s *discordgo.Session, i *discordgo.InteractionCreate)

// CommandRegistry holds the registered commands
type CommandRegistry struct {
	Commands map[string]*discordgo.ApplicationCommand
	Handlers map[string]CommandHandler
}

// NewCommandRegistry creates a new registry
func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{
		Commands: make(map[string]*discordgo.ApplicationCommand),
		Handlers: make(map[string]CommandHandler),
	}
}

// Register adds a command to the registry
func (r *CommandRegistry) Register(cmd *discordgo.ApplicationCommand, handler CommandHandler) {
	r.Commands[cmd.Name] = cmd
	r.Handlers[cmd.Name] = handler
}

// Handle dispatches an interaction to its command handler
func (r *CommandRegistry) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if h, ok := r.Handlers[i.ApplicationCommandData().Name]; ok {
		h(s, i)
	}
}

// RegisterCommands overwrites the global commands when they differ from the registry
func (b *Bot) RegisterCommands(force bool) error {
	desired := make([]*discordgo.ApplicationCommand, 0, len(b.Registry.Commands))
	for _, cmd := range b.Registry.Commands {
		desired = append(desired, cmd)
	}

	if !force {
		existing, err := b.Session.ApplicationCommands(b.AppID, "")
		if err != nil {
			return fmt.Errorf("failed to fetch existing commands: %w", err)
		}
		if commandsEqual(existing, desired) {
			slog.Info(LogMsgCommandsUnchanged, "count", len(existing))
			return nil
		}
	}

	if _, err := b.Session.ApplicationCommandBulkOverwrite(b.AppID, "", desired); err != nil {
		return fmt.Errorf("failed to update commands: %w", err)
	}
	slog.Info(LogMsgCommandsUpdated, "count", len(desired))
	return nil
}

// commandsEqual compares command sets by name and description
func commandsEqual(existing, desired []*discordgo.ApplicationCommand) bool {
	if len(existing) != len(desired) {
		return false
	}
	byName := make(map[string]*discordgo.ApplicationCommand, len(existing))
	for _, cmd := range existing {
		byName[cmd.Name] = cmd
	}
	for _, d := range desired {
		e, ok := byName[d.Name]
		if !ok || e.Description != d.Description || len(e.Options) != len(d.Options) {
			return false
		}
	}
	return true
}
