package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/samber/lo"

	"github.com/PancyStudios/WTVConsoleGo/pkg/logger"
)

// CommandHandler manages command loading and registration
type CommandHandler struct {
	client        *ExtendedClient
	slashCommands []*discordgo.ApplicationCommand
}

// NewCommandHandler creates a new CommandHandler
func NewCommandHandler(client *ExtendedClient) *CommandHandler {
	return &CommandHandler{
		client:        client,
		slashCommands: make([]*discordgo.ApplicationCommand, 0),
	}
}

// LoadCommands reports what was registered programmatically
func (ch *CommandHandler) LoadCommands() error {
	logger.System(fmt.Sprintf("Loaded %d slash commands (%d handlers)", len(ch.slashCommands), ch.client.Commands.Size()), "CommandHandler")
	return nil
}

// RegisterCommand adds a top-level command to the handler
func (ch *CommandHandler) RegisterCommand(cmd *Command) {
	ch.client.Commands.Set(cmd.Name, cmd)
	ch.slashCommands = append(ch.slashCommands, cmd.ToApplicationCommand())
	logger.Debug("Command registered: "+cmd.Name, "CommandHandler")
}

// BuildCommandGroup creates a command group with subcommands
func (ch *CommandHandler) BuildCommandGroup(name, description string, subcommands ...*Command) *discordgo.ApplicationCommand {
	options := make([]*discordgo.ApplicationCommandOption, 0, len(subcommands))

	for _, cmd := range subcommands {
		fullName := name + "." + cmd.Name
		ch.client.Commands.Set(fullName, cmd)

		options = append(options, &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        cmd.Name,
			Description: cmd.Description,
			Options:     cmd.Options,
		})
	}

	return &discordgo.ApplicationCommand{
		Name:        name,
		Description: description,
		Options:     options,
	}
}

// AddGlobalCommand adds a built command group to the registration list
func (ch *CommandHandler) AddGlobalCommand(cmd *discordgo.ApplicationCommand) {
	ch.slashCommands = append(ch.slashCommands, cmd)
}

// Definitions returns the commands that will be sent to Discord
func (ch *CommandHandler) Definitions() []*discordgo.ApplicationCommand {
	return append([]*discordgo.ApplicationCommand(nil), ch.slashCommands...)
}

// RegisterCommands overwrites the application commands with the current set,
// in the operator guild when one is configured.
func (ch *CommandHandler) RegisterCommands() {
	scope := "global"
	if ch.client.GuildID != "" {
		scope = "guild " + ch.client.GuildID
	}
	logger.Info("🔄 Registering "+scope+" commands...", "CommandHandler")

	if _, err := ch.SyncCommands(ch.client.GuildID); err != nil {
		logger.Error("Error registering commands: "+err.Error(), "CommandHandler")
		return
	}
	logger.Success("✅ Commands registered.", "CommandHandler")
}

// SyncCommands replaces everything registered in guildID (or globally when
// empty) with the current definitions. It returns the names that were removed.
func (ch *CommandHandler) SyncCommands(guildID string) ([]string, error) {
	appID := ch.client.Session.State.User.ID

	existing, err := ch.client.Session.ApplicationCommands(appID, guildID)
	if err != nil {
		return nil, err
	}
	stale := StaleCommands(existing, ch.slashCommands)

	if _, err := ch.client.Session.ApplicationCommandBulkOverwrite(appID, guildID, ch.slashCommands); err != nil {
		return nil, err
	}
	return stale, nil
}

// StaleCommands lists registered command names that are no longer defined
func StaleCommands(registered, defined []*discordgo.ApplicationCommand) []string {
	names := lo.SliceToMap(defined, func(c *discordgo.ApplicationCommand) (string, bool) { return c.Name, true })
	return lo.FilterMap(registered, func(c *discordgo.ApplicationCommand, _ int) (string, bool) {
		return c.Name, !names[c.Name]
	})
}

// ListGlobalCommands returns the global commands Discord knows about
func (ch *CommandHandler) ListGlobalCommands() ([]*discordgo.ApplicationCommand, error) {
	return ch.client.Session.ApplicationCommands(ch.client.Session.State.User.ID, "")
}

// ListGuildCommands returns the commands registered in one guild
func (ch *CommandHandler) ListGuildCommands(guildID string) ([]*discordgo.ApplicationCommand, error) {
	return ch.client.Session.ApplicationCommands(ch.client.Session.State.User.ID, guildID)
}

// UnregisterCommands removes all global commands from Discord
func (ch *CommandHandler) UnregisterCommands() error {
	return ch.unregister("")
}

// UnregisterGuildCommands removes all commands registered in guildID
func (ch *CommandHandler) UnregisterGuildCommands(guildID string) error {
	return ch.unregister(guildID)
}

func (ch *CommandHandler) unregister(guildID string) error {
	appID := ch.client.Session.State.User.ID
	commands, err := ch.client.Session.ApplicationCommands(appID, guildID)
	if err != nil {
		return err
	}

	for _, cmd := range commands {
		if err := ch.client.Session.ApplicationCommandDelete(appID, guildID, cmd.ID); err != nil {
			logger.Error("Error deleting command "+cmd.Name+": "+err.Error(), "CommandHandler")
		}
	}

	logger.Success(fmt.Sprintf("Removed %d commands.", len(commands)), "CommandHandler")
	return nil
}
