// Package main syncs the console's slash commands with Discord. Stale
// commands are removed and only the currently defined ones stay registered.
//
// Usage:
//
//	go run ./cmd/sync-commands [options]
//
// Options:
//
//	-list           List registered commands
//	-clean          Remove all commands without registering new ones
//	-guild <id>     Target a guild instead of operatorGuildId
//	-global         Target global commands even when operatorGuildId is set
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/WTVConsoleGo/internal/commands"
	"github.com/PancyStudios/WTVConsoleGo/pkg/calendar"
	"github.com/PancyStudios/WTVConsoleGo/pkg/config"
	"github.com/PancyStudios/WTVConsoleGo/pkg/console"
	"github.com/PancyStudios/WTVConsoleGo/pkg/discord"
	"github.com/PancyStudios/WTVConsoleGo/pkg/logger"
	"github.com/PancyStudios/WTVConsoleGo/pkg/store/memory"
)

func main() {
	listCmd := flag.Bool("list", false, "List all registered commands")
	cleanCmd := flag.Bool("clean", false, "Remove all commands without registering new ones")
	guildFlag := flag.String("guild", "", "Target a specific guild")
	globalCmd := flag.Bool("global", false, "Target global commands")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(cfg.ErrorWebhook, cfg.LogsWebhook)
	defer log.Close()

	logger.System("Starting command sync...", "SyncCommands")

	guildID := cfg.OperatorGuildID
	if *guildFlag != "" {
		guildID = *guildFlag
	}
	if *globalCmd {
		guildID = ""
	}

	client, err := discord.NewClient(cfg.BotToken, guildID, cfg.OperatorIDList())
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creating Discord client: %v", err), "SyncCommands")
		os.Exit(1)
	}

	if err := client.Session.Open(); err != nil {
		logger.Critical(fmt.Sprintf("Error connecting to Discord: %v", err), "SyncCommands")
		os.Exit(1)
	}
	defer client.Session.Close()

	logger.Success("Connected to Discord", "SyncCommands")

	// Definitions only need a service to build their choices; an empty
	// in-memory store is enough.
	clock := calendar.NewSystemClock(cfg.Location())
	mem, err := memory.New(memory.Options{Clock: clock})
	if err != nil {
		logger.Critical(fmt.Sprintf("Error building the command set: %v", err), "SyncCommands")
		os.Exit(1)
	}
	commands.RegisterAll(client, console.New(mem.Repositories(), clock))

	switch {
	case *listCmd:
		listCommands(client, guildID)
	case *cleanCmd:
		cleanCommands(client, guildID)
	default:
		syncCommands(client, guildID)
	}

	logger.Success("Done", "SyncCommands")
}

func scope(guildID string) string {
	if guildID == "" {
		return "global"
	}
	return "guild " + guildID
}

// listCommands lists all commands registered with Discord
func listCommands(client *discord.ExtendedClient, guildID string) {
	logger.Info("📋 Listing "+scope(guildID)+" commands...", "SyncCommands")

	var cmds []*discordgo.ApplicationCommand
	var err error
	if guildID != "" {
		cmds, err = client.CommandHandler.ListGuildCommands(guildID)
	} else {
		cmds, err = client.CommandHandler.ListGlobalCommands()
	}
	if err != nil {
		logger.Error(fmt.Sprintf("Error listing commands: %v", err), "SyncCommands")
		return
	}

	if len(cmds) == 0 {
		logger.Info("No commands registered", "SyncCommands")
		return
	}

	logger.Info(fmt.Sprintf("Commands found: %d", len(cmds)), "SyncCommands")
	for i, cmd := range cmds {
		logger.Info(fmt.Sprintf("  %d. /%s - %s (ID: %s)", i+1, cmd.Name, cmd.Description, cmd.ID), "SyncCommands")
	}
}

// cleanCommands removes all commands from Discord
func cleanCommands(client *discord.ExtendedClient, guildID string) {
	logger.Info("🧹 Removing "+scope(guildID)+" commands...", "SyncCommands")

	var err error
	if guildID != "" {
		err = client.CommandHandler.UnregisterGuildCommands(guildID)
	} else {
		err = client.CommandHandler.UnregisterCommands()
	}
	if err != nil {
		logger.Error(fmt.Sprintf("Error removing commands: %v", err), "SyncCommands")
		return
	}

	logger.Success("✅ All commands removed", "SyncCommands")
}

// syncCommands overwrites the registered set with the current definitions
func syncCommands(client *discord.ExtendedClient, guildID string) {
	logger.Info("🔄 Syncing "+scope(guildID)+" commands...", "SyncCommands")

	stale, err := client.CommandHandler.SyncCommands(guildID)
	if err != nil {
		logger.Error(fmt.Sprintf("Error syncing commands: %v", err), "SyncCommands")
		return
	}

	if len(stale) > 0 {
		logger.Info("Removed stale commands: "+strings.Join(stale, ", "), "SyncCommands")
	}
	logger.Success(fmt.Sprintf("✅ %d commands registered", len(client.CommandHandler.Definitions())), "SyncCommands")
}
