// Package clients holds the /clientes command group
package clients

import (
	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/WTVConsoleGo/pkg/console"
	"github.com/PancyStudios/WTVConsoleGo/pkg/discord"
)

// RegisterClientCommands registers /clientes listar, renovar and lembrete
func RegisterClientCommands(client *discord.ExtendedClient, svc *console.Service) {
	group := client.CommandHandler.BuildCommandGroup(
		"clientes",
		"Gerencia os clientes da revenda",
		createListCommand(svc),
		createRenewCommand(svc),
		createReminderCommand(svc),
	)
	group.DefaultMemberPermissions = &manageServer

	client.CommandHandler.AddGlobalCommand(group)
}

var manageServer int64 = discordgo.PermissionManageServer

func clientIDOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:         discordgo.ApplicationCommandOptionString,
		Name:         "id",
		Description:  "Cliente",
		Required:     true,
		Autocomplete: true,
	}
}
