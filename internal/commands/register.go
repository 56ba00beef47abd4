// Package commands wires the console's slash commands. Each group lives in
// its own subdirectory (clients, campaigns, utils).
package commands

import (
	"github.com/PancyStudios/WTVConsoleGo/internal/commands/campaigns"
	"github.com/PancyStudios/WTVConsoleGo/internal/commands/clients"
	"github.com/PancyStudios/WTVConsoleGo/internal/commands/utils"
	"github.com/PancyStudios/WTVConsoleGo/pkg/console"
	"github.com/PancyStudios/WTVConsoleGo/pkg/discord"
)

// RegisterAll registers all commands with the Discord client
func RegisterAll(client *discord.ExtendedClient, svc *console.Service) {
	RegisterDashboardCommand(client, svc)

	// /clientes listar|renovar|lembrete
	clients.RegisterClientCommands(client, svc)

	// /campanha, /historico
	campaigns.RegisterCampaignCommands(client, svc)

	utils.RegisterUtilsCommands(client, svc)
}
