// Package campaigns holds /campanha and /historico. A campaign message lists
// today's targets with their WhatsApp links and one "mark as sent" button per
// target.
package campaigns

import (
	"github.com/PancyStudios/WTVConsoleGo/pkg/console"
	"github.com/PancyStudios/WTVConsoleGo/pkg/discord"
)

// RegisterCampaignCommands registers /campanha and /historico
func RegisterCampaignCommands(client *discord.ExtendedClient, svc *console.Service) {
	client.CommandHandler.RegisterCommand(createCampaignCommand(svc))
	client.CommandHandler.RegisterCommand(createHistoryCommand(svc))
}
