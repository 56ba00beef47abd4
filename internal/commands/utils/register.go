// Package utils holds the /utils command group
package utils

import (
	"github.com/PancyStudios/WTVConsoleGo/pkg/console"
	"github.com/PancyStudios/WTVConsoleGo/pkg/discord"
)

// RegisterUtilsCommands registers /utils ping, status and help
func RegisterUtilsCommands(client *discord.ExtendedClient, svc *console.Service) {
	group := client.CommandHandler.BuildCommandGroup(
		"utils",
		"Comandos de utilidade",
		createPingCommand(),
		createStatusCommand(svc),
		createHelpCommand(),
	)

	client.CommandHandler.AddGlobalCommand(group)
}
