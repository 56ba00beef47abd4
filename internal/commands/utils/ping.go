package utils

import (
	"fmt"

	"github.com/PancyStudios/WTVConsoleGo/pkg/discord"
)

// createPingCommand creates the /utils ping subcommand
func createPingCommand() *discord.Command {
	return discord.NewCommand(
		"ping",
		"Verifica a latência do bot",
		"utils",
		pingHandler,
	)
}

func pingHandler(ctx *discord.CommandContext) error {
	latency := ctx.Client.Session.HeartbeatLatency().Milliseconds()
	return ctx.ReplyEphemeral(fmt.Sprintf("🏓 Pong! Latência: %dms", latency))
}
