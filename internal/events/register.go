// Package events wires the gateway event handlers and the button handlers of
// the console bot.
package events

import (
	"github.com/PancyStudios/WTVConsoleGo/pkg/console"
	"github.com/PancyStudios/WTVConsoleGo/pkg/discord"
	"github.com/PancyStudios/WTVConsoleGo/pkg/logger"
)

// RegisterAll registers all events with the Discord client
func RegisterAll(client *discord.ExtendedClient, svc *console.Service) {
	logger.System("📋 Registering bot events...", "Events")

	RegisterReadyEvent(client)

	RegisterGuildEvents(client)

	RegisterConnectionEvents(client)

	// Campaign "mark as sent" buttons
	RegisterInteractionEvents(client, svc)

	logger.Success("✅ Events registered", "Events")
}
