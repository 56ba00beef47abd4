package events

import (
	"fmt"

	"github.com/PancyStudios/WTVConsoleGo/internal/commands/campaigns"
	"github.com/PancyStudios/WTVConsoleGo/internal/commands/view"
	"github.com/PancyStudios/WTVConsoleGo/pkg/console"
	"github.com/PancyStudios/WTVConsoleGo/pkg/discord"
	"github.com/PancyStudios/WTVConsoleGo/pkg/logger"
)

// RegisterInteractionEvents routes the campaign buttons
func RegisterInteractionEvents(client *discord.ExtendedClient, svc *console.Service) {
	client.OnComponent(campaigns.NotifyPrefix, notifyHandler(svc))
}

// notifyHandler records one send and disables the clicked button. The client
// must still be a target of the campaign today.
func notifyHandler(svc *console.Service) discord.ComponentFunc {
	return func(ctx *discord.CommandContext, customID string) error {
		key, clientID, err := campaigns.ParseNotifyID(customID)
		if err != nil {
			return err
		}

		c, cancel := view.Context()
		defer cancel()

		logs, err := svc.ConfirmSends(c, key, []string{clientID})
		if err != nil {
			return err
		}

		logger.Info(fmt.Sprintf("Send to %s recorded by %s (%s)", logs[0].ClientName, ctx.User().Username, key), "Interaction")

		msg := ctx.Interaction.Message
		return ctx.UpdateMessage(msg.Embeds, campaigns.MarkSent(msg.Components, customID))
	}
}
