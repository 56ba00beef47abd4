package clients

import (
	"fmt"

	"github.com/PancyStudios/WTVConsoleGo/internal/commands/view"
	"github.com/PancyStudios/WTVConsoleGo/pkg/console"
	"github.com/PancyStudios/WTVConsoleGo/pkg/discord"
	"github.com/PancyStudios/WTVConsoleGo/pkg/lifecycle"
	"github.com/PancyStudios/WTVConsoleGo/pkg/logger"
)

func createRenewCommand(svc *console.Service) *discord.Command {
	return discord.NewCommand(
		"renovar",
		fmt.Sprintf("Renova a assinatura por %d dias", lifecycle.RenewalPeriodDays),
		"clientes",
		renewHandler(svc),
	).WithOptions(clientIDOption()).WithAutoComplete(clientAutoComplete(svc))
}

func renewHandler(svc *console.Service) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		c, cancel := view.Context()
		defer cancel()

		result, err := svc.RenewClient(c, ctx.GetStringOption("id"))
		if err != nil {
			return err
		}

		logger.Info(fmt.Sprintf("Client %s renewed by %s until %s", result.Client.ID, ctx.User().Username, result.Client.ExpirationDate), "Clients")

		embed := view.ClientEmbed("✅ Assinatura renovada", result.Client)
		embed.Description = fmt.Sprintf("Vencimento anterior: %s\nNovo vencimento: **%s**",
			result.PreviousExpiration.Display(), result.Client.ExpirationDate.Display())
		return ctx.ReplyEmbed(embed)
	}
}
