package clients

import (
	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/WTVConsoleGo/internal/commands/view"
	"github.com/PancyStudios/WTVConsoleGo/pkg/console"
	"github.com/PancyStudios/WTVConsoleGo/pkg/discord"
)

func createReminderCommand(svc *console.Service) *discord.Command {
	return discord.NewCommand(
		"lembrete",
		"Liga ou desliga o lembrete de um cliente",
		"clientes",
		reminderHandler(svc),
	).WithOptions(
		clientIDOption(),
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionBoolean,
			Name:        "ativo",
			Description: "Lembrete ativo",
			Required:    true,
		},
	).WithAutoComplete(clientAutoComplete(svc))
}

func reminderHandler(svc *console.Service) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		c, cancel := view.Context()
		defer cancel()

		updated, err := svc.SetReminder(c, ctx.GetStringOption("id"), ctx.GetBoolOption("ativo"))
		if err != nil {
			return err
		}

		title := "🔕 Lembrete desativado"
		if updated.HasReminder {
			title = "🔔 Lembrete ativado"
		}
		return ctx.ReplyEphemeralEmbed(view.ClientEmbed(title, updated))
	}
}
