package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/WTVConsoleGo/internal/commands/view"
	"github.com/PancyStudios/WTVConsoleGo/pkg/console"
	"github.com/PancyStudios/WTVConsoleGo/pkg/discord"
)

// RegisterDashboardCommand registers /painel
func RegisterDashboardCommand(client *discord.ExtendedClient, svc *console.Service) {
	client.CommandHandler.RegisterCommand(discord.NewCommand(
		"painel",
		"Resumo do dia e vencimentos próximos",
		"console",
		dashboardHandler(svc),
	))
}

func dashboardHandler(svc *console.Service) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		c, cancel := view.Context()
		defer cancel()

		d, err := svc.Dashboard(c)
		if err != nil {
			return err
		}
		return ctx.ReplyEphemeralEmbed(dashboardEmbed(d))
	}
}

func dashboardEmbed(d console.Dashboard) *discordgo.MessageEmbed {
	upcoming := "Nenhum vencimento nos próximos 7 dias."
	if len(d.Upcoming) > 0 {
		lines := make([]string, 0, len(d.Upcoming))
		for _, v := range d.Upcoming {
			lines = append(lines, view.ClientLine(v))
		}
		upcoming = view.Truncate(strings.Join(lines, "\n"), 1024)
	}

	campaigns := make([]string, 0, len(d.Campaigns))
	for _, s := range d.Campaigns {
		campaigns = append(campaigns, fmt.Sprintf("• %s: **%d**", s.Campaign.Title, s.Count))
	}

	return &discordgo.MessageEmbed{
		Title: "📺 Painel · " + d.Today.Display(),
		Color: view.ColorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Clientes", Value: fmt.Sprint(d.Stats.TotalClients), Inline: true},
			{Name: "Ativos", Value: fmt.Sprint(d.Stats.ActiveClients), Inline: true},
			{Name: "Vencendo", Value: fmt.Sprint(d.Stats.ExpiringSoon), Inline: true},
			{Name: "Planos", Value: fmt.Sprint(d.Stats.TotalPlans), Inline: true},
			{Name: "Próximos vencimentos", Value: upcoming},
			{Name: "Campanhas de hoje", Value: strings.Join(campaigns, "\n")},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}
