package clients

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/WTVConsoleGo/internal/commands/view"
	"github.com/PancyStudios/WTVConsoleGo/pkg/console"
	"github.com/PancyStudios/WTVConsoleGo/pkg/discord"
)

// maxListed keeps the description under the embed limit
const maxListed = 20

func createListCommand(svc *console.Service) *discord.Command {
	return discord.NewCommand(
		"listar",
		"Lista os clientes",
		"clientes",
		listHandler(svc),
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "filtro",
			Description: "Nome ou login IPTV",
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionBoolean,
			Name:        "lembrete",
			Description: "Somente clientes com lembrete ativo",
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "ordem",
			Description: "Coluna de ordenação",
			Choices: []*discordgo.ApplicationCommandOptionChoice{
				{Name: "Nome", Value: string(console.SortByName)},
				{Name: "Plano", Value: string(console.SortByPlan)},
				{Name: "Vencimento", Value: string(console.SortByExpiration)},
				{Name: "Status", Value: string(console.SortByStatus)},
			},
		},
	)
}

func listHandler(svc *console.Service) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		c, cancel := view.Context()
		defer cancel()

		filter := console.ClientFilter{
			Query:            ctx.GetStringOption("filtro"),
			OnlyWithReminder: ctx.GetBoolOption("lembrete"),
			SortField:        console.SortField(ctx.GetStringOption("ordem")),
		}
		if filter.SortField == "" {
			filter.SortField = console.SortByExpiration
		}

		clients, err := svc.ListClients(c, filter)
		if err != nil {
			return err
		}

		return ctx.ReplyEphemeralEmbed(listEmbed(clients, filter))
	}
}

func listEmbed(clients []console.ClientView, filter console.ClientFilter) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:     fmt.Sprintf("👥 Clientes (%d)", len(clients)),
		Color:     view.ColorInfo,
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if len(clients) == 0 {
		embed.Description = "Nenhum cliente encontrado."
		return embed
	}

	lines := make([]string, 0, maxListed)
	for i, v := range clients {
		if i == maxListed {
			break
		}
		lines = append(lines, view.ClientLine(v))
	}
	embed.Description = strings.Join(lines, "\n")

	footer := "Ordenado por " + string(filter.SortField)
	if len(clients) > maxListed {
		footer = fmt.Sprintf("Mostrando %d de %d · %s", maxListed, len(clients), footer)
	}
	embed.Footer = &discordgo.MessageEmbedFooter{Text: footer}
	return embed
}
