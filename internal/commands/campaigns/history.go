package campaigns

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/WTVConsoleGo/internal/commands/view"
	"github.com/PancyStudios/WTVConsoleGo/pkg/console"
	"github.com/PancyStudios/WTVConsoleGo/pkg/discord"
	"github.com/PancyStudios/WTVConsoleGo/pkg/models"
)

const defaultHistoryLimit = 10

var minHistoryLimit = 1.0

func createHistoryCommand(svc *console.Service) *discord.Command {
	return discord.NewCommand(
		"historico",
		"Últimas notificações enviadas",
		"campanhas",
		historyHandler(svc),
	).WithOptions(&discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        "limite",
		Description: "Quantidade de registros (1-25)",
		MinValue:    &minHistoryLimit,
		MaxValue:    view.MaxFields,
	})
}

func historyHandler(svc *console.Service) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		c, cancel := view.Context()
		defer cancel()

		limit := defaultHistoryLimit
		if ctx.HasOption("limite") {
			limit = int(ctx.GetIntOption("limite"))
		}

		logs, err := svc.Notifications(c, limit)
		if err != nil {
			return err
		}
		return ctx.ReplyEphemeralEmbed(historyEmbed(logs))
	}
}

func historyEmbed(logs []models.NotificationLog) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:     "🗂️ Histórico de notificações",
		Color:     view.ColorInfo,
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if len(logs) == 0 {
		embed.Description = "Nenhuma notificação registrada."
		return embed
	}

	lines := make([]string, 0, len(logs))
	for _, l := range logs {
		lines = append(lines, fmt.Sprintf("<t:%d:f> · **%s** · %s",
			l.SentAt.Unix(), l.ClientName, view.Truncate(l.Message, 80)))
	}
	embed.Description = view.Truncate(strings.Join(lines, "\n"), 4096)
	return embed
}
