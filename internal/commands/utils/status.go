package utils

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/WTVConsoleGo/internal/commands/view"
	"github.com/PancyStudios/WTVConsoleGo/pkg/config"
	"github.com/PancyStudios/WTVConsoleGo/pkg/console"
	"github.com/PancyStudios/WTVConsoleGo/pkg/discord"
)

// createStatusCommand creates the /utils status subcommand
func createStatusCommand(svc *console.Service) *discord.Command {
	return discord.NewCommand(
		"status",
		"Mostra o estado do console",
		"utils",
		statusHandler(svc),
	)
}

func statusHandler(svc *console.Service) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		c, cancel := view.Context()
		defer cancel()

		backend, err := svc.StoreStatus(c)
		storeState := "🟢 " + backend
		color := view.ColorActive
		if err != nil {
			storeState = "🔴 " + backend + " (indisponível)"
			color = view.ColorDanger
		}

		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		embed := &discordgo.MessageEmbed{
			Title: "📊 Estado do console",
			Color: color,
			Fields: []*discordgo.MessageEmbedField{
				{Name: "Armazenamento", Value: storeState, Inline: true},
				{Name: "Data de referência", Value: svc.Today().Display(), Inline: true},
				{Name: "Versão", Value: config.Version, Inline: true},
				{Name: "Go", Value: strings.TrimPrefix(runtime.Version(), "go"), Inline: true},
				{Name: "Memória", Value: fmt.Sprintf("%.2f MB", float64(m.Alloc)/1024/1024), Inline: true},
				{Name: "Uptime", Value: formatDuration(time.Since(ctx.Client.StartTime)), Inline: true},
			},
			Timestamp: time.Now().Format(time.RFC3339),
		}
		return ctx.ReplyEphemeralEmbed(embed)
	}
}

// formatDuration formats a time.Duration into a human-readable string
func formatDuration(dur time.Duration) string {
	days := int(dur.Hours() / 24)
	hours := int(dur.Hours()) % 24
	minutes := int(dur.Minutes()) % 60
	seconds := int(dur.Seconds()) % 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%d dias", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%d horas", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%d minutos", minutes))
	}
	if seconds > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%d segundos", seconds))
	}

	return strings.Join(parts, ", ")
}
