// Package view holds the embed formatting shared by the console commands.
package view

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/WTVConsoleGo/pkg/console"
	"github.com/PancyStudios/WTVConsoleGo/pkg/lifecycle"
)

// Embed colors
const (
	ColorInfo    = 0x5865F2
	ColorActive  = 0x57F287
	ColorWarning = 0xFEE75C
	ColorDanger  = 0xED4245
)

// Discord caps embeds at 25 fields
const MaxFields = 25

// Timeout bounds every store call made from a command
const Timeout = 10 * time.Second

// Context returns the context command handlers pass to the service
func Context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), Timeout)
}

// StatusEmoji marks a status label in lists
func StatusEmoji(l lifecycle.Label) string {
	switch l {
	case lifecycle.Active:
		return "🟢"
	case lifecycle.Expiring:
		return "🟡"
	case lifecycle.Expired:
		return "🔴"
	default:
		return "⚪"
	}
}

// StatusColor picks the embed color for a status label
func StatusColor(l lifecycle.Label) int {
	switch l {
	case lifecycle.Active:
		return ColorActive
	case lifecycle.Expiring:
		return ColorWarning
	case lifecycle.Expired:
		return ColorDanger
	default:
		return ColorInfo
	}
}

// Days describes a day count relative to today
func Days(n int) string {
	switch {
	case n == 0:
		return "vence hoje"
	case n == 1:
		return "vence amanhã"
	case n > 1:
		return fmt.Sprintf("vence em %d dias", n)
	case n == -1:
		return "venceu ontem"
	default:
		return fmt.Sprintf("venceu há %d dias", -n)
	}
}

// ClientLine is the one-line summary used in lists
func ClientLine(v console.ClientView) string {
	return fmt.Sprintf("%s **%s** · %s · %s (%s) · `%s`",
		StatusEmoji(v.Status.Label),
		v.FullName,
		v.PlanName,
		v.ExpirationDate.Display(),
		Days(v.Status.DaysRemaining),
		v.ID,
	)
}

// ClientEmbed shows one client in detail
func ClientEmbed(title string, v console.ClientView) *discordgo.MessageEmbed {
	reminder := "Não"
	if v.HasReminder {
		reminder = "Sim"
	}
	return &discordgo.MessageEmbed{
		Title: title,
		Color: StatusColor(v.Status.Label),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Cliente", Value: v.FullName, Inline: true},
			{Name: "Login IPTV", Value: v.IPTVLogin, Inline: true},
			{Name: "Telefone", Value: v.Phone, Inline: true},
			{Name: "Plano", Value: v.PlanName, Inline: true},
			{Name: "Servidor", Value: v.ServerName, Inline: true},
			{Name: "Lembrete", Value: reminder, Inline: true},
			{Name: "Vencimento", Value: v.ExpirationDate.Display(), Inline: true},
			{Name: "Status", Value: fmt.Sprintf("%s %s (%s)", StatusEmoji(v.Status.Label), v.StatusLabel, Days(v.Status.DaysRemaining)), Inline: true},
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: v.ID},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// Truncate cuts s to max runes, marking the cut with "…"
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 1 {
		return string(r[:max])
	}
	return string(r[:max-1]) + "…"
}
