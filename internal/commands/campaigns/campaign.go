package campaigns

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/samber/lo"

	"github.com/PancyStudios/WTVConsoleGo/internal/commands/view"
	"github.com/PancyStudios/WTVConsoleGo/pkg/console"
	"github.com/PancyStudios/WTVConsoleGo/pkg/discord"
	"github.com/PancyStudios/WTVConsoleGo/pkg/errors"
	"github.com/PancyStudios/WTVConsoleGo/pkg/lifecycle"
)

// NotifyPrefix starts the custom id of every "mark as sent" button
const NotifyPrefix = "notify"

const (
	buttonsPerRow = 5
	maxRows       = 5
)

func createCampaignCommand(svc *console.Service) *discord.Command {
	choices := lo.Map(svc.Campaigns(), func(c lifecycle.Campaign, _ int) *discordgo.ApplicationCommandOptionChoice {
		return &discordgo.ApplicationCommandOptionChoice{Name: c.Title, Value: string(c.Key)}
	})

	return discord.NewCommand(
		"campanha",
		"Mostra os clientes de uma campanha de cobrança",
		"campanhas",
		campaignHandler(svc),
	).WithOptions(&discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "tipo",
		Description: "Campanha",
		Required:    true,
		Choices:     choices,
	}).WithUserPermissions(discordgo.PermissionManageServer)
}

func campaignHandler(svc *console.Service) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		if err := ctx.Defer(); err != nil {
			return err
		}

		c, cancel := view.Context()
		defer cancel()

		run, err := svc.CampaignTargets(c, lifecycle.CampaignKey(ctx.GetStringOption("tipo")))
		if err != nil {
			return err
		}

		embed, components := Message(run)
		return ctx.EditReplyEmbeds([]*discordgo.MessageEmbed{embed}, components)
	}
}

// Message renders a campaign run as an embed with one field per target and
// the matching buttons. Targets past the Discord limits are counted in the
// footer only.
func Message(run console.CampaignRun) (*discordgo.MessageEmbed, []discordgo.MessageComponent) {
	embed := &discordgo.MessageEmbed{
		Title:     fmt.Sprintf("📣 %s · %s", run.Campaign.Title, run.Today.Display()),
		Color:     view.ColorInfo,
		Timestamp: time.Now().Format(time.RFC3339),
		Footer:    &discordgo.MessageEmbedFooter{Text: "Modelo: " + run.TemplateName},
	}

	if len(run.Targets) == 0 {
		embed.Description = "Nenhum cliente nesta campanha hoje."
		return embed, []discordgo.MessageComponent{}
	}

	embed.Description = fmt.Sprintf("%d cliente(s). Abra o link, envie a mensagem e marque como enviado.", len(run.Targets))

	shown := lo.Subset(run.Targets, 0, uint(min(view.MaxFields, buttonsPerRow*maxRows)))
	for _, t := range shown {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  view.Truncate(t.Client.FullName+" · "+t.Client.PlanName, 256),
			Value: targetValue(t),
		})
	}
	if hidden := len(run.Targets) - len(shown); hidden > 0 {
		embed.Footer.Text = fmt.Sprintf("%s · +%d cliente(s) fora da lista", embed.Footer.Text, hidden)
	}

	buttons := lo.Map(shown, func(t console.CampaignTarget, _ int) discordgo.MessageComponent {
		return discordgo.Button{
			Label:    view.Truncate("Enviado: "+t.Client.FullName, 80),
			Style:    discordgo.PrimaryButton,
			CustomID: NotifyID(run.Campaign.Key, t.Client.ID),
		}
	})
	rows := lo.Map(lo.Chunk(buttons, buttonsPerRow), func(chunk []discordgo.MessageComponent, _ int) discordgo.MessageComponent {
		return discordgo.ActionsRow{Components: chunk}
	})
	return embed, rows
}

func targetValue(t console.CampaignTarget) string {
	var b strings.Builder
	b.WriteString(view.Truncate(t.Message, 300))
	b.WriteString("\n")
	if t.Link != "" {
		b.WriteString("[Abrir no WhatsApp](" + t.Link + ")")
	} else {
		b.WriteString("⚠️ " + t.LinkError)
	}
	return view.Truncate(b.String(), 1024)
}

// NotifyID builds the custom id of a "mark as sent" button
func NotifyID(key lifecycle.CampaignKey, clientID string) string {
	return NotifyPrefix + ":" + string(key) + ":" + clientID
}

// ParseNotifyID splits a "mark as sent" custom id
func ParseNotifyID(customID string) (lifecycle.CampaignKey, string, error) {
	parts := strings.SplitN(customID, ":", 3)
	if len(parts) != 3 || parts[0] != NotifyPrefix || parts[1] == "" || parts[2] == "" {
		return "", "", errors.ValidationInvalid("customId", "formato inesperado")
	}
	return lifecycle.CampaignKey(parts[1]), parts[2], nil
}

// MarkSent returns components with the button customID disabled and relabelled
func MarkSent(components []discordgo.MessageComponent, customID string) []discordgo.MessageComponent {
	out := make([]discordgo.MessageComponent, 0, len(components))
	for _, component := range components {
		switch row := component.(type) {
		case *discordgo.ActionsRow:
			out = append(out, discordgo.ActionsRow{Components: markButtons(row.Components, customID)})
		case discordgo.ActionsRow:
			out = append(out, discordgo.ActionsRow{Components: markButtons(row.Components, customID)})
		default:
			out = append(out, component)
		}
	}
	return out
}

func markButtons(components []discordgo.MessageComponent, customID string) []discordgo.MessageComponent {
	out := make([]discordgo.MessageComponent, 0, len(components))
	for _, component := range components {
		var button discordgo.Button
		switch b := component.(type) {
		case *discordgo.Button:
			button = *b
		case discordgo.Button:
			button = b
		default:
			out = append(out, component)
			continue
		}
		if button.CustomID == customID {
			button.Disabled = true
			button.Style = discordgo.SuccessButton
			button.Label = view.Truncate("✅ "+strings.TrimPrefix(button.Label, "Enviado: "), 80)
		}
		out = append(out, button)
	}
	return out
}
