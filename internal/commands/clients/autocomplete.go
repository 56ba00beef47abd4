package clients

import (
	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/WTVConsoleGo/internal/commands/view"
	"github.com/PancyStudios/WTVConsoleGo/pkg/console"
	"github.com/PancyStudios/WTVConsoleGo/pkg/discord"
	"github.com/PancyStudios/WTVConsoleGo/pkg/logger"
)

// Discord accepts at most 25 autocomplete choices
const maxChoices = 25

func clientAutoComplete(svc *console.Service) discord.AutoCompleteFunc {
	return func(ctx *discord.CommandContext) {
		c, cancel := view.Context()
		defer cancel()

		clients, err := svc.ListClients(c, console.ClientFilter{
			Query:     ctx.GetStringOption("id"),
			SortField: console.SortByName,
		})
		if err != nil {
			logger.Warn("Client autocomplete failed: "+err.Error(), "Clients")
			clients = nil
		}

		err = ctx.Session.InteractionRespond(ctx.Interaction.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionApplicationCommandAutocompleteResult,
			Data: &discordgo.InteractionResponseData{Choices: clientChoices(clients)},
		})
		if err != nil {
			logger.Debug("Autocomplete response failed: "+err.Error(), "Clients")
		}
	}
}

// clientChoices labels each client with name and login; the value is the id
func clientChoices(clients []console.ClientView) []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, maxChoices)
	for _, v := range clients {
		if len(choices) == maxChoices {
			break
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  view.Truncate(v.FullName+" ("+v.IPTVLogin+")", 100),
			Value: v.ID,
		})
	}
	return choices
}
