package events

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/WTVConsoleGo/pkg/discord"
	"github.com/PancyStudios/WTVConsoleGo/pkg/logger"
)

// RegisterGuildEvents logs guild joins and flags guilds outside the operator guild
func RegisterGuildEvents(client *discord.ExtendedClient) {
	client.EventHandler.OnGuildCreate(func(s *discordgo.Session, g *discordgo.GuildCreate) {
		onGuildCreate(s, g, client.GuildID)
	})
}

func onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate, operatorGuild string) {
	// GuildCreate also fires for every guild on startup
	if g.JoinedAt.Before(time.Now().Add(-10 * time.Second)) {
		return
	}

	logger.Info(fmt.Sprintf("➕ Bot added to guild: %s (ID: %s)", g.Name, g.ID), "Guild")

	if !foreignGuild(operatorGuild, g.ID) || g.SystemChannelID == "" {
		return
	}

	logger.Warn(fmt.Sprintf("Guild %s is not the operator guild %s", g.ID, operatorGuild), "Guild")

	embed := &discordgo.MessageEmbed{
		Title:       "📺 Console WTV",
		Description: "Este bot é o console privado de uma revenda IPTV. Os comandos só respondem aos operadores cadastrados.",
		Color:       0xFEE75C,
		Timestamp:   time.Now().Format(time.RFC3339),
	}
	if _, err := s.ChannelMessageSendEmbed(g.SystemChannelID, embed); err != nil {
		logger.Error(fmt.Sprintf("Error sending notice: %v", err), "Guild")
	}
}

// foreignGuild reports whether guildID is outside the configured operator guild
func foreignGuild(operatorGuild, guildID string) bool {
	return operatorGuild != "" && operatorGuild != guildID
}
