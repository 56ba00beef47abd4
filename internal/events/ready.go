package events

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/WTVConsoleGo/pkg/discord"
	"github.com/PancyStudios/WTVConsoleGo/pkg/logger"
)

// StatusText is shown as the bot's activity
const StatusText = "📺 Console WTV"

// RegisterReadyEvent registers the ready event handler
func RegisterReadyEvent(client *discord.ExtendedClient) {
	client.EventHandler.OnReady(onReady)
}

func onReady(s *discordgo.Session, r *discordgo.Ready) {
	logger.Success(fmt.Sprintf("✅ Console bot connected: %s", r.User.Username), "Ready")
	logger.Info(fmt.Sprintf("📊 Present in %d guilds", len(r.Guilds)), "Ready")

	if err := s.UpdateGameStatus(0, StatusText); err != nil {
		logger.Error(fmt.Sprintf("Error setting status: %v", err), "Ready")
		return
	}

	logger.Debug("Bot status set", "Ready")
}
