package events

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/WTVConsoleGo/pkg/discord"
	"github.com/PancyStudios/WTVConsoleGo/pkg/logger"
)

// RegisterConnectionEvents logs gateway drops and resumes
func RegisterConnectionEvents(client *discord.ExtendedClient) {
	client.EventHandler.OnDisconnect(onDisconnect)
	client.EventHandler.RegisterEvent(onResumed)
}

func onDisconnect(s *discordgo.Session, _ *discordgo.Disconnect) {
	logger.Warn(fmt.Sprintf("🔌 Shard %d disconnected", s.ShardID), "Gateway")
}

func onResumed(s *discordgo.Session, _ *discordgo.Resumed) {
	logger.Success(fmt.Sprintf("✅ Shard %d resumed", s.ShardID), "Gateway")
}
