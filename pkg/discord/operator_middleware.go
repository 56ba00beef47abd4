package discord

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/WTVConsoleGo/pkg/logger"
)

// ErrNotOperator is returned by OperatorMiddleware for anyone outside operatorIds
var ErrNotOperator = fmt.Errorf("user is not an operator")

// IsOperator reports whether userID may use the console
func (c *ExtendedClient) IsOperator(userID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.operators[userID]
}

// OperatorMiddleware refuses interactions from users who are not operators
func (c *ExtendedClient) OperatorMiddleware(ctx *CommandContext) error {
	user := ctx.User()
	if user != nil && c.IsOperator(user.ID) {
		return nil
	}

	embed := &discordgo.MessageEmbed{
		Title:       "🚫 Acesso negado",
		Description: "Este console é restrito aos operadores da revenda.",
		Color:       0xFF0000,
		Timestamp:   time.Now().Format(time.RFC3339),
	}
	ctx.ReplyEphemeralEmbed(embed)

	userID := "unknown"
	if user != nil {
		userID = user.ID
	}
	logger.Warn(fmt.Sprintf("Non-operator tried to use the console: %s", userID), "OperatorMiddleware")
	return ErrNotOperator
}
