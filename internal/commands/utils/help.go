package utils

import (
	"github.com/PancyStudios/WTVConsoleGo/pkg/discord"
)

const helpText = "📖 **Console WTV**\n\n" +
	"**Clientes**\n" +
	"• `/clientes listar [filtro] [lembrete] [ordem]` - Lista os clientes\n" +
	"• `/clientes renovar <id>` - Renova a assinatura por 30 dias\n" +
	"• `/clientes lembrete <id> <ativo>` - Liga ou desliga o lembrete\n\n" +
	"**Cobrança**\n" +
	"• `/painel` - Resumo do dia e vencimentos próximos\n" +
	"• `/campanha <tipo>` - Clientes de uma campanha com os links de WhatsApp\n" +
	"• `/historico [limite]` - Últimas notificações enviadas\n\n" +
	"**Utilidades**\n" +
	"• `/utils ping` - Latência do bot\n" +
	"• `/utils status` - Estado do console e do armazenamento"

// createHelpCommand creates the /utils help subcommand
func createHelpCommand() *discord.Command {
	return discord.NewCommand(
		"help",
		"Mostra a ajuda do console",
		"utils",
		func(ctx *discord.CommandContext) error {
			return ctx.ReplyEphemeral(helpText)
		},
	)
}
