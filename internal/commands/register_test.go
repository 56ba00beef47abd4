package commands

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PancyStudios/WTVConsoleGo/pkg/calendar"
	"github.com/PancyStudios/WTVConsoleGo/pkg/console"
	"github.com/PancyStudios/WTVConsoleGo/pkg/discord"
	"github.com/PancyStudios/WTVConsoleGo/pkg/store/memory"
)

func newService(t *testing.T) *console.Service {
	t.Helper()
	clock := calendar.FixedAt(calendar.MustParse("2024-06-01"))
	mem, err := memory.New(memory.Options{Seed: true, Clock: clock})
	require.NoError(t, err)
	return console.New(mem.Repositories(), clock)
}

func TestRegisterAll(t *testing.T) {
	client, err := discord.NewClient("test-token", "", []string{"1"})
	require.NoError(t, err)

	RegisterAll(client, newService(t))

	for _, name := range []string{"painel", "campanha", "historico", "clientes.listar", "clientes.renovar", "clientes.lembrete", "utils.ping", "utils.status", "utils.help"} {
		_, ok := client.Commands.Get(name)
		assert.True(t, ok, name)
	}

	names := make([]string, 0)
	for _, def := range client.CommandHandler.Definitions() {
		names = append(names, def.Name)
	}
	assert.ElementsMatch(t, []string{"painel", "clientes", "campanha", "historico", "utils"}, names)
}

func TestDashboardEmbed(t *testing.T) {
	d, err := newService(t).Dashboard(context.Background())
	require.NoError(t, err)

	embed := dashboardEmbed(d)

	assert.Equal(t, "📺 Painel · 01/06/2024", embed.Title)
	require.Len(t, embed.Fields, 6)
	assert.Equal(t, "5", embed.Fields[0].Value)
	assert.Equal(t, "4", embed.Fields[1].Value)
	assert.Equal(t, "1", embed.Fields[2].Value)
	assert.Equal(t, "3", embed.Fields[3].Value)
	assert.Contains(t, embed.Fields[4].Value, "João da Silva")
	assert.Contains(t, embed.Fields[5].Value, "Vencem em 3 dias: **1**")
}
