package clients

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PancyStudios/WTVConsoleGo/pkg/calendar"
	"github.com/PancyStudios/WTVConsoleGo/pkg/console"
	"github.com/PancyStudios/WTVConsoleGo/pkg/models"
	"github.com/PancyStudios/WTVConsoleGo/pkg/store/memory"
)

func seededClients(t *testing.T) []console.ClientView {
	t.Helper()
	clock := calendar.FixedAt(calendar.MustParse("2024-06-01"))
	mem, err := memory.New(memory.Options{Seed: true, Clock: clock})
	require.NoError(t, err)

	views, err := console.New(mem.Repositories(), clock).ListClients(context.Background(), console.ClientFilter{SortField: console.SortByExpiration})
	require.NoError(t, err)
	return views
}

func TestListEmbed(t *testing.T) {
	clients := seededClients(t)

	embed := listEmbed(clients, console.ClientFilter{SortField: console.SortByExpiration})

	assert.Equal(t, "👥 Clientes (5)", embed.Title)
	assert.Contains(t, embed.Description, "🔴 **Carlos Pereira**")
	assert.Equal(t, "Ordenado por expirationDate", embed.Footer.Text)
}

func TestListEmbedEmpty(t *testing.T) {
	embed := listEmbed(nil, console.ClientFilter{SortField: console.SortByName})

	assert.Equal(t, "Nenhum cliente encontrado.", embed.Description)
	assert.Nil(t, embed.Footer)
}

func TestListEmbedCapsLines(t *testing.T) {
	clients := make([]console.ClientView, 0, 30)
	for i := 0; i < 30; i++ {
		clients = append(clients, console.ClientView{Client: models.Client{ID: "c", FullName: "Cliente"}})
	}

	embed := listEmbed(clients, console.ClientFilter{SortField: console.SortByName})

	assert.Equal(t, "Mostrando 20 de 30 · Ordenado por fullName", embed.Footer.Text)
}

func TestClientChoices(t *testing.T) {
	choices := clientChoices(seededClients(t))

	require.Len(t, choices, 5)
	assert.Equal(t, "Carlos Pereira (carlos.p)", choices[0].Name)
	assert.Equal(t, "client3", choices[0].Value)
}
