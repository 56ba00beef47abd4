package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PancyStudios/WTVConsoleGo/pkg/calendar"
	"github.com/PancyStudios/WTVConsoleGo/pkg/console"
	"github.com/PancyStudios/WTVConsoleGo/pkg/discord"
	"github.com/PancyStudios/WTVConsoleGo/pkg/errors"
	"github.com/PancyStudios/WTVConsoleGo/pkg/store/memory"
)

func newService(t *testing.T) *console.Service {
	t.Helper()
	clock := calendar.FixedAt(calendar.MustParse("2024-06-01"))
	mem, err := memory.New(memory.Options{Seed: true, Clock: clock})
	require.NoError(t, err)
	return console.New(mem.Repositories(), clock)
}

func TestForeignGuild(t *testing.T) {
	assert.False(t, foreignGuild("", "123"))
	assert.False(t, foreignGuild("123", "123"))
	assert.True(t, foreignGuild("123", "456"))
}

func TestRegisterAll(t *testing.T) {
	client, err := discord.NewClient("test-token", "", nil)
	require.NoError(t, err)

	RegisterAll(client, newService(t))

	assert.Equal(t, 4, client.EventHandler.Count())
}

func TestNotifyRejectsMalformedID(t *testing.T) {
	err := notifyHandler(newService(t))(nil, "notify:three-day")
	assert.True(t, errors.IsValidation(err))
}

func TestNotifyRejectsClientOutsideCampaign(t *testing.T) {
	// client2 expires in 15 days and is not a three-day target
	err := notifyHandler(newService(t))(nil, "notify:three-day:client2")
	assert.True(t, errors.IsNotFound(err))
}

func TestNotifyRejectsUnknownCampaign(t *testing.T) {
	err := notifyHandler(newService(t))(nil, "notify:weekly:client1")
	assert.True(t, errors.IsNotFound(err))
}
