package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
)

func newTestClient(operators ...string) *ExtendedClient {
	return newClient(&discordgo.Session{}, "", operators)
}

// TestCommandCreation verifies that commands can be created with the builder pattern
func TestCommandCreation(t *testing.T) {
	handler := func(ctx *CommandContext) error {
		return nil
	}

	cmd := NewCommand("painel", "Resumo do dia", "console", handler)

	if cmd == nil {
		t.Fatal("NewCommand returned nil")
	}

	if cmd.Name != "painel" {
		t.Errorf("Name = %v, want %v", cmd.Name, "painel")
	}

	if cmd.Category != "console" {
		t.Errorf("Category = %v, want %v", cmd.Category, "console")
	}

	if cmd.Run == nil {
		t.Error("Run function is nil")
	}
}

func TestToApplicationCommand(t *testing.T) {
	option := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "id",
		Description: "Id do cliente",
		Required:    true,
	}

	cmd := NewCommand("renovar", "Renova um cliente", "clientes", func(*CommandContext) error { return nil }).
		WithOptions(option).
		WithUserPermissions(discordgo.PermissionManageServer)

	appCmd := cmd.ToApplicationCommand()

	if appCmd.Name != "renovar" {
		t.Errorf("ApplicationCommand Name = %v, want %v", appCmd.Name, "renovar")
	}
	if len(appCmd.Options) != 1 {
		t.Fatalf("ApplicationCommand Options length = %v, want %v", len(appCmd.Options), 1)
	}
	if appCmd.DefaultMemberPermissions == nil || *appCmd.DefaultMemberPermissions != discordgo.PermissionManageServer {
		t.Errorf("DefaultMemberPermissions = %v, want %v", appCmd.DefaultMemberPermissions, discordgo.PermissionManageServer)
	}
}

func TestCommandName(t *testing.T) {
	tests := []struct {
		name string
		data discordgo.ApplicationCommandInteractionData
		want string
	}{
		{
			name: "top level",
			data: discordgo.ApplicationCommandInteractionData{Name: "painel"},
			want: "painel",
		},
		{
			name: "subcommand",
			data: discordgo.ApplicationCommandInteractionData{
				Name: "clientes",
				Options: []*discordgo.ApplicationCommandInteractionDataOption{
					{Name: "renovar", Type: discordgo.ApplicationCommandOptionSubCommand},
				},
			},
			want: "clientes.renovar",
		},
		{
			name: "group",
			data: discordgo.ApplicationCommandInteractionData{
				Name: "admin",
				Options: []*discordgo.ApplicationCommandInteractionDataOption{
					{Name: "catalogo", Type: discordgo.ApplicationCommandOptionSubCommandGroup, Options: []*discordgo.ApplicationCommandInteractionDataOption{
						{Name: "planos", Type: discordgo.ApplicationCommandOptionSubCommand},
					}},
				},
			},
			want: "admin.catalogo.planos",
		},
		{
			name: "plain option",
			data: discordgo.ApplicationCommandInteractionData{
				Name: "historico",
				Options: []*discordgo.ApplicationCommandInteractionDataOption{
					{Name: "limite", Type: discordgo.ApplicationCommandOptionInteger},
				},
			},
			want: "historico",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := commandName(tt.data); got != tt.want {
				t.Errorf("commandName() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildCommandGroup(t *testing.T) {
	c := newTestClient()
	run := func(*CommandContext) error { return nil }

	group := c.CommandHandler.BuildCommandGroup("clientes", "Gerencia clientes",
		NewCommand("listar", "Lista clientes", "clientes", run),
		NewCommand("renovar", "Renova", "clientes", run),
	)
	c.CommandHandler.AddGlobalCommand(group)

	if len(group.Options) != 2 {
		t.Fatalf("Options length = %v, want 2", len(group.Options))
	}
	if _, ok := c.Commands.Get("clientes.renovar"); !ok {
		t.Error("subcommand clientes.renovar was not registered")
	}
	if got := len(c.CommandHandler.Definitions()); got != 1 {
		t.Errorf("Definitions() length = %v, want 1", got)
	}
}

func TestStaleCommands(t *testing.T) {
	registered := []*discordgo.ApplicationCommand{{Name: "play"}, {Name: "painel"}, {Name: "warn"}}
	defined := []*discordgo.ApplicationCommand{{Name: "painel"}, {Name: "clientes"}}

	stale := StaleCommands(registered, defined)
	if len(stale) != 2 || stale[0] != "play" || stale[1] != "warn" {
		t.Errorf("StaleCommands() = %v, want [play warn]", stale)
	}
}

func TestIsOperator(t *testing.T) {
	c := newTestClient("111", "222")

	if !c.IsOperator("111") {
		t.Error("IsOperator(111) = false, want true")
	}
	if c.IsOperator("333") {
		t.Error("IsOperator(333) = true, want false")
	}
	if newTestClient().IsOperator("111") {
		t.Error("a client without operators must refuse everyone")
	}
}

func TestComponentRouting(t *testing.T) {
	c := newTestClient()
	var got string
	c.OnComponent("notify", func(_ *CommandContext, customID string) error {
		got = customID
		return nil
	})

	fn, ok := c.component("notify:three-day:client1")
	if !ok {
		t.Fatal("component notify was not found")
	}
	fn(nil, "notify:three-day:client1")
	if got != "notify:three-day:client1" {
		t.Errorf("handler got %q", got)
	}

	if _, ok := c.component("renew:client1"); ok {
		t.Error("unregistered prefix should not route")
	}
}
