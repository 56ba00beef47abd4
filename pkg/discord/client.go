// Package discord runs the operator console bot. It wraps discordgo with
// command, component and event registries and restricts every interaction to
// the configured operators.
package discord

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/WTVConsoleGo/pkg/errors"
	"github.com/PancyStudios/WTVConsoleGo/pkg/logger"
)

func init() {
	discordgo.Logger = func(msgL int, caller int, format string, a ...interface{}) {
		logger.Debug(fmt.Sprintf(format, a...), "DiscordGo")
	}
}

// ComponentFunc handles a button click. customID is the full id of the component.
type ComponentFunc func(ctx *CommandContext, customID string) error

// ExtendedClient wraps discordgo.Session with additional functionality
type ExtendedClient struct {
	Session        *discordgo.Session
	Commands       *CommandCollection
	CommandHandler *CommandHandler
	EventHandler   *EventHandler
	StartTime      time.Time
	// GuildID scopes command registration to one guild; empty registers globally
	GuildID    string
	operators  map[string]bool
	components map[string]ComponentFunc
	mu         sync.RWMutex
	isReady    bool
}

// CommandCollection holds registered commands
type CommandCollection struct {
	commands map[string]*Command
	mu       sync.RWMutex
}

// NewCommandCollection creates a new CommandCollection
func NewCommandCollection() *CommandCollection {
	return &CommandCollection{
		commands: make(map[string]*Command),
	}
}

// Set adds or updates a command
func (cc *CommandCollection) Set(name string, cmd *Command) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.commands[name] = cmd
}

// Get retrieves a command by name
func (cc *CommandCollection) Get(name string) (*Command, bool) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	cmd, ok := cc.commands[name]
	return cmd, ok
}

// Size returns the number of commands
func (cc *CommandCollection) Size() int {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return len(cc.commands)
}

// All returns all commands
func (cc *CommandCollection) All() map[string]*Command {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	result := make(map[string]*Command)
	for k, v := range cc.commands {
		result[k] = v
	}
	return result
}

var (
	client *ExtendedClient
	once   sync.Once
)

// Init initializes the global Discord client
func Init(token, guildID string, operatorIDs []string) (*ExtendedClient, error) {
	var err error
	once.Do(func() {
		client, err = NewClient(token, guildID, operatorIDs)
	})
	return client, err
}

// Get returns the global Discord client
func Get() *ExtendedClient {
	return client
}

// NewClient creates a new ExtendedClient
func NewClient(token, guildID string, operatorIDs []string) (*ExtendedClient, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}

	session.Identify.Intents = discordgo.IntentsGuilds
	session.ShardCount = 1
	session.SyncEvents = false
	session.StateEnabled = true
	session.LogLevel = discordgo.LogWarning

	c := newClient(session, guildID, operatorIDs)
	if len(c.operators) == 0 {
		logger.Warn("No operator ids configured, every command will be refused", "Client")
	}
	return c, nil
}

func newClient(session *discordgo.Session, guildID string, operatorIDs []string) *ExtendedClient {
	c := &ExtendedClient{
		Session:    session,
		Commands:   NewCommandCollection(),
		GuildID:    guildID,
		operators:  make(map[string]bool, len(operatorIDs)),
		components: make(map[string]ComponentFunc),
	}
	for _, id := range operatorIDs {
		c.operators[id] = true
	}

	c.CommandHandler = NewCommandHandler(c)
	c.EventHandler = NewEventHandler(c)
	return c
}

// OnComponent routes buttons whose custom id starts with prefix + ":"
func (c *ExtendedClient) OnComponent(prefix string, fn ComponentFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.components[prefix] = fn
}

func (c *ExtendedClient) component(customID string) (ComponentFunc, bool) {
	prefix, _, _ := strings.Cut(customID, ":")
	c.mu.RLock()
	defer c.mu.RUnlock()
	fn, ok := c.components[prefix]
	return fn, ok
}

// Start initializes and starts the bot
func (c *ExtendedClient) Start() error {
	if err := c.CommandHandler.LoadCommands(); err != nil {
		logger.Error("Failed to load commands: "+err.Error(), "Client")
		return err
	}

	if err := c.EventHandler.LoadEvents(); err != nil {
		logger.Error("Failed to load events: "+err.Error(), "Client")
		return err
	}

	c.Session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		c.mu.Lock()
		c.isReady = true
		c.mu.Unlock()

		logger.Success("Bot connected as: "+r.User.Username, "Client")
		c.CommandHandler.RegisterCommands()
	})

	c.Session.AddHandler(c.handleInteraction)

	c.StartTime = time.Now()

	return c.Session.Open()
}

// commandName builds the registry key: name, name.sub or name.group.sub
func commandName(data discordgo.ApplicationCommandInteractionData) string {
	name := data.Name
	if len(data.Options) == 0 {
		return name
	}
	opt := data.Options[0]
	switch opt.Type {
	case discordgo.ApplicationCommandOptionSubCommandGroup:
		if len(opt.Options) > 0 {
			return name + "." + opt.Name + "." + opt.Options[0].Name
		}
	case discordgo.ApplicationCommandOptionSubCommand:
		return name + "." + opt.Name
	}
	return name
}

// handleInteraction handles incoming Discord interactions
func (c *ExtendedClient) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	defer errors.RecoverMiddleware()()

	ctx := &CommandContext{
		Session:     s,
		Interaction: i,
		Client:      c,
	}

	switch i.Type {
	case discordgo.InteractionApplicationCommandAutocomplete:
		cmd, ok := c.Commands.Get(commandName(i.ApplicationCommandData()))
		if ok && cmd.AutoComplete != nil && c.IsOperator(ctx.User().ID) {
			cmd.AutoComplete(ctx)
		}

	case discordgo.InteractionApplicationCommand:
		name := commandName(i.ApplicationCommandData())
		cmd, ok := c.Commands.Get(name)
		if !ok {
			logger.Warn("Command not found: "+name, "Client")
			return
		}
		if err := c.OperatorMiddleware(ctx); err != nil {
			return
		}
		if err := cmd.Run(ctx); err != nil {
			c.reportFailure(ctx, "/"+strings.ReplaceAll(name, ".", " "), err)
		}

	case discordgo.InteractionMessageComponent:
		customID := i.MessageComponentData().CustomID
		fn, ok := c.component(customID)
		if !ok {
			logger.Debug("Unhandled component: "+customID, "Client")
			return
		}
		if err := c.OperatorMiddleware(ctx); err != nil {
			return
		}
		if err := fn(ctx, customID); err != nil {
			c.reportFailure(ctx, customID, err)
		}
	}
}

// reportFailure logs the error and tells the operator what went wrong
func (c *ExtendedClient) reportFailure(ctx *CommandContext, where string, err error) {
	if h := errors.Get(); h != nil {
		h.HandleError(err, where)
	} else {
		logger.Error(fmt.Sprintf("Error in %s: %v", where, err), "Client")
	}

	msg := errors.Hint(err)
	if msg == "" {
		msg = "Ocorreu um erro inesperado."
	}
	ctx.ReplyOrFollowupEphemeral("❌ " + msg)
}

// Stop stops the bot and closes the session
func (c *ExtendedClient) Stop() error {
	c.mu.Lock()
	c.isReady = false
	c.mu.Unlock()

	if c.Session != nil {
		return c.Session.Close()
	}
	return nil
}

// IsReady returns true if the bot is ready
func (c *ExtendedClient) IsReady() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isReady
}
