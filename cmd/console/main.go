// Package main is the entry point of the WTV console. It opens the store,
// then serves the HTTP API, the MQTT bridge and the Discord operator bot.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/PancyStudios/WTVConsoleGo/internal/commands"
	"github.com/PancyStudios/WTVConsoleGo/internal/events"
	"github.com/PancyStudios/WTVConsoleGo/pkg/calendar"
	"github.com/PancyStudios/WTVConsoleGo/pkg/config"
	"github.com/PancyStudios/WTVConsoleGo/pkg/console"
	"github.com/PancyStudios/WTVConsoleGo/pkg/database"
	"github.com/PancyStudios/WTVConsoleGo/pkg/discord"
	"github.com/PancyStudios/WTVConsoleGo/pkg/errors"
	"github.com/PancyStudios/WTVConsoleGo/pkg/logger"
	"github.com/PancyStudios/WTVConsoleGo/pkg/mqtt"
	"github.com/PancyStudios/WTVConsoleGo/pkg/store"
	"github.com/PancyStudios/WTVConsoleGo/pkg/store/memory"
	"github.com/PancyStudios/WTVConsoleGo/pkg/web"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.Init(cfg.ErrorWebhook, cfg.LogsWebhook)
	defer log.Close()

	logger.System(fmt.Sprintf("Starting WTV console %s (%s)...", config.Version, cfg.Environment), "Main")

	app := &components{}
	errors.Init(cfg.ErrorWebhook, app.shutdown)

	clock := calendar.NewSystemClock(cfg.Location())
	logger.Info(fmt.Sprintf("Business day is %s (%s)", clock.Today().Display(), cfg.Timezone), "Main")

	repos, err := openStore(cfg, clock)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error opening the %s store: %v", cfg.StoreDriver, err), "Main")
		os.Exit(1)
	}
	app.setRepos(repos)

	// Events fan out to the websocket feed and, when enabled, the broker
	feed := web.NewFeed(nil)
	publishers := console.MultiPublisher{feed}

	var mqttClient *mqtt.MqttCommunicator
	if cfg.MQTTEnabled {
		clientID := "wtvconsole"
		if !cfg.IsProd() {
			clientID = "wtvconsole_canary"
		}
		mqttClient = mqtt.Init(cfg.MQTTHost, cfg.MQTTPort, cfg.MQTTUser, cfg.MQTTPassword, clientID)
		app.setMQTT(mqttClient)
		publishers = append(publishers, mqtt.NewEventPublisher(mqttClient))
	}

	svc := console.New(repos, clock, console.WithPublisher(publishers))
	feed.SetBacklog(web.BacklogFrom(svc))

	if mqttClient != nil {
		mqtt.RegisterHandlers(mqttClient, svc)
	}

	// Initialize web server
	webServer, err := web.Init(cfg.LogsWebServerHook, cfg.AllowedHosts)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creating web server: %v", err), "Main")
		os.Exit(1)
	}
	app.setWeb(webServer)

	// Discord is optional; without a token only the API runs
	var botOnline func() bool
	if cfg.BotToken != "" {
		botOnline = app.botReady
	}
	web.SetupAPIRoutes(webServer, web.NewConsoleHandler(svc, botOnline), feed)
	webServer.StartAsync(cfg.Port)

	if cfg.BotToken != "" {
		discordClient, err := discord.Init(cfg.BotToken, cfg.OperatorGuildID, cfg.OperatorIDList())
		if err != nil {
			logger.Critical(fmt.Sprintf("Error creating Discord client: %v", err), "Main")
			os.Exit(1)
		}
		app.setDiscord(discordClient)

		commands.RegisterAll(discordClient, svc)
		events.RegisterAll(discordClient, svc)

		if err := discordClient.Start(); err != nil {
			logger.Critical(fmt.Sprintf("Error starting Discord client: %v", err), "Main")
			os.Exit(1)
		}
	} else {
		logger.Warn("botToken is empty, the Discord console is disabled", "Main")
	}

	logger.Success("WTV console started", "Main")

	// Wait for interrupt signal
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	logger.System("Shutting down WTV console...", "Main")
	feed.Close()
	app.shutdown()
}

// openStore builds the repositories for the configured driver
func openStore(cfg *config.Config, clock calendar.Clock) (*store.Repositories, error) {
	if cfg.UseMongo() {
		db, err := database.Init(cfg.MongoDBURL, cfg.DBName)
		if err != nil {
			// Init keeps reconnecting in the background
			logger.Error(fmt.Sprintf("Error connecting to database: %v", err), "Main")
		}
		status, _ := db.GetStatus()
		logger.Info("MongoDB: "+status, "Main")
		return database.Repositories(db, clock), nil
	}

	mem, err := memory.New(memory.Options{Path: cfg.DataFile, Seed: cfg.SeedDemo, Clock: clock})
	if err != nil {
		return nil, err
	}
	return mem.Repositories(), nil
}
