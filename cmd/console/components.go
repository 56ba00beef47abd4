package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/PancyStudios/WTVConsoleGo/pkg/discord"
	"github.com/PancyStudios/WTVConsoleGo/pkg/logger"
	"github.com/PancyStudios/WTVConsoleGo/pkg/mqtt"
	"github.com/PancyStudios/WTVConsoleGo/pkg/store"
	"github.com/PancyStudios/WTVConsoleGo/pkg/web"
)

// components holds what main has started so far. The anti-crash handler may
// shut it down from its own goroutine while main is still filling it in.
type components struct {
	mu      sync.Mutex
	discord *discord.ExtendedClient
	mqtt    *mqtt.MqttCommunicator
	web     *web.Server
	repos   *store.Repositories
	stopped bool
}

func (c *components) setDiscord(d *discord.ExtendedClient) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.discord = d
}

func (c *components) setMQTT(m *mqtt.MqttCommunicator) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mqtt = m
}

func (c *components) setWeb(w *web.Server) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.web = w
}

func (c *components) setRepos(r *store.Repositories) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.repos = r
}

// botReady backs the discord flag of /api/status
func (c *components) botReady() bool {
	c.mu.Lock()
	d := c.discord
	c.mu.Unlock()
	return d != nil && d.IsReady()
}

// shutdown stops whatever has been started. Only the first call does work.
func (c *components) shutdown() {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	c.stopped = true
	discordClient, mqttClient, webServer, repos := c.discord, c.mqtt, c.web, c.repos
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if discordClient != nil {
		if err := discordClient.Stop(); err != nil {
			logger.Error(fmt.Sprintf("Error stopping Discord client: %v", err), "Main")
		}
	}
	if webServer != nil {
		if err := webServer.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("Error stopping web server: %v", err), "Main")
		}
	}
	if mqttClient != nil {
		mqttClient.Destroy()
	}
	if repos != nil && repos.Backend != nil {
		if err := repos.Backend.Close(ctx); err != nil {
			logger.Error(fmt.Sprintf("Error closing the store: %v", err), "Main")
		}
	}
}
