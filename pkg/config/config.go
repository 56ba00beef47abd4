// Package config provides configuration management for the console.
// It loads environment variables and makes them available throughout the application.
package config

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers accepted by STORE_DRIVER
const (
	StoreDriverMemory = "memory"
	StoreDriverMongo  = "mongo"
)

// Config holds all configuration values for the console
type Config struct {
	// Storage
	StoreDriver string
	DataFile    string
	SeedDemo    bool

	// MongoDB
	MongoDBURL string
	DBName     string

	// Calendar
	Timezone string

	// MQTT
	MQTTEnabled  bool
	MQTTHost     string
	MQTTPort     string
	MQTTUser     string
	MQTTPassword string

	// Web Server
	Port         string
	AllowedHosts string

	// Discord operator console
	BotToken        string
	OperatorGuildID string
	OperatorIDs     string

	// Environment
	Environment string

	// Webhooks
	ErrorWebhook      string
	LogsWebhook       string
	LogsWebServerHook string
}

var (
	Version   = "Dev-Local"
	BuildTime = "Hoje"
)

// cfg holds the global configuration instance
var (
	cfg     *Config
	cfgOnce sync.Once
)

// resetForTesting resets the configuration for testing purposes.
// This function should only be called from test code.
func resetForTesting() {
	cfg = nil
	cfgOnce = sync.Once{}
}

// loadConfig performs the actual configuration loading
func loadConfig() {
	// Load .env file if it exists (ignoring error if it doesn't)
	_ = godotenv.Load()

	cfg = &Config{
		// Storage
		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", StoreDriverMemory)),
		DataFile:    getEnv("DATA_FILE", ""),
		SeedDemo:    getEnvBool("SEED_DEMO", true),

		// MongoDB
		MongoDBURL: getEnv("mongodbUrl", "mongodb://localhost:27017"),
		DBName:     getEnv("dbName", "WTVConsole"),

		// Calendar
		Timezone: getEnv("TIMEZONE", "America/Sao_Paulo"),

		// MQTT
		MQTTEnabled:  getEnvBool("MQTT_Enabled", false),
		MQTTHost:     getEnv("MQTT_Host", "localhost"),
		MQTTPort:     getEnv("MQTT_Port", "1883"),
		MQTTUser:     getEnv("MQTT_User", ""),
		MQTTPassword: getEnv("MQTT_Password", ""),

		// Web Server
		Port:         getEnv("PORT", "3000"),
		AllowedHosts: getEnv("ALLOWED_HOSTS", `^(localhost|127\.0\.0\.1)(:\d+)?$`),

		// Discord operator console
		BotToken:        getEnv("botToken", ""),
		OperatorGuildID: getEnv("operatorGuildId", ""),
		OperatorIDs:     getEnv("operatorIds", ""),

		// Environment
		Environment: getEnv("enviroment", "dev"),

		// Webhooks
		ErrorWebhook:      getEnv("errorWebhook", ""),
		LogsWebhook:       getEnv("logsWebhook", ""),
		LogsWebServerHook: getEnv("logsWebServerWebhook", ""),
	}
}

// Load initializes the configuration from environment variables
func Load() (*Config, error) {
	cfgOnce.Do(loadConfig)
	return cfg, nil
}

// Get returns the current configuration
func Get() *Config {
	cfgOnce.Do(loadConfig)
	return cfg
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool parses a boolean environment variable, falling back on parse errors
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// IsProd returns true if the environment is production
func (c *Config) IsProd() bool {
	return c.Environment == "prod"
}

// UseMongo reports whether the Mongo-backed store was selected
func (c *Config) UseMongo() bool {
	return c.StoreDriver == StoreDriverMongo
}

// Location resolves the configured timezone. Unknown zones fall back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// OperatorIDList splits the comma-separated operator ids
func (c *Config) OperatorIDList() []string {
	ids := make([]string, 0)
	for _, part := range strings.Split(c.OperatorIDs, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
