package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	os.Setenv("botToken", "test-token")
	os.Setenv("PORT", "3001")
	os.Setenv("enviroment", "test")
	os.Setenv("STORE_DRIVER", "Mongo")
	defer func() {
		os.Unsetenv("botToken")
		os.Unsetenv("PORT")
		os.Unsetenv("enviroment")
		os.Unsetenv("STORE_DRIVER")
	}()

	resetForTesting()

	config, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if config.BotToken != "test-token" {
		t.Errorf("BotToken = %v, want %v", config.BotToken, "test-token")
	}

	if config.Port != "3001" {
		t.Errorf("Port = %v, want %v", config.Port, "3001")
	}

	if config.Environment != "test" {
		t.Errorf("Environment = %v, want %v", config.Environment, "test")
	}

	if !config.UseMongo() {
		t.Errorf("UseMongo() = false, want true for STORE_DRIVER=Mongo")
	}
}

func TestGetEnv(t *testing.T) {
	os.Setenv("TEST_VAR", "test-value")
	defer os.Unsetenv("TEST_VAR")

	if got := getEnv("TEST_VAR", "default"); got != "test-value" {
		t.Errorf("getEnv() = %v, want %v", got, "test-value")
	}

	if got := getEnv("NON_EXISTENT_VAR", "default"); got != "default" {
		t.Errorf("getEnv() = %v, want %v", got, "default")
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		value    string
		fallback bool
		want     bool
	}{
		{"", true, true},
		{"false", true, false},
		{"1", false, true},
		{"not-a-bool", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			os.Setenv("TEST_BOOL", tt.value)
			defer os.Unsetenv("TEST_BOOL")

			if got := getEnvBool("TEST_BOOL", tt.fallback); got != tt.want {
				t.Errorf("getEnvBool(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestIsProd(t *testing.T) {
	resetForTesting()
	os.Setenv("enviroment", "prod")
	config, _ := Load()

	if !config.IsProd() {
		t.Error("IsProd() should return true when environment is 'prod'")
	}

	resetForTesting()
	os.Setenv("enviroment", "dev")
	config, _ = Load()

	if config.IsProd() {
		t.Error("IsProd() should return false when environment is not 'prod'")
	}

	os.Unsetenv("enviroment")
}

func TestGet(t *testing.T) {
	resetForTesting()

	config := Get()
	if config == nil {
		t.Fatal("Get() returned nil")
	}

	config2 := Get()
	if config != config2 {
		t.Error("Get() should return the same config on subsequent calls")
	}
}

func TestDefaultValues(t *testing.T) {
	for _, key := range []string{"botToken", "mongodbUrl", "dbName", "MQTT_Host", "MQTT_Port", "PORT", "enviroment", "STORE_DRIVER", "TIMEZONE", "SEED_DEMO"} {
		os.Unsetenv(key)
	}

	resetForTesting()
	config, _ := Load()

	if config.MongoDBURL != "mongodb://localhost:27017" {
		t.Errorf("MongoDBURL default = %v, want %v", config.MongoDBURL, "mongodb://localhost:27017")
	}

	if config.DBName != "WTVConsole" {
		t.Errorf("DBName default = %v, want %v", config.DBName, "WTVConsole")
	}

	if config.StoreDriver != StoreDriverMemory {
		t.Errorf("StoreDriver default = %v, want %v", config.StoreDriver, StoreDriverMemory)
	}

	if !config.SeedDemo {
		t.Error("SeedDemo default should be true")
	}

	if config.Port != "3000" {
		t.Errorf("Port default = %v, want %v", config.Port, "3000")
	}

	if config.Timezone != "America/Sao_Paulo" {
		t.Errorf("Timezone default = %v, want %v", config.Timezone, "America/Sao_Paulo")
	}
}

func TestLocationFallsBackToUTC(t *testing.T) {
	c := &Config{Timezone: "Nowhere/Invalid"}
	if got := c.Location(); got != time.UTC {
		t.Errorf("Location() = %v, want UTC", got)
	}
}

func TestOperatorIDList(t *testing.T) {
	c := &Config{OperatorIDs: " 123, ,456 ,"}
	ids := c.OperatorIDList()

	if len(ids) != 2 || ids[0] != "123" || ids[1] != "456" {
		t.Errorf("OperatorIDList() = %v, want [123 456]", ids)
	}
}
