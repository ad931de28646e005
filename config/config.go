package config

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"ecochampions/database"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// Ops HTTP server (metrics and health)
	HTTPAddr string

	// NATS configuration, empty disables event forwarding
	NATSServers string
	NATSSubject string

	// Discord webhook for community announcements, empty disables it
	DiscordWebhookID    string
	DiscordWebhookToken string

	// Reward amounts, see rewards.go
	RewardsFile string
	Rewards     Rewards

	LogLevel string

	databaseURL string

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// GetDatabaseURL returns the base URL pointed at DatabaseName
func (c *Config) GetDatabaseURL() string {
	return c.databaseURL
}

// IsProduction returns true when running in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// load loads configuration from a .env file (if present) and environment variables
func load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("Failed to read .env file")
	}

	config := &Config{
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		DatabaseName:        os.Getenv("DATABASE_NAME"),
		HTTPAddr:            getEnvWithDefault("HTTP_ADDR", ":8080"),
		NATSServers:         os.Getenv("NATS_SERVERS"),
		NATSSubject:         getEnvWithDefault("NATS_SUBJECT", "ecochampions.events"),
		DiscordWebhookID:    os.Getenv("DISCORD_WEBHOOK_ID"),
		DiscordWebhookToken: os.Getenv("DISCORD_WEBHOOK_TOKEN"),
		RewardsFile:         os.Getenv("REWARDS_FILE"),
		Rewards:             DefaultRewards(),
		LogLevel:            getEnvWithDefault("LOG_LEVEL", "info"),
		Environment:         os.Getenv("ENVIRONMENT"),
	}

	if config.RewardsFile != "" {
		rewards, err := LoadRewards(config.RewardsFile)
		if err != nil {
			return nil, err
		}
		config.Rewards = rewards
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if config.DatabaseName != "" && strings.TrimSpace(config.DatabaseName) == "" {
			return nil, fmt.Errorf("DATABASE_NAME cannot be empty when provided")
		}
	}

	if config.DatabaseURL != "" {
		databaseURL, err := database.ConstructDatabaseURL(config.DatabaseURL, config.DatabaseName)
		if err != nil {
			return nil, err
		}
		config.databaseURL = databaseURL
	}

	return config, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
