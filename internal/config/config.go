package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	RedisURL    string
	LogFile     string

	// AssetDir holds data.json and the images of the default frame bundle
	AssetDir string

	AutoAdvance       bool
	AdvanceDelay      time.Duration
	FlashDuration     time.Duration
	SessionIdleTTL    time.Duration
	LoaderConcurrency int

	Events EventConfig
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	return &Config{
		Port:              getEnv("PORT", "8080"),
		Environment:       getEnv("ENVIRONMENT", "development"),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		RedisURL:          getEnv("REDIS_URL", ""),
		LogFile:           getEnv("LOG_FILE", ""),
		AssetDir:          getEnv("ASSET_DIR", "./test-data"),
		AutoAdvance:       getEnvBool("AUTO_ADVANCE", true),
		AdvanceDelay:      getEnvDuration("ADVANCE_DELAY", 200*time.Millisecond),
		FlashDuration:     getEnvDuration("FLASH_DURATION", 700*time.Millisecond),
		SessionIdleTTL:    getEnvDuration("SESSION_IDLE_TTL", 30*time.Minute),
		LoaderConcurrency: getEnvInt("LOADER_CONCURRENCY", 8),
		Events: EventConfig{
			Enabled:      getEnvBool("EVENTS_ENABLED", false),
			Publisher:    getEnv("EVENTS_PUBLISHER", "kafka"),
			KafkaBrokers: getEnv("KAFKA_BROKERS", "localhost:9092"),
			SessionTopic: getEnv("SESSION_TOPIC", "frame-player.sessions"),
		},
	}, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}
