package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Generator GeneratorConfig
	Redis     RedisConfig
	Postgres  PostgresConfig
	Gateway   GatewayConfig
	Fallback  FallbackConfig
	Logging   LoggingConfig
}

type GeneratorConfig struct {
	BaseURL string
	Timeout time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type PostgresConfig struct {
	Host          string
	Port          int
	User          string
	Password      string
	Database      string
	EnableHistory bool
}

type GatewayConfig struct {
	Addr string
}

type FallbackConfig struct {
	EnableSynthetic bool
	EnableScraper   bool
}

type LoggingConfig struct {
	Level string
	File  string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Generator: GeneratorConfig{
			BaseURL: getEnv("GENERATOR_BASE_URL", ""),
			Timeout: time.Duration(getEnvInt("GENERATOR_TIMEOUT_SECONDS", 60)) * time.Second,
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Postgres: PostgresConfig{
			Host:          getEnv("POSTGRES_HOST", "localhost"),
			Port:          getEnvInt("POSTGRES_PORT", 5432),
			User:          getEnv("POSTGRES_USER", "cardquest"),
			Password:      getEnv("POSTGRES_PASSWORD", ""),
			Database:      getEnv("POSTGRES_DB", "cardquest"),
			EnableHistory: getEnvBool("ENABLE_ATTEMPT_HISTORY", false),
		},
		Gateway: GatewayConfig{
			Addr: getEnv("GATEWAY_ADDR", ":8080"),
		},
		Fallback: FallbackConfig{
			EnableSynthetic: getEnvBool("ENABLE_SYNTHETIC_FALLBACK", true),
			EnableScraper:   getEnvBool("ENABLE_AVATAR_SCRAPER", true),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Generator.BaseURL == "" {
		return fmt.Errorf("GENERATOR_BASE_URL is required")
	}
	if c.Gateway.Addr == "" {
		return fmt.Errorf("GATEWAY_ADDR is required")
	}
	if c.Postgres.EnableHistory && c.Postgres.Password == "" {
		return fmt.Errorf("POSTGRES_PASSWORD is required when ENABLE_ATTEMPT_HISTORY is set")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
