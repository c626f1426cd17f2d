package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName          string
	AppEnv           string
	AppPort          string
	DatabaseURL      string
	DatabaseMaxOpen  int
	DatabaseMaxIdle  int
	RedisURL         string
	RedisPoolSize    int
	JWTSecret        string
	OverviewCacheTTL time.Duration
	OpenAIAPIKey     string
	OpenAIModel      string
	AnthropicAPIKey  string
	AnthropicModel   string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("OMNIWHEY")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Omniwhey Homework Fixer")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("overview.cache_ttl", "5m")
	v.SetDefault("openai.model", "gpt-4o")
	v.SetDefault("anthropic.model", "claude-3-sonnet-20240229")

	ttlString := v.GetString("overview.cache_ttl")
	if ttlString == "" {
		ttlString = "5m"
	}

	ttl, err := time.ParseDuration(ttlString)
	if err != nil {
		return Config{}, fmt.Errorf("invalid overview cache ttl: %w", err)
	}

	cfg := Config{
		AppName:          v.GetString("app.name"),
		AppEnv:           v.GetString("app.env"),
		AppPort:          v.GetString("app.port"),
		DatabaseURL:      v.GetString("database.url"),
		DatabaseMaxOpen:  v.GetInt("database.max_open_conns"),
		DatabaseMaxIdle:  v.GetInt("database.max_idle_conns"),
		RedisURL:         v.GetString("redis.url"),
		RedisPoolSize:    v.GetInt("redis.pool_size"),
		JWTSecret:        v.GetString("jwt.secret"),
		OverviewCacheTTL: ttl,
		OpenAIAPIKey:     v.GetString("openai.api_key"),
		OpenAIModel:      v.GetString("openai.model"),
		AnthropicAPIKey:  v.GetString("anthropic.api_key"),
		AnthropicModel:   v.GetString("anthropic.model"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	return cfg, nil
}
