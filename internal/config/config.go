package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig     `mapstructure:"server"`
	Store     StoreConfig      `mapstructure:"store"`
	Redis     RedisConfig      `mapstructure:"redis"`
	RateLimit RateLimitConfig  `mapstructure:"rate_limit"`
	Usage     UsageConfig      `mapstructure:"usage"`
	Templates TemplateConfig   `mapstructure:"templates"`
	Providers []ProviderConfig `mapstructure:"providers"`

	// provider used when the caller does not name one
	DefaultProvider string `mapstructure:"default_provider"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Env  string `mapstructure:"env"`
}

type StoreConfig struct {
	DSN string `mapstructure:"dsn"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Enabled  bool   `mapstructure:"enabled"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type UsageConfig struct {
	// most-recent entries retained in the in-process metric log
	Retention int `mapstructure:"retention"`
}

type TemplateConfig struct {
	// optional directory overriding the embedded prompt templates
	Dir string `mapstructure:"dir"`
}

// ProviderConfig describes one configured text-generation provider.
// Enabled is an administrative switch; whether the adapter is actually
// available additionally depends on its credentials being present.
type ProviderConfig struct {
	Name        string            `mapstructure:"name"`
	Type        string            `mapstructure:"type"` // adapter factory key, e.g. "openai"
	Model       string            `mapstructure:"model"`
	APIKey      string            `mapstructure:"api_key"`
	BaseURL     string            `mapstructure:"base_url"`
	MaxTokens   int               `mapstructure:"max_tokens"`
	Temperature float64           `mapstructure:"temperature"`
	TimeoutMS   int               `mapstructure:"timeout_ms"`
	Enabled     bool              `mapstructure:"enabled"`
	CostPer1K   float64           `mapstructure:"cost_per_1k"`
	Extra       map[string]string `mapstructure:"extra"`
}

// Load reads configuration from file or environment variables.
func Load() (*Config, error) {
	// Load .env file if present
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
	}

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.env", "development")
	v.SetDefault("store.dsn", "file:saga.db?cache=shared&mode=rwc&_journal_mode=WAL&_busy_timeout=5000")
	v.SetDefault("redis.enabled", false)
	v.SetDefault("rate_limit.requests_per_second", 10.0)
	v.SetDefault("rate_limit.burst", 20)
	v.SetDefault("usage.retention", 1000)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	// Resolve ENV:-prefixed API keys
	for i, p := range cfg.Providers {
		if strings.HasPrefix(p.APIKey, "ENV:") {
			envVar := strings.TrimPrefix(p.APIKey, "ENV:")
			val := os.Getenv(envVar)
			if val == "" {
				val = v.GetString(envVar)
			}
			cfg.Providers[i].APIKey = val
		}
	}

	if port := os.Getenv("SERVER_PORT"); port != "" {
		cfg.Server.Port = port
	}

	return &cfg, nil
}
