// Package config loads the service configuration from a yaml file with
// POUPEAI_-prefixed environment overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   Server      `mapstructure:"server"`
	Database Database    `mapstructure:"database"`
	Finance  Finance     `mapstructure:"finance"`
	Gemini   ModelConfig `mapstructure:"gemini"`
	Deepseek ModelConfig `mapstructure:"deepseek"`
}

type Server struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type Database struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

type Finance struct {
	BaseURL              string `mapstructure:"base_url"`
	TransactionsEndpoint string `mapstructure:"transactions_endpoint"`
}

type ModelConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

// Load reads the configuration file at path. Environment variables such as
// POUPEAI_GEMINI_API_KEY override file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("POUPEAI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}
	return &cfg, nil
}
