// Package config loads server configuration from an optional YAML file
// and WIKIQUIZ_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/abhisek/wikiquiz/internal/llm"
	"github.com/abhisek/wikiquiz/internal/store"
)

// Config is the full server configuration.
type Config struct {
	Server struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"server"`

	Database struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"database"`

	Content struct {
		// Dir is the root of the file-backed content source.
		Dir string `mapstructure:"dir"`
	} `mapstructure:"content"`

	LLM struct {
		CallTimeoutSeconds int    `mapstructure:"call_timeout_seconds"`
		OpenAIBaseURL      string `mapstructure:"openai_base_url"`
	} `mapstructure:"llm"`

	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
}

// SetDefaults configures default values for all options.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", "127.0.0.1:8080")
	v.SetDefault("database.path", "")
	v.SetDefault("content.dir", "./content")
	v.SetDefault("llm.call_timeout_seconds", int(llm.DefaultCallTimeout/time.Second))
	v.SetDefault("log.level", "info")
}

// Load reads configuration from configPath (optional) and the
// environment. Environment variables use the WIKIQUIZ_ prefix with
// underscores, e.g. WIKIQUIZ_SERVER_ADDR.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix("WIKIQUIZ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", configPath, err)
		}
	} else {
		v.SetConfigName("wikiquiz")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/wikiquiz")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// DatabasePath resolves the configured database path, falling back to
// the standard per-user location.
func (c *Config) DatabasePath() (string, error) {
	if c.Database.Path != "" {
		return c.Database.Path, nil
	}
	return store.DefaultDBPath()
}

// LLMConfig builds the provider configuration, merging file settings
// with provider API keys from the environment.
func (c *Config) LLMConfig() llm.Config {
	cfg := llm.ConfigFromEnv()
	if c.LLM.CallTimeoutSeconds > 0 {
		cfg.CallTimeout = time.Duration(c.LLM.CallTimeoutSeconds) * time.Second
	}
	if c.LLM.OpenAIBaseURL != "" {
		cfg.OpenAI.BaseURL = c.LLM.OpenAIBaseURL
	}
	return cfg
}
