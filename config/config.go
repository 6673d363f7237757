// Package config loads the application configuration from a YAML file
// with environment variable overrides for secrets.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// OpenAIConfig configures the LLM provider used by the query planner,
// the goal analyzer and the router.
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url,omitempty"`
	Model   string `yaml:"model"`
}

// BraveConfig configures the web search provider.
type BraveConfig struct {
	APIKey         string  `yaml:"api_key"`
	Country        string  `yaml:"country"`
	Lang           string  `yaml:"lang"`
	Count          int     `yaml:"count"`
	RequestsPerSec float64 `yaml:"requests_per_sec"`
}

// HunterConfig configures the email finder provider.
type HunterConfig struct {
	APIKey string `yaml:"api_key"`
}

// ProfileConfig configures the user profile service.
type ProfileConfig struct {
	BaseURL string `yaml:"base_url"`
}

// AgentConfig tunes the research agent.
type AgentConfig struct {
	ToolTimeoutSeconds int `yaml:"tool_timeout_seconds"`
	MaxQueries         int `yaml:"max_queries"`
	MaxPageLookups     int `yaml:"max_page_lookups"`
}

// ConversationConfig tunes the orchestrator and its store.
type ConversationConfig struct {
	// Store selects the backend: memory, redis, sqlite or postgres.
	Store           string `yaml:"store"`
	StaleAfterTurns int    `yaml:"stale_after_turns"`
	RecentWindow    int    `yaml:"recent_window"`

	Redis struct {
		Address  string `yaml:"address"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTLHours int    `yaml:"ttl_hours"`
	} `yaml:"redis"`

	SQLite struct {
		Path string `yaml:"path"`
	} `yaml:"sqlite"`

	Postgres struct {
		ConnString string `yaml:"conn_string"`
	} `yaml:"postgres"`
}

// LoggerConfig tunes the logger.
type LoggerConfig struct {
	Level string `yaml:"level"`
}

// Config is the application configuration.
type Config struct {
	OpenAI       OpenAIConfig       `yaml:"openai"`
	Brave        BraveConfig        `yaml:"brave"`
	Hunter       HunterConfig       `yaml:"hunter"`
	Profile      ProfileConfig      `yaml:"profile"`
	Agent        AgentConfig        `yaml:"agent"`
	Conversation ConversationConfig `yaml:"conversation"`
	Logger       LoggerConfig       `yaml:"logger"`
}

// Load reads the configuration file, applies environment overrides
// for secrets, and fills defaults. A missing path yields a default
// configuration driven entirely by environment variables.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return &cfg, nil
}

// applyEnv lets environment variables override file-provided secrets,
// so keys never have to live on disk.
func (c *Config) applyEnv() {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.OpenAI.APIKey = v
	}
	if v := os.Getenv("BRAVE_API_KEY"); v != "" {
		c.Brave.APIKey = v
	}
	if v := os.Getenv("HUNTER_API_KEY"); v != "" {
		c.Hunter.APIKey = v
	}
	if v := os.Getenv("PROFILE_BASE_URL"); v != "" {
		c.Profile.BaseURL = v
	}
}

func (c *Config) applyDefaults() {
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gpt-4o-mini"
	}
	if c.Brave.Count <= 0 {
		c.Brave.Count = 10
	}
	if c.Brave.RequestsPerSec <= 0 {
		c.Brave.RequestsPerSec = 1
	}
	if c.Agent.ToolTimeoutSeconds <= 0 {
		c.Agent.ToolTimeoutSeconds = 20
	}
	if c.Agent.MaxQueries <= 0 {
		c.Agent.MaxQueries = 4
	}
	if c.Agent.MaxPageLookups <= 0 {
		c.Agent.MaxPageLookups = 3
	}
	if c.Conversation.Store == "" {
		c.Conversation.Store = "memory"
	}
	if c.Conversation.StaleAfterTurns <= 0 {
		c.Conversation.StaleAfterTurns = 3
	}
	if c.Conversation.RecentWindow <= 0 {
		c.Conversation.RecentWindow = 10
	}
	if c.Conversation.SQLite.Path == "" {
		c.Conversation.SQLite.Path = "leadscout.db"
	}
	if c.Logger.Level == "" {
		c.Logger.Level = "info"
	}
}

// Validate checks that the selected providers are usable.
func (c *Config) Validate() error {
	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("openai.api_key is required (or set OPENAI_API_KEY)")
	}
	if c.Brave.APIKey == "" {
		return fmt.Errorf("brave.api_key is required (or set BRAVE_API_KEY)")
	}
	switch c.Conversation.Store {
	case "memory", "sqlite":
	case "redis":
		if c.Conversation.Redis.Address == "" {
			return fmt.Errorf("conversation.redis.address is required for the redis store")
		}
	case "postgres":
		if c.Conversation.Postgres.ConnString == "" {
			return fmt.Errorf("conversation.postgres.conn_string is required for the postgres store")
		}
	default:
		return fmt.Errorf("unrecognized conversation.store %q", c.Conversation.Store)
	}
	return nil
}

// ToolTimeout returns the per-call tool timeout as a duration.
func (c *Config) ToolTimeout() time.Duration {
	return time.Duration(c.Agent.ToolTimeoutSeconds) * time.Second
}

// RedisTTL returns the conversation expiry for the redis store.
func (c *Config) RedisTTL() time.Duration {
	return time.Duration(c.Conversation.Redis.TTLHours) * time.Hour
}
