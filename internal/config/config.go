package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the full application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Facility FacilityConfig `mapstructure:"facility"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Fallback FallbackConfig `mapstructure:"fallback"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // gin mode: debug, release, test
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	RateLimitRPS    float64       `mapstructure:"rate_limit_rps"`
	RateLimitBurst  int           `mapstructure:"rate_limit_burst"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// FacilityConfig selects where the facility document is loaded from.
type FacilityConfig struct {
	Source      string `mapstructure:"source"` // file or postgres
	Path        string `mapstructure:"path"`
	DatabaseURL string `mapstructure:"database_url"`
	Slug        string `mapstructure:"slug"`
}

type LLMConfig struct {
	Provider    string        `mapstructure:"provider"` // groq, openai, gemini
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	BaseURL     string        `mapstructure:"base_url"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// FallbackConfig tunes how the generative fallback is guarded.
type FallbackConfig struct {
	Enabled             bool          `mapstructure:"enabled"`
	Timeout             time.Duration `mapstructure:"timeout"`
	BreakerMaxFailures  int           `mapstructure:"breaker_max_failures"`
	BreakerResetTimeout time.Duration `mapstructure:"breaker_reset_timeout"`
}

type CacheConfig struct {
	Backend string        `mapstructure:"backend"` // none, memory, redis
	Size    int           `mapstructure:"size"`
	TTL     time.Duration `mapstructure:"ttl"`
}

type RedisConfig struct {
	Address   string `mapstructure:"address"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// FallbackConfigured reports whether enough is configured to build a
// generative fallback client.
func (c *Config) FallbackConfigured() bool {
	return c.Fallback.Enabled && c.LLM.APIKey != ""
}

// Validate rejects values that would otherwise fail later at runtime.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("unknown server.mode %q", c.Server.Mode)
	}

	switch c.Facility.Source {
	case "file":
		if c.Facility.Path == "" {
			return fmt.Errorf("facility.path is required for file source")
		}
	case "postgres":
		if c.Facility.DatabaseURL == "" {
			return fmt.Errorf("facility.database_url is required for postgres source")
		}
	default:
		return fmt.Errorf("unknown facility.source %q", c.Facility.Source)
	}

	switch strings.ToLower(c.LLM.Provider) {
	case "groq", "openai", "gemini":
	default:
		return fmt.Errorf("unknown llm.provider %q", c.LLM.Provider)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be within [0, 2], got %v", c.LLM.Temperature)
	}
	if c.LLM.MaxTokens <= 0 {
		return fmt.Errorf("llm.max_tokens must be positive")
	}

	switch c.Cache.Backend {
	case "none", "":
	case "memory":
		if c.Cache.Size <= 0 {
			return fmt.Errorf("cache.size must be positive for memory backend")
		}
	case "redis":
		if c.Redis.Address == "" {
			return fmt.Errorf("redis.address is required for redis cache backend")
		}
	default:
		return fmt.Errorf("unknown cache.backend %q", c.Cache.Backend)
	}

	return nil
}
