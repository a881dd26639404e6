package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var defaults = map[string]interface{}{
	"server.port":             "5000",
	"server.mode":             "release",
	"server.allowed_origins":  []string{},
	"server.rate_limit_rps":   100.0 / 60.0,
	"server.rate_limit_burst": 200,
	"server.shutdown_timeout": "5s",

	"logging.level":  "info",
	"logging.format": "console",

	"facility.source":       "file",
	"facility.path":         "data/gym_data.json",
	"facility.database_url": "",
	"facility.slug":         "fitzone",

	"llm.provider":    "groq",
	"llm.api_key":     "",
	"llm.model":       "",
	"llm.base_url":    "",
	"llm.temperature": 0.7,
	"llm.max_tokens":  500,
	"llm.timeout":     "30s",

	"fallback.enabled":               true,
	"fallback.timeout":               "20s",
	"fallback.breaker_max_failures":  5,
	"fallback.breaker_reset_timeout": "1m",

	"cache.backend": "none",
	"cache.size":    512,
	"cache.ttl":     "1h",

	"redis.address":    "",
	"redis.password":   "",
	"redis.db":         0,
	"redis.key_prefix": "fitzone:answer:",
}

// aliases lets the conventional provider variables stand in for llm.api_key
// and the single-URL variables used by most hosting platforms.
var aliases = map[string][]string{
	"server.port":           {"PORT", "SERVER_PORT"},
	"llm.api_key":           {"LLM_API_KEY", "GROQ_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY"},
	"facility.database_url": {"FACILITY_DATABASE_URL", "DATABASE_URL"},
	"facility.path":         {"FACILITY_PATH", "FACILITY_DATA_PATH"},
}

// Load reads .env, an optional config.yaml and the environment, in that
// order of increasing precedence.
func Load() (*Config, error) {
	loadEnvFile()
	return LoadWith(viper.New())
}

// LoadPath is Load with an explicit config file. An empty path falls back to
// the default search locations; a path that does not exist is an error.
func LoadPath(path string) (*Config, error) {
	loadEnvFile()
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	}
	return LoadWith(v)
}

// LoadWith resolves configuration through the given viper instance.
func LoadWith(v *viper.Viper) (*Config, error) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	// SetConfigName would discard a file chosen with SetConfigFile.
	explicit := v.ConfigFileUsed() != ""
	if !explicit {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for key, envs := range aliases {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("bind env for %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.LLM.Provider = strings.ToLower(cfg.LLM.Provider)
	cfg.Server.AllowedOrigins = splitOrigins(cfg.Server.AllowedOrigins)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func loadEnvFile() {
	for _, p := range []string{".env", "../.env", "../../.env"} {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			return
		}
	}
}

// splitOrigins accepts both a YAML list and a single comma-separated env value.
func splitOrigins(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
