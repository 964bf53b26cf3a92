package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	// Global settings
	Format  string `mapstructure:"format"`
	Quiet   bool   `mapstructure:"quiet"`
	Verbose bool   `mapstructure:"verbose"`

	API   APIConfig   `mapstructure:"api"`
	Agent AgentConfig `mapstructure:"agent"`
}

// APIConfig targets the JoeAPI REST backend.
type APIConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	Key            string `mapstructure:"key"`
	RequestTimeout string `mapstructure:"request_timeout"`
	Page           int    `mapstructure:"page"`
	Limit          int    `mapstructure:"limit"`
}

// AgentConfig targets the async-agent streaming endpoint.
type AgentConfig struct {
	URL     string `mapstructure:"url"`
	Timeout string `mapstructure:"timeout"`
}

// Default returns a Config with default values
func Default() *Config {
	return &Config{
		// Format stays empty so the binary can pick text for terminals and
		// ndjson for pipes when nothing set it explicitly.
		Format:  "",
		Quiet:   false,
		Verbose: false,
		API: APIConfig{
			BaseURL:        "https://joeapi.fly.dev",
			RequestTimeout: "30s",
			Page:           1,
			Limit:          5,
		},
		Agent: AgentConfig{
			URL:     "https://joeapi-async-agent.fly.dev/webhooks/prompt-stream",
			Timeout: "10m",
		},
	}
}

// RequestTimeout parses the REST timeout, falling back to 30s.
func (c *Config) RequestTimeout() time.Duration {
	return parseDuration(c.API.RequestTimeout, 30*time.Second)
}

// AgentTimeout parses the delegation deadline, falling back to 10m. The
// default is generous because delegated workflows legitimately run for
// minutes.
func (c *Config) AgentTimeout() time.Duration {
	return parseDuration(c.Agent.Timeout, 10*time.Minute)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// Load loads configuration from files and environment
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and type
	v.SetConfigName("joectl")
	v.SetConfigType("yaml")

	// Add config paths (in order of precedence, lowest first)
	// 1. System-wide config
	v.AddConfigPath("/etc/joectl/")
	// 2. User config directory
	if configDir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(configDir, "joectl"))
	}
	// 3. Home directory (as .joectl.yaml)
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
		v.SetConfigName(".joectl")
	}
	// 4. Current directory
	v.AddConfigPath(".")

	// Environment variables
	v.SetEnvPrefix("JOECTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// Bind specific environment variables. The backend ones keep the names
	// the deployment already uses.
	v.BindEnv("format", "JOECTL_FORMAT")
	v.BindEnv("quiet", "JOECTL_QUIET")
	v.BindEnv("verbose", "JOECTL_VERBOSE")
	v.BindEnv("api.base_url", "JOEAPI_BASE_URL")
	v.BindEnv("api.key", "JOEAPI_API_KEY")
	v.BindEnv("api.request_timeout", "REQUEST_TIMEOUT")
	v.BindEnv("agent.url", "JOECTL_AGENT_URL")
	v.BindEnv("agent.timeout", "JOECTL_AGENT_TIMEOUT")

	// Set defaults
	cfg := Default()
	v.SetDefault("quiet", cfg.Quiet)
	v.SetDefault("verbose", cfg.Verbose)
	v.SetDefault("api.base_url", cfg.API.BaseURL)
	v.SetDefault("api.request_timeout", cfg.API.RequestTimeout)
	v.SetDefault("api.page", cfg.API.Page)
	v.SetDefault("api.limit", cfg.API.Limit)
	v.SetDefault("agent.url", cfg.Agent.URL)
	v.SetDefault("agent.timeout", cfg.Agent.Timeout)

	// Try to read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error occurred
			return nil, err
		}
		// Config file not found; use defaults
	}

	// Unmarshal into struct
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromFile loads configuration from a specific file
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ConfigFile returns the path to the config file that was loaded
func ConfigFile() string {
	v := viper.New()

	v.SetConfigName("joectl")
	v.SetConfigType("yaml")

	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err == nil {
		return v.ConfigFileUsed()
	}

	// Try .joectl
	v.SetConfigName(".joectl")
	if err := v.ReadInConfig(); err == nil {
		return v.ConfigFileUsed()
	}

	return ""
}
