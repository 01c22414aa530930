// Package config loads tool configuration from defaults, an optional YAML
// file, a local .env file and process environment variables, in that order.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the downloader.
type Config struct {
	Output    OutputConfig    `yaml:"output"`
	HTTP      HTTPConfig      `yaml:"http"`
	Providers ProvidersConfig `yaml:"providers"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// OutputConfig holds output directory configuration.
type OutputConfig struct {
	BaseDirectory string `yaml:"base_directory"`
}

// HTTPConfig holds shared HTTP client settings.
type HTTPConfig struct {
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
}

// ProvidersConfig holds provider credentials and the auto-selection
// priority table, keyed by theme.
type ProvidersConfig struct {
	E621UserAgent string              `yaml:"e621_user_agent"`
	Rule34UserID  string              `yaml:"rule34_user_id"`
	Rule34APIKey  string              `yaml:"rule34_api_key"`
	AutoOrder     map[string][]string `yaml:"auto_order"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a Config with sensible defaults, including the
// default per-theme auto-selection order.
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{
			BaseDirectory: "./downloads",
		},
		HTTP: HTTPConfig{
			Timeout:   20 * time.Second,
			UserAgent: "catgirl-cli/1.0 (github.com/DeadSignalFound/catgirl-CLI)",
		},
		Providers: ProvidersConfig{
			AutoOrder: map[string][]string{
				"catgirl": {"nekosapi", "waifu_pics", "nekos_life", "nekobot", "nekos_best"},
				"neko":    {"waifu_pics", "nekos_best", "nekos_life", "nekobot", "nekosapi"},
				"kitsune": {"nekos_best", "nekos_life", "nekosapi", "waifu_pics", "nekobot"},
				"femboy":  {"waifu_pics", "e621", "rule34"},
			},
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// Load builds the effective configuration: defaults, then the YAML file at
// path (or a discovered default location), then .env, then environment
// variables.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := cfg.LoadFromFile(path); err != nil {
		return nil, err
	}
	loadDotenv()
	cfg.LoadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadDotenv loads a .env file from the working directory when present.
// A missing file is not an error.
func loadDotenv() {
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load(".env")
	}
}

// LoadFromFile merges a YAML config file into c. An empty path falls back to
// default locations; no file found is not an error.
func (c *Config) LoadFromFile(path string) error {
	if path == "" {
		path = findConfigFile()
		if path == "" {
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func findConfigFile() string {
	candidates := []string{"catgirl.yaml", ".catgirl.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".catgirl.yaml"))
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// LoadFromEnv merges environment variables into c.
func (c *Config) LoadFromEnv() {
	if ua := os.Getenv("E621_USER_AGENT"); ua != "" {
		c.Providers.E621UserAgent = ua
	}
	if userID := os.Getenv("RULE34_USER_ID"); userID != "" {
		c.Providers.Rule34UserID = userID
	}
	if apiKey := os.Getenv("RULE34_API_KEY"); apiKey != "" {
		c.Providers.Rule34APIKey = apiKey
	}
	if outputDir := os.Getenv("CATGIRL_OUTPUT_DIR"); outputDir != "" {
		c.Output.BaseDirectory = outputDir
	}
	if level := os.Getenv("CATGIRL_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if timeout := os.Getenv("CATGIRL_HTTP_TIMEOUT"); timeout != "" {
		if secs, err := strconv.Atoi(timeout); err == nil && secs > 0 {
			c.HTTP.Timeout = time.Duration(secs) * time.Second
		}
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Output.BaseDirectory == "" {
		return fmt.Errorf("output base directory cannot be empty")
	}
	if c.HTTP.Timeout < time.Second || c.HTTP.Timeout > 120*time.Second {
		return fmt.Errorf("http timeout must be between 1s and 120s, got %s", c.HTTP.Timeout)
	}
	return nil
}
