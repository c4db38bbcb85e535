// ABOUTME: Configuration loading and parsing for the xlr panel clients
// ABOUTME: Supports YAML or TOML files with environment variable expansion and duration parsing

package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/2389/xlr-panel/internal/channel"
)

// Config represents the complete client configuration
type Config struct {
	Server  ServerConfig  `yaml:"server" toml:"server"`
	Session SessionConfig `yaml:"session" toml:"session"`
	Polling PollingConfig `yaml:"polling" toml:"polling"`
	Login   LoginConfig   `yaml:"login" toml:"login"`
	HTTP    HTTPConfig    `yaml:"http" toml:"http"`
	Palette []string      `yaml:"palette" toml:"palette"`
	Journal JournalConfig `yaml:"journal" toml:"journal"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
}

// ServerConfig holds the appliance address
type ServerConfig struct {
	URL string `yaml:"url" toml:"url"`
}

// SessionConfig holds where the appliance session cookie is persisted
type SessionConfig struct {
	Path string `yaml:"path" toml:"path"`
}

// PollingConfig holds the dashboard poll timing
type PollingConfig struct {
	Interval    time.Duration `yaml:"-" toml:"-"`
	IntervalRaw string        `yaml:"interval" toml:"interval"`
}

// LoginConfig holds PIN pad timing
type LoginConfig struct {
	ErrorFlash    time.Duration `yaml:"-" toml:"-"`
	ErrorFlashRaw string        `yaml:"error_flash" toml:"error_flash"`
}

// HTTPConfig holds request timing
type HTTPConfig struct {
	Timeout    time.Duration `yaml:"-" toml:"-"`
	TimeoutRaw string        `yaml:"timeout" toml:"timeout"`
}

// JournalConfig holds the change journal location. An empty path disables it.
type JournalConfig struct {
	Path string `yaml:"path" toml:"path"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
	File   string `yaml:"file" toml:"file"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Server:  ServerConfig{URL: "http://localhost:5000"},
		Session: SessionConfig{Path: filepath.Join(configDir(), "xlr", "session.json")},
		Polling: PollingConfig{Interval: 2 * time.Second},
		Login:   LoginConfig{ErrorFlash: 400 * time.Millisecond},
		HTTP:    HTTPConfig{Timeout: 5 * time.Second},
		Palette: append([]string(nil), channel.Palette...),
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

// Path returns the config file location.
// Priority: XLR_CONFIG env var > XDG_CONFIG_HOME/xlr/panel.yaml > ~/.config/xlr/panel.yaml
func Path() string {
	if envPath := os.Getenv("XLR_CONFIG"); envPath != "" {
		return envPath
	}
	return filepath.Join(configDir(), "xlr", "panel.yaml")
}

func configDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(homeDir, ".config")
}

// LoadOrDefault loads path, or returns defaults when the file does not exist.
// XLR_SERVER overrides server.url in both cases.
func LoadOrDefault(path string) (*Config, error) {
	var cfg *Config
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg = Default()
	} else {
		cfg, err = Load(path)
		if err != nil {
			return nil, err
		}
	}

	if server := os.Getenv("XLR_SERVER"); server != "" {
		cfg.Server.URL = server
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("validating config: %w", err)
		}
	}
	return cfg, nil
}

// Load reads a configuration file from the given path and returns a parsed Config.
// Files ending in .toml are decoded as TOML, everything else as YAML.
// Environment variables in the format ${VAR_NAME} are expanded.
// Unset fields keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the raw content
	expandedData := expandEnvVars(string(data))

	cfg := Default()
	cfg.Palette = nil
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(expandedData, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	} else {
		if err := yaml.Unmarshal([]byte(expandedData), cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}
	if len(cfg.Palette) == 0 {
		cfg.Palette = append([]string(nil), channel.Palette...)
	}
	cfg.Session.Path = expandHome(cfg.Session.Path)
	cfg.Journal.Path = expandHome(cfg.Journal.Path)
	cfg.Logging.File = expandHome(cfg.Logging.File)

	// Parse duration fields
	if err := parseDurations(cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// expandHome replaces a leading ~/ with the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(homeDir, path[2:])
}

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Server.URL == "" {
		return fmt.Errorf("server.url is required")
	}
	u, err := url.Parse(c.Server.URL)
	if err != nil {
		return fmt.Errorf("server.url is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server.url must use http or https scheme")
	}

	if c.Polling.Interval <= 0 {
		return fmt.Errorf("polling.interval must be positive")
	}
	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("http.timeout must be positive")
	}

	for _, col := range c.Palette {
		if !hexColor.MatchString(col) {
			return fmt.Errorf("palette color %q is not a #rrggbb hex value", col)
		}
	}

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error")
	}

	return nil
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	var err error

	if cfg.Polling.IntervalRaw != "" {
		cfg.Polling.Interval, err = time.ParseDuration(cfg.Polling.IntervalRaw)
		if err != nil {
			return fmt.Errorf("parsing polling.interval %q: %w", cfg.Polling.IntervalRaw, err)
		}
	}

	if cfg.Login.ErrorFlashRaw != "" {
		cfg.Login.ErrorFlash, err = time.ParseDuration(cfg.Login.ErrorFlashRaw)
		if err != nil {
			return fmt.Errorf("parsing login.error_flash %q: %w", cfg.Login.ErrorFlashRaw, err)
		}
	}

	if cfg.HTTP.TimeoutRaw != "" {
		cfg.HTTP.Timeout, err = time.ParseDuration(cfg.HTTP.TimeoutRaw)
		if err != nil {
			return fmt.Errorf("parsing http.timeout %q: %w", cfg.HTTP.TimeoutRaw, err)
		}
	}

	return nil
}
