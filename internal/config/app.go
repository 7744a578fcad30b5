// Package config holds the process configuration and the user settings store.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes environment overrides, e.g. IO_ROSTER__CANDIDATES.
const EnvPrefix = "IO_"

// Config is the process configuration
type Config struct {
	Roster   RosterConfig  `json:"roster"`
	Settings SettingsPath  `json:"settings"`
	Server   ServerConfig  `json:"server"`
	Logging  LoggingConfig `json:"logging"`
}

// RosterConfig locates the roster spreadsheets
type RosterConfig struct {
	Candidates string `json:"candidates"`
	Panel      string `json:"panel"`
}

// SettingsPath locates the settings file
type SettingsPath struct {
	Path string `json:"path"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Listen string `json:"listen"`
}

// LoggingConfig configures the logger
type LoggingConfig struct {
	Level string `json:"level"`
}

// SetDefaults applies defaults to unset fields.
func (c *Config) SetDefaults() {
	if c.Roster.Candidates == "" {
		c.Roster.Candidates = "candidates.xlsx"
	}
	if c.Roster.Panel == "" {
		c.Roster.Panel = "panel.xlsx"
	}
	if c.Settings.Path == "" {
		c.Settings.Path = "settings.json"
	}
	if c.Server.Listen == "" {
		c.Server.Listen = ":8080"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Validate checks the logging level.
func (c Config) Validate() error {
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("unknown log level %s", c.Logging.Level)
	}
}

// Load reads the optional config file at path, then environment overrides.
// An empty path or a missing file means defaults plus environment.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			var parser koanf.Parser
			switch ext := strings.ToLower(filepath.Ext(path)); ext {
			case ".yaml", ".yml":
				parser = yaml.Parser()
			case ".json":
				parser = json.Parser()
			default:
				return nil, fmt.Errorf("unsupported config format: %s", ext)
			}
			if err := k.Load(file.Provider(path), parser); err != nil {
				return nil, fmt.Errorf("failed to load config file: %w", err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to stat config file: %w", err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DefaultPath returns the per-user config file location
// On Windows: %APPDATA%/InterviewOrganizer/config.yaml
// On Unix: ~/.config/InterviewOrganizer/config.yaml
func DefaultPath() (string, error) {
	var configDir string

	if os.Getenv("APPDATA") != "" {
		configDir = filepath.Join(os.Getenv("APPDATA"), "InterviewOrganizer")
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config", "InterviewOrganizer")
	}

	return filepath.Join(configDir, "config.yaml"), nil
}
