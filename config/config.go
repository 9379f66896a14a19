// Package config provides YAML-based configuration loading for spanviews services.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/illuscio-dev/spanviews-go/mimetype"
	"github.com/spf13/viper"
	"golang.org/x/xerrors"
)

// Config is the root application configuration.
type Config struct {
	// AppName is the logical name of the service.
	AppName string `mapstructure:"app_name"`

	// Listen is the address the HTTP server binds.
	Listen string `mapstructure:"listen"`

	// BaseURL overrides the scheme and host of generated id field URLs. Empty uses
	// the host of each request.
	BaseURL string `mapstructure:"base_url"`

	// Log holds logging configuration
	Log LogConfig `mapstructure:"log"`

	// Render holds response rendering options
	Render RenderConfig `mapstructure:"render"`
}

// LogConfig defines logger settings.
type LogConfig struct {
	// Level: debug, info, warn, error
	Level string `mapstructure:"level"`
	// Format: console or json
	Format string `mapstructure:"format"`
	// Outputs: list of outputs: stdout, stderr, or file paths
	Outputs []string `mapstructure:"outputs"`

	// Rotation controls file rotation when writing to files
	Rotation RotationConfig `mapstructure:"rotation"`
	// Development toggles development-friendly logging options
	Development bool `mapstructure:"development"`
}

// RotationConfig controls log file rotation for file outputs.
type RotationConfig struct {
	Enable     bool   `mapstructure:"enable"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// RenderConfig controls how responses are written.
type RenderConfig struct {
	// Indent is the number of spaces JSON output is indented with.
	Indent int `mapstructure:"indent"`
	// DefaultMimeType replaces the framework default content type of responses.
	DefaultMimeType string `mapstructure:"default_mimetype"`
}

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		AppName: "spanviews",
		Listen:  ":8080",
		Log: LogConfig{
			Level:       "info",
			Format:      "console",
			Outputs:     []string{"stdout"},
			Development: false,
			Rotation: RotationConfig{
				Enable:     false,
				Filename:   "logs/spanviews.log",
				MaxSizeMB:  50,
				MaxBackups: 3,
				MaxAgeDays: 28,
				Compress:   true,
			},
		},
		Render: RenderConfig{
			Indent:          2,
			DefaultMimeType: string(mimetype.JSON),
		},
	}
}

// Load reads configuration from the provided path (if non-empty),
// otherwise it searches common locations and supports environment overrides.
// Environment variables use the prefix SPANVIEWS and `.`/`-` are replaced with `_`.
// Example: SPANVIEWS_LOG_LEVEL=debug
func Load(path string) (*Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("SPANVIEWS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// seed defaults for viper so env-only configs work
	v.SetDefault("app_name", cfg.AppName)
	v.SetDefault("listen", cfg.Listen)
	v.SetDefault("base_url", cfg.BaseURL)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("log.outputs", cfg.Log.Outputs)
	v.SetDefault("log.development", cfg.Log.Development)
	v.SetDefault("log.rotation.enable", cfg.Log.Rotation.Enable)
	v.SetDefault("log.rotation.filename", cfg.Log.Rotation.Filename)
	v.SetDefault("log.rotation.max_size_mb", cfg.Log.Rotation.MaxSizeMB)
	v.SetDefault("log.rotation.max_backups", cfg.Log.Rotation.MaxBackups)
	v.SetDefault("log.rotation.max_age_days", cfg.Log.Rotation.MaxAgeDays)
	v.SetDefault("log.rotation.compress", cfg.Log.Rotation.Compress)
	v.SetDefault("render.indent", cfg.Render.Indent)
	v.SetDefault("render.default_mimetype", cfg.Render.DefaultMimeType)

	// Choose config file
	if path == "" {
		// Allow override via env var
		if envPath := os.Getenv("SPANVIEWS_CONFIG"); envPath != "" {
			path = envPath
		}
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		// Search common locations with base name `spanviews`
		v.SetConfigName("spanviews")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".spanviews"))
		}
	}

	// Read config file if present; if not found, continue with defaults/env
	if err := v.ReadInConfig(); err != nil {
		var viperConfigFileNotFound viper.ConfigFileNotFoundError
		if !xerrors.As(err, &viperConfigFileNotFound) {
			return nil, xerrors.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, xerrors.Errorf("decode config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	lvl := strings.ToLower(strings.TrimSpace(c.Log.Level))
	switch lvl {
	case "debug", "info", "warn", "warning", "error":
		// ok
	default:
		return xerrors.Errorf("invalid log.level: %q", c.Log.Level)
	}

	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if len(c.Log.Outputs) == 0 {
		c.Log.Outputs = []string{"stdout"}
	}
	if strings.TrimSpace(c.Listen) == "" {
		c.Listen = ":8080"
	}
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")

	if c.Render.Indent < 0 || c.Render.Indent > 16 {
		return xerrors.Errorf("invalid render.indent: %d", c.Render.Indent)
	}
	if mimetype.FromString(c.Render.DefaultMimeType) == mimetype.UNKNOWN {
		c.Render.DefaultMimeType = string(mimetype.JSON)
	}
	c.Render.DefaultMimeType = string(mimetype.FromString(c.Render.DefaultMimeType))
	return nil
}

// MimeType returns the configured default response mimetype.
func (c RenderConfig) MimeType() mimetype.MimeType {
	return mimetype.FromString(c.DefaultMimeType)
}

// MustLoad is a convenience that panics on error.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}
