package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const (
	AppName        = "studylog"
	configFileName = "config.yaml"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	WindowMonth    = "month"
	WindowTrailing = "trailing"
)

type Config struct {
	DataDir  string         `yaml:"-"`
	Database DatabaseConfig `yaml:"database"`
	Presence PresenceConfig `yaml:"presence"`
	Report   ReportConfig   `yaml:"report"`
	Log      LogConfig      `yaml:"log"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type PresenceConfig struct {
	Enabled         bool          `yaml:"enabled"`
	Plugin          string        `yaml:"plugin"`
	DiscordClientID string        `yaml:"discord_client_id"`
	Redis           RedisConfig   `yaml:"redis"`
	Timeout         time.Duration `yaml:"timeout"`
	Attempts        int           `yaml:"attempts"`
	DefaultImageKey string        `yaml:"default_image_key"`
	Window          string        `yaml:"window"`
	TrailingDays    int           `yaml:"trailing_days"`
}

type RedisConfig struct {
	Addr    string        `yaml:"addr"`
	Key     string        `yaml:"key"`
	Channel string        `yaml:"channel"`
	TTL     time.Duration `yaml:"ttl"`
}

type ReportConfig struct {
	RecentHours  int    `yaml:"recent_hours"`
	TrailingDays int    `yaml:"trailing_days"`
	ExportPath   string `yaml:"export_path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// DefaultDataDir follows the XDG data home.
func DefaultDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

func Default(dataDir string) Config {
	return Config{
		DataDir: dataDir,
		Database: DatabaseConfig{
			Driver: DriverSQLite,
			DSN:    filepath.Join(dataDir, AppName+".db"),
		},
		Presence: PresenceConfig{
			Timeout:         3 * time.Second,
			Attempts:        3,
			DefaultImageKey: "image",
			Window:          WindowMonth,
			TrailingDays:    30,
			Redis: RedisConfig{
				Key:     AppName + ":presence",
				Channel: AppName + ":presence:events",
				TTL:     12 * time.Hour,
			},
		},
		Report: ReportConfig{RecentHours: 24, TrailingDays: 30, ExportPath: filepath.Join(dataDir, "report.md")},
		Log:    LogConfig{Level: "info"},
	}
}

// Load builds the configuration for dataDir, overlaying configPath (or
// <dataDir>/config.yaml when empty) and environment overrides.
func Load(dataDir, configPath string) (Config, error) {
	if strings.TrimSpace(dataDir) == "" {
		dataDir = DefaultDataDir()
	}
	cfg := Default(dataDir)

	explicit := configPath != ""
	if !explicit {
		configPath = filepath.Join(dataDir, configFileName)
	}
	raw, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode config %s: %w", configPath, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if dsn := os.Getenv("STUDYLOG_DATABASE_DSN"); dsn != "" {
		cfg.Database.DSN = dsn
	}
	if clientID := os.Getenv("DISCORD_CLIENT_ID"); clientID != "" {
		cfg.Presence.DiscordClientID = clientID
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if strings.TrimSpace(c.Database.DSN) == "" {
		return fmt.Errorf("database dsn is required")
	}
	switch c.Presence.Window {
	case WindowMonth, WindowTrailing:
	default:
		return fmt.Errorf("unsupported presence window %q", c.Presence.Window)
	}
	if c.Presence.TrailingDays <= 0 || c.Report.TrailingDays <= 0 {
		return fmt.Errorf("trailing days must be positive")
	}
	if c.Report.RecentHours <= 0 {
		return fmt.Errorf("report recent_hours must be positive")
	}
	if c.Presence.Attempts < 1 {
		return fmt.Errorf("presence attempts must be at least 1")
	}
	return nil
}
