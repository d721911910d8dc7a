// Package config loads duetick settings from an optional TOML file with
// environment variable overrides on top.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

type Config struct {
	// DataBackend selects the persistence adapter: "json" or "sqlite".
	DataBackend string `toml:"data_backend"`
	// DataDir holds the task list file/database and the log file.
	DataDir string `toml:"data_dir"`
	// RefreshIntervalMinutes is the background refresh cadence.
	RefreshIntervalMinutes int `toml:"refresh_interval_minutes"`
	// DesktopNotifications enables forwarding fired reminders to the
	// platform notifier.
	DesktopNotifications bool `toml:"desktop_notifications"`
	// SchedulerBuffer is the reminder event channel capacity.
	SchedulerBuffer int    `toml:"scheduler_buffer"`
	LogLevel        string `toml:"log_level"`
}

func Default() Config {
	return Config{
		DataBackend:            BackendJSON,
		DataDir:                defaultDataDir(),
		RefreshIntervalMinutes: 60,
		DesktopNotifications:   true,
		SchedulerBuffer:        64,
		LogLevel:               "info",
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".duetick"
	}
	return filepath.Join(home, ".duetick")
}

// Load reads the TOML file at path (missing file is fine) and applies env
// overrides on the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config: %w", err)
			}
		}
	}
	cfg = FromEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FromEnv applies DUETICK_* environment overrides to a base config.
func FromEnv(base Config) Config {
	cfg := base
	if v := strings.TrimSpace(os.Getenv("DUETICK_DATA_BACKEND")); v != "" {
		cfg.DataBackend = v
	}
	if v := strings.TrimSpace(os.Getenv("DUETICK_DATA_DIR")); v != "" {
		cfg.DataDir = v
	}
	if v, ok := getEnvInt("DUETICK_REFRESH_INTERVAL_MINUTES"); ok && v > 0 {
		cfg.RefreshIntervalMinutes = v
	}
	if v, ok := getEnvBool("DUETICK_DESKTOP_NOTIFICATIONS"); ok {
		cfg.DesktopNotifications = v
	}
	if v, ok := getEnvInt("DUETICK_SCHEDULER_BUFFER"); ok && v > 0 {
		cfg.SchedulerBuffer = v
	}
	if v := strings.TrimSpace(os.Getenv("DUETICK_LOG_LEVEL")); v != "" {
		cfg.LogLevel = v
	}
	return cfg
}

func (c Config) Validate() error {
	switch c.DataBackend {
	case BackendJSON, BackendSQLite:
	default:
		return fmt.Errorf("config: unknown data backend %q", c.DataBackend)
	}
	if c.RefreshIntervalMinutes <= 0 {
		return fmt.Errorf("config: refresh interval must be positive, got %d", c.RefreshIntervalMinutes)
	}
	if c.SchedulerBuffer <= 0 {
		return fmt.Errorf("config: scheduler buffer must be positive, got %d", c.SchedulerBuffer)
	}
	return nil
}

// TasksPath is the JSON task list location for the json backend.
func (c Config) TasksPath() string {
	return filepath.Join(c.DataDir, "tasks.json")
}

// DatabasePath is the sqlite database location for the sqlite backend.
func (c Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "duetick.db")
}

// LogPath is the log file location.
func (c Config) LogPath() string {
	return filepath.Join(c.DataDir, "duetick.log")
}

// DefaultPath is the conventional config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "duetick.toml"
	}
	return filepath.Join(home, ".config", "duetick", "config.toml")
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
