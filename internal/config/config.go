// Package config resolves runtime settings from defaults, an optional
// YAML file and PATHWAYS_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/pathways/internal/prefs"
	"github.com/abhisek/pathways/internal/search"
	"github.com/abhisek/pathways/internal/store"
)

// Config holds every setting the commands read.
type Config struct {
	// DBPath is the SQLite database file. Empty resolves to the XDG data
	// dir.
	DBPath string `yaml:"db_path"`
	// Addr is the listen address for `pathways serve`.
	Addr string `yaml:"addr"`
	// DataDir holds courses.csv, connections.csv and ksb.csv.
	DataDir string `yaml:"data_dir"`
	// CareersFile is the job title to careers-profile mapping (JSON).
	CareersFile string `yaml:"careers_file"`
	// ServerURL switches the terminal client to a remote server.
	ServerURL string `yaml:"server_url"`
	// PrefsPath is the client preferences file. Empty resolves to the XDG
	// state dir.
	PrefsPath string `yaml:"prefs_path"`

	LogLevel string `yaml:"log_level"`
	// LogFile receives the terminal client's logs. Empty disables them.
	LogFile string `yaml:"log_file"`

	Debounce       time.Duration `yaml:"debounce"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Addr:           ":3000",
		DataDir:        "data",
		LogLevel:       "info",
		Debounce:       search.DefaultDebounce,
		RequestTimeout: 10 * time.Second,
	}
}

// Load builds a Config from defaults, then the YAML file at path (skipped
// when path is empty), then the environment.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		if err := cfg.overlayFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.overlayEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) overlayFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) overlayEnv() error {
	if v := os.Getenv("PATHWAYS_DB"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("PATHWAYS_ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("PATHWAYS_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("PATHWAYS_CAREERS_FILE"); v != "" {
		c.CareersFile = v
	}
	if v := os.Getenv("PATHWAYS_SERVER_URL"); v != "" {
		c.ServerURL = v
	}
	if v := os.Getenv("PATHWAYS_PREFS"); v != "" {
		c.PrefsPath = v
	}
	if v := os.Getenv("PATHWAYS_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("PATHWAYS_LOG_FILE"); v != "" {
		c.LogFile = v
	}

	var errs []error
	if v := os.Getenv("PATHWAYS_DEBOUNCE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("PATHWAYS_DEBOUNCE: %w", err))
		} else {
			c.Debounce = d
		}
	}
	if v := os.Getenv("PATHWAYS_REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("PATHWAYS_REQUEST_TIMEOUT: %w", err))
		} else {
			c.RequestTimeout = d
		}
	}
	return errors.Join(errs...)
}

// Remote reports whether the client should talk to a server instead of
// the local database.
func (c Config) Remote() bool {
	return strings.TrimSpace(c.ServerURL) != ""
}

// DatabasePath returns DBPath, or the default location when unset, and
// makes sure its directory exists.
func (c Config) DatabasePath() (string, error) {
	if c.DBPath == "" {
		return store.DefaultDBPath()
	}
	return c.DBPath, store.EnsureDir(c.DBPath)
}

// PreferencesPath returns PrefsPath, or the default location when unset.
func (c Config) PreferencesPath() (string, error) {
	if c.PrefsPath == "" {
		return prefs.DefaultPath()
	}
	return c.PrefsPath, nil
}

// Validate checks the settings that would otherwise fail late.
func (c Config) Validate() error {
	var errs []error
	if c.Debounce < 0 {
		errs = append(errs, fmt.Errorf("debounce must not be negative, got %s", c.Debounce))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("request_timeout must be positive, got %s", c.RequestTimeout))
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log level %q", c.LogLevel))
	}
	return errors.Join(errs...)
}
