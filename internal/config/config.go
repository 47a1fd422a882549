// Package config handles the XDG configuration directory, the optional
// config.toml file and the paths derived from them.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

const (
	// AppName is the application directory name.
	AppName = "ltask"

	// ConfigFile is the optional settings filename.
	ConfigFile = "config.toml"

	// DataDir is the default directory of the file backend.
	DataDir = "data"

	// DBFile is the default SQLite database filename.
	DBFile = "ltask.db"

	// LogFile is the default log filename used by the terminal UI.
	LogFile = "ltask.log"
)

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Backend selects the storage backend: "file" or "sqlite".
	Backend string `toml:"backend"`

	// DataPath overrides the backend location (directory for "file",
	// database file for "sqlite"). Relative paths are resolved against Dir.
	DataPath string `toml:"data_path"`

	// Log configures the rotating log file.
	Log LogConfig `toml:"log"`

	// Debug enables debug logging.
	Debug bool `toml:"-"`

	// Quiet suppresses informational output.
	Quiet bool `toml:"-"`
}

// LogConfig configures the log file written while the terminal UI runs.
type LogConfig struct {
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/ltask or $HOME/.config/ltask.
// A config.toml in that directory, when present, fills in the settings.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{
		Dir:     dir,
		Backend: BackendFile,
		Log: LogConfig{
			MaxSizeMB:  5,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
	if err := cfg.load(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// load decodes config.toml on top of the defaults. A missing file is fine.
func (c *Config) load() error {
	path := c.FilePath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if _, err := toml.DecodeFile(path, c); err != nil {
		return errors.Wrapf(err, "invalid %s", ConfigFile)
	}
	switch c.Backend {
	case "":
		c.Backend = BackendFile
	case BackendFile, BackendSQLite:
	default:
		return errors.Errorf("invalid %s: unknown backend %q", ConfigFile, c.Backend)
	}
	return nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// FilePath returns the path to config.toml.
func (c *Config) FilePath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// StorePath returns the location of the selected backend.
func (c *Config) StorePath() string {
	if c.DataPath != "" {
		return c.resolve(c.DataPath)
	}
	if c.Backend == BackendSQLite {
		return filepath.Join(c.Dir, DBFile)
	}
	return filepath.Join(c.Dir, DataDir)
}

// LogPath returns the path of the rotating log file.
func (c *Config) LogPath() string {
	if c.Log.File != "" {
		return c.resolve(c.Log.File)
	}
	return filepath.Join(c.Dir, LogFile)
}

func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Dir, p)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}
