package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// ConfigFileName is the name of the optional TOML configuration file.
const ConfigFileName = "config.toml"

// Config is the on-disk configuration read by the CLI.
// Zero values mean "not set"; flags override any field.
type Config struct {
	DataDir          string `toml:"data_dir"`
	Adapter          string `toml:"adapter"`
	AutoSaveInterval string `toml:"autosave_interval"`
	BackupDir        string `toml:"backup_dir"`
	BackupKeep       int    `toml:"backup_keep"`
}

// DefaultConfigPath returns ~/.notekeep/config.toml.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DirName, ConfigFileName), nil
}

// LoadConfig reads the TOML file at path. A missing file yields an empty
// Config when optional is set.
func LoadConfig(path string, optional bool) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) && optional {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the adapter name and the autosave interval.
func (c Config) Validate() error {
	if c.Adapter != "" {
		known := false
		for _, name := range Adapters() {
			if c.Adapter == name {
				known = true
			}
		}
		if !known {
			return fmt.Errorf("unknown adapter: %s", c.Adapter)
		}
	}
	if _, err := c.AutoSave(); err != nil {
		return err
	}
	if c.BackupKeep < 0 {
		return fmt.Errorf("backup_keep must not be negative")
	}
	return nil
}

// AutoSave parses AutoSaveInterval. An empty value returns zero.
func (c Config) AutoSave() (time.Duration, error) {
	if c.AutoSaveInterval == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.AutoSaveInterval)
	if err != nil {
		return 0, fmt.Errorf("autosave_interval: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("autosave_interval must not be negative")
	}
	return d, nil
}
