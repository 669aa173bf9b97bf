// Package config provides TOML configuration loading for hwpanel.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config is the top-level configuration structure.
type Config struct {
	Source SourceConfig `toml:"source"`
	Panel  PanelConfig  `toml:"panel"`
}

// SourceConfig says where the publisher's shared memory lives.
type SourceConfig struct {
	SHMName      string   `toml:"shm_name"`
	SHMDir       string   `toml:"shm_dir"`
	ProcessNames []string `toml:"process_names"`
}

// PanelConfig holds settings for the serve loop and the CLI.
type PanelConfig struct {
	PollInterval     string `toml:"poll_interval"`
	DBPath           string `toml:"db_path"`
	RPCSocket        string `toml:"rpc_socket"`
	HistoryRetention string `toml:"history_retention"`
	LogLevel         string `toml:"log_level"`
}

// ParsePollInterval parses the poll interval string to a time.Duration.
func (p *PanelConfig) ParsePollInterval() (time.Duration, error) {
	if p.PollInterval == "" {
		return time.Second, nil
	}
	d, err := time.ParseDuration(p.PollInterval)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("poll_interval must be positive, got %s", p.PollInterval)
	}
	return d, nil
}

// ParseHistoryRetention parses the history retention string to a
// time.Duration.
func (p *PanelConfig) ParseHistoryRetention() (time.Duration, error) {
	if p.HistoryRetention == "" {
		return 10 * time.Minute, nil
	}
	return time.ParseDuration(p.HistoryRetention)
}

// Default returns a Config with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.expandPaths()
	return cfg
}

// Load reads and parses a TOML config file, applying defaults for unset values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := &Config{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	applyDefaults(cfg)
	cfg.expandPaths()
	return cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields Default.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

func (cfg *Config) expandPaths() {
	cfg.Source.SHMDir = ExpandPath(cfg.Source.SHMDir)
	cfg.Panel.DBPath = ExpandPath(cfg.Panel.DBPath)
	cfg.Panel.RPCSocket = ExpandPath(cfg.Panel.RPCSocket)
}

// ExpandPath expands tilde (~) to the user's home directory.
func ExpandPath(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	usr, err := user.Current()
	if err != nil {
		return path
	}
	if path == "~" {
		return usr.HomeDir
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(usr.HomeDir, path[2:])
	}
	return path
}

func applyDefaults(cfg *Config) {

	// Source defaults
	if cfg.Source.SHMName == "" {
		cfg.Source.SHMName = `Global\HWiNFO_SENS_SM2`
	}
	if cfg.Source.SHMDir == "" {
		cfg.Source.SHMDir = "/dev/shm"
	}
	if len(cfg.Source.ProcessNames) == 0 {
		cfg.Source.ProcessNames = []string{"hwinfo64", "hwinfo32"}
	}

	// Panel defaults
	if cfg.Panel.PollInterval == "" {
		cfg.Panel.PollInterval = "1s"
	}
	if cfg.Panel.DBPath == "" {
		cfg.Panel.DBPath = "/var/lib/hwpanel/history.db"
	}
	if cfg.Panel.RPCSocket == "" {
		cfg.Panel.RPCSocket = "/run/hwpanel/panel.sock"
	}
	if cfg.Panel.HistoryRetention == "" {
		cfg.Panel.HistoryRetention = "10m"
	}
	if cfg.Panel.LogLevel == "" {
		cfg.Panel.LogLevel = "info"
	}
}
