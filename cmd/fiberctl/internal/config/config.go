// Package config loads and saves fiberctl's own project configuration
// (fiberctl.json) using a plain JSON file with applied defaults.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config is fiberctl's on-disk configuration.
type Config struct {
	// Devserver holds the devserver subcommand's defaults.
	Devserver *DevserverConfig `json:"devserver,omitempty"`

	// StackSize is a default fiber stack size, in bytes. It is loaded,
	// defaulted and saved here; no fiberctl subcommand reads it.
	StackSize int `json:"stackSize,omitempty"`
}

// DevserverConfig configures the devserver subcommand.
type DevserverConfig struct {
	// Host/Port the websocket+HTTP server binds to.
	Host string `json:"host,omitempty"`
	Port int    `json:"port,omitempty"`

	// ScenarioConfigPath is the YAML file listing scenario display
	// metadata; devserver watches its directory for changes via
	// fsnotify and reloads it live.
	ScenarioConfigPath string `json:"scenarioConfig,omitempty"`
}

// fileName is the configuration file's name, resolved relative to the
// project path passed to Load/Save.
const fileName = "fiberctl.json"

// Load reads fiberctl.json from projectPath, or returns DefaultConfig
// if the file does not exist.
func Load(projectPath string) (*Config, error) {
	configPath := filepath.Join(projectPath, fileName)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// Save writes cfg to fiberctl.json under projectPath.
func Save(cfg *Config, projectPath string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(projectPath, fileName), data, 0644)
}

// DefaultConfig returns fiberctl's built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Devserver: &DevserverConfig{
			Host: "localhost",
			Port: 8787,
		},
		StackSize: 64 * 1024,
	}
}

func applyDefaults(cfg *Config) {
	defaults := DefaultConfig()
	if cfg.Devserver == nil {
		cfg.Devserver = defaults.Devserver
	} else {
		if cfg.Devserver.Host == "" {
			cfg.Devserver.Host = defaults.Devserver.Host
		}
		if cfg.Devserver.Port == 0 {
			cfg.Devserver.Port = defaults.Devserver.Port
		}
	}
	if cfg.StackSize == 0 {
		cfg.StackSize = defaults.StackSize
	}
}
