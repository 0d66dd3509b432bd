// Package config loads and persists the board configuration from
// config.yml, creating it with defaults on first run.
package config

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Board struct {
		Name    string `yaml:"name" json:"name"`
		DataDir string `yaml:"data_dir" json:"dataDir"`
		Silent  bool   `yaml:"silent" json:"silent"`
	} `yaml:"board" json:"board"`
	Timing struct {
		MatrixPollMs        int `yaml:"matrix_poll_ms" json:"matrixPollMs"`
		AssemblerTickMs     int `yaml:"assembler_tick_ms" json:"assemblerTickMs"`
		HoldThresholdMs     int `yaml:"hold_threshold_ms" json:"holdThresholdMs"`
		EnqueueTimeoutTicks int `yaml:"enqueue_timeout_ticks" json:"enqueueTimeoutTicks"`
	} `yaml:"timing" json:"timing"`
	Queue struct {
		Capacity int `yaml:"capacity" json:"capacity"`
	} `yaml:"queue" json:"queue"`
	Features struct {
		EnableMouse bool `yaml:"enable_mouse" json:"enableMouse"`
		EnableTyper bool `yaml:"enable_typer" json:"enableTyper"`
	} `yaml:"features" json:"features"`
}

// SafeConfig wraps Config with RWMutex for thread-safe access
type SafeConfig struct {
	mu   sync.RWMutex
	cfg  *Config
	path string
}

// NewSafeConfig creates a new SafeConfig instance persisting to path.
func NewSafeConfig(cfg *Config, path string) *SafeConfig {
	return &SafeConfig{
		cfg:  cfg,
		path: path,
	}
}

// Get returns a deep copy of the current config for safe reading
func (sc *SafeConfig) Get() *Config {
	sc.mu.RLock()
	defer sc.mu.RUnlock()

	copyCfg := defaultConfig()
	*copyCfg = *sc.cfg
	return copyCfg
}

// Update updates the config with a new config value and saves it to disk
func (sc *SafeConfig) Update(newCfg *Config) error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if err := validateConfig(newCfg); err != nil {
		return err
	}

	// Save to disk before updating in memory
	if err := saveConfig(newCfg, sc.path); err != nil {
		return err
	}

	*sc.cfg = *newCfg
	return nil
}

func defaultConfig() *Config {
	cfg := &Config{}
	cfg.Board.Name = "MiRage"
	cfg.Board.DataDir = "."
	cfg.Board.Silent = false
	cfg.Timing.MatrixPollMs = 10
	cfg.Timing.AssemblerTickMs = 10
	cfg.Timing.HoldThresholdMs = 200
	cfg.Timing.EnqueueTimeoutTicks = 10
	cfg.Queue.Capacity = 100
	cfg.Features.EnableMouse = true
	cfg.Features.EnableTyper = true
	return cfg
}

func validateConfig(cfg *Config) error {
	if cfg.Timing.MatrixPollMs <= 0 {
		return fmt.Errorf("matrix_poll_ms must be positive, got %d", cfg.Timing.MatrixPollMs)
	}
	if cfg.Timing.AssemblerTickMs <= 0 {
		return fmt.Errorf("assembler_tick_ms must be positive, got %d", cfg.Timing.AssemblerTickMs)
	}
	if cfg.Timing.HoldThresholdMs <= 0 {
		return fmt.Errorf("hold_threshold_ms must be positive, got %d", cfg.Timing.HoldThresholdMs)
	}
	if cfg.Timing.EnqueueTimeoutTicks < 0 {
		return fmt.Errorf("enqueue_timeout_ticks must not be negative, got %d", cfg.Timing.EnqueueTimeoutTicks)
	}
	if cfg.Queue.Capacity <= 0 {
		return fmt.Errorf("queue capacity must be positive, got %d", cfg.Queue.Capacity)
	}
	return nil
}

// Load reads path, creating it with defaults on first run.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		// Create default config
		cfg := defaultConfig()
		if err := saveConfig(cfg, path); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	// Ensure data dir exists
	if err := os.MkdirAll(cfg.Board.DataDir, 0755); err != nil {
		return nil, err
	}

	return cfg, nil
}

func saveConfig(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
