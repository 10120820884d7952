// Package config loads cctail configuration from files and environment
// variables.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	// Theme is the color theme: "dark" or "light".
	Theme string `mapstructure:"theme"`
	// ASCII forces the ASCII symbol set even on a TTY.
	ASCII bool `mapstructure:"ascii"`
	// Verbose enables parse-error diagnostics and the debug log.
	Verbose bool `mapstructure:"verbose"`

	Defaults DefaultsConfig `mapstructure:"defaults"`
	Tmux     TmuxConfig     `mapstructure:"tmux"`
}

// DefaultsConfig holds tunable defaults for the data plane and view.
type DefaultsConfig struct {
	// ReplayCount is how many visible messages replay on attach.
	ReplayCount int `mapstructure:"replay_count"`
	// BufferBudgetMB is the ring-buffer byte budget in MiB.
	BufferBudgetMB int `mapstructure:"buffer_budget_mb"`
	// MaxSessions caps the sidebar session list.
	MaxSessions int `mapstructure:"max_sessions"`
	// ActiveThresholdMinutes is the Active/Inactive mtime cutoff.
	ActiveThresholdMinutes int `mapstructure:"active_threshold_minutes"`
	// ChannelCapacity bounds the watcher channel.
	ChannelCapacity int `mapstructure:"channel_capacity"`
}

// TmuxConfig configures the tmux pane integration.
type TmuxConfig struct {
	// SessionPrefix names spawned tmux sessions ("cctail" by default).
	SessionPrefix string `mapstructure:"session_prefix"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Theme: "dark",
		Defaults: DefaultsConfig{
			ReplayCount:            20,
			BufferBudgetMB:         50,
			MaxSessions:            20,
			ActiveThresholdMinutes: 10,
			ChannelCapacity:        1024,
		},
		Tmux: TmuxConfig{SessionPrefix: "cctail"},
	}
}

// Load reads configuration from the first config file found and then
// applies environment overrides.
//
// Search order (highest precedence first):
//  1. ./.cctail.yaml or ./.cctail.yml
//  2. ~/.cctail.yaml or ~/.cctail.yml
//  3. $XDG_CONFIG_HOME/cctail/config.yaml (or ~/.config/cctail/config.yaml)
//  4. /etc/cctail/config.yaml
func Load() (*Config, error) {
	cfg := Default()

	if configFile := findConfigFile(); configFile != "" {
		v := viper.New()
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
		if err := v.Unmarshal(cfg); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// LoadFromFile loads configuration from a specific file.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

func findConfigFile() string {
	names := []string{".cctail.yaml", ".cctail.yml", "cctail.yaml", "cctail.yml"}

	var searchPaths []string
	if cwd, err := os.Getwd(); err == nil {
		searchPaths = append(searchPaths, cwd)
	}
	if home, err := os.UserHomeDir(); err == nil {
		searchPaths = append(searchPaths, home)
	}
	if configDir, err := os.UserConfigDir(); err == nil {
		searchPaths = append(searchPaths, filepath.Join(configDir, "cctail"))
	}
	searchPaths = append(searchPaths, "/etc/cctail")

	for _, dir := range searchPaths {
		for _, name := range names {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
		path := filepath.Join(dir, "config.yaml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CCTAIL_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv("CCTAIL_ASCII"); v == "true" || v == "1" {
		cfg.ASCII = true
	}
	if v := os.Getenv("CCTAIL_VERBOSE"); v == "true" || v == "1" {
		cfg.Verbose = true
	}
	if v := os.Getenv("CCTAIL_TMUX_PREFIX"); v != "" {
		cfg.Tmux.SessionPrefix = v
	}
}
