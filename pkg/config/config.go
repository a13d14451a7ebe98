// Package config provides TOML configuration loading for svcbeacon.
package config

import (
	"fmt"
	"os"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config is the top-level configuration structure.
type Config struct {
	Announce AnnounceConfig `toml:"announce"`
	Listen   ListenConfig   `toml:"listen"`
}

// AnnounceConfig holds settings for the beacon sender.
type AnnounceConfig struct {
	ServiceName   string `toml:"service_name"`
	ServicePort   int    `toml:"service_port"`
	BroadcastPort int    `toml:"broadcast_port"`
	Interval      string `toml:"interval"`
	LogLevel      string `toml:"log_level"`
}

// ListenConfig holds settings for the beacon listener.
type ListenConfig struct {
	ServiceName   string `toml:"service_name"`
	BroadcastPort int    `toml:"broadcast_port"`
	Timeout       string `toml:"timeout"`
	LogLevel      string `toml:"log_level"`
}

// ParseInterval parses the beacon send interval string to a time.Duration.
func (a *AnnounceConfig) ParseInterval() (time.Duration, error) {
	if a.Interval == "" {
		return time.Second, nil
	}
	return time.ParseDuration(a.Interval)
}

// ParseTimeout parses the listener wait timeout. An empty string means no
// timeout: wait for a beacon indefinitely.
func (l *ListenConfig) ParseTimeout() (time.Duration, error) {
	if l.Timeout == "" {
		return 0, nil
	}
	return time.ParseDuration(l.Timeout)
}

// Load reads and parses a TOML config file, applying defaults for unset
// values. An empty path yields the built-in defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	applyDefaults(cfg)
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {

	// Announce defaults
	if cfg.Announce.ServiceName == "" {
		cfg.Announce.ServiceName = "BeaconTestService"
	}
	if cfg.Announce.BroadcastPort == 0 {
		cfg.Announce.BroadcastPort = 9002
	}
	if cfg.Announce.Interval == "" {
		cfg.Announce.Interval = "1s"
	}
	if cfg.Announce.LogLevel == "" {
		cfg.Announce.LogLevel = "info"
	}

	// Listen defaults follow the announce table where unset, so a single
	// minimal config drives both sides of a discovery round trip.
	if cfg.Listen.ServiceName == "" {
		cfg.Listen.ServiceName = cfg.Announce.ServiceName
	}
	if cfg.Listen.BroadcastPort == 0 {
		cfg.Listen.BroadcastPort = cfg.Announce.BroadcastPort
	}
	if cfg.Listen.LogLevel == "" {
		cfg.Listen.LogLevel = cfg.Announce.LogLevel
	}
}
