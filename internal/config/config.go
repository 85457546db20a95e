// Copyright (c) 2025-2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/s7gate/s7link/frame"
)

// Config is the layered configuration for one PLC connection (§6, §11).
type Config struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	Rack           uint8         `mapstructure:"rack"`
	Slot           uint8         `mapstructure:"slot"`
	ConnectionType string        `mapstructure:"connection_type"` // "pg", "op", "s7basic"
	TimeoutMs      int           `mapstructure:"timeout_ms"`
	Log            LogConfig     `mapstructure:"log"`
	Timeout        time.Duration `mapstructure:"-"`
}

// LogConfig defines logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level"` // debug, info, warn, error
	File  string `mapstructure:"file"`  // Log file path
}

// LoadConfig loads configuration from file, applying `viper`'s layered
// file/env precedence.
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/s7link/")
		v.AddConfigPath("$HOME/.s7link")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("S7LINK")
	v.AutomaticEnv()

	v.SetDefault("port", 102)
	v.SetDefault("rack", 0)
	v.SetDefault("slot", 0)
	v.SetDefault("connection_type", "pg")
	v.SetDefault("timeout_ms", 5000)
	v.SetDefault("log.level", "info")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	fixup(&cfg)
	return &cfg, nil
}

func fixup(cfg *Config) {
	cfg.ConnectionType = strings.ToLower(cfg.ConnectionType)
	if cfg.TimeoutMs <= 0 {
		cfg.TimeoutMs = 5000
	}
	cfg.Timeout = time.Duration(cfg.TimeoutMs) * time.Millisecond
}

// ResolveConnectionType maps the config's textual connection_type onto
// frame.ConnectionType, defaulting to PG for anything unrecognized.
func ResolveConnectionType(s string) frame.ConnectionType {
	switch strings.ToLower(s) {
	case "op":
		return frame.OP
	case "s7basic", "basic":
		return frame.S7Basic
	default:
		return frame.PG
	}
}
