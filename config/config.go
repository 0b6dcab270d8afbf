// Copyright (c) 2025 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package config holds the server tunables and their YAML config
// file. Every field has a default reproducing the stock behavior, so
// the file is optional and absent fields change nothing.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Config is the representation of the server's YAML config file.
type Config struct {
	// ListenAddr is the TCP address the server binds, e.g. ":1234".
	ListenAddr string `yaml:"listenaddr,omitempty"`

	// MonitorAddr enables the embedded debug/metrics HTTP server
	// when non-empty.
	MonitorAddr string `yaml:"monitoraddr,omitempty"`

	// IdleTimeoutMs closes a connection with no activity for this
	// many milliseconds.
	IdleTimeoutMs int64 `yaml:"idletimeoutms,omitempty"`

	// Workers is the number of background deallocation workers.
	Workers int `yaml:"workers,omitempty"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		ListenAddr:    ":1234",
		IdleTimeoutMs: 5000,
		Workers:       4,
	}
}

// Parse unmarshals a YAML config over the defaults and validates it.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads and parses the config file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Parse(data)
}

func (c *Config) validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listenaddr must not be empty")
	}
	if c.IdleTimeoutMs <= 0 {
		return fmt.Errorf("idletimeoutms must be positive, got %d", c.IdleTimeoutMs)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	return nil
}
