// Package config loads the daemon's YAML configuration file, in the
// style of samoyed's deviceid.go (the one file in the teacher tree
// already wired to gopkg.in/yaml.v3).
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk shape of ebusd's configuration file.
type Config struct {
	Serial struct {
		Device string `yaml:"device"`
		Baud   uint32 `yaml:"baud"`
	} `yaml:"serial"`

	Listen struct {
		Address string `yaml:"address"`
	} `yaml:"listen"`

	DNSSD struct {
		Enabled bool   `yaml:"enabled"`
		Name    string `yaml:"name"`
	} `yaml:"dns_sd"`

	LogLevel string `yaml:"log_level"`
}

// Default returns a Config with the documented defaults applied, as if
// loaded from an empty file.
func Default() *Config {
	c := &Config{}
	c.Serial.Baud = 2400 // eBUS line speed
	c.Listen.Address = ":8888"
	c.DNSSD.Name = "eBUS bridge"
	c.LogLevel = "info"

	return c
}

// Load reads and parses path, then fills in any zero-valued field with
// its documented default. A missing Serial.Device is left empty; the
// caller decides whether that is fatal.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	applyDefaults(cfg)

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	def := Default()

	if cfg.Serial.Baud == 0 {
		cfg.Serial.Baud = def.Serial.Baud
	}

	if cfg.Listen.Address == "" {
		cfg.Listen.Address = def.Listen.Address
	}

	if cfg.DNSSD.Name == "" {
		cfg.DNSSD.Name = def.DNSSD.Name
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = def.LogLevel
	}
}
