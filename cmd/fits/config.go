package main

import (
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config is the optional config file (~/.config/fits/config.yaml). File
// values apply only where the matching CLI flag was not set explicitly.
type Config struct {
	// Output
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Serve
	ServerAddress string `yaml:"server_address"`

	// Read options
	Scale   *bool `yaml:"scale"`
	Records *bool `yaml:"records"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "fits", "config.yaml")
}

// LoadConfig reads the config file; a missing or unreadable file yields the
// zero Config.
func LoadConfig() Config {
	path := configPath()
	if path == "" {
		return Config{}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}
	}
	return cfg
}

// applyReadConfig merges file defaults under explicit flags for the read
// option set shared by list and inspect.
func applyReadConfig(c *cli.Command, cfg Config, scale, records *bool) {
	if cfg.Scale != nil && !c.IsSet("scale") {
		*scale = *cfg.Scale
	}
	if cfg.Records != nil && !c.IsSet("records") {
		*records = *cfg.Records
	}
}

// applyServeConfig merges the server address default.
func applyServeConfig(c *cli.Command, cfg Config, addr *string) {
	if cfg.ServerAddress != "" && !c.IsSet("addr") {
		*addr = cfg.ServerAddress
	}
}
