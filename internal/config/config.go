package config

import (
	"os"

	"gabo-server/internal/util"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config provides configuration for the Gabo server
type Config struct {
	loaded bool
	JWT    struct {
		// SigningKey signs guest session tokens. If empty, a random key is
		// generated at startup and sessions will not survive a restart.
		SigningKey string `yaml:"signingKey" envconfig:"signing_key"`
	}
	Log struct {
		Level             string `yaml:"level"`
		DisableAccessLogs bool   `yaml:"disableAccessLogs" envconfig:"disable_access_logs"`
	}
	// GameIdleTimeout is how many seconds an empty game sticks around before
	// it is removed from the directory
	GameIdleTimeout int `yaml:"gameIdleTimeout" envconfig:"game_idle_timeout"`
}

var config Config

// DefaultConfig returns the configuration defaults
func DefaultConfig() Config {
	var c Config
	c.Log.Level = "info"
	c.GameIdleTimeout = 300
	return c
}

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	if !config.loaded {
		if err := Load(); err != nil {
			panic(err)
		}
	}

	return config
}

// Load will load the configuration. A missing config file is fine; the
// defaults plus the environment are used instead.
func Load() error {
	config = DefaultConfig()

	configFile := util.Getenv("GABO_CONFIG_FILE", "config.yaml")
	file, err := os.Open(configFile)
	if err == nil {
		defer file.Close()
		if err := yaml.NewDecoder(file).Decode(&config); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	if err := envconfig.Process("gabo", &config); err != nil {
		return err
	}

	config.loaded = true
	return nil
}
