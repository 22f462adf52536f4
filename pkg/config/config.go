// Package config loads the configuration of the commander program.
//
// Configuration is layered: Default values, then an optional YAML file, then
// environment variables with the COMMANDER_ prefix, such as
// COMMANDER_LOG_LEVEL or COMMANDER_SERVER_ADDR.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/elves/commander/pkg/logutil"
)

// EnvPrefix is the prefix of environment variables that override the
// configuration.
const EnvPrefix = "COMMANDER"

// Config holds all configuration.
type Config struct {
	Prompt string       `yaml:"prompt"`
	Log    LogConfig    `yaml:"log"`
	Server ServerConfig `yaml:"server"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `yaml:"level"`
	// File to write log entries to, in addition to the terminal.
	File string `yaml:"file"`
	// Whether to show log entries in the terminal.
	Terminal    bool `yaml:"terminal"`
	Development bool `yaml:"development"`
}

// ServerConfig holds configuration of the websocket server.
type ServerConfig struct {
	// Address to listen on. If empty, the program runs on its own terminal
	// instead.
	Addr string `yaml:"addr"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Prompt: "❯ ",
		Log: LogConfig{
			Level:    "info",
			Terminal: true,
		},
	}
}

// Load loads the configuration from the YAML file at path, if path is not
// empty, and then from the environment.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	defer f.Close()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	// An empty file leaves the defaults alone.
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// Validate checks the values that are only interpreted later.
func (c *Config) Validate() error {
	if c.Prompt == "" {
		return errors.New("prompt must not be empty")
	}
	if _, err := logutil.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// Logger returns the configuration for logutil.New.
func (c *Config) Logger() logutil.Config {
	cfg := logutil.Config{Level: c.Log.Level, Development: c.Log.Development}
	if c.Log.File != "" {
		cfg.OutputPaths = []string{c.Log.File}
	}
	return cfg
}
