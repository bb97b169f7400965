package generator

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joeshaw/envdecode"
	"gopkg.in/yaml.v3"
)

// ConfigFile is the name of the optional project configuration file.
const ConfigFile = ".deltacmp.yaml"

// Config is the project configuration. Values come from ConfigFile, then
// DELTACMP_* environment variables, then command line flags, each layer
// overriding the one before.
type Config struct {
	Workers  int      `yaml:"workers"`
	LogLevel string   `yaml:"log_level"`
	Tags     []string `yaml:"tags"`
	Patterns []string `yaml:"patterns"`
}

// envConfig holds the environment overrides.
type envConfig struct {
	// ENV: DELTACMP_WORKERS
	Workers int `env:"DELTACMP_WORKERS,strict"`
	// ENV: DELTACMP_LOG_LEVEL, one of debug, info, warn, error
	LogLevel string `env:"DELTACMP_LOG_LEVEL"`
	// ENV: DELTACMP_TAGS, comma separated
	Tags string `env:"DELTACMP_TAGS"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Patterns: []string{"./..."},
	}
}

// LoadConfig loads ConfigFile from dir, if present, and applies the
// environment overrides.
func LoadConfig(dir string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filepath.Join(dir, ConfigFile))
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, err
	default:
		if err := decodeConfig(bytes.NewReader(data), &cfg); err != nil {
			return cfg, fmt.Errorf("%s: %w", ConfigFile, err)
		}
	}

	var env envConfig
	// Unset variables leave the file values in place.
	if err := envdecode.Decode(&env); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return cfg, fmt.Errorf("environment: %w", err)
	}
	cfg.applyEnv(env)

	if _, err := cfg.Level(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func decodeConfig(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c *Config) applyEnv(env envConfig) {
	if env.Workers > 0 {
		c.Workers = env.Workers
	}
	if env.LogLevel != "" {
		c.LogLevel = env.LogLevel
	}
	if env.Tags != "" {
		c.Tags = splitList(env.Tags)
	}
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level: %w", err)
	}
	return level, nil
}

// Options returns generator options for the configuration.
func (c Config) Options(logger *slog.Logger, stdout io.Writer) Options {
	return Options{
		Workers:   c.Workers,
		BuildTags: c.Tags,
		Logger:    logger,
		Stdout:    stdout,
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
