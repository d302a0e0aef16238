package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	EnvLogLevel = "TOME2NRTM_LOG_LEVEL"
	EnvIndent   = "TOME2NRTM_INDENT"
	EnvCompact  = "TOME2NRTM_COMPACT"
)

type Config struct {
	LogLevel slog.Level
	// Indent of the pretty printed output
	Indent string
	// Print the output without indentation
	Compact bool
}

// Load reads the configuration from the environment. A .env file
// in the working directory is loaded first if it exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel: slog.LevelWarn,
		Indent:   "  ",
	}

	if level := os.Getenv(EnvLogLevel); level != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvLogLevel, err)
		}
	}

	if indent, ok := os.LookupEnv(EnvIndent); ok {
		cfg.Indent = indent
	}

	if compact := os.Getenv(EnvCompact); compact != "" {
		value, err := strconv.ParseBool(compact)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvCompact, err)
		}
		cfg.Compact = value
	}

	return cfg, nil
}

// Returns the indent for the output encoder, empty for compact output
func (c *Config) OutputIndent() string {
	if c.Compact {
		return ""
	}
	return c.Indent
}
