// Package config holds application-level settings loaded from the
// environment. LLM provider settings live in the llm package; this
// covers everything else.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is the application configuration.
type Config struct {
	// DBPath overrides the default database location.
	DBPath string `env:"SPELLQUEST_DB"`

	// SessionSize is the number of rounds in a freeform session.
	SessionSize int `env:"SPELLQUEST_SESSION_SIZE" envDefault:"10"`

	// DefaultList is the word list used when none is named.
	DefaultList string `env:"SPELLQUEST_DEFAULT_LIST" envDefault:"ocean-voyage"`

	// NoColor disables styled terminal output.
	NoColor bool `env:"SPELLQUEST_NO_COLOR" envDefault:"false"`
}

// Load parses the configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges that env parsing cannot express.
func (c Config) Validate() error {
	if c.SessionSize < 1 || c.SessionSize > 50 {
		return fmt.Errorf("SPELLQUEST_SESSION_SIZE must be between 1 and 50, got %d", c.SessionSize)
	}
	if c.DefaultList == "" {
		return fmt.Errorf("SPELLQUEST_DEFAULT_LIST must not be empty")
	}
	return nil
}
