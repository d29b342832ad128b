// internal/config/config.go
//
// Process configuration for the game console and the scoreboard.
// Values come from the environment, optionally seeded from a .env file in
// the working directory (development convenience; real env wins).

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config is every tunable the binaries read.
type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Ledger persistence.
	StoreDriver string `env:"STORE_DRIVER" envDefault:"json"`
	ScoresFile  string `env:"SCORES_FILE" envDefault:"web/scores.json"`
	SQLiteDSN   string `env:"SQLITE_DSN" envDefault:"./data/roulette.db"`

	// Challenge words.
	WordAPIURL      string        `env:"WORD_API_URL" envDefault:"https://random-word-api.herokuapp.com/word?number=1&lang=fr"`
	WordAPITimeout  time.Duration `env:"WORD_API_TIMEOUT" envDefault:"2s"`
	WordAPIDisabled bool          `env:"WORD_API_DISABLED" envDefault:"false"`
	WordsFile       string        `env:"WORDS_FILE"`

	// Round rules.
	ChallengeEnabled bool          `env:"CHALLENGE_ENABLED" envDefault:"true"`
	ChallengeBudget  time.Duration `env:"CHALLENGE_BUDGET" envDefault:"5s"`
	RNGSeed          uint64        `env:"RNG_SEED" envDefault:"0"`

	// Scoreboard.
	Port string `env:"PORT" envDefault:"8000"`
}

// Load reads .env (if present) and then the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse reads the environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the binaries cannot run with.
func (c Config) Validate() error {
	var errs []error
	switch c.StoreDriver {
	case "json", "sqlite", "memory":
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER: unknown driver %q", c.StoreDriver))
	}
	if c.ChallengeBudget <= 0 {
		errs = append(errs, fmt.Errorf("CHALLENGE_BUDGET: must be positive, got %s", c.ChallengeBudget))
	}
	if c.WordAPITimeout <= 0 {
		errs = append(errs, fmt.Errorf("WORD_API_TIMEOUT: must be positive, got %s", c.WordAPITimeout))
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}
	return errors.Join(errs...)
}

// Level is the parsed LOG_LEVEL, info when unparsable.
func (c Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}
