// main.go
//
// Console roulette game.
// Startup order: config, logging, ledger store, word source, engine, console.
// Rounds are persisted after each one; Ctrl-C abandons the round in play.

package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/roulette/internal/config"
	"github.com/robalobadob/roulette/internal/console"
	"github.com/robalobadob/roulette/internal/game"
	"github.com/robalobadob/roulette/internal/random"
	"github.com/robalobadob/roulette/internal/store"
	"github.com/robalobadob/roulette/internal/words"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	zerolog.SetGlobalLevel(cfg.Level())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(cfg.StoreDriver, cfg.ScoresFile, cfg.SQLiteDSN)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("open ledger store")
	}
	if c, ok := st.(io.Closer); ok {
		defer c.Close()
	}
	led := st.Load(ctx)

	rng := random.New(cfg.RNGSeed)
	con := console.New(os.Stdin, os.Stdout)
	eng := game.New(led,
		game.WithRand(rng),
		game.WithWords(wordSource(cfg, rng)),
		game.WithSaver(st),
		game.WithChallenge(cfg.ChallengeEnabled, cfg.ChallengeBudget),
		game.WithListener(con.Event),
	)

	log.Info().Str("store", cfg.StoreDriver).Bool("challenge", cfg.ChallengeEnabled).
		Dur("budget", cfg.ChallengeBudget).Msg("starting roulette")
	if err := con.Run(ctx, eng); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("console exited")
		os.Exit(1)
	}
}

// wordSource builds the challenge word source: the HTTP provider unless
// disabled, backed by WORDS_FILE or the embedded list.
func wordSource(cfg config.Config, rng words.Rand) *words.Source {
	opts := []words.Option{words.WithRand(rng), words.WithTimeout(cfg.WordAPITimeout)}
	if cfg.WordsFile != "" {
		list, err := words.ReadWordFile(cfg.WordsFile)
		if err != nil {
			log.Warn().Err(err).Str("path", cfg.WordsFile).Msg("read word file, using embedded list")
		}
		opts = append(opts, words.WithFallback(list))
	}

	var p words.Provider
	if !cfg.WordAPIDisabled && cfg.WordAPIURL != "" {
		p = words.NewHTTPProvider(cfg.WordAPIURL, cfg.WordAPITimeout)
	}
	return words.NewSource(p, opts...)
}
