// internal/words/words.go
//
// Challenge word selection.
//
// Responsibilities:
//   - Ask the remote Provider for a word under a timeout.
//   - Fall back to the offline list whenever the provider is missing or fails.
//   - Load the offline list from WORDS_FILE or the embedded French default.
//
// Word never fails: a challenge must not block or error because of the network.

package words

import (
	"bufio"
	"context"
	"os"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/roulette/assets"
	"github.com/robalobadob/roulette/internal/random"
)

// DefaultTimeout bounds a single provider call.
const DefaultTimeout = 2 * time.Second

// lastResort keeps Source usable even if the embedded list is unreadable.
const lastResort = "roulette"

var (
	fallbackOnce sync.Once
	fallbackList []string
)

// Fallback returns the embedded offline word list (lowercase, one word each).
func Fallback() []string {
	fallbackOnce.Do(func() {
		list, err := assets.FallbackWords()
		if err != nil {
			log.Warn().Err(err).Msg("read embedded fallback words")
		}
		fallbackList = normalize(list)
		if len(fallbackList) == 0 {
			fallbackList = []string{lastResort}
		}
	})
	return fallbackList
}

// ReadWordFile loads one word per line from path.
// Blank lines, '#' comments and multi-word lines are skipped.
func ReadWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return normalize(lines), sc.Err()
}

// normalize lowercases, trims and keeps single-word entries.
func normalize(lines []string) []string {
	var out []string
	for _, line := range lines {
		w := strings.ToLower(strings.TrimSpace(line))
		if w == "" || strings.HasPrefix(w, "#") || strings.ContainsFunc(w, unicode.IsSpace) {
			continue
		}
		out = append(out, w)
	}
	return out
}

// Rand picks fallback entries. *math/rand/v2.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

// Source hands out challenge words: remote when possible, offline otherwise.
type Source struct {
	provider Provider
	fallback []string
	rng      Rand
	timeout  time.Duration
	log      zerolog.Logger
}

// Option configures a Source.
type Option func(*Source)

// WithRand sets the randomness source for fallback picks; share it with the
// chamber shuffle so a seeded session replays identically.
func WithRand(r Rand) Option { return func(s *Source) { s.rng = r } }

// WithFallback replaces the offline list. An empty list keeps the default.
func WithFallback(list []string) Option {
	return func(s *Source) {
		if len(list) > 0 {
			s.fallback = list
		}
	}
}

// WithTimeout bounds each provider call.
func WithTimeout(d time.Duration) Option {
	return func(s *Source) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithLogger sets the logger used to report provider failures.
func WithLogger(l zerolog.Logger) Option { return func(s *Source) { s.log = l } }

// NewSource returns a Source backed by p. A nil p means offline play.
func NewSource(p Provider, opts ...Option) *Source {
	s := &Source{
		provider: p,
		fallback: Fallback(),
		timeout:  DefaultTimeout,
		log:      log.Logger,
	}
	for _, o := range opts {
		o(s)
	}
	if s.rng == nil {
		s.rng = random.New(0)
	}
	return s
}

// Word returns a challenge word. It never blocks longer than the timeout,
// even when the provider ignores its context.
func (s *Source) Word(ctx context.Context) string {
	if s.provider != nil {
		w, err := s.fetch(ctx)
		if err == nil {
			return w
		}
		s.log.Warn().Err(err).Msg("word provider failed, using fallback list")
	}
	return s.fallback[s.rng.IntN(len(s.fallback))]
}

func (s *Source) fetch(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	type result struct {
		word string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		w, err := s.provider.FetchWord(ctx)
		done <- result{w, err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		if r.err != nil {
			return "", r.err
		}
		if w := strings.TrimSpace(r.word); w != "" {
			return w, nil
		}
		return "", ErrEmptyWord
	}
}
