// internal/console/console.go
//
// Line-oriented terminal front end for the roulette engine.
// Responsibilities:
//   - Ask for nicknames and the loaded-chamber count, re-prompting on bad input.
//   - Pull the trigger on Enter, run typing challenges against the clock.
//   - Print the event log (timestamped) and the rankings at start and end.
//
// Notes:
//   - Input is read on a separate goroutine so a challenge can wait on
//     either a submitted line or its deadline.
//   - Closing the input at a prompt abandons the current round; during a
//     challenge the timer keeps running and decides the outcome.

package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/roulette/internal/game"
	"github.com/robalobadob/roulette/internal/ledger"
)

// errClosed reports that the input stream ended.
var errClosed = errors.New("console: input closed")

// Option configures a Console.
type Option func(*Console)

// WithLogger sets the logger for rounds abandoned by closed input.
func WithLogger(l zerolog.Logger) Option { return func(c *Console) { c.log = l } }

// Console reads player input from in and writes everything to out.
type Console struct {
	in  io.Reader
	out io.Writer
	log zerolog.Logger

	lines <-chan string
}

// New returns a console over in and out. Pass c.Event to game.WithListener
// so engine events show up in the log.
func New(in io.Reader, out io.Writer, opts ...Option) *Console {
	c := &Console{in: in, out: out, log: log.Logger}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Run plays rounds on eng until the players decline another one, the input
// closes, or ctx is cancelled. Only cancellation is reported as an error.
func (c *Console) Run(ctx context.Context, eng *game.Engine) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	c.lines = readLines(ctx, c.in)

	c.printf("Russian roulette, two players, one revolver.\n")
	c.printRankings(eng.Ledger())

	err := c.session(ctx, eng)
	if eng.Phase() == game.PhaseInProgress || eng.Phase() == game.PhaseChallenge {
		c.log.Info().Str("round", eng.RoundID()).Msg("input closed mid-round, abandoning")
		eng.Abandon()
	}

	c.printRankings(eng.Ledger())
	if errors.Is(err, errClosed) {
		return nil
	}
	return err
}

func (c *Console) session(ctx context.Context, eng *game.Engine) error {
	for {
		if err := c.setup(ctx, eng); err != nil {
			return err
		}
		if err := c.play(ctx, eng); err != nil {
			return err
		}
		c.record(ctx, eng)

		again, err := c.ask(ctx, "Play again? (y/n): ")
		if err != nil {
			return err
		}
		if a := strings.ToLower(again); a != "y" && a != "yes" && a != "o" && a != "oui" {
			c.printf("Bye.\n")
			return nil
		}
	}
}

// setup collects nicknames and ammo until StartRound accepts them.
func (c *Console) setup(ctx context.Context, eng *game.Engine) error {
	for {
		nick1, err := c.ask(ctx, "Player 1 nickname (empty for \"Player 1\"): ")
		if err != nil {
			return err
		}
		nick2, err := c.ask(ctx, "Player 2 nickname (empty for \"Player 2\"): ")
		if err != nil {
			return err
		}
		ammo, err := c.askAmmo(ctx)
		if err != nil {
			return err
		}
		err = eng.StartRound(ammo, nick1, nick2)
		if err == nil {
			return nil
		}
		if !errors.Is(err, game.ErrInvalidConfiguration) {
			return err
		}
		c.printf("Cannot start: %v\n", err)
	}
}

func (c *Console) askAmmo(ctx context.Context) (int, error) {
	for {
		s, err := c.ask(ctx, "Number of loaded chambers (6 per cylinder): ")
		if err != nil {
			return 0, err
		}
		n, convErr := strconv.Atoi(s)
		if convErr == nil && n >= 1 {
			return n, nil
		}
		c.printf("Please enter a whole number of at least 1.\n")
	}
}

// play fires until the round is won or drawn.
func (c *Console) play(ctx context.Context, eng *game.Engine) error {
	for {
		switch eng.Phase() {
		case game.PhaseWon, game.PhaseDrawn:
			return nil
		case game.PhaseChallenge:
			if err := c.challenge(ctx, eng); err != nil {
				return err
			}
			continue
		}

		p := eng.Active()
		if _, err := c.ask(ctx, fmt.Sprintf("%s, press Enter to pull the trigger (%d left)... ", p.Nickname, eng.Remaining())); err != nil {
			return err
		}
		if _, err := eng.Fire(ctx); err != nil {
			return err
		}
	}
}

// challenge waits for typed attempts until the engine decides the verdict.
func (c *Console) challenge(ctx context.Context, eng *game.Engine) error {
	view, ok := eng.Challenge()
	if !ok {
		return nil
	}
	c.printf("Type %q and press Enter, you have %s!\n", view.Word, view.Budget.Round(time.Millisecond))

	timer := time.NewTimer(view.Remaining)
	defer timer.Stop()
	lines := c.lines

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case line, open := <-lines:
			if !open {
				lines = nil
				continue
			}
			v, err := eng.Submit(strings.TrimSpace(line))
			if err != nil {
				return err
			}
			if v != game.VerdictPending {
				return nil
			}
			if view, ok := eng.Challenge(); ok {
				c.printf("Not quite, %s left.\n", view.Remaining.Round(100*time.Millisecond))
			}

		case <-timer.C:
			v, err := eng.Tick()
			if err != nil {
				return err
			}
			if v != game.VerdictPending {
				return nil
			}
			view, _ := eng.Challenge()
			timer.Reset(max(view.Remaining, time.Millisecond))
		}
	}
}

// record closes the round in the ledger and reports its result.
func (c *Console) record(ctx context.Context, eng *game.Engine) {
	party, err := eng.EndRound(ctx)
	if err != nil {
		c.printf("Warning: scores could not be saved (%v).\n", err)
	}
	parts := make([]string, 0, party.Scores.Len())
	for _, p := range party.Scores.Players() {
		parts = append(parts, fmt.Sprintf("%s %d", ledger.DisplayName(p), party.Scores.Points(p)))
	}
	c.printf("Round of %s: %s\n", party.Date, strings.Join(parts, " - "))
}

// ask prints prompt and returns the next trimmed line.
func (c *Console) ask(ctx context.Context, prompt string) (string, error) {
	c.printf("%s", prompt)
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, open := <-c.lines:
		if !open {
			c.printf("\n")
			return "", errClosed
		}
		return strings.TrimSpace(line), nil
	}
}

func (c *Console) printRankings(l *ledger.Ledger) {
	standings := l.Rankings()
	if len(standings) == 0 {
		c.printf("No rounds recorded yet.\n")
		return
	}
	c.printf("Rankings:\n")
	for i, s := range standings {
		c.printf("  %2d. %-20s %d\n", i+1, ledger.DisplayName(s.Player), s.Points)
	}
}

func (c *Console) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.out, format, args...)
}

// readLines scans r on a goroutine. The channel closes at EOF.
func readLines(ctx context.Context, r io.Reader) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case ch <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}
