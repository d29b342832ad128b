package console

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/robalobadob/roulette/internal/game"
	"github.com/robalobadob/roulette/internal/ledger"
	"github.com/robalobadob/roulette/internal/random"
	"github.com/robalobadob/roulette/internal/store"
)

type staticWords string

func (w staticWords) Word(context.Context) string { return string(w) }

func newTestConsole(t *testing.T, input string, budget time.Duration) (*Console, *game.Engine, *store.MemoryStore, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	con := New(strings.NewReader(input), out, WithLogger(zerolog.Nop()))
	mem := store.NewMemoryStore()
	eng := game.New(ledger.New(),
		game.WithRand(random.New(3)),
		game.WithWords(staticWords("chat")),
		game.WithSaver(mem),
		game.WithChallenge(true, budget),
		game.WithLogger(zerolog.Nop()),
		game.WithListener(con.Event),
	)
	return con, eng, mem, out
}

// Six loaded slots: Alice types the word in time, Bob's input closes
// and his challenge runs out.
func TestRunChallengeSuccessThenTimeout(t *testing.T) {
	con, eng, mem, out := newTestConsole(t, "alice\nbob\n6\n\nchat\n\n", 300*time.Millisecond)

	if err := con.Run(context.Background(), eng); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	text := out.String()
	for _, want := range []string{
		"No rounds recorded yet.",
		"alice typed \"chat\" in time",
		"Too slow, bob.",
		"BANG! bob is out, alice wins the round.",
		"Round of ",
		"alice 1 - bob 0",
		"Rankings:",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}

	saved := mem.Load(context.Background())
	if saved.Scores.Points("alice") != 1 || len(saved.Parties) != 1 {
		t.Fatalf("unexpected saved ledger: scores=%v parties=%d", saved.Scores.Players(), len(saved.Parties))
	}
	if eng.Phase() != game.PhaseAwaitingSetup {
		t.Fatalf("engine left in %s", eng.Phase())
	}
}

// A line that only starts with the word is a miss; the clock then runs out.
func TestRunChallengeRejectsLongerWord(t *testing.T) {
	con, eng, mem, out := newTestConsole(t, "alice\nbob\n6\n\nchateau\n", 300*time.Millisecond)

	if err := con.Run(context.Background(), eng); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	text := out.String()
	if strings.Contains(text, "in time and dodges the bullet") {
		t.Fatalf("longer word accepted:\n%s", text)
	}
	for _, want := range []string{"Not quite,", "Too slow, alice.", "alice 0 - bob 1"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
	if saved := mem.Load(context.Background()); saved.Scores.Points("bob") != 1 {
		t.Fatalf("unexpected saved scores: %v", saved.Scores.Players())
	}
}

func TestRunRepromptsInvalidSetup(t *testing.T) {
	// Duplicate nicknames restart the setup; bad ammo re-asks only the count.
	// Closing the input at the trigger prompt abandons the round.
	con, eng, mem, out := newTestConsole(t, "same\nsame\n1\nalice\nbob\nzero\n0\n6\n", time.Second)

	if err := con.Run(context.Background(), eng); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	text := out.String()
	if !strings.Contains(text, "Cannot start:") {
		t.Errorf("duplicate nicknames not reported:\n%s", text)
	}
	if n := strings.Count(text, "Please enter a whole number of at least 1."); n != 2 {
		t.Errorf("expected 2 ammo re-prompts, got %d:\n%s", n, text)
	}
	if !strings.Contains(text, "alice, press Enter to pull the trigger (6 left)") {
		t.Errorf("trigger prompt missing:\n%s", text)
	}
	if !strings.Contains(text, "Round abandoned.") {
		t.Errorf("abandon not logged:\n%s", text)
	}
	if got := mem.Load(context.Background()); len(got.Parties) != 0 {
		t.Fatalf("abandoned round was recorded: %+v", got.Parties)
	}
	if eng.Phase() != game.PhaseAwaitingSetup {
		t.Fatalf("engine left in %s", eng.Phase())
	}
}

func TestRunPlaysAgainWithDefaultNicknames(t *testing.T) {
	// Challenges disabled: each first pull on a full cylinder eliminates.
	out := &bytes.Buffer{}
	con := New(strings.NewReader("\n\n6\n\ny\nalice\nbob\n6\n\nn\n"), out, WithLogger(zerolog.Nop()))
	eng := game.New(ledger.New(),
		game.WithRand(random.New(3)),
		game.WithChallenge(false, 0),
		game.WithLogger(zerolog.Nop()),
		game.WithListener(con.Event),
	)

	if err := con.Run(context.Background(), eng); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	rank := eng.Ledger().Rankings()
	if len(rank) != 4 {
		t.Fatalf("expected 4 ranked players, got %+v", rank)
	}
	if rank[0].Player != "Player 2" || rank[0].Points != 1 || rank[1].Player != "bob" || rank[1].Points != 1 {
		t.Fatalf("unexpected rankings: %+v", rank)
	}
	if !strings.Contains(out.String(), "Bye.") {
		t.Errorf("missing goodbye:\n%s", out.String())
	}
}

func TestRunCancelled(t *testing.T) {
	con, eng, _, _ := newTestConsole(t, "", time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Either the closed input or the cancellation may win the race.
	if err := con.Run(ctx, eng); err != nil && !errors.Is(err, context.Canceled) {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEventLines(t *testing.T) {
	out := &bytes.Buffer{}
	con := New(strings.NewReader(""), out)
	at := time.Date(2025, 6, 1, 20, 4, 5, 0, time.Local)
	alice, bob := game.Player{Nickname: "alice", Seat: 1}, game.Player{Nickname: "bob", Seat: 2}

	con.Event(game.Event{Kind: game.EventEliminated, At: at, Player: bob, Winner: alice})
	con.Event(game.Event{Kind: game.EventChamberExhausted, At: at})
	con.Event(game.Event{Kind: "unknown", At: at})

	want := "[20:04:05] BANG! bob is out, alice wins the round.\n" +
		"[20:04:05] The chamber is empty. Nobody scores.\n"
	if out.String() != want {
		t.Fatalf("got %q want %q", out.String(), want)
	}
}
