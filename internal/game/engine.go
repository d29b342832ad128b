// internal/game/engine.go
//
// Turn engine for a two-player roulette round.
// Responsibilities:
//   - Build the chamber for a round and seat both players.
//   - Consume one slot per Fire and alternate turns.
//   - Run the typing challenge on a loaded slot (or eliminate directly when
//     challenges are disabled).
//   - Award the survivor's point and record the round in the ledger.
//
// Notes:
//   - The engine is driven by a single caller and holds no locks.
//   - The challenge timer is polled: callers invoke Tick regularly, or feed
//     keystrokes, and the clock decides timeouts.
//   - A round id (uuid) tags every event and log line of a round.
package game

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/roulette/internal/ledger"
	"github.com/robalobadob/roulette/internal/random"
	"github.com/robalobadob/roulette/internal/words"
)

// Option configures an Engine.
type Option func(*Engine)

// WithRand sets the randomness source for chamber shuffles.
func WithRand(r Rand) Option { return func(e *Engine) { e.rng = r } }

// WithClock sets the clock used to time challenges and stamp parties.
func WithClock(c Clock) Option { return func(e *Engine) { e.clock = c } }

// WithWords sets the challenge word source.
func WithWords(w WordSource) Option { return func(e *Engine) { e.words = w } }

// WithSaver persists the ledger after each recorded round.
func WithSaver(s Saver) Option { return func(e *Engine) { e.saver = s } }

// WithChallenge toggles the typing challenge and sets its budget.
// A non-positive budget keeps the default.
func WithChallenge(enabled bool, budget time.Duration) Option {
	return func(e *Engine) {
		e.challengeOn = enabled
		if budget > 0 {
			e.budget = budget
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger(l zerolog.Logger) Option { return func(e *Engine) { e.log = l } }

// WithListener subscribes fn to engine events.
func WithListener(fn Listener) Option {
	return func(e *Engine) { e.listeners = append(e.listeners, fn) }
}

// Shot is the immediate result of one trigger pull.
type Shot struct {
	Player  Player
	Slot    Slot
	Outcome Outcome
	Word    string // set when Outcome is OutcomeChallenge
}

// Engine is the round state machine.
type Engine struct {
	rng         Rand
	clock       Clock
	words       WordSource
	saver       Saver
	log         zerolog.Logger
	listeners   []Listener
	challengeOn bool
	budget      time.Duration

	led *ledger.Ledger

	phase     Phase
	roundID   string
	players   [2]Player
	active    int
	chamber   *Chamber
	tally     ledger.Scores
	challenge *challenge
}

// New returns an engine awaiting round setup that records into led.
// Challenges are enabled with DefaultChallengeBudget unless configured otherwise.
func New(led *ledger.Ledger, opts ...Option) *Engine {
	if led == nil {
		led = ledger.New()
	}
	e := &Engine{
		clock:       ClockFunc(time.Now),
		log:         log.Logger,
		challengeOn: true,
		budget:      DefaultChallengeBudget,
		led:         led,
		phase:       PhaseAwaitingSetup,
	}
	for _, o := range opts {
		o(e)
	}
	if e.rng == nil {
		e.rng = random.New(0)
	}
	if e.words == nil {
		e.words = words.NewSource(nil, words.WithRand(e.rng), words.WithLogger(e.log))
	}
	return e
}

// StartRound loads a chamber with ammo loaded slots and seats both players.
// Empty nicknames default to "Player 1" and "Player 2".
func (e *Engine) StartRound(ammo int, nick1, nick2 string) error {
	if e.phase != PhaseAwaitingSetup {
		return fmt.Errorf("%w: start round while %s", ErrWrongPhase, e.phase)
	}
	nick1, nick2 = nickname(nick1, 1), nickname(nick2, 2)
	if nick1 == nick2 {
		return fmt.Errorf("%w: both players are named %q", ErrInvalidConfiguration, nick1)
	}
	ch, err := Load(ammo, e.rng)
	if err != nil {
		return err
	}

	e.roundID = uuid.NewString()
	e.players = [2]Player{{Nickname: nick1, Seat: 1}, {Nickname: nick2, Seat: 2}}
	e.active = 0
	e.chamber = ch
	e.tally = ledger.NewScores(nick1, nick2)
	e.challenge = nil
	e.phase = PhaseInProgress

	e.log.Info().Str("round", e.roundID).Int("ammo", ammo).Int("slots", ch.Len()).
		Str("player1", nick1).Str("player2", nick2).Msg("round started")
	e.emit(Event{Kind: EventRoundStarted, Player: e.players[0], Ammo: ammo})
	return nil
}

func nickname(n string, seat int) string {
	if n = strings.TrimSpace(n); n != "" {
		return n
	}
	return fmt.Sprintf("Player %d", seat)
}

// Fire pulls the trigger for the active player.
func (e *Engine) Fire(ctx context.Context) (Shot, error) {
	if e.phase != PhaseInProgress {
		return Shot{}, fmt.Errorf("%w: fire while %s", ErrWrongPhase, e.phase)
	}
	slot, err := e.chamber.Fire()
	if err != nil {
		return Shot{}, err
	}
	shot := Shot{Player: e.players[e.active], Slot: slot}
	e.log.Debug().Str("round", e.roundID).Str("player", shot.Player.Nickname).
		Str("slot", string(slot)).Int("remaining", e.chamber.Len()).Msg("shot")

	switch {
	case slot == SlotEmpty:
		shot.Outcome = OutcomeSurvived
		e.survive()
	case !e.challengeOn:
		shot.Outcome = OutcomeEliminated
		e.eliminate()
	default:
		shot.Outcome = OutcomeChallenge
		shot.Word = e.startChallenge(ctx)
	}
	return shot, nil
}

func (e *Engine) startChallenge(ctx context.Context) string {
	word := e.words.Word(ctx)
	e.challenge = &challenge{word: word, started: e.clock.Now(), budget: e.budget}
	e.phase = PhaseChallenge
	e.log.Debug().Str("round", e.roundID).Str("word", word).Dur("budget", e.budget).Msg("challenge started")
	e.emit(Event{Kind: EventChallengeStarted, Player: e.players[e.active], Word: word, Budget: e.budget})
	return word
}

// Type appends r to the challenge input and evaluates.
// Runes other than letters, space and hyphen are ignored but still evaluated,
// so a late keystroke reports the timeout.
func (e *Engine) Type(r rune) (Verdict, error) {
	if e.phase != PhaseChallenge {
		return "", fmt.Errorf("%w: type while %s", ErrWrongPhase, e.phase)
	}
	if acceptRune(r) {
		e.challenge.input = append(e.challenge.input, r)
	}
	return e.resolve(), nil
}

// Backspace removes the last rune of the challenge input and evaluates.
func (e *Engine) Backspace() (Verdict, error) {
	if e.phase != PhaseChallenge {
		return "", fmt.Errorf("%w: backspace while %s", ErrWrongPhase, e.phase)
	}
	if n := len(e.challenge.input); n > 0 {
		e.challenge.input = e.challenge.input[:n-1]
	}
	return e.resolve(), nil
}

// ClearInput empties the challenge input and evaluates.
func (e *Engine) ClearInput() (Verdict, error) {
	if e.phase != PhaseChallenge {
		return "", fmt.Errorf("%w: clear while %s", ErrWrongPhase, e.phase)
	}
	e.challenge.input = e.challenge.input[:0]
	return e.resolve(), nil
}

// Submit replaces the challenge input with line and evaluates it once.
// Runes Type would ignore are dropped.
func (e *Engine) Submit(line string) (Verdict, error) {
	if e.phase != PhaseChallenge {
		return "", fmt.Errorf("%w: submit while %s", ErrWrongPhase, e.phase)
	}
	e.challenge.input = e.challenge.input[:0]
	for _, r := range line {
		if acceptRune(r) {
			e.challenge.input = append(e.challenge.input, r)
		}
	}
	return e.resolve(), nil
}

// Tick evaluates the challenge against the clock without new input.
func (e *Engine) Tick() (Verdict, error) {
	if e.phase != PhaseChallenge {
		return "", fmt.Errorf("%w: tick while %s", ErrWrongPhase, e.phase)
	}
	return e.resolve(), nil
}

func (e *Engine) resolve() Verdict {
	c := e.challenge
	v := c.evaluate(e.clock.Now())
	switch v {
	case VerdictSuccess:
		e.challenge = nil
		e.phase = PhaseInProgress
		e.emit(Event{Kind: EventChallengeSucceeded, Player: e.players[e.active], Word: c.word})
		e.passTurn()
	case VerdictTimeout:
		e.challenge = nil
		e.emit(Event{Kind: EventChallengeTimedOut, Player: e.players[e.active], Word: c.word})
		e.eliminate()
	}
	return v
}

// survive reports an empty chamber and passes the turn.
func (e *Engine) survive() {
	e.emit(Event{Kind: EventSurvived, Player: e.players[e.active]})
	e.passTurn()
}

// passTurn hands the turn over and ends the round as a draw on exhaustion.
func (e *Engine) passTurn() {
	e.active = 1 - e.active
	if e.chamber.Empty() {
		e.phase = PhaseDrawn
		e.log.Info().Str("round", e.roundID).Msg("chamber exhausted")
		e.emit(Event{Kind: EventChamberExhausted, Player: e.players[e.active]})
		return
	}
	e.emit(Event{Kind: EventTurnChanged, Player: e.players[e.active]})
}

// eliminate awards the other seat one point. The active pointer stays on
// the eliminated player.
func (e *Engine) eliminate() {
	loser, winner := e.players[e.active], e.players[1-e.active]
	e.tally.Add(winner.Nickname, 1)
	e.phase = PhaseWon
	e.log.Info().Str("round", e.roundID).Str("eliminated", loser.Nickname).Str("winner", winner.Nickname).Msg("player eliminated")
	e.emit(Event{Kind: EventEliminated, Player: loser, Winner: winner})
}

// EndRound merges the tally into the ledger when points were scored, appends
// the party record, and persists through the Saver. A save failure is
// returned but the round stays recorded in memory.
func (e *Engine) EndRound(ctx context.Context) (ledger.Party, error) {
	if e.phase != PhaseWon && e.phase != PhaseDrawn {
		return ledger.Party{}, fmt.Errorf("%w: end round while %s", ErrWrongPhase, e.phase)
	}
	if e.tally.Sum() > 0 {
		e.led.Merge(e.tally)
	}
	party := ledger.NewParty(e.clock.Now(), e.tally)
	e.led.AppendSession(party)

	id, outcome := e.roundID, e.phase
	e.emit(Event{Kind: EventRoundRecorded})
	e.reset()
	e.log.Info().Str("round", id).Str("outcome", string(outcome)).Int("parties", len(e.led.Parties)).Msg("round recorded")

	if e.saver != nil {
		if err := e.saver.Save(ctx, e.led); err != nil {
			e.log.Error().Err(err).Str("round", id).Msg("save ledger")
			return party, fmt.Errorf("record round %s: %w", id, err)
		}
	}
	return party, nil
}

// Abandon discards the current round, including an active challenge,
// without scoring or recording anything.
func (e *Engine) Abandon() {
	if e.phase == PhaseAwaitingSetup {
		return
	}
	e.log.Info().Str("round", e.roundID).Str("phase", string(e.phase)).Msg("round abandoned")
	e.emit(Event{Kind: EventRoundAbandoned, Player: e.players[e.active]})
	e.reset()
}

func (e *Engine) reset() {
	e.phase = PhaseAwaitingSetup
	e.roundID = ""
	e.chamber = nil
	e.challenge = nil
	e.tally = ledger.Scores{}
	e.active = 0
}

func (e *Engine) emit(ev Event) {
	ev.RoundID = e.roundID
	ev.At = e.clock.Now()
	if e.chamber != nil {
		ev.Remaining = e.chamber.Len()
	}
	for _, fn := range e.listeners {
		fn(ev)
	}
}

// ------------------------------- views -------------------------------------

// Phase reports the current state.
func (e *Engine) Phase() Phase { return e.phase }

// RoundID identifies the current round; empty while awaiting setup.
func (e *Engine) RoundID() string { return e.roundID }

// Players returns both seats of the current round.
func (e *Engine) Players() [2]Player { return e.players }

// Active returns the player whose turn it is (or who was eliminated).
func (e *Engine) Active() Player { return e.players[e.active] }

// Tally returns a copy of the current round's points.
func (e *Engine) Tally() ledger.Scores { return e.tally.Clone() }

// Remaining reports the slots left in the chamber.
func (e *Engine) Remaining() int {
	if e.chamber == nil {
		return 0
	}
	return e.chamber.Len()
}

// Challenge returns the active challenge, if any.
func (e *Engine) Challenge() (ChallengeView, bool) {
	if e.challenge == nil {
		return ChallengeView{}, false
	}
	return e.challenge.view(e.clock.Now()), true
}

// Ledger returns the ledger the engine records into.
func (e *Engine) Ledger() *ledger.Ledger { return e.led }
