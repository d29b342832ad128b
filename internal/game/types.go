// internal/game/types.go
//
// Core type definitions for the roulette engine.
// Defines:
//   - Slot:    one chamber position (loaded/empty).
//   - Phase:   the round state machine states.
//   - Verdict: the result of evaluating a typing challenge.
//   - Player:  a nickname bound to a seat.
//   - Rand, Clock, WordSource, Saver: the collaborators the engine is given.
//   - Sentinel errors.

package game

import (
	"context"
	"errors"
	"time"

	"github.com/robalobadob/roulette/internal/ledger"
)

// Slot is one position of the cylinder.
type Slot string

const (
	SlotEmpty  Slot = "empty"
	SlotLoaded Slot = "loaded"
)

// Phase is the state of the round state machine.
//
//	awaiting_setup → in_progress ⇄ challenge
//	in_progress    → won | drawn
//	challenge      → won
//	won | drawn    → awaiting_setup (EndRound)
type Phase string

const (
	PhaseAwaitingSetup Phase = "awaiting_setup"
	PhaseInProgress    Phase = "in_progress"
	PhaseChallenge     Phase = "challenge"
	PhaseWon           Phase = "won"
	PhaseDrawn         Phase = "drawn"
)

// Verdict is the outcome of evaluating a challenge at a point in time.
type Verdict string

const (
	VerdictPending Verdict = "pending"
	VerdictSuccess Verdict = "success"
	VerdictTimeout Verdict = "timeout"
)

// Outcome summarises what a single trigger pull led to.
type Outcome string

const (
	OutcomeSurvived   Outcome = "survived"   // empty chamber
	OutcomeChallenge  Outcome = "challenge"  // loaded chamber, typing challenge started
	OutcomeEliminated Outcome = "eliminated" // loaded chamber, challenges disabled
)

// Player is a nickname seated at 1 or 2.
type Player struct {
	Nickname string
	Seat     int
}

// Rand is the randomness source. *math/rand/v2.Rand satisfies it.
type Rand interface {
	IntN(n int) int
	Shuffle(n int, swap func(i, j int))
}

// Clock reports the current time; the challenge timer is measured with it.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// WordSource hands out challenge words. It must always return a word.
type WordSource interface {
	Word(ctx context.Context) string
}

//go:generate go tool mockgen -destination=./mocks/saver_mock.go -package=mocks . Saver

// Saver persists the ledger after a round is recorded.
type Saver interface {
	Save(ctx context.Context, l *ledger.Ledger) error
}

var (
	ErrInvalidConfiguration = errors.New("game: invalid configuration")
	ErrEmptyChamber         = errors.New("game: chamber is empty")
	ErrWrongPhase           = errors.New("game: operation not valid in current phase")
)
