// internal/game/events.go
//
// Events the engine emits as it transitions. Presentation (console lines,
// sounds, animations) reacts to these; the engine never does it inline.

package game

import "time"

// EventKind names an engine transition.
type EventKind string

const (
	EventRoundStarted       EventKind = "round_started"
	EventSurvived           EventKind = "survived"
	EventTurnChanged        EventKind = "turn_changed"
	EventChallengeStarted   EventKind = "challenge_started"
	EventChallengeSucceeded EventKind = "challenge_succeeded"
	EventChallengeTimedOut  EventKind = "challenge_timed_out"
	EventEliminated         EventKind = "eliminated"
	EventChamberExhausted   EventKind = "chamber_exhausted"
	EventRoundRecorded      EventKind = "round_recorded"
	EventRoundAbandoned     EventKind = "round_abandoned"
)

// Event is delivered synchronously to every listener.
type Event struct {
	Kind    EventKind
	RoundID string
	At      time.Time

	// Player is the subject: the shooter, the player at risk, the eliminated
	// player, or the player whose turn it now is.
	Player Player
	// Winner is set on EventEliminated.
	Winner Player

	Word      string        // challenge events
	Budget    time.Duration // EventChallengeStarted
	Ammo      int           // EventRoundStarted
	Remaining int           // slots left in the chamber
}

// Listener receives engine events.
type Listener func(Event)
