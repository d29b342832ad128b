// internal/console/events.go
//
// Event log: one timestamped line per engine transition.

package console

import (
	"fmt"
	"time"

	"github.com/robalobadob/roulette/internal/game"
)

// TimeLayout stamps event log lines.
const TimeLayout = "15:04:05"

// Event prints ev as an event log line. It satisfies game.Listener.
func (c *Console) Event(ev game.Event) {
	msg := describe(ev)
	if msg == "" {
		return
	}
	c.printf("[%s] %s\n", ev.At.Format(TimeLayout), msg)
}

func describe(ev game.Event) string {
	switch ev.Kind {
	case game.EventRoundStarted:
		return fmt.Sprintf("New round: %d loaded, %d chambers to go.", ev.Ammo, ev.Remaining)
	case game.EventSurvived:
		return fmt.Sprintf("Click. %s survives.", ev.Player.Nickname)
	case game.EventTurnChanged:
		return fmt.Sprintf("%s's turn.", ev.Player.Nickname)
	case game.EventChallengeStarted:
		return fmt.Sprintf("Loaded! %s has %s to type %q.", ev.Player.Nickname, ev.Budget.Round(time.Millisecond), ev.Word)
	case game.EventChallengeSucceeded:
		return fmt.Sprintf("%s typed %q in time and dodges the bullet.", ev.Player.Nickname, ev.Word)
	case game.EventChallengeTimedOut:
		return fmt.Sprintf("Too slow, %s.", ev.Player.Nickname)
	case game.EventEliminated:
		return fmt.Sprintf("BANG! %s is out, %s wins the round.", ev.Player.Nickname, ev.Winner.Nickname)
	case game.EventChamberExhausted:
		return "The chamber is empty. Nobody scores."
	case game.EventRoundRecorded:
		return "Round recorded."
	case game.EventRoundAbandoned:
		return "Round abandoned."
	default:
		return ""
	}
}
