// internal/game/challenge.go
//
// The typing challenge offered when a loaded slot comes up.
// The at-risk player must type the target word before the budget runs out.
//
// Matching is whole-word: both sides are NFC-normalised and Unicode
// case-folded, so "Bibliothèque" typed with a decomposed è still matches.

package game

import (
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// DefaultChallengeBudget is the time a player has to type the word.
const DefaultChallengeBudget = 5 * time.Second

// Evaluate decides a challenge at elapsed time.
// A match wins even once the budget is spent; otherwise the budget decides.
func Evaluate(target, input string, elapsed, budget time.Duration) Verdict {
	switch {
	case Matches(target, input):
		return VerdictSuccess
	case elapsed >= budget:
		return VerdictTimeout
	default:
		return VerdictPending
	}
}

// Matches reports whether input is the target word, ignoring case.
func Matches(target, input string) bool {
	return fold(target) == fold(input)
}

func fold(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}

// acceptRune filters challenge keystrokes: letters, space and hyphen.
func acceptRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.Is(unicode.Mn, r) || r == ' ' || r == '-'
}

// challenge is the transient state of an active typing challenge.
type challenge struct {
	word    string
	input   []rune
	started time.Time
	budget  time.Duration
}

func (c *challenge) elapsed(now time.Time) time.Duration { return now.Sub(c.started) }

func (c *challenge) evaluate(now time.Time) Verdict {
	return Evaluate(c.word, string(c.input), c.elapsed(now), c.budget)
}

// ChallengeView is a read-only snapshot of the active challenge.
type ChallengeView struct {
	Word      string
	Input     string
	Budget    time.Duration
	Remaining time.Duration
}

func (c *challenge) view(now time.Time) ChallengeView {
	return ChallengeView{
		Word:      c.word,
		Input:     string(c.input),
		Budget:    c.budget,
		Remaining: max(c.budget-c.elapsed(now), 0),
	}
}
