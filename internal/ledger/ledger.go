// internal/ledger/ledger.go
//
// Durable cross-session score state.
// A Ledger has two parts:
//   - Scores:  cumulative points per player across every recorded round.
//   - Parties: append-only round history, most recent last.
//
// The ledger is a plain value owned by the caller; loading and saving it
// is the job of the store package.

package ledger

import (
	"sort"
	"time"
)

// DateLayout is the human-readable timestamp stored on each party.
const DateLayout = "2006-01-02 15:04:05"

// Party is one recorded round: when it ended and the per-round point deltas.
type Party struct {
	Date   string `json:"date"`
	Scores Scores `json:"scores"`
}

// NewParty stamps a snapshot of tally with t.
func NewParty(t time.Time, tally Scores) Party {
	return Party{Date: t.Format(DateLayout), Scores: tally.Clone()}
}

// Ledger holds cumulative totals and the round history.
type Ledger struct {
	Parties []Party `json:"parties"`
	Scores  Scores  `json:"scores"`
}

// New returns an empty ledger.
func New() *Ledger { return &Ledger{} }

// Standing is one row of the general ranking.
type Standing struct {
	Player string `json:"player"`
	Points int    `json:"points"`
}

// Merge adds every delta of tally into the cumulative totals.
// Calling it twice with the same tally counts it twice.
func (l *Ledger) Merge(tally Scores) {
	for _, p := range tally.order {
		l.Scores.Add(p, tally.points[p])
	}
}

// AppendSession appends a copy of p to the history.
func (l *Ledger) AppendSession(p Party) {
	p.Scores = p.Scores.Clone()
	l.Parties = append(l.Parties, p)
}

// Rankings returns totals sorted by points descending.
// Ties keep the order in which players first appeared.
func (l *Ledger) Rankings() []Standing {
	out := make([]Standing, 0, l.Scores.Len())
	for _, p := range l.Scores.order {
		out = append(out, Standing{Player: p, Points: l.Scores.points[p]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Points > out[j].Points })
	return out
}

// Recent returns up to n parties, most recent first.
func (l *Ledger) Recent(n int) []Party {
	if n <= 0 || n > len(l.Parties) {
		n = len(l.Parties)
	}
	out := make([]Party, 0, n)
	for i := len(l.Parties) - 1; i >= len(l.Parties)-n; i-- {
		out = append(out, l.Parties[i])
	}
	return out
}

// Clone returns a deep copy.
func (l *Ledger) Clone() *Ledger {
	c := &Ledger{Scores: l.Scores.Clone()}
	if l.Parties != nil {
		c.Parties = make([]Party, len(l.Parties))
		for i, p := range l.Parties {
			c.Parties[i] = Party{Date: p.Date, Scores: p.Scores.Clone()}
		}
	}
	return c
}

// Equal reports whether both ledgers hold the same totals and history.
func (l *Ledger) Equal(o *Ledger) bool {
	if !l.Scores.Equal(o.Scores) || len(l.Parties) != len(o.Parties) {
		return false
	}
	for i := range l.Parties {
		if l.Parties[i].Date != o.Parties[i].Date || !l.Parties[i].Scores.Equal(o.Parties[i].Scores) {
			return false
		}
	}
	return true
}

// DisplayName renders a player identifier for humans.
// Legacy seat numbers ("1", "2") become "Player 1", "Player 2".
func DisplayName(player string) string {
	switch player {
	case "1", "2":
		return "Player " + player
	}
	return player
}
