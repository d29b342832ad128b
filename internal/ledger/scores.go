// internal/ledger/scores.go
//
// Scores is the insertion-ordered player → points mapping used both for
// cumulative totals and for per-round session snapshots.
//
// Order matters for two reasons:
//   - Rankings break ties by first appearance.
//   - A party snapshot lists seat 1 before seat 2, and the score viewer
//     reads the first key as "player 1".
//
// The zero value is an empty, usable mapping.

package ledger

import (
	"bytes"
	"encoding/json"
)

// Scores maps a player identifier (a nickname, or a stringified seat
// number for legacy data) to an integer point count.
type Scores struct {
	order  []string
	points map[string]int
}

// NewScores returns a mapping holding each player at zero points, in order.
func NewScores(players ...string) Scores {
	var s Scores
	for _, p := range players {
		s.Add(p, 0)
	}
	return s
}

// Add adds delta to player's points, creating the entry if absent.
func (s *Scores) Add(player string, delta int) {
	if s.points == nil {
		s.points = make(map[string]int)
	}
	if _, ok := s.points[player]; !ok {
		s.order = append(s.order, player)
	}
	s.points[player] += delta
}

// Set overwrites player's points, creating the entry if absent.
func (s *Scores) Set(player string, points int) {
	s.Add(player, 0)
	s.points[player] = points
}

// Get returns player's points and whether the entry exists.
func (s Scores) Get(player string) (int, bool) {
	v, ok := s.points[player]
	return v, ok
}

// Points returns player's points, zero when absent.
func (s Scores) Points(player string) int { return s.points[player] }

// Players returns the identifiers in insertion order.
func (s Scores) Players() []string {
	return append([]string(nil), s.order...)
}

// Len reports the number of entries.
func (s Scores) Len() int { return len(s.order) }

// Sum returns the total of all values.
func (s Scores) Sum() int {
	total := 0
	for _, v := range s.points {
		total += v
	}
	return total
}

// Clone returns a deep copy.
func (s Scores) Clone() Scores {
	if s.points == nil {
		return Scores{}
	}
	c := Scores{
		order:  append([]string(nil), s.order...),
		points: make(map[string]int, len(s.points)),
	}
	for k, v := range s.points {
		c.points[k] = v
	}
	return c
}

// Equal reports whether both mappings hold the same entries in the same order.
func (s Scores) Equal(o Scores) bool {
	if len(s.order) != len(o.order) {
		return false
	}
	for i, p := range s.order {
		if o.order[i] != p || o.points[p] != s.points[p] {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the mapping as a JSON object with keys in insertion order.
func (s Scores) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range s.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(p)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(s.points[p])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
