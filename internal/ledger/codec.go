// internal/ledger/codec.go
//
// JSON codec for the persisted ledger (scores.json).
//
// Shape:
//
//	{
//	    "parties": [ {"date": "2025-01-02 20:15:00", "scores": {"Alice": 0, "Bob": 1}} ],
//	    "scores":  {"1": 3, "2": 1, "Alice": 4, "Bob": 2}
//	}
//
// encoding/json cannot decode an object into an ordered mapping, so decoding
// walks the document with gjson, whose ForEach visits keys in document order.

package ledger

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// ErrCorrupt reports persisted data that is not a valid ledger document.
var ErrCorrupt = errors.New("ledger: corrupt data")

// Encode renders l in the persisted format, indented by four spaces.
func Encode(l *Ledger) ([]byte, error) {
	doc := *l
	if doc.Parties == nil {
		doc.Parties = []Party{}
	}
	return json.MarshalIndent(doc, "", "    ")
}

// Decode parses a persisted ledger.
// Missing top-level fields decode as empty; anything malformed is ErrCorrupt.
func Decode(data []byte) (*Ledger, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid json", ErrCorrupt)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: root is not an object", ErrCorrupt)
	}

	l := New()
	if s := root.Get("scores"); s.Exists() {
		sc, err := decodeScores(s)
		if err != nil {
			return nil, fmt.Errorf("scores: %w", err)
		}
		l.Scores = sc
	}

	p := root.Get("parties")
	if !p.Exists() {
		return l, nil
	}
	if !p.IsArray() {
		return nil, fmt.Errorf("%w: parties is not an array", ErrCorrupt)
	}
	var perr error
	i := 0
	p.ForEach(func(_, v gjson.Result) bool {
		party, err := decodeParty(v)
		if err != nil {
			perr = fmt.Errorf("parties[%d]: %w", i, err)
			return false
		}
		l.Parties = append(l.Parties, party)
		i++
		return true
	})
	if perr != nil {
		return nil, perr
	}
	return l, nil
}

func decodeParty(v gjson.Result) (Party, error) {
	if !v.IsObject() {
		return Party{}, fmt.Errorf("%w: party is not an object", ErrCorrupt)
	}
	date := v.Get("date")
	if date.Type != gjson.String {
		return Party{}, fmt.Errorf("%w: date is not a string", ErrCorrupt)
	}
	party := Party{Date: date.String()}
	if s := v.Get("scores"); s.Exists() {
		sc, err := decodeScores(s)
		if err != nil {
			return Party{}, err
		}
		party.Scores = sc
	}
	return party, nil
}

func decodeScores(r gjson.Result) (Scores, error) {
	if !r.IsObject() {
		return Scores{}, fmt.Errorf("%w: scores is not an object", ErrCorrupt)
	}
	var (
		s   Scores
		err error
	)
	r.ForEach(func(k, v gjson.Result) bool {
		if v.Type != gjson.Number || float64(v.Int()) != v.Num {
			err = fmt.Errorf("%w: %q is not an integer", ErrCorrupt, k.String())
			return false
		}
		s.Set(k.String(), int(v.Int()))
		return true
	})
	return s, err
}
