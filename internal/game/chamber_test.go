package game

import (
	"errors"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/robalobadob/roulette/internal/random"
)

// swapRand performs a fixed list of swaps instead of shuffling; with no
// swaps the layout stays empties-first, loaded-last.
type swapRand struct {
	swaps [][2]int
}

func (r swapRand) IntN(n int) int { return 0 }

func (r swapRand) Shuffle(n int, swap func(i, j int)) {
	for _, s := range r.swaps {
		if s[0] < n && s[1] < n {
			swap(s[0], s[1])
		}
	}
}

func TestBuildHoldsExactCounts(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		capacity := rapid.IntRange(1, 48).Draw(t, "capacity")
		loaded := rapid.IntRange(0, capacity).Draw(t, "loaded")
		rng := random.New(rapid.Uint64Range(1, 1<<62).Draw(t, "seed"))

		c, err := Build(capacity, loaded, rng)
		if err != nil {
			t.Fatalf("Build returned error: %v", err)
		}
		if c.Len() != capacity {
			t.Fatalf("length: got %d want %d", c.Len(), capacity)
		}
		if c.Loaded() != loaded {
			t.Fatalf("loaded: got %d want %d", c.Loaded(), loaded)
		}
	})
}

func TestBuildRejectsInvalidCounts(t *testing.T) {
	for _, tc := range []struct{ capacity, loaded int }{{0, 0}, {6, 7}, {6, -1}, {-3, 0}} {
		if _, err := Build(tc.capacity, tc.loaded, swapRand{}); !errors.Is(err, ErrInvalidConfiguration) {
			t.Errorf("Build(%d, %d): expected ErrInvalidConfiguration, got %v", tc.capacity, tc.loaded, err)
		}
	}
}

func TestLoadCylinderPolicy(t *testing.T) {
	cases := []struct {
		ammo, slots int
	}{
		{1, 6}, {5, 6}, {6, 6}, {7, 12}, {8, 12}, {12, 12}, {13, 18},
	}
	for _, tc := range cases {
		c, err := Load(tc.ammo, random.New(7))
		if err != nil {
			t.Fatalf("Load(%d) returned error: %v", tc.ammo, err)
		}
		if c.Len() != tc.slots || c.Loaded() != tc.ammo {
			t.Errorf("Load(%d): got %d slots / %d loaded, want %d / %d", tc.ammo, c.Len(), c.Loaded(), tc.slots, tc.ammo)
		}
	}
}

func TestLoadEightChainsTwoCylinders(t *testing.T) {
	c, err := Load(8, swapRand{})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	want := []Slot{
		SlotLoaded, SlotLoaded, SlotLoaded, SlotLoaded, SlotLoaded, SlotLoaded,
		SlotEmpty, SlotEmpty, SlotEmpty, SlotEmpty, SlotLoaded, SlotLoaded,
	}
	got := c.Slots()
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("slot %d: got %s want %s", i, got[i], want[i])
		}
	}
}

func TestLoadRejectsNonPositiveAmmo(t *testing.T) {
	for _, ammo := range []int{0, -1} {
		if _, err := Load(ammo, swapRand{}); !errors.Is(err, ErrInvalidConfiguration) {
			t.Errorf("Load(%d): expected ErrInvalidConfiguration, got %v", ammo, err)
		}
	}
}

func TestFireConsumesFrontUntilEmpty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ammo := rapid.IntRange(1, 20).Draw(t, "ammo")
		c, err := Load(ammo, random.New(rapid.Uint64Range(1, 1<<62).Draw(t, "seed")))
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
		initial := c.Slots()
		for i := range initial {
			s, err := c.Fire()
			if err != nil {
				t.Fatalf("fire %d returned error: %v", i, err)
			}
			if s != initial[i] {
				t.Fatalf("fire %d: got %s want %s", i, s, initial[i])
			}
			if c.Len() != len(initial)-i-1 {
				t.Fatalf("fire %d: length %d", i, c.Len())
			}
		}
		if _, err := c.Fire(); !errors.Is(err, ErrEmptyChamber) {
			t.Fatalf("expected ErrEmptyChamber, got %v", err)
		}
	})
}

func TestEvaluate(t *testing.T) {
	s := time.Second
	cases := []struct {
		target, input string
		elapsed       time.Duration
		want          Verdict
	}{
		{"chat", "chat", 1 * s, VerdictSuccess},
		{"chat", "ch", 6 * s, VerdictTimeout},
		{"chat", "ch", 2 * s, VerdictPending},
		{"Chat", "CHAT", 0, VerdictSuccess},
		{"chat", "chat", 5 * s, VerdictSuccess},
		{"chat", "", 5 * s, VerdictTimeout},
		{"chat", "chats", 1 * s, VerdictPending},
		{"chat", "cha", 1 * s, VerdictPending},
		{"bibliothèque", "BIBLIOTHÈQUE", 1 * s, VerdictSuccess},
		{"r\u00e9volution", "re\u0301volution", 1 * s, VerdictSuccess},
		{"révolution", "revolution", 1 * s, VerdictPending},
	}
	for _, tc := range cases {
		if got := Evaluate(tc.target, tc.input, tc.elapsed, 5*s); got != tc.want {
			t.Errorf("Evaluate(%q, %q, %v): got %s want %s", tc.target, tc.input, tc.elapsed, got, tc.want)
		}
	}
}
