// internal/game/chamber.go
//
// The revolver's slot sequence for one round.
//
// Loading policy (Load):
//   - ammo ≤ 6: a single 6-slot cylinder holding `ammo` loaded slots.
//   - ammo > 6: full cylinders (6 loaded) until fewer than 6 remain, then
//     one 6-slot cylinder holding the remainder. Each cylinder is shuffled
//     on its own, so the sequence is a chain of reloads.
//
// A chamber only ever shrinks from the front.

package game

import "fmt"

// CylinderSize is the number of slots in one cylinder.
const CylinderSize = 6

// Chamber is the ordered, shrinking sequence of slots for a round.
type Chamber struct {
	slots []Slot
}

// Build returns a single shuffled block of capacity slots, loaded of them loaded.
func Build(capacity, loaded int, rng Rand) (*Chamber, error) {
	if capacity < 1 || loaded < 0 || loaded > capacity {
		return nil, fmt.Errorf("%w: %d loaded in %d slots", ErrInvalidConfiguration, loaded, capacity)
	}
	return &Chamber{slots: cylinder(capacity, loaded, rng)}, nil
}

// Load builds the round chamber for ammo loaded slots following the cylinder policy.
func Load(ammo int, rng Rand) (*Chamber, error) {
	if ammo < 1 {
		return nil, fmt.Errorf("%w: ammo count must be at least 1, got %d", ErrInvalidConfiguration, ammo)
	}
	slots := make([]Slot, 0, (ammo+CylinderSize-1)/CylinderSize*CylinderSize)
	for remaining := ammo; remaining > 0; remaining -= CylinderSize {
		slots = append(slots, cylinder(CylinderSize, min(remaining, CylinderSize), rng)...)
	}
	return &Chamber{slots: slots}, nil
}

// cylinder lays out empties first, then loaded slots, and shuffles the block.
func cylinder(capacity, loaded int, rng Rand) []Slot {
	slots := make([]Slot, capacity)
	for i := range slots {
		if i < capacity-loaded {
			slots[i] = SlotEmpty
		} else {
			slots[i] = SlotLoaded
		}
	}
	rng.Shuffle(len(slots), func(i, j int) { slots[i], slots[j] = slots[j], slots[i] })
	return slots
}

// Fire removes and returns the front slot.
// Firing an exhausted chamber is a caller bug and returns ErrEmptyChamber.
func (c *Chamber) Fire() (Slot, error) {
	if len(c.slots) == 0 {
		return "", ErrEmptyChamber
	}
	s := c.slots[0]
	c.slots = c.slots[1:]
	return s, nil
}

// Len reports the number of slots left.
func (c *Chamber) Len() int { return len(c.slots) }

// Empty reports whether no slots remain.
func (c *Chamber) Empty() bool { return len(c.slots) == 0 }

// Loaded counts the loaded slots left.
func (c *Chamber) Loaded() int {
	n := 0
	for _, s := range c.slots {
		if s == SlotLoaded {
			n++
		}
	}
	return n
}

// Slots returns a copy of the remaining sequence, front first.
func (c *Chamber) Slots() []Slot {
	return append([]Slot(nil), c.slots...)
}
