// Package random provides the randomness source shared by the chamber
// shuffle and the fallback word pick.
//
// Seeds come from crypto/rand unless the caller pins one (RNG_SEED), which
// makes a whole session replayable.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"time"
)

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (uint64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// New returns a PCG generator for seed. A zero seed draws one from crypto/rand,
// falling back to the wall clock if the system source is unavailable.
func New(seed uint64) *rand.Rand {
	if seed == 0 {
		s, err := NewSeed()
		if err != nil {
			s = uint64(time.Now().UnixNano())
		}
		seed = s
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
