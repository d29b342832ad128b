// internal/store/memory.go
//
// In-memory implementation of the Store interface.
//
// Characteristics:
//   - Holds a deep copy of the last saved ledger; callers never share state
//     with the store.
//   - Concurrency-safe via RWMutex (a viewer may read while a game saves).
//   - State is lost when the process restarts.

package store

import (
	"context"
	"sync"

	"github.com/robalobadob/roulette/internal/ledger"
)

// MemoryStore keeps the ledger in process memory.
type MemoryStore struct {
	mu  sync.RWMutex   // guards led
	led *ledger.Ledger // nil until first Save
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns a copy of the last saved ledger, or an empty one.
func (m *MemoryStore) Load(ctx context.Context) *ledger.Ledger {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.led == nil {
		return ledger.New()
	}
	return m.led.Clone()
}

// Save stores a copy of l.
func (m *MemoryStore) Save(ctx context.Context, l *ledger.Ledger) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.led = l.Clone()
	return nil
}
