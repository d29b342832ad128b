// internal/store/file.go
//
// FileStore persists the ledger as scores.json.
//
// Saves go to a temp file in the target directory which is fsynced and then
// renamed over the target, so a concurrent reader (the score viewer) sees
// either the old or the new document, never a torn one.

package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/roulette/internal/ledger"
)

// DefaultScoresFile is where the viewer expects the ledger.
const DefaultScoresFile = "web/scores.json"

// FileStore reads and writes a JSON ledger file.
type FileStore struct {
	path string
	log  zerolog.Logger
}

// NewFileStore returns a store for path (DefaultScoresFile when empty).
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultScoresFile
	}
	return &FileStore{path: path, log: log.Logger}
}

// WithLogger returns a copy of the store logging to l.
func (f *FileStore) WithLogger(l zerolog.Logger) *FileStore {
	c := *f
	c.log = l
	return &c
}

// Path reports the ledger file location.
func (f *FileStore) Path() string { return f.path }

// Load reads the ledger file. A missing file is a fresh ledger; an unreadable
// or corrupt one is logged and replaced by a fresh ledger.
func (f *FileStore) Load(ctx context.Context) *ledger.Ledger {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		f.log.Info().Str("path", f.path).Msg("no ledger yet, starting empty")
		return ledger.New()
	}
	if err != nil {
		f.log.Warn().Err(err).Str("path", f.path).Msg("read ledger, starting empty")
		return ledger.New()
	}
	l, err := ledger.Decode(data)
	if err != nil {
		f.log.Warn().Err(err).Str("path", f.path).Msg("corrupt ledger, starting empty")
		return ledger.New()
	}
	f.log.Debug().Str("path", f.path).Int("players", l.Scores.Len()).Int("parties", len(l.Parties)).Msg("ledger loaded")
	return l
}

// Save writes l atomically.
func (f *FileStore) Save(ctx context.Context, l *ledger.Ledger) error {
	data, err := ledger.Encode(l)
	if err != nil {
		return fmt.Errorf("%w: encode: %w", ErrWrite, err)
	}
	if err := writeAtomic(f.path, data); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	f.log.Debug().Str("path", f.path).Int("bytes", len(data)).Msg("ledger saved")
	return nil
}

func writeAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
