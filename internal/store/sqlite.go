// internal/store/sqlite.go
//
// SQLiteStore keeps the ledger in a SQLite database.
// Responsibilities:
//   - Opening the database with safe defaults (WAL, busy timeout, foreign keys).
//   - Applying the embedded migrations (idempotent, recorded in _migrations).
//   - Mapping the ordered ledger onto totals / parties / party_scores, where a
//     position column preserves insertion order.

package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/roulette/internal/ledger"
)

// DefaultSQLiteDSN is the database path used when none is configured.
const DefaultSQLiteDSN = "./data/roulette.db"

//go:embed sql/*.sql
var migrations embed.FS

// SQLiteStore persists the ledger in SQLite. Close it when done.
type SQLiteStore struct {
	db  *sql.DB
	log zerolog.Logger
}

// OpenSQLite opens (creating if missing) and migrates the database at dsn.
func OpenSQLite(dsn string) (*SQLiteStore, error) {
	if dsn == "" {
		dsn = DefaultSQLiteDSN
	}
	db, err := openDB(dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dsn, err)
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate %s: %w", dsn, err)
	}
	return &SQLiteStore{db: db, log: log.Logger}, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }

func openDB(dsn string) (*sql.DB, error) {
	// Ensure directory exists for ./data/roulette.db, etc.
	file, _, _ := strings.Cut(strings.TrimPrefix(dsn, "file:"), "?")
	dir := filepath.Dir(file)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", withPragmas(dsn))
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON; PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	return db, nil
}

// withPragmas appends the connection defaults to dsn's query string.
func withPragmas(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on"
}

// migrate applies the embedded sql/*.sql files in lexical order, each in its
// own transaction, skipping the ones already recorded.
func migrate(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY);`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}

	var files []string
	if err := fs.WalkDir(migrations, "sql", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(strings.ToLower(d.Name()), ".sql") {
			files = append(files, path)
		}
		return nil
	}); err != nil {
		return fmt.Errorf("walk sql dir: %w", err)
	}
	sort.Strings(files)

	for _, f := range files {
		var done int
		err := db.QueryRow(`SELECT 1 FROM _migrations WHERE name=?`, f).Scan(&done)
		if err == nil {
			log.Debug().Str("migration", f).Msg("already applied")
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("query _migrations: %w", err)
		}

		sqlBytes, err := migrations.ReadFile(f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(string(sqlBytes)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply %s: %w", f, err)
		}
		if _, err := tx.Exec(`INSERT INTO _migrations(name) VALUES (?)`, f); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", f, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", f, err)
		}
		log.Info().Str("migration", f).Msg("applied")
	}
	return nil
}

// Load reads the ledger. Query failures are logged and yield an empty ledger.
func (s *SQLiteStore) Load(ctx context.Context) *ledger.Ledger {
	l, err := s.load(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("read ledger from sqlite, starting empty")
		return ledger.New()
	}
	return l
}

func (s *SQLiteStore) load(ctx context.Context) (*ledger.Ledger, error) {
	l := ledger.New()

	totals, err := s.db.QueryContext(ctx, `SELECT player, points FROM totals ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query totals: %w", err)
	}
	defer totals.Close()
	for totals.Next() {
		var (
			player string
			points int
		)
		if err := totals.Scan(&player, &points); err != nil {
			return nil, fmt.Errorf("scan totals: %w", err)
		}
		l.Scores.Set(player, points)
	}
	if err := totals.Err(); err != nil {
		return nil, err
	}

	parties, err := s.db.QueryContext(ctx, `SELECT id, date FROM parties ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query parties: %w", err)
	}
	defer parties.Close()
	index := make(map[int64]int)
	for parties.Next() {
		var (
			id   int64
			date string
		)
		if err := parties.Scan(&id, &date); err != nil {
			return nil, fmt.Errorf("scan parties: %w", err)
		}
		index[id] = len(l.Parties)
		l.Parties = append(l.Parties, ledger.Party{Date: date})
	}
	if err := parties.Err(); err != nil {
		return nil, err
	}

	scores, err := s.db.QueryContext(ctx,
		`SELECT party_id, player, points FROM party_scores ORDER BY party_id, position`)
	if err != nil {
		return nil, fmt.Errorf("query party_scores: %w", err)
	}
	defer scores.Close()
	for scores.Next() {
		var (
			id     int64
			player string
			points int
		)
		if err := scores.Scan(&id, &player, &points); err != nil {
			return nil, fmt.Errorf("scan party_scores: %w", err)
		}
		i, ok := index[id]
		if !ok {
			return nil, fmt.Errorf("party_scores row for unknown party %d", id)
		}
		l.Parties[i].Scores.Set(player, points)
	}
	return l, scores.Err()
}

// Save replaces the stored ledger with l in a single transaction.
func (s *SQLiteStore) Save(ctx context.Context, l *ledger.Ledger) error {
	if err := s.save(ctx, l); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	s.log.Debug().Int("players", l.Scores.Len()).Int("parties", len(l.Parties)).Msg("ledger saved to sqlite")
	return nil
}

func (s *SQLiteStore) save(ctx context.Context, l *ledger.Ledger) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{`DELETE FROM party_scores`, `DELETE FROM parties`, `DELETE FROM totals`} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s: %w", stmt, err)
		}
	}

	for pos, player := range l.Scores.Players() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO totals (player, points, position) VALUES (?, ?, ?)`,
			player, l.Scores.Points(player), pos,
		); err != nil {
			return fmt.Errorf("insert total %q: %w", player, err)
		}
	}

	for i, p := range l.Parties {
		id := i + 1
		if _, err := tx.ExecContext(ctx, `INSERT INTO parties (id, date) VALUES (?, ?)`, id, p.Date); err != nil {
			return fmt.Errorf("insert party %d: %w", id, err)
		}
		for pos, player := range p.Scores.Players() {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO party_scores (party_id, position, player, points) VALUES (?, ?, ?, ?)`,
				id, pos, player, p.Scores.Points(player),
			); err != nil {
				return fmt.Errorf("insert party %d score %q: %w", id, player, err)
			}
		}
	}
	return tx.Commit()
}
