package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/asrecorded/asrec/internal/config"
)

type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

func DBPath() string {
	return filepath.Join(config.DataDir(), "journal.db")
}

func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// WAL lets `asrec journal` read while a review session writes
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) migrate() error {
	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return err
	}
	if version == 0 {
		return s.createSchema()
	}
	return nil
}

func (s *Store) createSchema() error {
	schema := `
CREATE TABLE IF NOT EXISTS mutations (
    id              INTEGER PRIMARY KEY,
    request_id      TEXT    UNIQUE NOT NULL,
    chapter_id      INTEGER NOT NULL,
    intervention_id INTEGER NOT NULL,
    field           TEXT    NOT NULL,
    value           TEXT    DEFAULT '',
    state           TEXT    NOT NULL DEFAULT 'pending',
    error           TEXT    DEFAULT '',
    created_at      TEXT    NOT NULL,
    settled_at      TEXT    DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_mutations_chapter ON mutations(chapter_id);
CREATE INDEX IF NOT EXISTS idx_mutations_state ON mutations(state);

CREATE TABLE IF NOT EXISTS positions (
    chapter_id  INTEGER PRIMARY KEY,
    take_index  INTEGER NOT NULL,
    updated_at  TEXT    NOT NULL
);

PRAGMA user_version = 1;
`
	_, err := s.db.Exec(schema)
	return err
}

// Reset drops all journal data. Used by `asrec journal --clear`.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range []string{"mutations", "positions"} {
		if _, err := s.db.Exec("DELETE FROM " + t); err != nil {
			return err
		}
	}
	return nil
}
