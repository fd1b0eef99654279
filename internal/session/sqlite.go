package session

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const (
	kindRead    = "read"
	kindCleared = "cleared"
)

// SQLiteStore implements AckStore using SQLite for persistence, so
// acknowledgments survive process restarts.
type SQLiteStore struct {
	db       *sql.DB
	basePath string
}

// NewSQLiteStore creates a SQLite-backed acknowledgment store under
// basePath. Pass ":memory:" for an ephemeral database.
func NewSQLiteStore(basePath string) (*SQLiteStore, error) {
	var dbPath string
	if basePath == ":memory:" {
		dbPath = ":memory:"
	} else {
		dbPath = filepath.Join(basePath, "session.db")
		if err := os.MkdirAll(basePath, 0755); err != nil {
			return nil, fmt.Errorf("create session directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store := &SQLiteStore{
		db:       db,
		basePath: basePath,
	}

	if err := store.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return store, nil
}

// initSchema creates the database tables if they don't exist.
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS acknowledgments (
		notification_id TEXT NOT NULL,
		kind TEXT NOT NULL,              -- 'read' or 'cleared'
		created_at TEXT NOT NULL,
		PRIMARY KEY (notification_id, kind)
	);

	CREATE INDEX IF NOT EXISTS idx_acks_kind ON acknowledgments(kind);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}

func (s *SQLiteStore) add(kind string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, err := tx.Exec(`
			INSERT OR IGNORE INTO acknowledgments (notification_id, kind, created_at)
			VALUES (?, ?, ?)
		`, id, kind, now); err != nil {
			return fmt.Errorf("insert acknowledgment %s/%s: %w", kind, id, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) has(kind, id string) (bool, error) {
	var one int
	err := s.db.QueryRow(`
		SELECT 1 FROM acknowledgments WHERE notification_id = ? AND kind = ?
	`, id, kind).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query acknowledgment: %w", err)
	}
	return true, nil
}

func (s *SQLiteStore) set(kind string) (map[string]struct{}, error) {
	rows, err := s.db.Query(`SELECT notification_id FROM acknowledgments WHERE kind = ?`, kind)
	if err != nil {
		return nil, fmt.Errorf("query %s set: %w", kind, err)
	}
	defer func() { _ = rows.Close() }()

	out := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan acknowledgment id: %w", err)
		}
		out[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s set: %w", kind, err)
	}
	return out, nil
}

// MarkRead adds ids to the read set.
func (s *SQLiteStore) MarkRead(ids ...string) error {
	return s.add(kindRead, ids)
}

// Clear adds ids to the cleared set.
func (s *SQLiteStore) Clear(ids ...string) error {
	return s.add(kindCleared, ids)
}

// IsRead reports whether id is in the read set.
func (s *SQLiteStore) IsRead(id string) (bool, error) {
	return s.has(kindRead, id)
}

// IsCleared reports whether id is in the cleared set.
func (s *SQLiteStore) IsCleared(id string) (bool, error) {
	return s.has(kindCleared, id)
}

// ReadSet returns a snapshot of the read set.
func (s *SQLiteStore) ReadSet() (map[string]struct{}, error) {
	return s.set(kindRead)
}

// ClearedSet returns a snapshot of the cleared set.
func (s *SQLiteStore) ClearedSet() (map[string]struct{}, error) {
	return s.set(kindCleared)
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
