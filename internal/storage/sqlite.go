package storage

import (
	"database/sql"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/manav03panchal/brewlog/internal/errors"
)

// SQLiteFileName is the database file used by the sqlite backend.
const SQLiteFileName = "brewlog.db"

// SQLitePath returns the sqlite database file inside dataDir.
func SQLitePath(dataDir string) string {
	if dataDir == "" {
		dataDir = DataDir()
	}
	return filepath.Join(dataDir, SQLiteFileName)
}

// SQLiteDB is a small key-value table in a SQLite database.
type SQLiteDB struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path.
// Use ":memory:" for an in-memory database.
func OpenSQLite(path string) (*SQLiteDB, error) {
	if path != MemoryPath {
		if err := EnsureDirectory(filepath.Dir(path)); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.NewSystemErrorWithOp("open", "Cannot open database", err)
	}

	// An in-memory database lives only as long as its connection.
	if path == MemoryPath {
		db.SetMaxOpenConns(1)
	} else if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, errors.NewSystemErrorWithOp("open", "Cannot set WAL mode", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS kv_store (
		key        TEXT PRIMARY KEY,
		value      BLOB NOT NULL,
		updated_at TEXT NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.NewSystemErrorWithOp("open", "Cannot create schema", err)
	}

	return &SQLiteDB{db: db}, nil
}

// Get returns the value for key, or ErrKeyNotFound.
func (s *SQLiteDB) Get(key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRow("SELECT value FROM kv_store WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get %q", key)
	}
	return value, nil
}

// Set stores or replaces the value for key.
func (s *SQLiteDB) Set(key string, value []byte) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(`
		INSERT INTO kv_store (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`,
		key, value, now,
	)
	if err != nil {
		return errors.Wrapf(err, "set %q", key)
	}
	return nil
}

// UpdatedAt returns when key was last written.
func (s *SQLiteDB) UpdatedAt(key string) (time.Time, error) {
	var updatedAt string
	err := s.db.QueryRow("SELECT updated_at FROM kv_store WHERE key = ?", key).Scan(&updatedAt)
	if err == sql.ErrNoRows {
		return time.Time{}, ErrKeyNotFound
	}
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "get %q", key)
	}
	t, err := time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return time.Time{}, errors.Wrap(err, "parse updated_at")
	}
	return t, nil
}

// Close closes the database.
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

// SQLiteSlot stores one key in a SQLite database.
type SQLiteSlot struct {
	db  *SQLiteDB
	key string
}

// NewSQLiteSlot returns a slot for key backed by db.
func NewSQLiteSlot(db *SQLiteDB, key string) *SQLiteSlot {
	return &SQLiteSlot{db: db, key: key}
}

// Load returns the stored value, or nil when the key has never been written.
func (s *SQLiteSlot) Load() ([]byte, error) {
	data, err := s.db.Get(s.key)
	if IsErrKeyNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewSystemErrorWithOp("read "+s.key, "Database read failed", err)
	}
	return data, nil
}

// Save replaces the stored value.
func (s *SQLiteSlot) Save(data []byte) error {
	if err := s.db.Set(s.key, data); err != nil {
		return errors.NewSystemErrorWithOp("write "+s.key, "Database write failed", err)
	}
	return nil
}

// LastSaved returns when the slot was last written. ok is false when it
// has never been written.
func (s *SQLiteSlot) LastSaved() (t time.Time, ok bool, err error) {
	t, err = s.db.UpdatedAt(s.key)
	if IsErrKeyNotFound(err) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, errors.NewSystemErrorWithOp("read "+s.key, "Database read failed", err)
	}
	return t, true, nil
}

// Close closes the underlying database.
func (s *SQLiteSlot) Close() error {
	return s.db.Close()
}
