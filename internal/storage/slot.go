package storage

import (
	"time"

	"github.com/manav03panchal/brewlog/internal/errors"
)

// Backend names accepted in configuration.
const (
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
)

// Backends lists the supported persistence backends.
var Backends = []string{BackendBadger, BackendSQLite}

// Slot is a single named value in a backend.
type Slot interface {
	Load() ([]byte, error)
	Save(data []byte) error
	Close() error
}

// SaveTimer is implemented by slots that record when they were last written.
type SaveTimer interface {
	LastSaved() (time.Time, bool, error)
}

// BadgerSlot stores one key in a Badger database.
type BadgerSlot struct {
	db  *DB
	key string
}

// NewBadgerSlot returns a slot for key backed by db.
func NewBadgerSlot(db *DB, key string) *BadgerSlot {
	return &BadgerSlot{db: db, key: key}
}

// Load returns the stored value, or nil when the key has never been written.
func (s *BadgerSlot) Load() ([]byte, error) {
	data, err := s.db.GetBytes(s.key)
	if IsErrKeyNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewSystemErrorWithOp("read "+s.key, "Database read failed", err)
	}
	return data, nil
}

// Save replaces the stored value.
func (s *BadgerSlot) Save(data []byte) error {
	if err := s.db.SetBytes(s.key, data); err != nil {
		return errors.NewSystemErrorWithOp("write "+s.key, "Database write failed", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *BadgerSlot) Close() error {
	return s.db.Close()
}

// SlotOptions selects where a slot lives.
type SlotOptions struct {
	Backend  string // BackendBadger or BackendSQLite
	DataDir  string // empty uses DataDir()
	Key      string
	InMemory bool
}

// OpenSlot opens the configured backend and returns a slot for opts.Key.
// The caller owns the slot and must Close it.
func OpenSlot(opts SlotOptions) (Slot, error) {
	switch opts.Backend {
	case BackendBadger, "":
		db, err := Open(Options{Path: DefaultPath(opts.DataDir), InMemory: opts.InMemory})
		if err != nil {
			return nil, err
		}
		return NewBadgerSlot(db, opts.Key), nil

	case BackendSQLite:
		path := SQLitePath(opts.DataDir)
		if opts.InMemory {
			path = MemoryPath
		}
		db, err := OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		return NewSQLiteSlot(db, opts.Key), nil
	}

	return nil, errors.NewUserErrorWithField("backend", opts.Backend,
		"Unknown storage backend", "Use BREWLOG_BACKEND=badger or BREWLOG_BACKEND=sqlite.")
}
