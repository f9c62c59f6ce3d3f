// Package storage provides the persistence backends for Brewlog.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	badger "github.com/dgraph-io/badger/v4"

	"github.com/manav03panchal/brewlog/internal/errors"
)

const (
	// AppName is the application name used for data directories.
	AppName = "brewlog"

	// MemoryPath selects an in-memory database.
	MemoryPath = ":memory:"
)

// DB wraps a Badger database connection.
type DB struct {
	db *badger.DB
}

// Options configures the database connection.
type Options struct {
	// Path is the database directory path. Empty string uses in-memory mode.
	Path string
	// InMemory forces in-memory mode regardless of Path.
	InMemory bool
}

// DataDir returns the default data directory following the XDG spec.
func DataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// DefaultPath returns the default Badger directory inside dataDir.
func DefaultPath(dataDir string) string {
	if dataDir == "" {
		dataDir = DataDir()
	}
	return filepath.Join(dataDir, "db")
}

// Open opens or creates a database at the given path.
func Open(opts Options) (*DB, error) {
	var badgerOpts badger.Options

	if opts.InMemory || opts.Path == "" || opts.Path == MemoryPath {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := EnsureDirectory(opts.Path); err != nil {
			return nil, err
		}
		badgerOpts = badger.DefaultOptions(opts.Path)
	}

	// Reduce logging noise
	badgerOpts = badgerOpts.WithLoggingLevel(badger.ERROR)

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, classifyOpenError(err)
	}

	return &DB{db: db}, nil
}

// classifyOpenError maps Badger open failures to system errors.
func classifyOpenError(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "cannot acquire directory lock"),
		strings.Contains(msg, "resource temporarily unavailable"):
		return errors.NewSystemErrorWithOp("open", "Database is locked", fmt.Errorf("%w: %w", errors.ErrLockHeld, err))
	case strings.Contains(msg, "checksum"),
		strings.Contains(msg, "corrupt"),
		strings.Contains(msg, "manifest"):
		return errors.NewSystemErrorWithOp("open", "Database is corrupted", fmt.Errorf("%w: %w", errors.ErrDatabaseCorrupted, err))
	case os.IsPermission(err):
		return errors.NewSystemErrorWithOp("open", "Cannot open database", fmt.Errorf("%w: %w", errors.ErrPermissionDenied, err))
	}
	return errors.NewSystemErrorWithOp("open", "Cannot open database", err)
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// Badger returns the underlying Badger database for advanced operations.
func (d *DB) Badger() *badger.DB {
	return d.db
}
