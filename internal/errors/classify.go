package errors

import (
	"errors"
	"os"
	"syscall"
)

// Category represents the type of error for display and handling purposes.
type Category int

const (
	// CategoryUnknown is the default for unclassified errors.
	CategoryUnknown Category = iota
	// CategoryUser indicates an error the user can fix (bad input, bad file).
	CategoryUser
	// CategorySystem indicates a system-level error (disk full, locked database).
	CategorySystem
)

// String returns the string representation of the category.
func (c Category) String() string {
	switch c {
	case CategoryUser:
		return "user"
	case CategorySystem:
		return "system"
	default:
		return "unknown"
	}
}

// userSentinels are sentinels that always describe bad user input.
var userSentinels = []error{
	ErrBrewNotFound,
	ErrAmbiguousID,
	ErrInvalidImport,
	ErrNoRecordArray,
	ErrNoValidRecords,
	ErrInvalidImportMode,
	ErrInvalidScore,
	ErrUnknownMethod,
	ErrInvalidSort,
}

// Classify determines the category of an error.
func Classify(err error) Category {
	if err == nil {
		return CategoryUnknown
	}

	if IsUserError(err) {
		return CategoryUser
	}
	if IsSystemError(err) {
		return CategorySystem
	}

	for _, sentinel := range userSentinels {
		if errors.Is(err, sentinel) {
			return CategoryUser
		}
	}

	if isSystemLevel(err) {
		return CategorySystem
	}

	return CategoryUnknown
}

// isSystemLevel checks if an error is a system-level error.
func isSystemLevel(err error) bool {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ENOSPC, syscall.EACCES, syscall.EPERM, syscall.EIO, syscall.EROFS:
			return true
		}
	}

	if errors.Is(err, os.ErrPermission) {
		return true
	}

	return errors.Is(err, ErrDiskFull) ||
		errors.Is(err, ErrDatabaseCorrupted) ||
		errors.Is(err, ErrLockHeld) ||
		errors.Is(err, ErrPermissionDenied)
}
