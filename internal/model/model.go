// Package model defines the domain models for Brewlog.
package model

// Slot keys used by the persistence backends.
const (
	// KeyBrews is the single slot holding the JSON array of all brews.
	KeyBrews = "brews"
)

// Field limits for a brew record.
const (
	MaxBeanLength  = 30
	MaxNotesLength = 120
	MinScore       = 1.0
	MaxScore       = 10.0
)

// ExportVersion is the schema version written to export documents.
const ExportVersion = 1

// TimestampLayout is the canonical createdAt representation (UTC, millisecond precision).
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"
