package store

import (
	"encoding/json"
	"strings"

	"github.com/manav03panchal/brewlog/internal/errors"
	"github.com/manav03panchal/brewlog/internal/logging"
	"github.com/manav03panchal/brewlog/internal/model"
	"github.com/manav03panchal/brewlog/internal/normalize"
)

// ImportMode decides how imported brews combine with stored ones.
type ImportMode string

const (
	// ModeReplace discards stored brews.
	ModeReplace ImportMode = "replace"
	// ModeMerge upserts by id.
	ModeMerge ImportMode = "merge"
)

// ParseImportMode parses "replace" or "merge".
func ParseImportMode(value string) (ImportMode, error) {
	switch ImportMode(strings.ToLower(strings.TrimSpace(value))) {
	case ModeReplace:
		return ModeReplace, nil
	case ModeMerge:
		return ModeMerge, nil
	}
	return "", &errors.UserError{
		Message:    "Invalid import mode",
		Field:      "mode",
		Value:      value,
		Suggestion: errors.Suggestions[errors.ErrInvalidImportMode],
		Err:        errors.ErrInvalidImportMode,
	}
}

// ImportReport summarizes an import.
type ImportReport struct {
	Mode       ImportMode            `json:"mode"`
	Total      int                   `json:"total"`
	Written    int                   `json:"written"`
	Skipped    int                   `json:"skipped"`
	Resulting  int                   `json:"resulting"`
	DryRun     bool                  `json:"dry_run,omitempty"`
	Rejections []normalize.Rejection `json:"rejections,omitempty"`
}

// Import normalizes items and installs the valid ones according to mode in a
// single write. When no item is valid nothing changes and ErrNoValidRecords
// is returned.
func (s *Store) Import(mode ImportMode, items []json.RawMessage) (ImportReport, error) {
	report, next, err := s.plan(mode, items)
	if err != nil {
		return report, err
	}

	if err := s.commit("import", next); err != nil {
		return report, err
	}

	s.logger.Debug("brews imported",
		logging.KeyMode, string(mode),
		logging.KeyCount, report.Written,
		logging.KeySkipped, report.Skipped,
	)
	return report, nil
}

// PreviewImport reports what Import would do without writing.
func (s *Store) PreviewImport(mode ImportMode, items []json.RawMessage) (ImportReport, error) {
	report, _, err := s.plan(mode, items)
	report.DryRun = true
	return report, err
}

func (s *Store) plan(mode ImportMode, items []json.RawMessage) (ImportReport, []*model.Brew, error) {
	report := ImportReport{Mode: mode, Total: len(items)}

	if mode != ModeReplace && mode != ModeMerge {
		_, err := ParseImportMode(string(mode))
		return report, nil, err
	}

	result := s.normalizer.Normalize(items)
	report.Skipped = result.InvalidCount
	report.Rejections = result.Rejections

	if len(result.Valid) == 0 {
		return report, nil, errors.NewUserErrorFrom(errors.ErrNoValidRecords, "No valid brews to import")
	}
	report.Written = len(result.Valid)

	var next []*model.Brew
	if mode == ModeReplace {
		next = merge(nil, result.Valid)
	} else {
		next = merge(s.records, result.Valid)
	}
	report.Resulting = len(next)

	return report, next, nil
}
