package errors

import "errors"

// Suggestions maps common errors to helpful suggestions.
var Suggestions = map[error]string{
	// User input errors
	ErrBrewNotFound:      "Use 'brewlog list' to see brew IDs.",
	ErrAmbiguousID:       "Give more characters of the ID; 'brewlog list --format json' shows full IDs.",
	ErrInvalidImport:     "Check that the file is a brewlog export or a JSON array of brews.",
	ErrNoRecordArray:     "The file must be a JSON array, or an object with a \"brews\" array.",
	ErrNoValidRecords:    "Each brew needs bean, method, ratio and a score between 1 and 10.",
	ErrInvalidImportMode: "Use --mode replace or --mode merge.",
	ErrInvalidScore:      "Scores are numbers between 1 and 10, like 7 or 8.5.",
	ErrUnknownMethod:     "Run 'brewlog config' to see the configured brew methods.",
	ErrInvalidSort:       "Use score-asc, score-desc, createdAt-asc or createdAt-desc.",

	// System errors
	ErrDiskFull:          "Free up disk space and try again. Nothing was written.",
	ErrDatabaseCorrupted: "Restore from an export with 'brewlog import FILE --mode replace'.",
	ErrLockHeld:          "Another brewlog process is using the database. Close it and try again.",
	ErrPermissionDenied:  "Check file permissions in your data directory (~/.local/share/brewlog/).",
}

// GetSuggestion returns a suggestion for an error, if available.
// It walks the error chain to find matching suggestions.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	// UserErrors carry their own, more specific suggestion
	if ue, ok := AsUserError(err); ok && ue.Suggestion != "" {
		return ue.Suggestion
	}

	for knownErr, suggestion := range Suggestions {
		if errors.Is(err, knownErr) {
			return suggestion
		}
	}

	return ""
}

// FormatError formats an error with its suggestion, if any.
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if suggestion := GetSuggestion(err); suggestion != "" {
		msg += "\n" + suggestion
	}
	return msg
}
