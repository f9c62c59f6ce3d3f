package parser

import (
	"math"
	"strconv"
	"strings"

	"github.com/manav03panchal/brewlog/internal/errors"
)

// ParseScore parses a score typed by the user, such as "7" or " 8.5 ".
// Range checks are left to the validator.
func ParseScore(input string) (float64, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return 0, scoreError(input)
	}

	score, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(score) || math.IsInf(score, 0) {
		return 0, scoreError(input)
	}
	return score, nil
}

func scoreError(input string) error {
	return &errors.UserError{
		Message:    "Invalid score",
		Field:      "score",
		Value:      input,
		Suggestion: errors.Suggestions[errors.ErrInvalidScore],
		Err:        errors.ErrInvalidScore,
	}
}
