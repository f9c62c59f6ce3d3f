// Package validate provides input validation helpers for the Brewlog CLI.
package validate

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/manav03panchal/brewlog/internal/errors"
	"github.com/manav03panchal/brewlog/internal/model"
)

// BrewFields checks user-entered fields before they reach the store and
// returns them trimmed, with the method in its configured spelling.
func BrewFields(fields model.BrewFields, methods []string) (model.BrewFields, error) {
	out := model.BrewFields{
		Bean:   SanitizeText(fields.Bean),
		Method: SanitizeText(fields.Method),
		Ratio:  SanitizeText(fields.Ratio),
		Score:  fields.Score,
		Notes:  SanitizeText(fields.Notes),
	}

	if err := Bean(out.Bean); err != nil {
		return out, err
	}
	method, err := Method(out.Method, methods)
	if err != nil {
		return out, err
	}
	out.Method = method
	if err := NonEmpty("ratio", out.Ratio); err != nil {
		return out, err
	}
	if err := Score(out.Score); err != nil {
		return out, err
	}
	if err := Notes(out.Notes); err != nil {
		return out, err
	}
	return out, nil
}

// Bean validates a bean name.
func Bean(bean string) error {
	if err := NonEmpty("bean", bean); err != nil {
		return err
	}
	if utf8.RuneCountInString(bean) > model.MaxBeanLength {
		return errors.NewUserErrorWithField("bean", bean,
			"Bean name too long",
			fmt.Sprintf("Bean names must be %d characters or fewer", model.MaxBeanLength))
	}
	return nil
}

// Notes validates brew notes.
func Notes(notes string) error {
	if utf8.RuneCountInString(notes) > model.MaxNotesLength {
		return errors.NewUserError(
			"Notes too long",
			fmt.Sprintf("Notes must be %d characters or fewer", model.MaxNotesLength))
	}
	return nil
}

// Score validates that a score is within the allowed range.
func Score(score float64) error {
	if score < model.MinScore || score > model.MaxScore {
		return &errors.UserError{
			Message:    "Score out of range",
			Field:      "score",
			Value:      fmt.Sprintf("%g", score),
			Suggestion: errors.Suggestions[errors.ErrInvalidScore],
			Err:        errors.ErrInvalidScore,
		}
	}
	return nil
}

// Method resolves value against the configured methods. Matching ignores
// case; the configured spelling is returned.
func Method(value string, methods []string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", errors.NewUserError("method cannot be empty", "Provide a brew method with --method")
	}
	for _, m := range methods {
		if m == value {
			return m, nil
		}
	}
	for _, m := range methods {
		if strings.EqualFold(m, value) {
			return m, nil
		}
	}
	return "", &errors.UserError{
		Message: "Unknown brew method",
		Field:   "method",
		Value:   value,
		Suggestion: fmt.Sprintf("Choose one of: %s. %s",
			strings.Join(methods, ", "), errors.Suggestions[errors.ErrUnknownMethod]),
		Err: errors.ErrUnknownMethod,
	}
}

// NonEmpty validates that a string is not empty.
func NonEmpty(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.NewUserError(
			field+" cannot be empty",
			"Provide a value for "+field)
	}
	return nil
}
