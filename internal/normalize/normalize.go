// Package normalize turns untrusted brew-like values into valid brews.
//
// Every input item has exactly one outcome: it is either accepted as a
// well-formed model.Brew or rejected with a reason. Normalization never
// panics and a bad item never affects its neighbours.
package normalize

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/manav03panchal/brewlog/internal/model"
	"github.com/manav03panchal/brewlog/internal/parser"
)

// Reason explains why an item was rejected.
type Reason string

const (
	ReasonNotObject       Reason = "not_object"
	ReasonBadField        Reason = "bad_field"
	ReasonBadScore        Reason = "bad_score"
	ReasonMissingField    Reason = "missing_field"
	ReasonScoreOutOfRange Reason = "score_out_of_range"
)

// Outcome is the result of normalizing one item: Accepted or Rejected.
type Outcome interface {
	outcome()
}

// Accepted carries a valid brew.
type Accepted struct {
	Brew *model.Brew
}

// Rejected carries the reason an item was dropped.
type Rejected struct {
	Reason Reason
	Field  string
}

func (Accepted) outcome() {}
func (Rejected) outcome() {}

func (r Rejected) String() string {
	if r.Field == "" {
		return string(r.Reason)
	}
	return string(r.Reason) + " (" + r.Field + ")"
}

// Rejection records a rejected item and its position in the input.
type Rejection struct {
	Index  int    `json:"index"`
	Reason Reason `json:"reason"`
	Field  string `json:"field,omitempty"`
}

// Result is the outcome of normalizing a sequence of items.
type Result struct {
	Valid        []*model.Brew
	InvalidCount int
	Rejections   []Rejection
}

// Options configures a Normalizer.
type Options struct {
	// Now supplies the time used for missing or unparsable createdAt values.
	Now func() time.Time
	// NewID generates identifiers for items without one.
	NewID func() string
}

// Normalizer validates and coerces untrusted items.
type Normalizer struct {
	now   func() time.Time
	newID func() string
}

// New creates a Normalizer. Zero options fall back to time.Now and NewID.
func New(opts Options) *Normalizer {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = NewID
	}
	return &Normalizer{now: opts.Now, newID: opts.NewID}
}

// Normalize normalizes items with default options.
func Normalize(items []json.RawMessage) Result {
	return New(Options{}).Normalize(items)
}

// NewID returns a fresh time-sortable brew identifier.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Normalize processes every item independently.
func (n *Normalizer) Normalize(items []json.RawMessage) Result {
	result := Result{Valid: make([]*model.Brew, 0, len(items))}

	for i, raw := range items {
		switch o := n.NormalizeItem(raw).(type) {
		case Accepted:
			result.Valid = append(result.Valid, o.Brew)
		case Rejected:
			result.InvalidCount++
			result.Rejections = append(result.Rejections, Rejection{
				Index:  i,
				Reason: o.Reason,
				Field:  o.Field,
			})
		}
	}

	return result
}

// NormalizeItem normalizes a single raw JSON value.
func (n *Normalizer) NormalizeItem(raw json.RawMessage) Outcome {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return Rejected{Reason: ReasonNotObject}
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return Rejected{Reason: ReasonNotObject}
	}

	text := make(map[string]string, 4)
	for _, field := range []string{"bean", "method", "ratio", "notes"} {
		value, ok := textValue(obj[field])
		if !ok {
			return Rejected{Reason: ReasonBadField, Field: field}
		}
		text[field] = strings.TrimSpace(value)
	}

	score, ok := scoreValue(obj["score"])
	if !ok {
		return Rejected{Reason: ReasonBadScore, Field: "score"}
	}

	for _, field := range []string{"bean", "method", "ratio"} {
		if text[field] == "" {
			return Rejected{Reason: ReasonMissingField, Field: field}
		}
	}

	if score < model.MinScore || score > model.MaxScore {
		return Rejected{Reason: ReasonScoreOutOfRange, Field: "score"}
	}

	now := n.now()
	createdAt := now
	if s, ok := stringValue(obj["createdAt"]); ok {
		if t, ok := parser.ParseDateTime(s); ok {
			createdAt = t
		}
	}

	id := ""
	if s, ok := textValue(obj["id"]); ok {
		id = strings.TrimSpace(s)
	}
	if id == "" {
		id = n.newID()
	}

	return Accepted{Brew: model.NewBrew(id, createdAt, model.BrewFields{
		Bean:   truncate(text["bean"], model.MaxBeanLength),
		Method: text["method"],
		Ratio:  text["ratio"],
		Score:  score,
		Notes:  truncate(text["notes"], model.MaxNotesLength),
	})}
}

// textValue coerces a JSON scalar to text. Missing and null become "".
// Objects and arrays are not text.
func textValue(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", true
	}

	switch raw[0] {
	case 'n':
		return "", true
	case 't':
		return "true", true
	case 'f':
		return "false", true
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", false
		}
		return s, true
	case '{', '[':
		return "", false
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return "", false
	}
	return strconv.FormatFloat(f, 'f', -1, 64), true
}

// stringValue returns the value only when it is a JSON string.
func stringValue(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// scoreValue accepts JSON numbers and numeric strings.
func scoreValue(raw json.RawMessage) (float64, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0, false
	}

	var score float64
	switch {
	case raw[0] == '"':
		s, ok := stringValue(raw)
		if !ok {
			return 0, false
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		score = f
	case raw[0] == '-' || (raw[0] >= '0' && raw[0] <= '9'):
		if err := json.Unmarshal(raw, &score); err != nil {
			return 0, false
		}
	default:
		return 0, false
	}

	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0, false
	}
	return score, true
}

// truncate cuts s to at most max code points.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
