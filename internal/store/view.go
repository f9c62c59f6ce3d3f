package store

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/manav03panchal/brewlog/internal/errors"
	"github.com/manav03panchal/brewlog/internal/model"
)

// MethodAll is the method filter value that matches every brew.
const MethodAll = "all"

// Filter narrows a view. The zero value matches everything.
type Filter struct {
	Method   string    // exact method, or MethodAll / ""
	MinScore float64   // score >= MinScore
	Keyword  string    // case-insensitive substring of bean + " " + notes
	Since    time.Time // createdAt lower bound; zero means unbounded
}

// IsZero reports whether the filter matches everything.
func (f Filter) IsZero() bool {
	return (f.Method == "" || f.Method == MethodAll) &&
		f.MinScore <= 0 &&
		strings.TrimSpace(f.Keyword) == "" &&
		f.Since.IsZero()
}

// Match reports whether b passes every condition of the filter.
func (f Filter) Match(b *model.Brew) bool {
	if f.Method != "" && f.Method != MethodAll && b.Method != f.Method {
		return false
	}
	if b.Score < f.MinScore {
		return false
	}
	if !f.Since.IsZero() && b.CreatedAt.Before(f.Since) {
		return false
	}
	keyword := strings.ToLower(strings.TrimSpace(f.Keyword))
	if keyword != "" {
		haystack := strings.ToLower(b.Bean + " " + b.Notes)
		if !strings.Contains(haystack, keyword) {
			return false
		}
	}
	return true
}

// SortKey selects the value brews are ordered by.
type SortKey string

const (
	SortByCreatedAt SortKey = "createdAt"
	SortByScore     SortKey = "score"
)

// Direction is ascending or descending.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Sort orders a view. Equal keys are ordered by id ascending.
type Sort struct {
	Key       SortKey
	Direction Direction
}

// DefaultSort lists the newest brews first.
var DefaultSort = Sort{Key: SortByCreatedAt, Direction: Desc}

func (s Sort) String() string {
	return fmt.Sprintf("%s-%s", s.Key, s.Direction)
}

// Toggle flips the direction.
func (s Sort) Toggle() Sort {
	if s.Direction == Desc {
		s.Direction = Asc
	} else {
		s.Direction = Desc
	}
	return s
}

// ParseSort parses values like "createdAt-desc" or "score-asc".
// An empty string yields DefaultSort.
func ParseSort(value string) (Sort, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return DefaultSort, nil
	}

	key, dir, _ := strings.Cut(value, "-")
	var s Sort

	switch strings.ToLower(key) {
	case "createdat", "date", "recent":
		s.Key = SortByCreatedAt
	case "score":
		s.Key = SortByScore
	default:
		return Sort{}, sortError(value)
	}

	switch strings.ToLower(dir) {
	case "", "desc":
		s.Direction = Desc
	case "asc":
		s.Direction = Asc
	default:
		return Sort{}, sortError(value)
	}

	return s, nil
}

func sortError(value string) error {
	return &errors.UserError{
		Message:    "Invalid sort order",
		Field:      "sort",
		Value:      value,
		Suggestion: errors.Suggestions[errors.ErrInvalidSort],
		Err:        errors.ErrInvalidSort,
	}
}

// View returns copies of the brews that pass filter, ordered by order.
// The stored order is never changed.
func (s *Store) View(filter Filter, order Sort) []*model.Brew {
	return Apply(s.records, filter, order)
}

// Apply filters and sorts a copy of brews.
func Apply(brews []*model.Brew, filter Filter, order Sort) []*model.Brew {
	out := make([]*model.Brew, 0, len(brews))
	for _, b := range brews {
		if filter.Match(b) {
			out = append(out, b.Clone())
		}
	}

	if order.Key == "" {
		order = DefaultSort
	}
	desc := order.Direction == Desc

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		var cmp int
		switch order.Key {
		case SortByScore:
			cmp = compareFloat(a.Score, b.Score)
		default:
			cmp = a.CreatedAt.Compare(b.CreatedAt)
		}
		if cmp == 0 {
			return a.ID < b.ID
		}
		if desc {
			return cmp > 0
		}
		return cmp < 0
	})

	return out
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
