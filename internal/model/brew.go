package model

import (
	"encoding/json"
	"time"
)

// Brew is a single logged brew attempt.
type Brew struct {
	ID        string    `json:"id"`
	Bean      string    `json:"bean"`
	Method    string    `json:"method"`
	Ratio     string    `json:"ratio"`
	Score     float64   `json:"score"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
}

// BrewFields holds the user-editable part of a brew.
type BrewFields struct {
	Bean   string  `json:"bean"`
	Method string  `json:"method"`
	Ratio  string  `json:"ratio"`
	Score  float64 `json:"score"`
	Notes  string  `json:"notes"`
}

// NewBrew creates a brew with the given identity and fields.
func NewBrew(id string, createdAt time.Time, fields BrewFields) *Brew {
	b := &Brew{
		ID:        id,
		CreatedAt: CanonicalTime(createdAt),
	}
	b.Apply(fields)
	return b
}

// Fields returns the editable fields of the brew.
func (b *Brew) Fields() BrewFields {
	return BrewFields{
		Bean:   b.Bean,
		Method: b.Method,
		Ratio:  b.Ratio,
		Score:  b.Score,
		Notes:  b.Notes,
	}
}

// Apply replaces every editable field. ID and CreatedAt are left alone.
func (b *Brew) Apply(fields BrewFields) {
	b.Bean = fields.Bean
	b.Method = fields.Method
	b.Ratio = fields.Ratio
	b.Score = fields.Score
	b.Notes = fields.Notes
}

// Clone returns a copy of the brew.
func (b *Brew) Clone() *Brew {
	c := *b
	return &c
}

// MarshalJSON writes createdAt in the canonical layout.
func (b *Brew) MarshalJSON() ([]byte, error) {
	type wire struct {
		ID        string  `json:"id"`
		Bean      string  `json:"bean"`
		Method    string  `json:"method"`
		Ratio     string  `json:"ratio"`
		Score     float64 `json:"score"`
		Notes     string  `json:"notes"`
		CreatedAt string  `json:"createdAt"`
	}
	return json.Marshal(wire{
		ID:        b.ID,
		Bean:      b.Bean,
		Method:    b.Method,
		Ratio:     b.Ratio,
		Score:     b.Score,
		Notes:     b.Notes,
		CreatedAt: FormatTimestamp(b.CreatedAt),
	})
}

// CanonicalTime converts t to UTC truncated to milliseconds.
func CanonicalTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// FormatTimestamp renders t in the canonical createdAt layout.
func FormatTimestamp(t time.Time) string {
	return CanonicalTime(t).Format(TimestampLayout)
}

// CloneBrews copies a slice of brews.
func CloneBrews(brews []*Brew) []*Brew {
	out := make([]*Brew, len(brews))
	for i, b := range brews {
		out[i] = b.Clone()
	}
	return out
}
