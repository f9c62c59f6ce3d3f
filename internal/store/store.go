// Package store owns the ordered collection of brews and the current edit
// target, and persists every mutation to a single slot.
package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/manav03panchal/brewlog/internal/errors"
	"github.com/manav03panchal/brewlog/internal/logging"
	"github.com/manav03panchal/brewlog/internal/model"
	"github.com/manav03panchal/brewlog/internal/normalize"
)

// Slot is a single persisted value holding the serialized brew list.
type Slot interface {
	// Load returns the stored bytes, or nil when nothing has been saved yet.
	Load() ([]byte, error)
	// Save replaces the stored bytes in one write.
	Save(data []byte) error
}

// Options configures a Store.
type Options struct {
	Normalizer *normalize.Normalizer
	Now        func() time.Time
	NewID      func() string
	Logger     *slog.Logger
}

// Store holds the brews in insertion order, newest first for Add.
type Store struct {
	slot       Slot
	records    []*model.Brew
	editingID  string
	normalizer *normalize.Normalizer
	now        func() time.Time
	newID      func() string
	logger     *slog.Logger
}

// Open loads the store from slot. Missing or unreadable content starts an
// empty store; only a failing slot is reported as an error.
func Open(slot Slot, opts Options) (*Store, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = normalize.NewID
	}
	if opts.Normalizer == nil {
		opts.Normalizer = normalize.New(normalize.Options{Now: opts.Now, NewID: opts.NewID})
	}
	if opts.Logger == nil {
		opts.Logger = logging.Logger()
	}

	s := &Store{
		slot:       slot,
		records:    []*model.Brew{},
		normalizer: opts.Normalizer,
		now:        opts.Now,
		newID:      opts.NewID,
		logger:     opts.Logger,
	}

	data, err := slot.Load()
	if err != nil {
		return nil, errors.NewSystemErrorWithOp("load", "Failed to read brews", err)
	}

	items, ok := decodeSlot(data)
	if !ok {
		s.logger.Debug("stored brews unreadable, starting empty", logging.KeyOperation, "load")
		return s, nil
	}

	result := s.normalizer.Normalize(items)
	if result.InvalidCount > 0 {
		s.logger.Debug("dropped invalid stored brews",
			logging.KeyOperation, "load",
			logging.KeySkipped, result.InvalidCount,
		)
	}
	s.records = result.Valid

	return s, nil
}

// decodeSlot splits persisted bytes into raw items. ok is false when the
// content is empty or not a JSON array.
func decodeSlot(data []byte) ([]json.RawMessage, bool) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, false
	}
	return items, true
}

// commit persists next and installs it only after the write succeeded.
func (s *Store) commit(op string, next []*model.Brew) error {
	data, err := json.Marshal(next)
	if err != nil {
		return errors.NewSystemErrorWithOp(op, "Failed to encode brews", err)
	}
	if err := s.slot.Save(data); err != nil {
		return errors.NewSystemErrorWithOp(op, "Failed to save brews", err)
	}

	s.records = next
	if s.editingID != "" && s.indexOf(s.editingID) < 0 {
		s.editingID = ""
	}

	s.logger.Debug("brews saved", logging.KeyOperation, op, logging.KeyCount, len(next))
	return nil
}

func (s *Store) indexOf(id string) int {
	for i, b := range s.records {
		if b.ID == id {
			return i
		}
	}
	return -1
}

// Add creates a brew with a fresh id and the current time and puts it first.
func (s *Store) Add(fields model.BrewFields) (*model.Brew, error) {
	brew := model.NewBrew(s.newID(), s.now(), fields)

	next := make([]*model.Brew, 0, len(s.records)+1)
	next = append(next, brew)
	next = append(next, s.records...)

	if err := s.commit("add", next); err != nil {
		return nil, err
	}
	s.logger.Debug("brew added", logging.KeyBrewID, brew.ID)
	return brew.Clone(), nil
}

// Update replaces every editable field of the brew with id.
// It reports false without writing when id is unknown.
func (s *Store) Update(id string, fields model.BrewFields) (bool, error) {
	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}

	next := make([]*model.Brew, len(s.records))
	copy(next, s.records)
	updated := next[i].Clone()
	updated.Apply(fields)
	next[i] = updated

	if err := s.commit("update", next); err != nil {
		return false, err
	}
	return true, nil
}

// Delete removes the brew with id. Unknown ids are a no-op.
func (s *Store) Delete(id string) (bool, error) {
	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}

	next := make([]*model.Brew, 0, len(s.records)-1)
	next = append(next, s.records[:i]...)
	next = append(next, s.records[i+1:]...)

	if err := s.commit("delete", next); err != nil {
		return false, err
	}
	return true, nil
}

// ClearAll removes every brew and leaves edit mode.
func (s *Store) ClearAll() error {
	if err := s.commit("clear", []*model.Brew{}); err != nil {
		return err
	}
	s.editingID = ""
	return nil
}

// ReplaceAll installs records as the whole collection.
func (s *Store) ReplaceAll(records []*model.Brew) error {
	return s.commit("replace", model.CloneBrews(records))
}

// MergeIn merges records into the collection keyed by id. Incoming records
// overwrite existing ones in place; new ids are appended in the order seen.
func (s *Store) MergeIn(records []*model.Brew) error {
	return s.commit("merge", merge(s.records, records))
}

func merge(existing, incoming []*model.Brew) []*model.Brew {
	next := make([]*model.Brew, 0, len(existing)+len(incoming))
	index := make(map[string]int, len(existing)+len(incoming))

	for _, group := range [][]*model.Brew{existing, incoming} {
		for _, b := range group {
			if i, ok := index[b.ID]; ok {
				next[i] = b.Clone()
				continue
			}
			index[b.ID] = len(next)
			next = append(next, b.Clone())
		}
	}
	return next
}

// BeginEdit marks id as the edit target. Unknown ids are ignored.
func (s *Store) BeginEdit(id string) bool {
	if s.indexOf(id) < 0 {
		return false
	}
	s.editingID = id
	return true
}

// CancelEdit leaves edit mode.
func (s *Store) CancelEdit() {
	s.editingID = ""
}

// EditingID returns the current edit target, or "" when not editing.
func (s *Store) EditingID() string {
	return s.editingID
}

// Submit applies a form submission: it updates the edit target when one is
// set and adds a new brew otherwise.
func (s *Store) Submit(fields model.BrewFields) (*model.Brew, error) {
	if s.editingID == "" {
		return s.Add(fields)
	}

	id := s.editingID
	ok, err := s.Update(id, fields)
	if err != nil {
		return nil, err
	}
	s.editingID = ""
	if !ok {
		return nil, errors.NewUserErrorFrom(errors.ErrBrewNotFound, "Brew not found: "+id)
	}
	return s.Get(id), nil
}

// Get returns a copy of the brew with id, or nil.
func (s *Store) Get(id string) *model.Brew {
	if i := s.indexOf(id); i >= 0 {
		return s.records[i].Clone()
	}
	return nil
}

// Records returns a copy of the stored brews in stored order.
func (s *Store) Records() []*model.Brew {
	return model.CloneBrews(s.records)
}

// Len returns the number of stored brews.
func (s *Store) Len() int {
	return len(s.records)
}

// Average returns the mean score over all stored brews.
// ok is false when the store is empty.
func (s *Store) Average() (float64, bool) {
	return Average(s.records)
}

// Average returns the mean score of brews. ok is false for an empty slice.
func Average(brews []*model.Brew) (float64, bool) {
	if len(brews) == 0 {
		return 0, false
	}
	var total float64
	for _, b := range brews {
		total += b.Score
	}
	return total / float64(len(brews)), true
}

// Resolve maps a user supplied reference to a stored id. An exact id wins;
// otherwise the reference must be the unique prefix or suffix of one id.
// The error wraps ErrBrewNotFound when nothing matches and ErrAmbiguousID
// when several brews do.
func (s *Store) Resolve(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", errors.NewUserErrorFrom(errors.ErrBrewNotFound, "No brew ID given")
	}
	if s.indexOf(ref) >= 0 {
		return ref, nil
	}

	var matches []string
	for _, b := range s.records {
		if strings.HasPrefix(b.ID, ref) || strings.HasSuffix(b.ID, ref) {
			matches = append(matches, b.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", errors.NewUserErrorFrom(errors.ErrBrewNotFound, "Brew not found: "+ref)
	case 1:
		return matches[0], nil
	}
	return "", errors.NewUserErrorFrom(errors.ErrAmbiguousID,
		fmt.Sprintf("%q matches %d brews", ref, len(matches)))
}
