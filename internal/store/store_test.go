package store

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"testing"
	"time"

	"github.com/manav03panchal/brewlog/internal/errors"
	"github.com/manav03panchal/brewlog/internal/logging"
	"github.com/manav03panchal/brewlog/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memSlot is an in-memory Slot that can be told to fail.
type memSlot struct {
	data    []byte
	saves   int
	loadErr error
	saveErr error
}

func (m *memSlot) Load() ([]byte, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.data, nil
}

func (m *memSlot) Save(data []byte) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.data = append([]byte(nil), data...)
	return nil
}

var baseTime = time.Date(2024, 5, 15, 9, 0, 0, 0, time.UTC)

// testOptions returns a clock that advances one minute per call and sequential ids.
func testOptions() Options {
	tick := 0
	seq := 0
	return Options{
		Now: func() time.Time {
			tick++
			return baseTime.Add(time.Duration(tick) * time.Minute)
		},
		NewID: func() string {
			seq++
			return fmt.Sprintf("id-%02d", seq)
		},
		Logger: logging.Discard(),
	}
}

func openStore(t *testing.T, slot *memSlot) *Store {
	t.Helper()
	s, err := Open(slot, testOptions())
	require.NoError(t, err)
	return s
}

func fields(bean, method string, score float64) model.BrewFields {
	return model.BrewFields{Bean: bean, Method: method, Ratio: "1:15", Score: score}
}

func brew(id string, score float64) *model.Brew {
	return model.NewBrew(id, baseTime, fields("Bean "+id, "V60", score))
}

func ids(brews []*model.Brew) []string {
	out := make([]string, len(brews))
	for i, b := range brews {
		out[i] = b.ID
	}
	return out
}

// =============================================================================
// Open
// =============================================================================

func TestOpenRecoversFromBadContent(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"nothing_saved", ""},
		{"not_json", "this is not json"},
		{"object", `{"brews":[]}`},
		{"truncated_array", `[{"bean":"A"`},
		{"number", `42`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := openStore(t, &memSlot{data: []byte(tt.data)})
			assert.Equal(t, 0, s.Len())
		})
	}
}

func TestOpenKeepsOnlyValidRecords(t *testing.T) {
	data := `[
		{"id":"a","bean":"Kenya","method":"V60","ratio":"1:16","score":8,"notes":"","createdAt":"2024-01-01T00:00:00.000Z"},
		{"id":"b","bean":"","method":"V60","ratio":"1:16","score":8},
		null,
		{"id":"c","bean":"Brazil","method":"Espresso","ratio":"1:2","score":"6","notes":"nutty"}
	]`

	s := openStore(t, &memSlot{data: []byte(data)})

	assert.Equal(t, []string{"a", "c"}, ids(s.Records()))
}

func TestOpenSlotFailure(t *testing.T) {
	_, err := Open(&memSlot{loadErr: stderrors.New("io failure")}, testOptions())

	require.Error(t, err)
	assert.True(t, errors.IsSystemError(err))
}

func TestOpenReloadsSavedState(t *testing.T) {
	slot := &memSlot{}
	s := openStore(t, slot)
	_, err := s.Add(fields("Kenya", "V60", 8))
	require.NoError(t, err)
	_, err = s.Add(fields("Brazil", "Chemex", 6.5))
	require.NoError(t, err)

	reopened := openStore(t, slot)

	assert.Equal(t, s.Records(), reopened.Records())
}

// =============================================================================
// Mutations
// =============================================================================

func TestAddPrependsAndPersists(t *testing.T) {
	slot := &memSlot{}
	s := openStore(t, slot)

	first, err := s.Add(fields("Kenya", "V60", 8))
	require.NoError(t, err)
	second, err := s.Add(fields("Brazil", "Chemex", 6))
	require.NoError(t, err)

	assert.Equal(t, "id-01", first.ID)
	assert.Equal(t, baseTime.Add(time.Minute), first.CreatedAt)
	assert.Equal(t, []string{second.ID, first.ID}, ids(s.Records()))
	assert.Equal(t, 2, slot.saves)

	var saved []map[string]any
	require.NoError(t, json.Unmarshal(slot.data, &saved))
	require.Len(t, saved, 2)
	assert.Equal(t, "Brazil", saved[0]["bean"])
	assert.Equal(t, "2024-05-15T09:02:00.000Z", saved[0]["createdAt"])
}

func TestUpdate(t *testing.T) {
	slot := &memSlot{}
	s := openStore(t, slot)
	added, err := s.Add(fields("Kenya", "V60", 8))
	require.NoError(t, err)

	t.Run("known_id", func(t *testing.T) {
		ok, err := s.Update(added.ID, model.BrewFields{Bean: "Kenya AA", Method: "Kalita", Ratio: "1:17", Score: 9, Notes: "juicy"})
		require.NoError(t, err)
		assert.True(t, ok)

		got := s.Get(added.ID)
		require.NotNil(t, got)
		assert.Equal(t, "Kenya AA", got.Bean)
		assert.Equal(t, "Kalita", got.Method)
		assert.Equal(t, 9.0, got.Score)
		assert.Equal(t, added.CreatedAt, got.CreatedAt)
	})

	t.Run("unknown_id", func(t *testing.T) {
		saves := slot.saves
		ok, err := s.Update("missing", fields("X", "V60", 5))
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, saves, slot.saves)
	})
}

func TestDelete(t *testing.T) {
	slot := &memSlot{}
	s := openStore(t, slot)
	a, _ := s.Add(fields("A", "V60", 5))
	b, _ := s.Add(fields("B", "V60", 6))

	t.Run("unknown_id_is_noop", func(t *testing.T) {
		before := s.Records()
		saves := slot.saves

		ok, err := s.Delete("nonexistent")

		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, before, s.Records())
		assert.Equal(t, saves, slot.saves)
	})

	t.Run("known_id", func(t *testing.T) {
		ok, err := s.Delete(a.ID)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []string{b.ID}, ids(s.Records()))
	})

	t.Run("clears_edit_target", func(t *testing.T) {
		require.True(t, s.BeginEdit(b.ID))
		_, err := s.Delete(b.ID)
		require.NoError(t, err)
		assert.Equal(t, "", s.EditingID())
	})
}

func TestClearAll(t *testing.T) {
	slot := &memSlot{}
	s := openStore(t, slot)
	a, _ := s.Add(fields("A", "V60", 5))
	s.BeginEdit(a.ID)

	require.NoError(t, s.ClearAll())

	assert.Equal(t, 0, s.Len())
	assert.Equal(t, "", s.EditingID())
	assert.JSONEq(t, `[]`, string(slot.data))
}

func TestFailedWriteLeavesStateUnchanged(t *testing.T) {
	slot := &memSlot{}
	s := openStore(t, slot)
	a, err := s.Add(fields("A", "V60", 5))
	require.NoError(t, err)
	before := s.Records()

	slot.saveErr = stderrors.New("disk full")

	_, err = s.Add(fields("B", "V60", 6))
	assert.True(t, errors.IsSystemError(err))

	_, err = s.Update(a.ID, fields("Z", "V60", 9))
	assert.True(t, errors.IsSystemError(err))

	_, err = s.Delete(a.ID)
	assert.True(t, errors.IsSystemError(err))

	assert.True(t, errors.IsSystemError(s.ClearAll()))
	assert.Equal(t, before, s.Records())
}

func TestReplaceAll(t *testing.T) {
	s := openStore(t, &memSlot{})
	_, _ = s.Add(fields("Old", "V60", 5))

	require.NoError(t, s.ReplaceAll([]*model.Brew{brew("x", 7), brew("y", 8)}))

	assert.Equal(t, []string{"x", "y"}, ids(s.Records()))
}

func TestMergeIn(t *testing.T) {
	t.Run("incoming_overwrites_in_place", func(t *testing.T) {
		s := openStore(t, &memSlot{})
		require.NoError(t, s.ReplaceAll([]*model.Brew{brew("a", 5)}))

		require.NoError(t, s.MergeIn([]*model.Brew{brew("a", 9)}))

		records := s.Records()
		require.Len(t, records, 1)
		assert.Equal(t, "a", records[0].ID)
		assert.Equal(t, 9.0, records[0].Score)
	})

	t.Run("first_seen_key_order", func(t *testing.T) {
		s := openStore(t, &memSlot{})
		require.NoError(t, s.ReplaceAll([]*model.Brew{brew("a", 5), brew("b", 6)}))

		require.NoError(t, s.MergeIn([]*model.Brew{brew("c", 7), brew("a", 8), brew("d", 9)}))

		assert.Equal(t, []string{"a", "b", "c", "d"}, ids(s.Records()))
		assert.Equal(t, 8.0, s.Get("a").Score)
	})

	t.Run("merging_self_is_idempotent", func(t *testing.T) {
		s := openStore(t, &memSlot{})
		require.NoError(t, s.ReplaceAll([]*model.Brew{brew("a", 5), brew("b", 6), brew("c", 7)}))
		before := s.Records()

		require.NoError(t, s.MergeIn(s.Records()))

		assert.Equal(t, before, s.Records())
	})

	t.Run("duplicate_incoming_ids_collapse", func(t *testing.T) {
		s := openStore(t, &memSlot{})

		require.NoError(t, s.MergeIn([]*model.Brew{brew("a", 5), brew("a", 6)}))

		records := s.Records()
		require.Len(t, records, 1)
		assert.Equal(t, 6.0, records[0].Score)
	})
}

// =============================================================================
// Edit Mode
// =============================================================================

func TestSubmit(t *testing.T) {
	s := openStore(t, &memSlot{})

	added, err := s.Submit(fields("Kenya", "V60", 7))
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())

	assert.False(t, s.BeginEdit("unknown"))
	assert.Equal(t, "", s.EditingID())

	require.True(t, s.BeginEdit(added.ID))
	assert.Equal(t, added.ID, s.EditingID())

	updated, err := s.Submit(fields("Kenya", "V60", 9))
	require.NoError(t, err)
	assert.Equal(t, added.ID, updated.ID)
	assert.Equal(t, 9.0, updated.Score)
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, "", s.EditingID())
}

func TestCancelEdit(t *testing.T) {
	s := openStore(t, &memSlot{})
	added, _ := s.Add(fields("Kenya", "V60", 7))
	s.BeginEdit(added.ID)

	s.CancelEdit()

	assert.Equal(t, "", s.EditingID())
	_, err := s.Submit(fields("Other", "V60", 5))
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())
}

func TestRecordsAreCopies(t *testing.T) {
	s := openStore(t, &memSlot{})
	added, _ := s.Add(fields("Kenya", "V60", 7))

	s.Records()[0].Score = 1
	s.Get(added.ID).Bean = "changed"
	added.Notes = "changed"

	got := s.Get(added.ID)
	assert.Equal(t, 7.0, got.Score)
	assert.Equal(t, "Kenya", got.Bean)
	assert.Equal(t, "", got.Notes)
}

// =============================================================================
// Average
// =============================================================================

func TestAverage(t *testing.T) {
	s := openStore(t, &memSlot{})

	_, ok := s.Average()
	assert.False(t, ok)

	for _, score := range []float64{8, 6, 10} {
		_, err := s.Add(fields("A", "V60", score))
		require.NoError(t, err)
	}

	avg, ok := s.Average()
	assert.True(t, ok)
	assert.InDelta(t, 8.0, avg, 1e-9)
	assert.Equal(t, "8.0", fmt.Sprintf("%.1f", avg))
}

func TestResolve(t *testing.T) {
	s := openStore(t, &memSlot{})
	require.NoError(t, s.ReplaceAll([]*model.Brew{
		brew("0190a1b2-aaaa-7000-8000-111111111111", 5),
		brew("0190a1b2-bbbb-7000-8000-222222222222", 6),
	}))

	tests := []struct {
		name    string
		ref     string
		want    string
		wantErr error
	}{
		{"exact", "0190a1b2-aaaa-7000-8000-111111111111", "0190a1b2-aaaa-7000-8000-111111111111", nil},
		{"unique_suffix", "22222222", "0190a1b2-bbbb-7000-8000-222222222222", nil},
		{"unique_prefix", "0190a1b2-aaaa", "0190a1b2-aaaa-7000-8000-111111111111", nil},
		{"ambiguous_prefix", "0190a1b2", "", errors.ErrAmbiguousID},
		{"unknown", "zzz", "", errors.ErrBrewNotFound},
		{"blank", "  ", "", errors.ErrBrewNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Resolve(tt.ref)
			assert.Equal(t, tt.want, got)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, errors.IsUserError(err))
		})
	}
}
