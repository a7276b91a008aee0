package reconcile

import (
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kintai-backend/internal/model"
)

// fakeStore keeps one event per (user, date, kind), like the real table after
// the delete-then-insert protocol has run.
type fakeStore struct {
	events  map[string]model.Attendance
	failOn  string // (date_kind) whose insert should fail
	inserts int
}

func newFakeStore() *fakeStore {
	return &fakeStore{events: make(map[string]model.Attendance)}
}

func (f *fakeStore) key(userID uint, date, kind string) string {
	return fmt.Sprintf("%d/%s/%s", userID, date, kind)
}

func (f *fakeStore) InsertEvent(userID uint, timestamp, kind, note string) error {
	dt, err := ParseTimestamp(timestamp)
	if err != nil {
		return err
	}
	date := dt.Format(DateLayout)
	if f.failOn == date+"_"+kind {
		return errors.New("disk full")
	}
	f.inserts++
	f.events[f.key(userID, date, kind)] = model.Attendance{
		UserID: userID, Timestamp: timestamp, Kind: kind, Note: note,
	}
	return nil
}

func (f *fakeStore) DeleteEvent(userID uint, date, kind string) error {
	delete(f.events, f.key(userID, date, kind))
	return nil
}

func (f *fakeStore) snapshot() []string {
	var out []string
	for k, ev := range f.events {
		out = append(out, k+"="+ev.Timestamp+"#"+ev.Note)
	}
	sort.Strings(out)
	return out
}

func sampleIncoming() *DaySet {
	set := NewDaySet()
	set.Set("2025-01-06", model.KindIn, Entry{Timestamp: "2025-01-06T09:00:00", Time: "09:00"})
	set.Set("2025-01-06", model.KindOut, Entry{Timestamp: "2025-01-06T19:30:00", Time: "19:30", Note: "deploy"})
	set.Set("2025-01-07", model.KindIn, Entry{Timestamp: "2025-01-07T08:45:00", Time: "08:45"})
	return set
}

func TestApplyUnconditionalWritesEverything(t *testing.T) {
	store := newFakeStore()
	res := NewApplier(store).ApplyUnconditional(1, sampleIncoming())

	assert.Equal(t, 3, res.Written)
	assert.Empty(t, res.Errors)
	assert.Len(t, store.events, 3)
}

func TestApplyUnconditionalIsIdempotent(t *testing.T) {
	store := newFakeStore()
	applier := NewApplier(store)

	applier.ApplyUnconditional(1, sampleIncoming())
	first := store.snapshot()

	res := applier.ApplyUnconditional(1, sampleIncoming())
	assert.Equal(t, 3, res.Written)
	assert.Equal(t, first, store.snapshot())
}

func TestApplyResolvedKeepAllLeavesStorageUntouched(t *testing.T) {
	store := newFakeStore()
	applier := NewApplier(store)

	// Everything already stored, so everything conflicts.
	applier.ApplyUnconditional(1, sampleIncoming())
	before := store.snapshot()
	beforeInserts := store.inserts

	existing, err := GroupEvents(storedRows(store))
	require.NoError(t, err)
	conflicts := DetectConflicts(existing, sampleIncoming())
	require.Len(t, conflicts, 3)

	choices := make(map[string]Choice)
	for _, c := range conflicts {
		choices[c.Key()] = ChoiceKeep
	}
	res := applier.ApplyResolved(1, conflicts, choices, sampleIncoming())

	assert.Equal(t, 0, res.Written)
	assert.Empty(t, res.Errors)
	assert.Equal(t, before, store.snapshot())
	assert.Equal(t, beforeInserts, store.inserts)
}

func TestApplyResolvedOverwriteAllMatchesUnconditional(t *testing.T) {
	incoming := sampleIncoming()

	unconditional := newFakeStore()
	seedExisting(t, unconditional)
	NewApplier(unconditional).ApplyUnconditional(1, incoming)

	resolved := newFakeStore()
	seedExisting(t, resolved)
	existing, err := GroupEvents(storedRows(resolved))
	require.NoError(t, err)
	conflicts := DetectConflicts(existing, incoming)
	require.NotEmpty(t, conflicts)

	choices := make(map[string]Choice)
	for _, c := range conflicts {
		choices[c.Key()] = ChoiceOverwrite
	}
	res := NewApplier(resolved).ApplyResolved(1, conflicts, choices, incoming)

	assert.Equal(t, 3, res.Written)
	assert.Empty(t, res.Errors)
	assert.Equal(t, unconditional.snapshot(), resolved.snapshot())
}

func TestApplyResolvedUnchosenConflictIsKept(t *testing.T) {
	store := newFakeStore()
	seedExisting(t, store)
	applier := NewApplier(store)

	incoming := sampleIncoming()
	existing, err := GroupEvents(storedRows(store))
	require.NoError(t, err)
	conflicts := DetectConflicts(existing, incoming)
	require.Len(t, conflicts, 1) // only 2025-01-06 in is seeded

	res := applier.ApplyResolved(1, conflicts, map[string]Choice{}, incoming)

	// The conflicted IN is untouched, the other two entries are written.
	assert.Equal(t, 2, res.Written)
	assert.Equal(t, "2025-01-06T08:30:00",
		store.events[store.key(1, "2025-01-06", model.KindIn)].Timestamp)
}

func TestApplyResolvedReportsBlankTimestampPerEntry(t *testing.T) {
	store := newFakeStore()
	incoming := sampleIncoming()
	incoming.Set("2025-01-08", model.KindOut, Entry{Time: "18:00"}) // no timestamp

	res := NewApplier(store).ApplyResolved(1, nil, nil, incoming)

	assert.Equal(t, 3, res.Written)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "2025-01-08", res.Errors[0].Date)
	assert.Equal(t, model.KindOut, res.Errors[0].Kind)
}

func TestApplyResolvedReportsDanglingResolution(t *testing.T) {
	store := newFakeStore()
	choices := map[string]Choice{"2030-12-31_in": ChoiceOverwrite}

	res := NewApplier(store).ApplyResolved(1, nil, choices, sampleIncoming())

	assert.Equal(t, 3, res.Written)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "2030-12-31", res.Errors[0].Date)
}

func TestApplyContinuesPastStorageErrors(t *testing.T) {
	store := newFakeStore()
	store.failOn = "2025-01-06_out"

	res := NewApplier(store).ApplyUnconditional(1, sampleIncoming())

	assert.Equal(t, 2, res.Written)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "disk full", res.Errors[0].Reason)
}

func seedExisting(t *testing.T, store *fakeStore) {
	t.Helper()
	require.NoError(t, store.InsertEvent(1, "2025-01-06T08:30:00", model.KindIn, "old"))
}

func storedRows(store *fakeStore) []model.Attendance {
	var rows []model.Attendance
	for _, ev := range store.events {
		rows = append(rows, ev)
	}
	return rows
}
