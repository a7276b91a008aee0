package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kintai-backend/internal/model"
)

func TestGroupEvents(t *testing.T) {
	set, err := GroupEvents([]model.Attendance{
		{UserID: 1, Timestamp: "2025-01-06T09:00:00", Kind: model.KindIn},
		{UserID: 1, Timestamp: "2025-01-06T18:30:00", Kind: model.KindOut, Note: "release prep"},
		{UserID: 1, Timestamp: "2025-01-07T9:15:00", Kind: model.KindIn}, // tolerated malformation
	})
	require.NoError(t, err)

	require.Equal(t, 2, set.Len())
	assert.Equal(t, []string{"2025-01-06", "2025-01-07"}, set.Dates())

	rec := set.Get("2025-01-06")
	require.NotNil(t, rec)
	assert.Equal(t, "09:00", rec.In.Time)
	assert.Equal(t, "18:30", rec.Out.Time)
	assert.Equal(t, "release prep", rec.Out.Note)

	// The padded timestamp is stored normalized.
	assert.Equal(t, "2025-01-07T09:15:00", set.Entry("2025-01-07", model.KindIn).Timestamp)
}

func TestGroupEventsLastWinsOnDuplicateKind(t *testing.T) {
	set, err := GroupEvents([]model.Attendance{
		{UserID: 1, Timestamp: "2025-01-06T08:55:00", Kind: model.KindIn},
		{UserID: 1, Timestamp: "2025-01-06T09:10:00", Kind: model.KindIn},
	})
	require.NoError(t, err)
	assert.Equal(t, "09:10", set.Entry("2025-01-06", model.KindIn).Time)
}

func TestGroupEventsRejectsBrokenTimestamp(t *testing.T) {
	_, err := GroupEvents([]model.Attendance{
		{UserID: 1, Timestamp: "2025-01-06T09:00:00", Kind: model.KindIn},
		{UserID: 1, Timestamp: "06/01/2025 9am", Kind: model.KindOut},
	})
	assert.Error(t, err)
}

func TestDetectConflictsNoOverlap(t *testing.T) {
	existing := NewDaySet()
	existing.Set("2025-01-06", model.KindIn, Entry{Timestamp: "2025-01-06T09:00:00", Time: "09:00"})

	incoming := NewDaySet()
	incoming.Set("2025-01-06", model.KindOut, Entry{Timestamp: "2025-01-06T18:00:00", Time: "18:00"})
	incoming.Set("2025-01-07", model.KindIn, Entry{Timestamp: "2025-01-07T09:00:00", Time: "09:00"})

	assert.Empty(t, DetectConflicts(existing, incoming))
}

func TestDetectConflictsFlagsPresenceEvenWhenIdentical(t *testing.T) {
	entry := Entry{Timestamp: "2025-01-06T09:00:00", Time: "09:00", Note: "same"}

	existing := NewDaySet()
	existing.Set("2025-01-06", model.KindIn, entry)
	incoming := NewDaySet()
	incoming.Set("2025-01-06", model.KindIn, entry)

	conflicts := DetectConflicts(existing, incoming)
	require.Len(t, conflicts, 1)
	assert.Equal(t, "2025-01-06", conflicts[0].Date)
	assert.Equal(t, model.KindIn, conflicts[0].Kind)
	assert.Equal(t, "2025-01-06_in", conflicts[0].Key())
}

func TestDetectConflictsFollowsIncomingOrder(t *testing.T) {
	existing := NewDaySet()
	existing.Set("2025-01-08", model.KindIn, Entry{Timestamp: "2025-01-08T09:00:00"})
	existing.Set("2025-01-06", model.KindIn, Entry{Timestamp: "2025-01-06T09:00:00"})
	existing.Set("2025-01-06", model.KindOut, Entry{Timestamp: "2025-01-06T18:00:00"})

	incoming := NewDaySet()
	incoming.Set("2025-01-08", model.KindIn, Entry{Timestamp: "2025-01-08T09:30:00"})
	incoming.Set("2025-01-06", model.KindOut, Entry{Timestamp: "2025-01-06T19:00:00"})
	incoming.Set("2025-01-06", model.KindIn, Entry{Timestamp: "2025-01-06T08:45:00"})

	var keys []string
	for _, c := range DetectConflicts(existing, incoming) {
		keys = append(keys, c.Key())
	}
	// Incoming insertion order by date, IN before OUT within a day.
	assert.Equal(t, []string{"2025-01-08_in", "2025-01-06_in", "2025-01-06_out"}, keys)
}
