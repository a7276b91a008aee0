package reconcile

import (
	"fmt"

	"kintai-backend/internal/model"
)

// Entry is one side of a day: a single clock action.
type Entry struct {
	Timestamp string `json:"timestamp"` // "2006-01-02T15:04:05"
	Time      string `json:"time"`      // "15:04", for display and CSV
	Note      string `json:"note"`
}

// DayRecord is a day's view of attendance: at most one IN and one OUT.
type DayRecord struct {
	In  *Entry `json:"in,omitempty"`
	Out *Entry `json:"out,omitempty"`
}

func (d *DayRecord) entry(kind string) *Entry {
	if kind == model.KindIn {
		return d.In
	}
	return d.Out
}

// DaySet maps calendar dates ("2006-01-02") to DayRecords, remembering first
// insertion order of the dates. Conflict listings and applied writes walk the
// set in that order, so results are deterministic for a given input sequence.
type DaySet struct {
	days  map[string]*DayRecord
	order []string
}

func NewDaySet() *DaySet {
	return &DaySet{days: make(map[string]*DayRecord)}
}

// Set records an entry for (date, kind). A later Set for the same pair
// replaces the earlier one: last processed wins.
func (s *DaySet) Set(date, kind string, e Entry) {
	rec, ok := s.days[date]
	if !ok {
		rec = &DayRecord{}
		s.days[date] = rec
		s.order = append(s.order, date)
	}
	if kind == model.KindIn {
		rec.In = &e
	} else {
		rec.Out = &e
	}
}

// Get returns the record for date, or nil.
func (s *DaySet) Get(date string) *DayRecord {
	return s.days[date]
}

// Entry returns the entry for (date, kind), or nil.
func (s *DaySet) Entry(date, kind string) *Entry {
	rec := s.days[date]
	if rec == nil {
		return nil
	}
	return rec.entry(kind)
}

// Dates returns the dates in first-insertion order.
func (s *DaySet) Dates() []string {
	return s.order
}

func (s *DaySet) Len() int {
	return len(s.order)
}

// GroupEvents converts stored attendance rows into a DaySet. It is a pure
// transformation: timestamps are parsed (with the single-digit-hour
// tolerance), and rows with the same (date, kind) overwrite each other in
// input order. A timestamp broken beyond the tolerance fails the whole batch.
func GroupEvents(events []model.Attendance) (*DaySet, error) {
	set := NewDaySet()
	for _, ev := range events {
		dt, err := ParseTimestamp(ev.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("attendance record %d: %w", ev.ID, err)
		}
		set.Set(dt.Format(DateLayout), ev.Kind, Entry{
			Timestamp: dt.Format(TimestampLayout),
			Time:      dt.Format("15:04"),
			Note:      ev.Note,
		})
	}
	return set, nil
}
