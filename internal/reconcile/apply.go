package reconcile

import "kintai-backend/internal/model"

// Choice is a user's answer for one conflict.
type Choice string

const (
	ChoiceKeep      Choice = "keep"      // leave the stored entry untouched
	ChoiceOverwrite Choice = "overwrite" // replace it with the incoming entry
)

// Store is the slice of the attendance storage the applier needs. The GORM
// repository satisfies it; tests plug in an in-memory fake.
type Store interface {
	InsertEvent(userID uint, timestamp, kind, note string) error
	DeleteEvent(userID uint, date, kind string) error
}

// RecordError reports a single (date, kind) that could not be written.
// Siblings in the same batch are not affected.
type RecordError struct {
	Date   string `json:"date"`
	Kind   string `json:"kind"`
	Reason string `json:"reason"`
}

// WriteResult summarizes an apply run: how many records actually hit storage
// and which ones failed.
type WriteResult struct {
	Written int           `json:"written"`
	Errors  []RecordError `json:"errors,omitempty"`
}

// Applier commits incoming DaySets to storage. The store exposes no
// update-by-key, so every write is an ordered delete-then-insert for its
// (user, date, kind); re-running the same batch is idempotent.
type Applier struct {
	store Store
}

func NewApplier(store Store) *Applier {
	return &Applier{store: store}
}

// ApplyUnconditional writes every incoming (date, kind), replacing whatever
// is stored there. Used when DetectConflicts came back empty, and for the
// non-conflicted remainder of a resolved batch.
func (a *Applier) ApplyUnconditional(userID uint, incoming *DaySet) WriteResult {
	return a.apply(userID, incoming, nil)
}

// ApplyResolved writes an incoming set under the user's per-conflict choices.
// ChoiceKeep skips the pair, ChoiceOverwrite replaces it; a conflicted pair
// with no submitted choice is kept. Entries outside the conflict list are
// written unconditionally. Choices referencing a (date, kind) that is not in
// the incoming set are reported per entry and do not abort the rest.
func (a *Applier) ApplyResolved(userID uint, conflicts []Conflict, choices map[string]Choice, incoming *DaySet) WriteResult {
	skip := make(map[string]bool, len(conflicts))
	for _, c := range conflicts {
		if choices[c.Key()] != ChoiceOverwrite {
			skip[c.Key()] = true
		}
	}
	res := a.apply(userID, incoming, skip)

	for key := range choices {
		date, kind, ok := splitKey(key)
		if !ok || incoming.Entry(date, kind) == nil {
			res.Errors = append(res.Errors, RecordError{
				Date: date, Kind: kind,
				Reason: "resolution does not match any imported entry",
			})
		}
	}
	return res
}

func (a *Applier) apply(userID uint, incoming *DaySet, skip map[string]bool) WriteResult {
	var res WriteResult
	for _, date := range incoming.Dates() {
		for _, kind := range []string{model.KindIn, model.KindOut} {
			entry := incoming.Entry(date, kind)
			if entry == nil || skip[date+"_"+kind] {
				continue
			}
			if entry.Timestamp == "" {
				res.Errors = append(res.Errors, RecordError{
					Date: date, Kind: kind, Reason: "missing timestamp",
				})
				continue
			}
			if err := a.store.DeleteEvent(userID, date, kind); err != nil {
				res.Errors = append(res.Errors, RecordError{
					Date: date, Kind: kind, Reason: err.Error(),
				})
				continue
			}
			if err := a.store.InsertEvent(userID, entry.Timestamp, kind, entry.Note); err != nil {
				res.Errors = append(res.Errors, RecordError{
					Date: date, Kind: kind, Reason: err.Error(),
				})
				continue
			}
			res.Written++
		}
	}
	return res
}

func splitKey(key string) (date, kind string, ok bool) {
	if len(key) < len(DateLayout)+2 || key[len(DateLayout)] != '_' {
		return key, "", false
	}
	date, kind = key[:len(DateLayout)], key[len(DateLayout)+1:]
	if kind != model.KindIn && kind != model.KindOut {
		return date, kind, false
	}
	return date, kind, true
}
