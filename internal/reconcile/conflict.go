package reconcile

import "kintai-backend/internal/model"

// Conflict marks a (date, kind) pair where an incoming entry would land on an
// already stored one. Both sides are carried so the user can choose. The
// policy is deliberately conservative: presence alone flags a conflict, even
// when the stored value is identical to the incoming one.
type Conflict struct {
	Date     string `json:"date"` // "2006-01-02"
	Kind     string `json:"kind"` // in / out
	Existing Entry  `json:"existing"`
	Incoming Entry  `json:"incoming"`
}

// Key identifies the conflict in resolution submissions, e.g. "2025-01-06_in".
func (c Conflict) Key() string {
	return c.Date + "_" + c.Kind
}

// DetectConflicts lists every (date, kind) present in both sets, in the
// incoming set's insertion order (IN before OUT within a day).
func DetectConflicts(existing, incoming *DaySet) []Conflict {
	var conflicts []Conflict
	for _, date := range incoming.Dates() {
		for _, kind := range []string{model.KindIn, model.KindOut} {
			in := incoming.Entry(date, kind)
			if in == nil {
				continue
			}
			ex := existing.Entry(date, kind)
			if ex == nil {
				continue
			}
			conflicts = append(conflicts, Conflict{
				Date:     date,
				Kind:     kind,
				Existing: *ex,
				Incoming: *in,
			})
		}
	}
	return conflicts
}
