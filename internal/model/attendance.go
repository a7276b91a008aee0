package model

import "gorm.io/gorm"

const (
	KindIn  = "in"
	KindOut = "out"
)

// Attendance is a single clock action. The timestamp is stored as an ISO
// string ("2006-01-02T15:04:05") and its date part is the key used for
// duplicate and conflict checks. At most one row should exist per
// (user, date, kind); the reconcile package enforces this with its
// delete-then-insert protocol, so legacy duplicates self-heal on the next
// write to that day.
type Attendance struct {
	gorm.Model
	UserID    uint   `json:"user_id" gorm:"index;not null"`
	Timestamp string `json:"timestamp" gorm:"not null"`
	Kind      string `json:"kind" gorm:"not null"` // in / out
	Note      string `json:"note"`
}
