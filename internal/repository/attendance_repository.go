package repository

import (
	"kintai-backend/internal/model"

	"gorm.io/gorm"
)

// AttendanceRepository is the storage collaborator for attendance events.
// It deliberately exposes no update: edits run as delete-then-insert through
// the reconcile package.
type AttendanceRepository interface {
	InsertEvent(userID uint, timestamp, kind, note string) error
	BulkInsert(records []model.Attendance) error
	GetByUser(userID uint) ([]model.Attendance, error)
	GetByUserAndRange(userID uint, start, end string) ([]model.Attendance, error)
	DeleteEvent(userID uint, date, kind string) error
	DeleteByUserAndDate(userID uint, date string) error
}

type attendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &attendanceRepository{db}
}

func (r *attendanceRepository) InsertEvent(userID uint, timestamp, kind, note string) error {
	rec := model.Attendance{UserID: userID, Timestamp: timestamp, Kind: kind, Note: note}
	return r.db.Create(&rec).Error
}

func (r *attendanceRepository) BulkInsert(records []model.Attendance) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.Create(&records).Error
}

func (r *attendanceRepository) GetByUser(userID uint) ([]model.Attendance, error) {
	var records []model.Attendance
	err := r.db.Where("user_id = ?", userID).Order("timestamp").Find(&records).Error
	return records, err
}

// GetByUserAndRange returns events with start <= timestamp < end. Bounds are
// ISO date strings; lexicographic order on the stored format makes the string
// comparison correct.
func (r *attendanceRepository) GetByUserAndRange(userID uint, start, end string) ([]model.Attendance, error) {
	var records []model.Attendance
	err := r.db.Where("user_id = ? AND timestamp >= ? AND timestamp < ?", userID, start, end).
		Order("timestamp").Find(&records).Error
	return records, err
}

func (r *attendanceRepository) DeleteEvent(userID uint, date, kind string) error {
	return r.db.Unscoped().
		Where("user_id = ? AND timestamp LIKE ? AND kind = ?", userID, date+"T%", kind).
		Delete(&model.Attendance{}).Error
}

func (r *attendanceRepository) DeleteByUserAndDate(userID uint, date string) error {
	return r.db.Unscoped().
		Where("user_id = ? AND timestamp LIKE ?", userID, date+"T%").
		Delete(&model.Attendance{}).Error
}
