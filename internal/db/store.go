package db

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/patwasanskar32/Kohinoor-Cloth-Gautam-Readymade/internal/report"
)

// Store is the row-level persistence layer backing the ledger,
// identity and report packages. All methods address individual rows by
// key; storage failures are wrapped in ErrStorageUnavailable.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func wrap(err error) error {
	return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
}

// --- ledger.Store ---

// OpenRecord returns the user's most recently created open record, or
// nil if every record is closed.
func (s *Store) OpenRecord(userID uint) (*AttendanceRecord, error) {
	var rec AttendanceRecord
	err := s.db.Where("user_id = ? AND check_out IS NULL AND check_in IS NOT NULL", userID).
		Order("check_in DESC").
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap(err)
	}
	return &rec, nil
}

func (s *Store) RecordForDay(userID uint, date string) (*AttendanceRecord, error) {
	var rec AttendanceRecord
	err := s.db.Where("user_id = ? AND date = ?", userID, date).
		Order("id DESC").
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap(err)
	}
	return &rec, nil
}

func (s *Store) RecordByID(id uint) (*AttendanceRecord, error) {
	var rec AttendanceRecord
	err := s.db.First(&rec, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap(err)
	}
	return &rec, nil
}

func (s *Store) InsertRecord(rec *AttendanceRecord) error {
	if err := s.db.Create(rec).Error; err != nil {
		return wrap(err)
	}
	return nil
}

func (s *Store) UpdateRecord(rec *AttendanceRecord) error {
	if err := s.db.Save(rec).Error; err != nil {
		return wrap(err)
	}
	return nil
}

func (s *Store) DeleteRecord(id uint) error {
	if err := s.db.Delete(&AttendanceRecord{}, id).Error; err != nil {
		return wrap(err)
	}
	return nil
}

// --- identity.Store ---

func (s *Store) UserByUsername(username string) (*User, error) {
	var user User
	err := s.db.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap(err)
	}
	return &user, nil
}

func (s *Store) UserByID(id uint) (*User, error) {
	var user User
	err := s.db.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap(err)
	}
	return &user, nil
}

func (s *Store) CreateUser(u *User) error {
	if err := s.db.Create(u).Error; err != nil {
		return wrap(err)
	}
	return nil
}

func (s *Store) UpdateUserPassword(id uint, passwordHash string) error {
	if err := s.db.Model(&User{}).Where("id = ?", id).Update("password_hash", passwordHash).Error; err != nil {
		return wrap(err)
	}
	return nil
}

func (s *Store) CountByRole(role string) (int64, error) {
	var count int64
	if err := s.db.Model(&User{}).Where("role = ?", role).Count(&count).Error; err != nil {
		return 0, wrap(err)
	}
	return count, nil
}

// DeleteUserCascade removes the user and everything keyed to them in a
// single transaction, so a failed delete never strands orphan rows.
func (s *Store) DeleteUserCascade(id uint) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&AttendanceRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("to_user_id = ?", id).Delete(&Message{}).Error; err != nil {
			return err
		}
		return tx.Delete(&User{}, id).Error
	})
	if err != nil {
		return wrap(err)
	}
	return nil
}

// --- report.Store ---

const joinedSelect = "attendance_records.id AS record_id, attendance_records.user_id, " +
	"users.username, users.role, attendance_records.date, " +
	"attendance_records.check_in, attendance_records.check_out, attendance_records.present"

func (s *Store) RecordsInRange(from, to string) ([]report.Row, error) {
	q := s.db.Table("attendance_records").
		Select(joinedSelect).
		Joins("JOIN users ON users.id = attendance_records.user_id")
	if from != "" {
		q = q.Where("attendance_records.date >= ?", from)
	}
	if to != "" {
		q = q.Where("attendance_records.date <= ?", to)
	}

	var rows []report.Row
	err := q.Order("attendance_records.check_in DESC NULLS LAST, attendance_records.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, wrap(err)
	}
	return rows, nil
}

func (s *Store) RecordsForUser(userID uint, limit int) ([]report.Row, error) {
	q := s.db.Table("attendance_records").
		Select(joinedSelect).
		Joins("JOIN users ON users.id = attendance_records.user_id").
		Where("attendance_records.user_id = ?", userID).
		Order("attendance_records.check_in DESC NULLS LAST, attendance_records.id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []report.Row
	if err := q.Scan(&rows).Error; err != nil {
		return nil, wrap(err)
	}
	return rows, nil
}

func (s *Store) HasPresentRecordOn(userID uint, date string) (bool, error) {
	var count int64
	err := s.db.Model(&AttendanceRecord{}).
		Where("user_id = ? AND date = ? AND present", userID, date).
		Count(&count).Error
	if err != nil {
		return false, wrap(err)
	}
	return count > 0, nil
}
