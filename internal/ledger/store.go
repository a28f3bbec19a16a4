package ledger

import (
	dbpkg "github.com/patwasanskar32/Kohinoor-Cloth-Gautam-Readymade/internal/db"
)

// Store is the row-level persistence the ledger needs. Every method
// addresses individual rows by key; the ledger never rewrites whole
// tables. Lookups return (nil, nil) when nothing matches so callers
// can distinguish "absent" from a storage failure.
type Store interface {
	// OpenRecord returns the user's most recently created record with
	// no check-out, or nil if the user is currently checked out.
	OpenRecord(userID uint) (*dbpkg.AttendanceRecord, error)

	// RecordForDay returns the user's record for the given calendar
	// day (YYYY-MM-DD), or nil. If correct use was violated and
	// several exist, the most recent one is returned.
	RecordForDay(userID uint, date string) (*dbpkg.AttendanceRecord, error)

	RecordByID(id uint) (*dbpkg.AttendanceRecord, error)
	InsertRecord(rec *dbpkg.AttendanceRecord) error
	UpdateRecord(rec *dbpkg.AttendanceRecord) error
	DeleteRecord(id uint) error

	UserByID(id uint) (*dbpkg.User, error)
}
