package ledger

import (
	"time"

	dbpkg "github.com/patwasanskar32/Kohinoor-Cloth-Gautam-Readymade/internal/db"
	"github.com/patwasanskar32/Kohinoor-Cloth-Gautam-Readymade/internal/qr"
)

// Toggle results. A scan either opens a new record or closes the open one.
const (
	ActionCheckedIn  = "checked in"
	ActionCheckedOut = "checked out"
)

// Ledger implements the attendance state machine over a row-level
// Store. Each user is either CLOSED (no open record) or OPEN (a record
// with check-in and no check-out); Toggle alternates between the two.
//
// Two deliberately different mutation paths coexist (see Mark): the
// toggle path works per open record, the manual mark path works per
// calendar day. They are kept as separate operations on purpose.
type Ledger struct {
	store Store
	loc   *time.Location
}

// New returns a Ledger that derives record dates in loc.
func New(store Store, loc *time.Location) *Ledger {
	return &Ledger{store: store, loc: loc}
}

// ToggleResult reports which transition a toggle performed and the
// record it created or closed.
type ToggleResult struct {
	Action string                  `json:"action"`
	Record *dbpkg.AttendanceRecord `json:"record"`
}

// Toggle flips the user between OPEN and CLOSED at the given time. If
// an open record exists its check-out is filled in; otherwise a new
// record is opened. Should several open records exist (broken by a
// past race or manual edit), the most recent one is closed rather than
// erroring. There is no "already checked in today" guard here: a user
// may legitimately check in and out several times a day.
func (l *Ledger) Toggle(userID uint, at time.Time) (*ToggleResult, error) {
	open, err := l.store.OpenRecord(userID)
	if err != nil {
		return nil, err
	}

	if open != nil {
		out := at
		open.CheckOut = &out
		if err := l.store.UpdateRecord(open); err != nil {
			return nil, err
		}
		return &ToggleResult{Action: ActionCheckedOut, Record: open}, nil
	}

	in := at
	rec := &dbpkg.AttendanceRecord{
		UserID:  userID,
		Date:    at.In(l.loc).Format("2006-01-02"),
		CheckIn: &in,
		Present: true,
	}
	if err := l.store.InsertRecord(rec); err != nil {
		return nil, err
	}
	return &ToggleResult{Action: ActionCheckedIn, Record: rec}, nil
}

// ToggleByToken resolves a scanned QR token and toggles its subject.
// Only staff QR codes are accepted on this path; the owner corrects
// records through the back office, not by scanning their own card.
func (l *Ledger) ToggleByToken(raw string, at time.Time) (*ToggleResult, error) {
	userID, err := qr.ParseToken(raw)
	if err != nil {
		return nil, err
	}

	user, err := l.store.UserByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Role != dbpkg.RoleStaff {
		return nil, ErrUnauthorizedSubject
	}

	return l.Toggle(userID, at)
}

// Mark is the owner's day-granularity upsert: if the user already has
// a record for the date it is updated in place, otherwise a new one is
// inserted. Unlike Toggle, Mark can store an explicit Absent day with
// no timestamps, and calling it twice for the same day never produces
// a second row.
func (l *Ledger) Mark(userID uint, date string, present bool, checkIn, checkOut *time.Time) (*dbpkg.AttendanceRecord, error) {
	if err := validateRange(checkIn, checkOut); err != nil {
		return nil, err
	}

	user, err := l.store.UserByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnauthorizedSubject
	}

	rec, err := l.store.RecordForDay(userID, date)
	if err != nil {
		return nil, err
	}

	if rec != nil {
		rec.CheckIn = checkIn
		rec.CheckOut = checkOut
		rec.Present = present
		if err := l.store.UpdateRecord(rec); err != nil {
			return nil, err
		}
		return rec, nil
	}

	rec = &dbpkg.AttendanceRecord{
		UserID:   userID,
		Date:     date,
		CheckIn:  checkIn,
		CheckOut: checkOut,
		Present:  present,
	}
	if err := l.store.InsertRecord(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Edit overwrites a record's fields directly. The only validation is
// that a check-out must not precede its check-in; open/closed state is
// deliberately not re-checked, this is the owner's correction tool.
func (l *Ledger) Edit(id uint, checkIn, checkOut *time.Time, present bool) (*dbpkg.AttendanceRecord, error) {
	if err := validateRange(checkIn, checkOut); err != nil {
		return nil, err
	}

	rec, err := l.store.RecordByID(id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrRecordNotFound
	}

	rec.CheckIn = checkIn
	rec.CheckOut = checkOut
	rec.Present = present
	if err := l.store.UpdateRecord(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Delete removes a record unconditionally.
func (l *Ledger) Delete(id uint) error {
	rec, err := l.store.RecordByID(id)
	if err != nil {
		return err
	}
	if rec == nil {
		return ErrRecordNotFound
	}
	return l.store.DeleteRecord(id)
}

func validateRange(checkIn, checkOut *time.Time) error {
	if checkIn != nil && checkOut != nil && checkOut.Before(*checkIn) {
		return ErrInvalidTimeRange
	}
	return nil
}
