package ledger

import "errors"

var (
	// ErrRecordNotFound is returned by Edit and Delete when the record
	// id does not exist.
	ErrRecordNotFound = errors.New("attendance record not found")

	// ErrInvalidTimeRange is returned when a check-out would land
	// before its check-in. The record is left untouched.
	ErrInvalidTimeRange = errors.New("check-out is before check-in")

	// ErrUnauthorizedSubject is returned on the scan path when the
	// token points at a missing user or one that is not staff.
	ErrUnauthorizedSubject = errors.New("token does not belong to a staff member")
)
