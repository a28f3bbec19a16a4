package report

import (
	"encoding/csv"
	"io"
	"time"
)

// Statuses returned by TodayStatus.
const (
	StatusPresent = "Present"
	StatusAbsent  = "Absent"
)

// Row is one attendance record joined with its user, as shown in the
// owner dashboard and the CSV export.
type Row struct {
	RecordID uint       `json:"record_id"`
	UserID   uint       `json:"user_id"`
	Username string     `json:"username"`
	Role     string     `json:"role"`
	Date     string     `json:"date"`
	CheckIn  *time.Time `json:"check_in"`
	CheckOut *time.Time `json:"check_out"`
	Present  bool       `json:"present"`
}

// Store is the read side the reporter needs.
type Store interface {
	// RecordsInRange returns records joined with usernames, bounded
	// inclusively by the given dates (either may be empty for
	// unbounded), ordered by check-in time descending.
	RecordsInRange(from, to string) ([]Row, error)

	// RecordsForUser returns a user's most recent records, newest first.
	RecordsForUser(userID uint, limit int) ([]Row, error)

	// HasPresentRecordOn reports whether the user has a record dated
	// date with the present flag set.
	HasPresentRecordOn(userID uint, date string) (bool, error)
}

// Reporter answers the read-only questions over the ledger: range
// queries, per-user status and CSV export.
type Reporter struct {
	store Store
	loc   *time.Location
}

// New returns a Reporter whose notion of "today" lives in loc.
func New(store Store, loc *time.Location) *Reporter {
	return &Reporter{store: store, loc: loc}
}

// Query returns records within the inclusive date bounds, joined with
// usernames, ordered by check-in descending. Empty bounds are open.
func (r *Reporter) Query(from, to string) ([]Row, error) {
	return r.store.RecordsInRange(from, to)
}

// RecentForUser returns a user's latest records for their dashboard.
func (r *Reporter) RecentForUser(userID uint, limit int) ([]Row, error) {
	return r.store.RecordsForUser(userID, limit)
}

// TodayStatus reports Present iff the user has any record dated today
// in the configured reference timezone. Explicit Absent marks count as
// records but carry Present=false, so they still yield Absent.
func (r *Reporter) TodayStatus(userID uint, now time.Time) (string, error) {
	today := now.In(r.loc).Format("2006-01-02")
	present, err := r.store.HasPresentRecordOn(userID, today)
	if err != nil {
		return "", err
	}
	if present {
		return StatusPresent, nil
	}
	return StatusAbsent, nil
}

// csvTimeLayout matches the timestamp format the shop has always used
// in its exports.
const csvTimeLayout = "2006-01-02 15:04:05"

// ExportCSV writes the same rows Query returns, one line per record,
// columns username,role,check_in,check_out. Null times become empty
// strings; encoding/csv handles quoting.
func (r *Reporter) ExportCSV(w io.Writer, from, to string) error {
	rows, err := r.store.RecordsInRange(from, to)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"username", "role", "check_in", "check_out"}); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write([]string{
			row.Username,
			row.Role,
			formatTime(row.CheckIn, r.loc),
			formatTime(row.CheckOut, r.loc),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatTime(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return t.In(loc).Format(csvTimeLayout)
}
