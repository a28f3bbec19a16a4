package db

import (
	"time"

	"gorm.io/datatypes"
)

// Role values for User.Role. The shop has exactly two roles: the
// owner runs the back office, staff check in and out.
const (
	RoleOwner = "owner"
	RoleStaff = "staff"
)

// User is a shop account that can sign in. The bootstrap owner (from
// env) is created as a row in this table on startup.
type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`

	Username     string `gorm:"uniqueIndex;size:64;not null" json:"username"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`

	// Role is "owner" or "staff".
	Role string `gorm:"size:16;not null" json:"role"`
}

// AttendanceRecord is one check-in/check-out pair for a user. A record
// with CheckIn set and CheckOut nil is "open": the user is currently in
// the shop. Manual owner marks may also create records with no
// timestamps at all (an explicit Absent day).
type AttendanceRecord struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`

	UserID uint `gorm:"index;not null" json:"user_id"`

	// Date is the calendar day this record belongs to (YYYY-MM-DD in
	// the configured reference timezone), derived from the check-in
	// time on the toggle path and supplied directly on the manual
	// mark path.
	Date string `gorm:"size:10;index;not null" json:"date"`

	CheckIn  *time.Time `json:"check_in"`
	CheckOut *time.Time `json:"check_out"`

	// Present is true when a check-in exists for the day, or when the
	// owner explicitly marked the day present. An explicit Absent row
	// has Present=false and usually no timestamps.
	Present bool `gorm:"default:false" json:"present"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

// Message is an owner-authored note shown on a staff member's
// dashboard. Append-only; deleted only together with the user or by
// the retention worker.
type Message struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time `json:"created_at"`

	ToUserID uint   `gorm:"index;not null" json:"to_user_id"`
	Title    string `gorm:"size:128" json:"title"`
	Body     string `gorm:"type:text;not null" json:"body"`
}

// ShopProfile is a single-row table holding the shop identity printed
// on ID cards, plus free-form settings (address, phone, GST number and
// whatever else the owner wants on record) without schema changes.
type ShopProfile struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UpdatedAt time.Time `json:"updated_at"`

	Name     string            `gorm:"size:128;not null" json:"name"`
	Settings datatypes.JSONMap `gorm:"type:json" json:"settings"`
}

// DailySummary stores pre-aggregated per-day attendance counts for the
// owner dashboard. Filled by the summary worker; the ledger itself
// never reads these rows.
type DailySummary struct {
	ID uint `gorm:"primaryKey" json:"-"`

	Date string `gorm:"uniqueIndex;size:10;not null" json:"date"`

	PresentCount    int64 `gorm:"not null" json:"present_count"`     // distinct users with a record that day
	CheckedOutCount int64 `gorm:"not null" json:"checked_out_count"` // records closed that day
	OpenCount       int64 `gorm:"not null" json:"open_count"`        // records still open for that day
}
