// Package access is the capability table mapping operations to the
// roles allowed to perform them. It is consulted once per request by
// the HTTP middleware instead of ad-hoc role checks in every handler.
package access

import (
	"errors"

	dbpkg "github.com/patwasanskar32/Kohinoor-Cloth-Gautam-Readymade/internal/db"
)

// ErrAccessDenied is returned when the role may not perform the operation.
var ErrAccessDenied = errors.New("access denied")

// Operation names one guarded action.
type Operation string

const (
	OpViewOwnRecords  Operation = "view_own_records"
	OpViewOwnMessages Operation = "view_own_messages"
	OpViewOwnQR       Operation = "view_own_qr"

	OpManageUsers  Operation = "manage_users"
	OpToggleAny    Operation = "toggle_any"
	OpMarkAny      Operation = "mark_any"
	OpEditRecord   Operation = "edit_record"
	OpDeleteRecord Operation = "delete_record"
	OpSendMessage  Operation = "send_message"
	OpViewReports  Operation = "view_reports"
	OpExportReport Operation = "export_report"
	OpManageShop   Operation = "manage_shop"
)

// capabilities lists the roles allowed per operation. The owner role
// implicitly includes every staff capability.
var capabilities = map[Operation][]string{
	OpViewOwnRecords:  {dbpkg.RoleStaff, dbpkg.RoleOwner},
	OpViewOwnMessages: {dbpkg.RoleStaff, dbpkg.RoleOwner},
	OpViewOwnQR:       {dbpkg.RoleStaff, dbpkg.RoleOwner},

	OpManageUsers:  {dbpkg.RoleOwner},
	OpToggleAny:    {dbpkg.RoleOwner},
	OpMarkAny:      {dbpkg.RoleOwner},
	OpEditRecord:   {dbpkg.RoleOwner},
	OpDeleteRecord: {dbpkg.RoleOwner},
	OpSendMessage:  {dbpkg.RoleOwner},
	OpViewReports:  {dbpkg.RoleOwner},
	OpExportReport: {dbpkg.RoleOwner},
	OpManageShop:   {dbpkg.RoleOwner},
}

// Allowed reports whether role may perform op. Unknown operations are
// never allowed.
func Allowed(role string, op Operation) bool {
	for _, r := range capabilities[op] {
		if r == role {
			return true
		}
	}
	return false
}

// Authorize is Allowed with an error for the handler boundary.
func Authorize(role string, op Operation) error {
	if !Allowed(role, op) {
		return ErrAccessDenied
	}
	return nil
}
