package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	dbpkg "github.com/patwasanskar32/Kohinoor-Cloth-Gautam-Readymade/internal/db"
)

func TestOwnerHasEveryCapability(t *testing.T) {
	for op := range capabilities {
		assert.True(t, Allowed(dbpkg.RoleOwner, op), "owner must be allowed %s", op)
	}
}

func TestStaffCapabilities(t *testing.T) {
	allowed := []Operation{OpViewOwnRecords, OpViewOwnMessages, OpViewOwnQR}
	for _, op := range allowed {
		assert.True(t, Allowed(dbpkg.RoleStaff, op), "staff must be allowed %s", op)
	}

	denied := []Operation{
		OpManageUsers, OpToggleAny, OpMarkAny, OpEditRecord,
		OpDeleteRecord, OpSendMessage, OpViewReports, OpExportReport, OpManageShop,
	}
	for _, op := range denied {
		assert.False(t, Allowed(dbpkg.RoleStaff, op), "staff must not be allowed %s", op)
		assert.ErrorIs(t, Authorize(dbpkg.RoleStaff, op), ErrAccessDenied)
	}
}

func TestUnknownsAreDenied(t *testing.T) {
	assert.False(t, Allowed("manager", OpViewOwnRecords))
	assert.False(t, Allowed(dbpkg.RoleOwner, Operation("reboot_server")))
}
