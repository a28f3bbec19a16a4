package handlers

import (
	"github.com/valyala/fasthttp"
	"gorm.io/gorm"

	"github.com/patwasanskar32/Kohinoor-Cloth-Gautam-Readymade/internal/config"
	dbpkg "github.com/patwasanskar32/Kohinoor-Cloth-Gautam-Readymade/internal/db"
	"github.com/patwasanskar32/Kohinoor-Cloth-Gautam-Readymade/internal/identity"
)

type createUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// CreateUser registers a staff (or, policy permitting, owner) account.
func CreateUser(svc *identity.Service) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		var body createUserRequest
		if !decodeBody(ctx, &body) {
			return
		}
		if body.Username == "" || body.Password == "" {
			errResponse(ctx, fasthttp.StatusBadRequest, "username and password required")
			return
		}
		if body.Role == "" {
			body.Role = dbpkg.RoleStaff
		}

		user, err := svc.CreateUser(body.Username, body.Password, body.Role)
		if err != nil {
			failErr(ctx, err)
			return
		}

		ctx.SetStatusCode(fasthttp.StatusCreated)
		jsonResponse(ctx, user)
	}
}

// ListUsers returns every account for the staff management page.
func ListUsers(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		var users []dbpkg.User
		if err := db.Order("username ASC").Find(&users).Error; err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to list users")
			return
		}
		jsonResponse(ctx, users)
	}
}

// DeleteUser removes an account and cascades its attendance records
// and messages. The bootstrap owner cannot be deleted.
func DeleteUser(db *gorm.DB, svc *identity.Service, cfg *config.Config) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		id, ok := pathID(ctx)
		if !ok {
			return
		}

		var user dbpkg.User
		if err := db.First(&user, id).Error; err != nil {
			errResponse(ctx, fasthttp.StatusNotFound, "user not found")
			return
		}
		if user.Username == cfg.OwnerUser && user.Role == dbpkg.RoleOwner {
			errResponse(ctx, fasthttp.StatusForbidden, "cannot delete bootstrap owner")
			return
		}

		if err := svc.DeleteUser(id); err != nil {
			failErr(ctx, err)
			return
		}
		jsonResponse(ctx, map[string]string{"status": "deleted"})
	}
}
