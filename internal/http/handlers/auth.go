package handlers

import (
	"github.com/valyala/fasthttp"

	"github.com/patwasanskar32/Kohinoor-Cloth-Gautam-Readymade/internal/auth"
	"github.com/patwasanskar32/Kohinoor-Cloth-Gautam-Readymade/internal/config"
	dbpkg "github.com/patwasanskar32/Kohinoor-Cloth-Gautam-Readymade/internal/db"
	"github.com/patwasanskar32/Kohinoor-Cloth-Gautam-Readymade/internal/http/middleware"
	"github.com/patwasanskar32/Kohinoor-Cloth-Gautam-Readymade/internal/identity"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates credentials and sets the session cookie. The
// failure body is identical for unknown users and wrong passwords.
func Login(svc *identity.Service, cfg *config.Config) fasthttp.RequestHandler {
	secret := []byte(cfg.SessionSecret)
	return func(ctx *fasthttp.RequestCtx) {
		var body loginRequest
		if !decodeBody(ctx, &body) {
			return
		}
		if body.Username == "" || body.Password == "" {
			errResponse(ctx, fasthttp.StatusBadRequest, "username and password required")
			return
		}

		user, err := svc.Authenticate(body.Username, body.Password)
		if err != nil {
			authFailuresTotal.Inc()
			failErr(ctx, err)
			return
		}

		startSession(ctx, secret, cfg, user)
	}
}

// LoginQR signs the card holder in from their attendance QR code. The
// token arrives the same two ways as the attendance scan: decoded text
// in a JSON body, or an uploaded image in a "qr_image" field.
func LoginQR(svc *identity.Service, cfg *config.Config) fasthttp.RequestHandler {
	secret := []byte(cfg.SessionSecret)
	return func(ctx *fasthttp.RequestCtx) {
		token, ok := scanToken(ctx)
		if !ok {
			return
		}

		user, err := svc.AuthenticateQR(token)
		if err != nil {
			authFailuresTotal.Inc()
			failErr(ctx, err)
			return
		}

		startSession(ctx, secret, cfg, user)
	}
}

// startSession mints the session cookie and writes the signed-in
// user's identity as the response body.
func startSession(ctx *fasthttp.RequestCtx, secret []byte, cfg *config.Config, user *dbpkg.User) {
	token, err := auth.NewToken(secret, user.Username, user.Role, cfg.SessionTTL)
	if err != nil {
		errResponse(ctx, fasthttp.StatusInternalServerError, "failed to create session")
		return
	}

	var c fasthttp.Cookie
	c.SetKey(middleware.SessionCookie)
	c.SetValue(token)
	c.SetPath("/")
	c.SetHTTPOnly(true)
	c.SetMaxAge(int(cfg.SessionTTL.Seconds()))
	ctx.Response.Header.SetCookie(&c)

	jsonResponse(ctx, map[string]any{
		"id":       user.ID,
		"username": user.Username,
		"role":     user.Role,
	})
}

// Logout clears the session cookie.
func Logout() fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		var c fasthttp.Cookie
		c.SetKey(middleware.SessionCookie)
		c.SetValue("")
		c.SetPath("/")
		c.SetMaxAge(-1)
		ctx.Response.Header.SetCookie(&c)
		jsonResponse(ctx, map[string]string{"status": "logged out"})
	}
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// ChangePasswordSelf lets the signed-in user rotate their own password.
// The bootstrap owner's password comes from the environment and is not
// editable here, matching how the account is provisioned.
func ChangePasswordSelf(svc *identity.Service, cfg *config.Config) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		user, ok := MustUser(ctx)
		if !ok {
			return
		}
		if user.Username == cfg.OwnerUser && user.Role == dbpkg.RoleOwner {
			errResponse(ctx, fasthttp.StatusForbidden, "cannot change password for bootstrap owner")
			return
		}

		var body changePasswordRequest
		if !decodeBody(ctx, &body) {
			return
		}
		if body.CurrentPassword == "" || body.NewPassword == "" || body.ConfirmPassword == "" {
			errResponse(ctx, fasthttp.StatusBadRequest, "all password fields are required")
			return
		}
		if body.NewPassword != body.ConfirmPassword {
			errResponse(ctx, fasthttp.StatusBadRequest, "new passwords do not match")
			return
		}

		if err := svc.ChangePassword(user.ID, body.CurrentPassword, body.NewPassword); err != nil {
			failErr(ctx, err)
			return
		}
		jsonResponse(ctx, map[string]string{"status": "password changed"})
	}
}
