package middleware

import (
	"github.com/valyala/fasthttp"
	"gorm.io/gorm"

	"github.com/patwasanskar32/Kohinoor-Cloth-Gautam-Readymade/internal/auth"
	"github.com/patwasanskar32/Kohinoor-Cloth-Gautam-Readymade/internal/config"
	dbpkg "github.com/patwasanskar32/Kohinoor-Cloth-Gautam-Readymade/internal/db"
	httpctx "github.com/patwasanskar32/Kohinoor-Cloth-Gautam-Readymade/internal/http/ctx"
)

// SessionCookie is the name of the cookie carrying the signed session token.
const SessionCookie = "session"

// SessionAuth verifies the session cookie, reloads the user row and
// sets it on the request context. Requests without a valid session get
// a 401.
func SessionAuth(db *gorm.DB, cfg *config.Config) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	secret := []byte(cfg.SessionSecret)
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			cookie := ctx.Request.Header.Cookie(SessionCookie)
			if len(cookie) == 0 {
				unauthorized(ctx)
				return
			}

			claims, err := auth.ParseToken(secret, string(cookie))
			if err != nil {
				unauthorized(ctx)
				return
			}

			// The row is the source of truth: a deleted user's token
			// stops working immediately, and role changes take effect
			// on the next request.
			var user dbpkg.User
			if err := db.Where("username = ?", claims.Username).First(&user).Error; err != nil {
				unauthorized(ctx)
				return
			}

			httpctx.SetUser(ctx, &user)
			next(ctx)
		}
	}
}

func unauthorized(ctx *fasthttp.RequestCtx) {
	ctx.SetStatusCode(fasthttp.StatusUnauthorized)
	ctx.SetContentType("application/json")
	ctx.SetBodyString(`{"error":"unauthorized"}`)
}
