package middleware

import (
	"github.com/valyala/fasthttp"

	"github.com/patwasanskar32/Kohinoor-Cloth-Gautam-Readymade/internal/access"
	httpctx "github.com/patwasanskar32/Kohinoor-Cloth-Gautam-Readymade/internal/http/ctx"
)

// Require gates a handler behind one capability-table operation. It
// must run inside SessionAuth so a user is already on the context.
func Require(op access.Operation) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			user, ok := httpctx.UserFromCtx(ctx)
			if !ok {
				unauthorized(ctx)
				return
			}
			if !access.Allowed(user.Role, op) {
				ctx.SetStatusCode(fasthttp.StatusForbidden)
				ctx.SetContentType("application/json")
				ctx.SetBodyString(`{"error":"access denied"}`)
				return
			}
			next(ctx)
		}
	}
}
