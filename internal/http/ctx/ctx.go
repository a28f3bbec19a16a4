package ctx

import (
	"github.com/valyala/fasthttp"

	dbpkg "github.com/patwasanskar32/Kohinoor-Cloth-Gautam-Readymade/internal/db"
)

const UserKey = "user"

func SetUser(ctx *fasthttp.RequestCtx, user *dbpkg.User) {
	ctx.SetUserValue(UserKey, user)
}

func UserFromCtx(ctx *fasthttp.RequestCtx) (*dbpkg.User, bool) {
	v := ctx.UserValue(UserKey)
	if v == nil {
		return nil, false
	}
	u, ok := v.(*dbpkg.User)
	return u, ok && u != nil
}
