package handlers

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/valyala/fasthttp"

	"github.com/patwasanskar32/Kohinoor-Cloth-Gautam-Readymade/internal/access"
	dbpkg "github.com/patwasanskar32/Kohinoor-Cloth-Gautam-Readymade/internal/db"
	httpctx "github.com/patwasanskar32/Kohinoor-Cloth-Gautam-Readymade/internal/http/ctx"
	"github.com/patwasanskar32/Kohinoor-Cloth-Gautam-Readymade/internal/identity"
	"github.com/patwasanskar32/Kohinoor-Cloth-Gautam-Readymade/internal/ledger"
	"github.com/patwasanskar32/Kohinoor-Cloth-Gautam-Readymade/internal/qr"
)

// MustUser returns the current user from context, or sends 401 and returns (nil, false).
func MustUser(ctx *fasthttp.RequestCtx) (*dbpkg.User, bool) {
	user, ok := httpctx.UserFromCtx(ctx)
	if !ok {
		errResponse(ctx, fasthttp.StatusUnauthorized, "unauthorized")
		return nil, false
	}
	return user, true
}

func jsonResponse(ctx *fasthttp.RequestCtx, data any) {
	ctx.SetContentType("application/json")
	body, _ := json.Marshal(data)
	ctx.SetBody(body)
}

func errResponse(ctx *fasthttp.RequestCtx, code int, msg string) {
	ctx.SetStatusCode(code)
	ctx.SetContentType("application/json")
	body, _ := json.Marshal(map[string]string{"error": msg})
	ctx.SetBody(body)
}

// failErr maps domain errors onto HTTP statuses. Anything outside the
// taxonomy is a 500 with a generic body so internals never leak.
func failErr(ctx *fasthttp.RequestCtx, err error) {
	switch {
	case errors.Is(err, qr.ErrInvalidToken),
		errors.Is(err, ledger.ErrInvalidTimeRange),
		errors.Is(err, identity.ErrInvalidRole):
		errResponse(ctx, fasthttp.StatusBadRequest, err.Error())
	case errors.Is(err, identity.ErrAuthFailure):
		errResponse(ctx, fasthttp.StatusUnauthorized, err.Error())
	case errors.Is(err, ledger.ErrUnauthorizedSubject),
		errors.Is(err, identity.ErrOwnerExists),
		errors.Is(err, access.ErrAccessDenied):
		errResponse(ctx, fasthttp.StatusForbidden, err.Error())
	case errors.Is(err, ledger.ErrRecordNotFound),
		errors.Is(err, identity.ErrUserNotFound):
		errResponse(ctx, fasthttp.StatusNotFound, err.Error())
	case errors.Is(err, identity.ErrDuplicateUsername):
		errResponse(ctx, fasthttp.StatusConflict, err.Error())
	case errors.Is(err, dbpkg.ErrStorageUnavailable):
		errResponse(ctx, fasthttp.StatusServiceUnavailable, "storage unavailable")
	default:
		errResponse(ctx, fasthttp.StatusInternalServerError, "internal error")
	}
}

// pathID parses the {id} route parameter.
func pathID(ctx *fasthttp.RequestCtx) (uint, bool) {
	idVal := ctx.UserValue("id")
	idStr, ok := idVal.(string)
	if !ok {
		errResponse(ctx, fasthttp.StatusBadRequest, "invalid id")
		return 0, false
	}
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		errResponse(ctx, fasthttp.StatusBadRequest, "invalid id")
		return 0, false
	}
	return uint(id), true
}

func decodeBody(ctx *fasthttp.RequestCtx, dst any) bool {
	if err := json.Unmarshal(ctx.PostBody(), dst); err != nil {
		errResponse(ctx, fasthttp.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}
