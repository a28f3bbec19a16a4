package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"

	dbpkg "github.com/patwasanskar32/Kohinoor-Cloth-Gautam-Readymade/internal/db"
	"github.com/patwasanskar32/Kohinoor-Cloth-Gautam-Readymade/internal/identity"
	"github.com/patwasanskar32/Kohinoor-Cloth-Gautam-Readymade/internal/ledger"
	"github.com/patwasanskar32/Kohinoor-Cloth-Gautam-Readymade/internal/qr"
)

func TestFailErrStatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{qr.ErrInvalidToken, fasthttp.StatusBadRequest},
		{ledger.ErrInvalidTimeRange, fasthttp.StatusBadRequest},
		{identity.ErrInvalidRole, fasthttp.StatusBadRequest},
		{identity.ErrAuthFailure, fasthttp.StatusUnauthorized},
		{ledger.ErrUnauthorizedSubject, fasthttp.StatusForbidden},
		{identity.ErrOwnerExists, fasthttp.StatusForbidden},
		{ledger.ErrRecordNotFound, fasthttp.StatusNotFound},
		{identity.ErrUserNotFound, fasthttp.StatusNotFound},
		{identity.ErrDuplicateUsername, fasthttp.StatusConflict},
		{dbpkg.ErrStorageUnavailable, fasthttp.StatusServiceUnavailable},
		{assert.AnError, fasthttp.StatusInternalServerError},
	}

	for _, tc := range cases {
		var ctx fasthttp.RequestCtx
		failErr(&ctx, tc.err)
		assert.Equal(t, tc.status, ctx.Response.StatusCode(), "err=%v", tc.err)
	}
}

func TestPathID(t *testing.T) {
	var ctx fasthttp.RequestCtx
	ctx.SetUserValue("id", "12")
	id, ok := pathID(&ctx)
	assert.True(t, ok)
	assert.Equal(t, uint(12), id)

	var bad fasthttp.RequestCtx
	bad.SetUserValue("id", "twelve")
	_, ok = pathID(&bad)
	assert.False(t, ok)
	assert.Equal(t, fasthttp.StatusBadRequest, bad.Response.StatusCode())
}
