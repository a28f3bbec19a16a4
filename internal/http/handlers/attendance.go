package handlers

import (
	"io"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/patwasanskar32/Kohinoor-Cloth-Gautam-Readymade/internal/ledger"
	"github.com/patwasanskar32/Kohinoor-Cloth-Gautam-Readymade/internal/qr"
)

type scanRequest struct {
	// QRValue is the decoded token text, for clients that scan the
	// code themselves (e.g. a till with a barcode gun).
	QRValue string `json:"qr_value"`
}

// Scan handles a QR check-in/check-out. The token arrives either as
// decoded text in a JSON body, or as an uploaded photo of the code in
// a multipart field named "qr_image".
func Scan(lg *ledger.Ledger) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		token, ok := scanToken(ctx)
		if !ok {
			return
		}

		res, err := lg.ToggleByToken(token, time.Now())
		if err != nil {
			scanFailuresTotal.Inc()
			failErr(ctx, err)
			return
		}

		countToggle(res.Action, "qr")
		jsonResponse(ctx, res)
	}
}

func scanToken(ctx *fasthttp.RequestCtx) (string, bool) {
	if form, err := ctx.MultipartForm(); err == nil {
		files := form.File["qr_image"]
		if len(files) == 0 {
			errResponse(ctx, fasthttp.StatusBadRequest, "qr_image file required")
			return "", false
		}
		f, err := files[0].Open()
		if err != nil {
			errResponse(ctx, fasthttp.StatusBadRequest, "unreadable qr_image")
			return "", false
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			errResponse(ctx, fasthttp.StatusBadRequest, "unreadable qr_image")
			return "", false
		}
		token, err := qr.DecodePNG(data)
		if err != nil {
			scanFailuresTotal.Inc()
			failErr(ctx, err)
			return "", false
		}
		return token, true
	}

	var body scanRequest
	if !decodeBody(ctx, &body) {
		return "", false
	}
	if body.QRValue == "" {
		errResponse(ctx, fasthttp.StatusBadRequest, "qr_value required")
		return "", false
	}
	return body.QRValue, true
}

type toggleRequest struct {
	UserID uint `json:"user_id"`
}

// Toggle is the owner's manual check-in/check-out for a chosen user,
// same state machine as the scan path but without a token.
func Toggle(lg *ledger.Ledger) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		var body toggleRequest
		if !decodeBody(ctx, &body) {
			return
		}
		if body.UserID == 0 {
			errResponse(ctx, fasthttp.StatusBadRequest, "user_id required")
			return
		}

		res, err := lg.Toggle(body.UserID, time.Now())
		if err != nil {
			failErr(ctx, err)
			return
		}

		countToggle(res.Action, "manual")
		jsonResponse(ctx, res)
	}
}

func countToggle(action, path string) {
	switch action {
	case ledger.ActionCheckedIn:
		checkInsTotal.WithLabelValues(path).Inc()
	case ledger.ActionCheckedOut:
		checkOutsTotal.WithLabelValues(path).Inc()
	}
}

type markRequest struct {
	UserID   uint   `json:"user_id"`
	Date     string `json:"date"` // YYYY-MM-DD
	Present  bool   `json:"present"`
	CheckIn  string `json:"check_in,omitempty"`  // RFC 3339, optional
	CheckOut string `json:"check_out,omitempty"` // RFC 3339, optional
}

// Mark is the owner's day-granularity upsert: one record per user per
// day, updated in place on repeat calls. Present=false with no times
// stores an explicit Absent day.
func Mark(lg *ledger.Ledger) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		var body markRequest
		if !decodeBody(ctx, &body) {
			return
		}
		if body.UserID == 0 || body.Date == "" {
			errResponse(ctx, fasthttp.StatusBadRequest, "user_id and date required")
			return
		}
		if _, err := time.Parse("2006-01-02", body.Date); err != nil {
			errResponse(ctx, fasthttp.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}

		checkIn, ok := parseOptionalTime(ctx, body.CheckIn, "check_in")
		if !ok {
			return
		}
		checkOut, ok := parseOptionalTime(ctx, body.CheckOut, "check_out")
		if !ok {
			return
		}

		rec, err := lg.Mark(body.UserID, body.Date, body.Present, checkIn, checkOut)
		if err != nil {
			failErr(ctx, err)
			return
		}
		jsonResponse(ctx, rec)
	}
}

type editRequest struct {
	Present  bool   `json:"present"`
	CheckIn  string `json:"check_in,omitempty"`
	CheckOut string `json:"check_out,omitempty"`
}

// EditRecord overwrites a record's fields. Rejected outright when the
// check-out would precede the check-in; nothing is written in that case.
func EditRecord(lg *ledger.Ledger) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		id, ok := pathID(ctx)
		if !ok {
			return
		}

		var body editRequest
		if !decodeBody(ctx, &body) {
			return
		}

		checkIn, ok := parseOptionalTime(ctx, body.CheckIn, "check_in")
		if !ok {
			return
		}
		checkOut, ok := parseOptionalTime(ctx, body.CheckOut, "check_out")
		if !ok {
			return
		}

		rec, err := lg.Edit(id, checkIn, checkOut, body.Present)
		if err != nil {
			failErr(ctx, err)
			return
		}
		jsonResponse(ctx, rec)
	}
}

// DeleteRecord removes a record unconditionally.
func DeleteRecord(lg *ledger.Ledger) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		id, ok := pathID(ctx)
		if !ok {
			return
		}
		if err := lg.Delete(id); err != nil {
			failErr(ctx, err)
			return
		}
		jsonResponse(ctx, map[string]string{"status": "deleted"})
	}
}

func parseOptionalTime(ctx *fasthttp.RequestCtx, value, field string) (*time.Time, bool) {
	if value == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		errResponse(ctx, fasthttp.StatusBadRequest, field+" must be RFC 3339")
		return nil, false
	}
	return &t, true
}
