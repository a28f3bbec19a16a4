package handlers

import (
	"bytes"
	"time"

	"github.com/valyala/fasthttp"
	"gorm.io/gorm"

	dbpkg "github.com/patwasanskar32/Kohinoor-Cloth-Gautam-Readymade/internal/db"
	"github.com/patwasanskar32/Kohinoor-Cloth-Gautam-Readymade/internal/report"
)

// dateBounds reads the optional from/to query parameters. Either may
// be absent for an open bound.
func dateBounds(ctx *fasthttp.RequestCtx) (string, string, bool) {
	from := string(ctx.QueryArgs().Peek("from"))
	to := string(ctx.QueryArgs().Peek("to"))
	for _, d := range []string{from, to} {
		if d == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", d); err != nil {
			errResponse(ctx, fasthttp.StatusBadRequest, "from/to must be YYYY-MM-DD")
			return "", "", false
		}
	}
	return from, to, true
}

// ListAttendance returns attendance rows joined with usernames,
// filtered by inclusive date bounds, newest check-in first.
func ListAttendance(rep *report.Reporter) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		from, to, ok := dateBounds(ctx)
		if !ok {
			return
		}

		rows, err := rep.Query(from, to)
		if err != nil {
			failErr(ctx, err)
			return
		}
		jsonResponse(ctx, rows)
	}
}

// ExportAttendanceCSV streams the same rows as ListAttendance as a CSV
// attachment.
func ExportAttendanceCSV(rep *report.Reporter) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		from, to, ok := dateBounds(ctx)
		if !ok {
			return
		}

		var buf bytes.Buffer
		if err := rep.ExportCSV(&buf, from, to); err != nil {
			failErr(ctx, err)
			return
		}

		ctx.SetContentType("text/csv")
		ctx.Response.Header.Set("Content-Disposition", `attachment; filename=attendance_export.csv`)
		ctx.SetBody(buf.Bytes())
	}
}

// DailySummaries returns the precomputed per-day counts for the owner
// dashboard, newest first.
func DailySummaries(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		var rows []dbpkg.DailySummary
		if err := db.Order("date DESC").Limit(30).Find(&rows).Error; err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to load summaries")
			return
		}
		jsonResponse(ctx, rows)
	}
}
