package handlers

import (
	"time"

	"github.com/valyala/fasthttp"
	"gorm.io/gorm"

	dbpkg "github.com/patwasanskar32/Kohinoor-Cloth-Gautam-Readymade/internal/db"
	"github.com/patwasanskar32/Kohinoor-Cloth-Gautam-Readymade/internal/qr"
	"github.com/patwasanskar32/Kohinoor-Cloth-Gautam-Readymade/internal/report"
)

// recentLimit caps how many past records the dashboard shows.
const recentLimit = 30

// Me returns the signed-in user's dashboard data: identity, today's
// status, recent records, latest messages and the QR token their card
// encodes.
func Me(db *gorm.DB, rep *report.Reporter) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		user, ok := MustUser(ctx)
		if !ok {
			return
		}

		status, err := rep.TodayStatus(user.ID, time.Now())
		if err != nil {
			failErr(ctx, err)
			return
		}

		records, err := rep.RecentForUser(user.ID, recentLimit)
		if err != nil {
			failErr(ctx, err)
			return
		}

		var messages []dbpkg.Message
		if err := db.Where("to_user_id = ?", user.ID).
			Order("created_at DESC").Limit(20).
			Find(&messages).Error; err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to load messages")
			return
		}

		jsonResponse(ctx, map[string]any{
			"id":           user.ID,
			"username":     user.Username,
			"role":         user.Role,
			"today_status": status,
			"records":      records,
			"messages":     messages,
			"qr_token":     qr.EncodeToken(user.ID),
		})
	}
}
