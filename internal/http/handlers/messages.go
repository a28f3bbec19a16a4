package handlers

import (
	"strings"

	"github.com/valyala/fasthttp"
	"gorm.io/gorm"

	dbpkg "github.com/patwasanskar32/Kohinoor-Cloth-Gautam-Readymade/internal/db"
)

type sendMessageRequest struct {
	ToUserID uint   `json:"to_user_id"`
	Title    string `json:"title"`
	Body     string `json:"body"`
}

// SendMessage appends an owner note to a staff member's dashboard.
// Messages are append-only; there is no edit path.
func SendMessage(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		var body sendMessageRequest
		if !decodeBody(ctx, &body) {
			return
		}
		body.Body = strings.TrimSpace(body.Body)
		if body.ToUserID == 0 || body.Body == "" {
			errResponse(ctx, fasthttp.StatusBadRequest, "to_user_id and body required")
			return
		}

		var recipient dbpkg.User
		if err := db.First(&recipient, body.ToUserID).Error; err != nil {
			errResponse(ctx, fasthttp.StatusNotFound, "recipient not found")
			return
		}

		msg := &dbpkg.Message{
			ToUserID: recipient.ID,
			Title:    strings.TrimSpace(body.Title),
			Body:     body.Body,
		}
		if err := db.Create(msg).Error; err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to send message")
			return
		}

		ctx.SetStatusCode(fasthttp.StatusCreated)
		jsonResponse(ctx, msg)
	}
}

// MyMessages returns the signed-in user's messages, newest first.
func MyMessages(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		user, ok := MustUser(ctx)
		if !ok {
			return
		}

		var messages []dbpkg.Message
		if err := db.Where("to_user_id = ?", user.ID).
			Order("created_at DESC").Limit(50).
			Find(&messages).Error; err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to load messages")
			return
		}
		jsonResponse(ctx, messages)
	}
}
