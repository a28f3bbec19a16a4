package handlers

import (
	"github.com/valyala/fasthttp"
	"gorm.io/gorm"

	dbpkg "github.com/patwasanskar32/Kohinoor-Cloth-Gautam-Readymade/internal/db"
	"github.com/patwasanskar32/Kohinoor-Cloth-Gautam-Readymade/internal/idcard"
	"github.com/patwasanskar32/Kohinoor-Cloth-Gautam-Readymade/internal/qr"
)

// MyQRPNG returns the signed-in user's attendance QR code as a PNG,
// suitable for saving to a phone.
func MyQRPNG() fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		user, ok := MustUser(ctx)
		if !ok {
			return
		}

		png, err := qr.EncodePNG(qr.EncodeToken(user.ID), 256)
		if err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to render QR code")
			return
		}
		ctx.SetContentType("image/png")
		ctx.SetBody(png)
	}
}

// MyIDCard renders the signed-in user's printable ID card with the
// shop name and their QR code.
func MyIDCard(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		user, ok := MustUser(ctx)
		if !ok {
			return
		}

		var profile dbpkg.ShopProfile
		if err := db.First(&profile).Error; err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "shop profile missing")
			return
		}

		qrPNG, err := qr.EncodePNG(qr.EncodeToken(user.ID), idcard.QRSize)
		if err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to render QR code")
			return
		}

		card, err := idcard.Render(profile.Name, user.Username, user.Role, qrPNG)
		if err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to render ID card")
			return
		}
		ctx.SetContentType("image/png")
		ctx.SetBody(card)
	}
}
