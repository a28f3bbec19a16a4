package handlers

import (
	"strings"

	"github.com/valyala/fasthttp"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	dbpkg "github.com/patwasanskar32/Kohinoor-Cloth-Gautam-Readymade/internal/db"
)

// GetShopProfile returns the shop identity row.
func GetShopProfile(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		var profile dbpkg.ShopProfile
		if err := db.First(&profile).Error; err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "shop profile missing")
			return
		}
		jsonResponse(ctx, profile)
	}
}

type updateShopRequest struct {
	Name     string         `json:"name"`
	Settings map[string]any `json:"settings"`
}

// UpdateShopProfile overwrites the shop name and free-form settings.
func UpdateShopProfile(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		var body updateShopRequest
		if !decodeBody(ctx, &body) {
			return
		}
		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			errResponse(ctx, fasthttp.StatusBadRequest, "name required")
			return
		}

		var profile dbpkg.ShopProfile
		if err := db.First(&profile).Error; err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "shop profile missing")
			return
		}

		profile.Name = body.Name
		if body.Settings != nil {
			settings := datatypes.JSONMap{}
			for k, v := range body.Settings {
				settings[k] = v
			}
			profile.Settings = settings
		}

		if err := db.Save(&profile).Error; err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to update shop profile")
			return
		}
		jsonResponse(ctx, profile)
	}
}
