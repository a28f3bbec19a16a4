package main

import (
	"log"
	"time"

	"github.com/fasthttp/router"
	"github.com/joho/godotenv"
	"github.com/valyala/fasthttp"

	"github.com/patwasanskar32/Kohinoor-Cloth-Gautam-Readymade/internal/access"
	"github.com/patwasanskar32/Kohinoor-Cloth-Gautam-Readymade/internal/config"
	"github.com/patwasanskar32/Kohinoor-Cloth-Gautam-Readymade/internal/db"
	"github.com/patwasanskar32/Kohinoor-Cloth-Gautam-Readymade/internal/http/handlers"
	appmw "github.com/patwasanskar32/Kohinoor-Cloth-Gautam-Readymade/internal/http/middleware"
	"github.com/patwasanskar32/Kohinoor-Cloth-Gautam-Readymade/internal/identity"
	"github.com/patwasanskar32/Kohinoor-Cloth-Gautam-Readymade/internal/ledger"
	"github.com/patwasanskar32/Kohinoor-Cloth-Gautam-Readymade/internal/report"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatalf("invalid APP_TIMEZONE %q: %v", cfg.Timezone, err)
	}

	gdb, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	if err := db.EnsureBootstrapOwner(gdb, cfg); err != nil {
		log.Fatalf("failed to ensure bootstrap owner: %v", err)
	}
	if err := db.EnsureShopProfile(gdb, cfg); err != nil {
		log.Fatalf("failed to ensure shop profile: %v", err)
	}

	db.StartSummaryWorker(gdb, loc)
	db.StartMessageRetentionWorker(gdb, cfg.MessageRetentionDays)

	handlers.InitPrometheusMetrics()

	store := db.NewStore(gdb)
	idsvc := identity.New(store, cfg.SingleOwner)
	lg := ledger.New(store, loc)
	rep := report.New(store, loc)

	r := router.New()

	r.GET("/healthz", func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusOK)
		ctx.SetBodyString("ok")
	})

	r.POST("/login", handlers.Login(idsvc, cfg))
	r.POST("/login/qr", handlers.LoginQR(idsvc, cfg))
	r.POST("/logout", handlers.Logout())

	session := appmw.SessionAuth(gdb, cfg)
	owner := func(op access.Operation, h fasthttp.RequestHandler) fasthttp.RequestHandler {
		return session(appmw.Require(op)(h))
	}

	r.POST("/settings/password", session(handlers.ChangePasswordSelf(idsvc, cfg)))

	// Self-service endpoints, available to staff and owner alike.
	r.GET("/me", session(appmw.Require(access.OpViewOwnRecords)(handlers.Me(gdb, rep))))
	r.GET("/me/messages", session(appmw.Require(access.OpViewOwnMessages)(handlers.MyMessages(gdb))))
	r.GET("/me/qr.png", session(appmw.Require(access.OpViewOwnQR)(handlers.MyQRPNG())))
	r.GET("/me/idcard.png", session(appmw.Require(access.OpViewOwnQR)(handlers.MyIDCard(gdb))))

	// Staff management.
	r.GET("/admin/users", owner(access.OpManageUsers, handlers.ListUsers(gdb)))
	r.POST("/admin/users/create", owner(access.OpManageUsers, handlers.CreateUser(idsvc)))
	r.POST("/admin/users/{id}/delete", owner(access.OpManageUsers, handlers.DeleteUser(gdb, idsvc, cfg)))

	// Attendance mutations.
	r.POST("/attendance/scan", owner(access.OpToggleAny, handlers.Scan(lg)))
	r.POST("/attendance/toggle", owner(access.OpToggleAny, handlers.Toggle(lg)))
	r.POST("/attendance/mark", owner(access.OpMarkAny, handlers.Mark(lg)))
	r.POST("/attendance/{id}/edit", owner(access.OpEditRecord, handlers.EditRecord(lg)))
	r.POST("/attendance/{id}/delete", owner(access.OpDeleteRecord, handlers.DeleteRecord(lg)))

	// Reporting.
	r.GET("/attendance", owner(access.OpViewReports, handlers.ListAttendance(rep)))
	r.GET("/attendance/export.csv", owner(access.OpExportReport, handlers.ExportAttendanceCSV(rep)))
	r.GET("/admin/summary", owner(access.OpViewReports, handlers.DailySummaries(gdb)))

	// Messages and shop profile.
	r.POST("/admin/messages/send", owner(access.OpSendMessage, handlers.SendMessage(gdb)))
	r.GET("/admin/shop", owner(access.OpManageShop, handlers.GetShopProfile(gdb)))
	r.POST("/admin/shop", owner(access.OpManageShop, handlers.UpdateShopProfile(gdb)))

	r.GET("/metrics", handlers.MetricsHandler())

	handler := handlers.RequestLogger(r.Handler)

	log.Printf("shop attendance service listening on %s", cfg.ListenAddr)
	if err := fasthttp.ListenAndServe(cfg.ListenAddr, handler); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
