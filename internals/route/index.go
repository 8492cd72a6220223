// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"cobranza_backend/internals/configs"
	routeDetails "cobranza_backend/internals/route/details"
)

var startTime time.Time

// SetupRoutes mounts every route group and returns the background scheduler
// main must stop on shutdown (nil when none runs).
func SetupRoutes(app *fiber.App, db *gorm.DB, cfg configs.App) *cron.Cron {
	startTime = time.Now()

	log.Println("[INFO] Setting up base routes...")
	BaseRoutes(app)

	log.Println("[INFO] Mounting Finance routes...")
	finance := app.Group("/api/v1/finance")
	return routeDetails.FinanceRoutes(finance, db, cfg)
}
