package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"cobranza_backend/internals/configs"
	"cobranza_backend/internals/middlewares/logger"
)

func SetupMiddlewares(app *fiber.App, cfg configs.App) {
	app.Use(RecoveryMiddleware())
	app.Use(RequestID(5 * time.Second))
	app.Use(logger.LoggerMiddleware(cfg.Timezone.String()))
	app.Use(CorsMiddleware(cfg.CORSAllowOrigins))
	app.Use(GlobalRateLimiter())
}
