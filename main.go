package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"

	"cobranza_backend/internals/configs"
	database "cobranza_backend/internals/databases"
	helper "cobranza_backend/internals/helpers"
	middlewares "cobranza_backend/internals/middlewares"
	debtService "cobranza_backend/internals/features/finance/debts/service"
	routes "cobranza_backend/internals/route"
	"cobranza_backend/internals/seeds"
)

func main() {
	configs.LoadEnv()
	cfg := configs.Settings

	app := fiber.New(fiber.Config{
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		DisableStartupMessage: true,
		ErrorHandler:          helper.FromFiberError,
		ProxyHeader:           fiber.HeaderXForwardedFor,
	})

	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())
	middlewares.SetupMiddlewares(app, cfg)

	// 🔌 DB connect + pool + warm-up
	database.ConnectDB()
	database.AutoMigrate()
	database.TunePool()
	database.WarmUpQueries()

	if configs.GetEnvBool("DB_SEED", false) {
		seeds.RunAllSeeds(database.DB)
	}

	refresher := routes.SetupRoutes(app, database.DB, cfg)

	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	go func() {
		log.Printf("✅ Listening on :%s (tz=%s)", cfg.Port, cfg.Timezone)
		if err := app.Listen("0.0.0.0:" + cfg.Port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown + close DB pool
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	if err := debtService.StopCatalogRefresher(ctx, refresher); err != nil {
		log.Printf("[WARN] catalog refresher stop: %v", err)
	}
	database.Close()
}
