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
	"go.uber.org/zap"

	"waterbilling_backend/internals/configs"
	database "waterbilling_backend/internals/databases"
	paymentService "waterbilling_backend/internals/features/billing/payments/service"
	authService "waterbilling_backend/internals/features/users/auth/service"
	scheduler "waterbilling_backend/internals/features/users/auth/scheduler"
	helper "waterbilling_backend/internals/helpers"
	middlewares "waterbilling_backend/internals/middlewares"
	routes "waterbilling_backend/internals/route"
	"waterbilling_backend/internals/seeds"
)

func main() {
	if err := configs.LoadEnv(); err != nil {
		log.Fatalf("gagal memuat .env: %v", err)
	}
	logger := configs.InitLogger(configs.GetEnv("LOG_LEVEL"), configs.GetEnv("LOG_FILE"))
	defer func() { _ = logger.Sync() }()
	configs.CheckEnv()

	// `go run . seed` → migrate + seed lalu keluar
	if len(os.Args) > 1 && os.Args[1] == "seed" {
		db := configs.InitSeederDB()
		if err := database.AutoMigrate(db); err != nil {
			logger.Fatal("auto migrate gagal", zap.Error(err))
		}
		seeds.RunAllSeeds(db)
		return
	}

	app := fiber.New(fiber.Config{
		// 🚀 JSON super cepat
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		DisableStartupMessage:   true,
		ErrorHandler:            helper.ErrorHandler,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
	})

	// ⚙️ middleware dasar + performa
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())
	middlewares.SetupMiddlewares(app)

	// 🔌 DB connect + pool + warm-up
	database.ConnectDB()
	database.TunePool()
	if err := database.AutoMigrate(database.DB); err != nil {
		logger.Fatal("auto migrate gagal", zap.Error(err))
	}
	database.WarmUpQueries()

	// ⏱ scheduler setelah DB siap
	cleanup, err := scheduler.StartBlacklistCleanupScheduler(database.DB, configs.Location)
	if err != nil {
		logger.Fatal("scheduler gagal start", zap.Error(err))
	}

	calc := configs.NewCalculator()
	auth := authService.NewAuthService(database.DB, configs.JWTSecret)
	payments := paymentService.NewPaymentService(database.DB, calc)

	// ✅ MIDTRANS (opsional)
	var snapClient paymentService.SnapCreator
	serverKey := configs.GetEnv("MIDTRANS_SERVER_KEY")
	if serverKey != "" {
		snapClient = paymentService.NewSnapClient(serverKey, configs.GetBool("MIDTRANS_USE_PROD"))
	}
	gateway := paymentService.NewGateway(payments, snapClient, serverKey)

	// ✅ Routes
	routes.SetupRoutes(app, routes.Deps{
		DB:      database.DB,
		Calc:    calc,
		Auth:    auth,
		Gateway: gateway,
	})

	// 🔒 Keep-Alive & timeout koneksi server
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	port := configs.GetEnv("PORT", "3000")

	go func() {
		logger.Info("listening", zap.String("port", port))
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// graceful shutdown: cron → http → pool DB
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	<-cleanup.Stop().Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	if sqlDB, err := database.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
