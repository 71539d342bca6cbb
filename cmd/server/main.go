// Package main is the API server entry point. It loads configuration, wires
// repositories, services and handlers together, starts the accrual scheduler
// and serves HTTP.
package main

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	log "github.com/sirupsen/logrus"

	"paygrow/internal/config"
	"paygrow/internal/handlers"
	"paygrow/internal/jobs"
	"paygrow/internal/middleware"
	"paygrow/internal/repositories"
	"paygrow/internal/repositories/cache"
	"paygrow/internal/routes"
	"paygrow/internal/services/auth"
	"paygrow/internal/services/investment"
	"paygrow/internal/services/ledger"
	"paygrow/internal/services/payment"
	"paygrow/internal/services/rotation"
	"paygrow/internal/services/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}
	setupLogging(cfg)

	db, err := repositories.InitDB(cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize database")
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	if err := repositories.SeedChannels(db, cfg); err != nil {
		log.WithError(err).Fatal("failed to seed payment channels")
	}

	redisClient := cache.NewRedisClient(cfg)
	cacheService := cache.NewCacheService(redisClient, 24*time.Hour)
	defer cacheService.Close()
	if err := cacheService.HealthCheck(context.Background()); err != nil {
		log.WithError(err).Warn("redis unavailable, continuing without cache")
		cacheService = nil
	}

	// Repositories
	ledgerRepo := repositories.NewLedgerRepository(db)
	channelRepo := repositories.NewChannelRepository(db)

	// Services
	var invalidator ledger.Invalidator
	if cacheService != nil {
		invalidator = cacheService
	}
	engine := ledger.NewService(ledgerRepo, invalidator)
	channels := rotation.NewService(channelRepo, cfg.ChannelCapacity)
	payments := payment.NewService(ledgerRepo, engine, channels, cfg.MinWithdrawal)
	investments := investment.NewService(ledgerRepo, engine, investment.Plan{
		Name:        cfg.PlanName,
		DailyProfit: cfg.DailyProfit,
		Days:        cfg.PlanDays,
		Period:      cfg.AccrualPeriod,
	})
	users := user.NewService(ledgerRepo, engine, cacheService, cfg.CheckinMin, cfg.CheckinMax)
	authSvc := auth.NewService(ledgerRepo, cfg)

	// Scheduler
	scheduler := jobs.NewScheduler(investments)
	if err := scheduler.Start(context.Background(), cfg.SweepSchedule); err != nil {
		log.WithError(err).Fatal("failed to start scheduler")
	}
	defer scheduler.Stop()

	// HTTP
	app := fiber.New(fiber.Config{
		AppName:      "paygrow",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
	}))
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use("/api/auth", limiter.New(limiter.Config{
		Max:        20,
		Expiration: time.Minute,
	}))

	authMW := middleware.NewAuthMiddleware(cfg.JWTSecret)
	routes.Setup(app, routes.Handlers{
		Auth:       handlers.NewAuthHandler(authSvc),
		User:       handlers.NewUserHandler(users),
		Payment:    handlers.NewPaymentHandler(payments),
		Investment: handlers.NewInvestmentHandler(investments),
		Admin:      handlers.NewAdminHandler(ledgerRepo, payments, channels, investments),
		Health:     handlers.NewHealthHandler(db, cacheService),
		AuthMW:     authMW,
	})

	log.WithField("port", cfg.Port).Info("server listening")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

func setupLogging(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
	if cfg.IsProduction() {
		log.SetFormatter(&log.JSONFormatter{})
	}
}
