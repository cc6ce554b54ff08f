package main

import (
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/property-management/internal/config"
	"github.com/iliyamo/property-management/internal/database"
	"github.com/iliyamo/property-management/internal/handler"
	"github.com/iliyamo/property-management/internal/logger"
	"github.com/iliyamo/property-management/internal/middleware"
	"github.com/iliyamo/property-management/internal/queue"
	"github.com/iliyamo/property-management/internal/repository"
	"github.com/iliyamo/property-management/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	logger.Init("property-management")

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logger.L.WithError(err).Fatal("database connection failed")
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		logger.L.Warn("redis unavailable, response cache and rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	properties := repository.NewPropertyRepo(db)
	payments := repository.NewRentPaymentRepo(db)
	tickets := repository.NewMaintenanceRepo(db)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	propH := handler.NewPropertyHandler(properties, users)
	maintH := handler.NewMaintenanceHandler(tickets, properties, users)
	payH := handler.NewPaymentHandler(payments, properties, users)
	tenantH := handler.NewTenantHandler(users, properties)
	dashH := handler.NewDashboardHandler(properties, payments, tickets, users)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: func() string { return uuid.NewString() },
	}))
	e.Use(echomw.Recover())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterViews(e, cfg.JWTSecret, cache, propH, maintH, payH, dashH)
	router.RegisterLandlord(e, cfg.JWTSecret, propH, maintH, payH, tenantH)
	router.RegisterTenant(e, cfg.JWTSecret, maintH)

	// Background consumer that turns broker events into notification lines.
	go queue.StartNotificationConsumer()

	addr := ":" + cfg.Port
	logger.L.WithField("env", cfg.Env).Infof("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		logger.L.WithError(err).Fatal("server stopped")
	}
}
