package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Chaitanya-lohani-dev/auth-api-challenge/internal/api/handler"
	"github.com/Chaitanya-lohani-dev/auth-api-challenge/internal/api/middleware"
	"github.com/Chaitanya-lohani-dev/auth-api-challenge/internal/core/service"
	"github.com/Chaitanya-lohani-dev/auth-api-challenge/internal/infrastructure/config"
	mongodb "github.com/Chaitanya-lohani-dev/auth-api-challenge/internal/infrastructure/db/mongo"
	"github.com/Chaitanya-lohani-dev/auth-api-challenge/internal/infrastructure/http/handlers"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("auth_api"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	tokenService := service.NewTokenService(
		cfg.Auth.AccessSecret, cfg.Auth.RefreshSecret,
		cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL,
	)
	authService := service.NewAuthService(userRepo, tokenService)
	authHandler := handler.NewAuthHandler(authService, handler.CookiePolicy{
		Secure:   cfg.Auth.CookieSecure,
		HTTPOnly: cfg.Auth.CookieHTTPOnly,
		MaxAge:   cfg.Auth.RefreshTTL,
	})
	authMiddleware := middleware.Auth(tokenService)

	// --- Auth routes ---
	e.POST("/register", authHandler.Register)
	e.POST("/login", authHandler.Login)
	e.POST("/refresh", authHandler.Refresh)
	e.POST("/logout", authHandler.Logout)
	e.GET("/profile", authHandler.Profile, authMiddleware)
	e.GET("/admin", authHandler.Admin, authMiddleware, middleware.RBAC("admin"))

	// --- Operational surface ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	return e
}
