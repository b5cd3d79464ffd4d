package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/pingcraft/identity-system/internal/api/handler"
	"github.com/pingcraft/identity-system/internal/api/middleware"
	"github.com/pingcraft/identity-system/internal/core/domain"
	"github.com/pingcraft/identity-system/internal/core/ports"
	"github.com/pingcraft/identity-system/internal/core/service"
	"github.com/pingcraft/identity-system/internal/infrastructure/config"
	mongodb "github.com/pingcraft/identity-system/internal/infrastructure/db/mongo"
	redisdb "github.com/pingcraft/identity-system/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, audit ports.AuditSink, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(middleware.Session(cfg.SessionCookie))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	sessions := redisdb.NewSessionStore(rdb, cfg.SessionTTL)
	identity := service.NewIdentityService(userRepo, sessions, audit, log)
	userHandler := handler.NewUserHandler(identity)
	adminOnly := middleware.RequireRole(identity, audit, domain.RoleAdmin)

	// --- Public identity routes ---
	e.POST("/user/register", userHandler.Register)
	e.POST("/user/login", userHandler.Login)
	e.POST("/user/logout", userHandler.Logout)
	e.GET("/user/get/login", userHandler.Me)
	e.GET("/user/get/vo", userHandler.GetUserVO)

	// --- Admin routes ---
	e.POST("/user/add", userHandler.AddUser, adminOnly)
	e.GET("/user/get", userHandler.GetUser, adminOnly)
	e.POST("/user/update", userHandler.UpdateUser, adminOnly)
	e.POST("/user/delete", userHandler.DeleteUser, adminOnly)
	e.POST("/user/list/page/vo", userHandler.ListUsers, adminOnly)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Metrics ---
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}
