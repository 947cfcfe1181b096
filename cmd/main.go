package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/931ubada/e-commerce-website/internal/auth"
	"github.com/931ubada/e-commerce-website/internal/catalog"
	"github.com/931ubada/e-commerce-website/internal/handler"
	mid "github.com/931ubada/e-commerce-website/internal/middleware"
	"github.com/931ubada/e-commerce-website/internal/repository"
	"github.com/931ubada/e-commerce-website/pkg/config"
	"github.com/931ubada/e-commerce-website/pkg/database"
	"github.com/931ubada/e-commerce-website/pkg/jwtutil"
	"github.com/931ubada/e-commerce-website/pkg/logger"
	"github.com/931ubada/e-commerce-website/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const version = "1.0.0"

func main() {
	appConfig, err := config.Load()
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	if err := logger.InitLogger(appConfig); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting catalog service", appConfig.LogConfig()...)
	prometheus.SetInfo(version, appConfig.Store.Backend)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		products catalog.Repository
		admins   auth.AdminStore
		db       *gorm.DB
		ping     func(context.Context) error
	)
	switch appConfig.Store.Backend {
	case config.StorePostgres:
		db, err = database.InitDB(&appConfig.DB)
		if err != nil {
			log.Fatal("Failed to initialize database", zap.Error(err))
		}
		if err := database.Migrate(db); err != nil {
			log.Fatal("Failed to migrate database", zap.Error(err))
		}
		log.Info("Database connection established")

		products = repository.NewPostgresProductRepository(db)
		admins = repository.NewPostgresAdminRepository(db, appConfig.Admin.Username)
		ping = func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}
	default:
		products = repository.NewMemoryProductRepository()
		admins = repository.NewMemoryAdminRepository()
		log.Info("Using in-memory store, data is lost on restart")
	}

	if err := auth.SeedAdmin(ctx, admins, appConfig.Admin, bcrypt.DefaultCost, log); err != nil {
		log.Fatal("Failed to seed admin account", zap.Error(err))
	}

	tokens := jwtutil.NewJWTUtil(&appConfig.JWT)
	log.Info("JWT utility initialized", zap.Duration("ttl", tokens.TTL()))
	gate := auth.NewGate(admins, tokens, log.Named("auth"))
	store := catalog.New(products, log.Named("catalog"))
	if err := store.PublishInventory(ctx); err != nil {
		log.Warn("Failed to publish inventory metrics", zap.Error(err))
	}

	e := echo.New()
	e.HideBanner = true

	e.IPExtractor, err = mid.ClientIPExtractor(appConfig.Server.TrustedProxies)
	if err != nil {
		log.Fatal("Invalid trusted proxy configuration", zap.Error(err))
	}

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: appConfig.Server.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, logger.RequestIDHeader},
	}))
	e.Use(mid.RequestIDMiddleware)
	e.Use(prometheus.MetricsMiddleware())
	e.Use(logger.Middleware(log))

	handler.RegisterRoutes(e, handler.Routes{
		Products:     handler.NewProductHandler(store),
		Auth:         handler.NewAuthHandler(gate),
		Health:       handler.NewHealthHandler(ping),
		Gate:         gate,
		LoginLimiter: mid.NewLoginRateLimiter(appConfig.RateLimit.LoginPerSecond, appConfig.RateLimit.LoginBurst),
	})

	go func() {
		port := appConfig.Server.Port
		log.Info("Starting server", zap.String("port", port))
		if err := e.Start(":" + port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), appConfig.Server.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}

	if db != nil {
		if err := database.Close(db); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}
	log.Info("Server stopped")
}
