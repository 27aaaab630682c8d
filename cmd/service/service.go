// @title        Identity Service API
// @version      1.0
// @description  使用者註冊、登入與帳號管理 API
// @host         localhost:8080
// @BasePath     /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"identity-service/internal/cache"
	"identity-service/internal/config"
	"identity-service/internal/database"
	"identity-service/internal/logger"
	"identity-service/internal/metrics"
	"identity-service/internal/middleware"
	"identity-service/internal/router"
	"identity-service/internal/service"
	"identity-service/internal/store"
	"identity-service/internal/worker"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	_ "identity-service/docs" // 引入 swag 產出的 docs
)

var (
	newPgxPool      = database.NewPgxPool
	newRedisClient  = cache.NewRedisClient
	runMigrationsFn = database.RunMigrations
	startServer     = func(e *echo.Echo, addr string) error { return e.Start(addr) }
	newWorkerPool   = worker.NewPool
	exitFunc        = os.Exit
)

var logOutput io.Writer = os.Stdout

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(cfg.LogLevel, logOutput)
	slog.SetDefault(log)

	// 金鑰在連線任何外部服務之前檢查
	tokens, err := service.NewTokenService(cfg.JWTSecret, nil)
	if err != nil {
		return err
	}

	db, err := newPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("DB 連線失敗: %w", err)
	}
	defer db.Close()

	rdb, err := newRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return fmt.Errorf("Redis 連線失敗: %w", err)
	}
	defer rdb.Close()

	if err := runMigrationsFn(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("Migration 執行失敗: %w", err)
	}

	wp := newWorkerPool(cfg.WorkerCount, log)
	defer wp.Stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	users := store.NewPostgresUserStore(db)
	hasher := service.NewHasher(cfg.BcryptCost)
	profiles := cache.NewProfileCache(rdb, cfg.ProfileCacheTTL, log)

	e := echo.New()
	e.HideBanner = true
	e.Validator = router.NewValidator()
	e.Use(middleware.RequestLogger(log))
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSAllowedOrigins,
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType},
	}))

	router.Setup(e, router.Deps{
		DB:    db,
		Cache: rdb,
		Auth: service.NewAuth(service.AuthDeps{
			Users:    users,
			Hasher:   hasher,
			Tokens:   tokens,
			Pool:     wp,
			Profiles: profiles,
			Metrics:  m,
			Logger:   log,
		}),
		Users:         service.NewUsers(users, hasher, profiles, log, nil),
		Authenticator: middleware.NewAuthenticator(tokens, m),
		Gatherer:      reg,
	})

	log.Info("server starting", slog.String("addr", cfg.HTTPAddr), slog.Int("workers", cfg.WorkerCount))
	return startServer(e, cfg.HTTPAddr)
}

func main() {
	if err := run(); err != nil {
		slog.Error("service stopped", slog.Any("error", err))
		exitFunc(1)
	}
}
