package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockdesk/internal/config"
	"github.com/mamadbah2/stockdesk/internal/navigation"
	"github.com/mamadbah2/stockdesk/internal/repository/file"
	"github.com/mamadbah2/stockdesk/internal/repository/mongodb"
	redisrepo "github.com/mamadbah2/stockdesk/internal/repository/redis"
	"github.com/mamadbah2/stockdesk/internal/repository/sheets"
	"github.com/mamadbah2/stockdesk/internal/scheduler"
	"github.com/mamadbah2/stockdesk/internal/server/handlers"
	"github.com/mamadbah2/stockdesk/internal/server/router"
	authsvc "github.com/mamadbah2/stockdesk/internal/service/auth"
	inventorysvc "github.com/mamadbah2/stockdesk/internal/service/inventory"
	reportingsvc "github.com/mamadbah2/stockdesk/internal/service/reporting"
	"github.com/mamadbah2/stockdesk/internal/session"
	inventoryclient "github.com/mamadbah2/stockdesk/pkg/clients/inventory"
	"github.com/mamadbah2/stockdesk/pkg/logger"
)

func main() {
	envFile := flag.String("env", "", "optional path to a .env file")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, closeBackend, err := openSessionBackend(ctx, cfg)
	if err != nil {
		baseLogger.Fatal("failed to init session backend", zap.String("backend", cfg.Session.Backend), zap.Error(err))
	}
	defer closeBackend()

	nav := navigation.New()
	sess, err := session.NewStore(ctx, backend, nav, logger.Named(baseLogger, "session"))
	if err != nil {
		baseLogger.Fatal("failed to restore session", zap.Error(err))
	}

	apiClient := inventoryclient.NewClient(cfg.API, sess,
		inventoryclient.WithUnauthorizedHandler(func(token string) {
			cleared, err := sess.Revoke(context.Background(), token)
			if err != nil {
				baseLogger.Error("failed to clear rejected session", zap.Error(err))
			}
			if cleared {
				baseLogger.Warn("inventory api rejected the session token")
			}
		}))

	store := inventorysvc.NewStore(apiClient, logger.Named(baseLogger, "svc.inventory"))
	sess.OnChange(store.Reset)
	authFlow := authsvc.NewService(apiClient, sess, nav, logger.Named(baseLogger, "svc.auth"))

	var sheetRepo sheets.Repository
	if cfg.Sheets.Enabled() {
		repo, err := sheets.NewGoogleSheetRepository(ctx, cfg.Sheets, logger.Named(baseLogger, "repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		sheetRepo = repo
		baseLogger.Info("google sheets export enabled", zap.String("range", cfg.Sheets.Range))
	} else {
		baseLogger.Warn("google sheets export not configured")
	}
	reportingSvc := reportingsvc.NewService(sheetRepo, cfg.Sheets.Range, logger.Named(baseLogger, "svc.reporting"))

	var exporter scheduler.Exporter
	if reportingSvc.ExportEnabled() {
		exporter = reportingSvc
	}
	sched := scheduler.NewScheduler(cfg.Scheduler, store, exporter, sess, logger.Named(baseLogger, "scheduler"))
	sched.Start()
	defer sched.Stop()

	authHandler := handlers.NewAuthHandler(authFlow, sess, logger.Named(baseLogger, "handlers.auth"))
	inventoryHandler := handlers.NewInventoryHandler(store, reportingSvc, nav, logger.Named(baseLogger, "handlers.inventory"))
	engine := router.New(authHandler, inventoryHandler, sess, router.Options{AllowedOrigins: cfg.Server.AllowedOrigins}, logger.Named(baseLogger, "router"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.API.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		baseLogger.Info("console starting",
			zap.String("port", cfg.Server.Port),
			zap.String("api", cfg.API.BaseURL),
			zap.Bool("authenticated", sess.HasToken()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// openSessionBackend builds the durable token store selected by SESSION_BACKEND.
func openSessionBackend(ctx context.Context, cfg *config.Config) (session.Backend, func(), error) {
	switch cfg.Session.Backend {
	case config.SessionBackendMemory:
		return session.NewMemoryBackend(), func() {}, nil

	case config.SessionBackendFile:
		return file.NewTokenRepository(cfg.Session.FilePath), func() {}, nil

	case config.SessionBackendMongoDB:
		repo, err := mongodb.NewSessionRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName, cfg.Session.Key)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() {
			if err := repo.Close(context.Background()); err != nil {
				zap.L().Error("failed to close mongodb connection", zap.Error(err))
			}
		}, nil

	case config.SessionBackendRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		return redisrepo.NewSessionRepository(rdb, cfg.Session.Key), func() { _ = rdb.Close() }, nil
	}

	return nil, nil, fmt.Errorf("unsupported session backend %q", cfg.Session.Backend)
}
