package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"apply4me/internal/config"
	"apply4me/internal/handler"
	"apply4me/internal/redis"
	"apply4me/internal/repository"
	"apply4me/internal/server"
	"apply4me/internal/services"
	"apply4me/pkg/database"
	"apply4me/pkg/logger"

	"go.uber.org/zap"
)

const (
	shutdownTimeout   = 30 * time.Second
	readHeaderTimeout = 10 * time.Second
	idleTimeout       = 60 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	l := logger.New(cfg.Server.Environment)
	defer l.Sync()

	db, err := database.Connect(cfg)
	if err != nil {
		l.Logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		l.Logger.Fatal("failed to apply migrations", zap.Error(err))
	}
	if err := database.HealthCheck(context.Background(), db); err != nil {
		l.Logger.Fatal("database health check failed", zap.Error(err))
	}

	var limiter *redis.RateLimiter
	if cfg.Redis.Addr != "" {
		client, err := redis.NewClient(cfg.Redis)
		if err != nil {
			l.Logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		limiter = redis.NewRateLimiter(client, redis.DefaultRateLimitConfig())
	}

	repo := repository.NewSubmissionRepository(db)
	submissionSvc := services.NewSubmissionService(repo, cfg.Upload, cfg.Paging)
	adminAuth := services.NewAdminAuthService(cfg.Admin)
	if !adminAuth.Configured() {
		l.Infof("admin credentials not configured; admin endpoints will answer 503")
	}

	detailed := !cfg.IsProduction()
	submissionHandler := handler.NewSubmissionHandler(submissionSvc, l, cfg.Upload.MaxResumeBytes, detailed)
	healthHandler := handler.NewHealthHandler(submissionSvc, cfg.Server.Environment, detailed)

	router := server.NewRouter(cfg, l, submissionHandler, healthHandler, adminAuth, limiter)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		l.Infof("listening on :%s (env: %s)", cfg.Server.Port, cfg.Server.Environment)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		l.Logger.Fatal("server failed", zap.Error(err))
	case sig := <-shutdown:
		l.Infof("received %v, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		l.Errorf("graceful shutdown failed: %v", err)
		_ = httpServer.Close()
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	l.Infof("shutdown complete")
}
