package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	redisv9 "github.com/redis/go-redis/v9"

	"medicine_backend/internal/app/di"
	"medicine_backend/internal/app/router"
	"medicine_backend/internal/config"
	"medicine_backend/internal/platform/http/handler"
	"medicine_backend/internal/platform/logger"
	infraredis "medicine_backend/internal/platform/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	log, closer := logger.New(cfg.Log)
	defer func() { _ = closer.Close() }()
	slog.SetDefault(log)

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	// Redis（未設定・接続失敗時はプロセス内のレート制限にフォールバック）
	var rdb *redisv9.Client
	if cfg.Redis.Enabled() && cfg.RateLimitPerMinute > 0 {
		if tmp, err := infraredis.NewRedisClient(context.Background(), cfg.Redis); err != nil {
			slog.Warn("Redis unavailable. Using in-memory rate limiting.")
		} else {
			rdb = tmp
			defer func() {
				if err := rdb.Close(); err != nil {
					slog.Error("failed to close Redis client", "error", err)
				}
			}()
		}
	}

	limiter := di.NewLimiter(cfg, rdb)

	// Handler
	healthH := handler.NewHealthHandler(limiter)
	detectionH := di.NewDetectionHandler(cfg)

	// ルータ生成
	r := router.NewRouter(healthH, detectionH, router.Options{
		Logger:           log,
		CORSAllowOrigins: cfg.CORSAllowOrigins,
		Limiter:          limiter,
	})

	if cfg.Gemini.APIKey == "" {
		slog.Info("GEMINI_API_KEY is not set. Requests without a credential use mock detection.")
	}

	slog.Info("starting server", "port", cfg.Port, "gemini_backend", cfg.Gemini.Backend, "model", cfg.Gemini.Model)
	if err := r.Run(":" + cfg.Port); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
