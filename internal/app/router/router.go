package router

import (
	"log/slog"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	detectionhandler "medicine_backend/internal/feature/detection/transport/handler"
	"medicine_backend/internal/platform/http/handler"
	"medicine_backend/internal/platform/http/middleware"
	"medicine_backend/internal/platform/ratelimit"
)

// Options はルータ生成時の横断的な設定です。
type Options struct {
	Logger           *slog.Logger
	CORSAllowOrigins []string
	// Limiter が nil の場合、レート制限は無効です。
	Limiter ratelimit.Limiter
}

func NewRouter(health *handler.HealthHandler, detection *detectionhandler.DetectionHandler, opts Options) *gin.Engine {
	r := gin.New()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(logger))
	r.Use(cors.New(corsConfig(opts.CORSAllowOrigins)))

	// 導通確認用
	r.GET("/healthz", health.Health)
	r.HEAD("/healthz", health.Health)

	v1 := r.Group("/v1")
	if opts.Limiter != nil {
		v1.Use(middleware.RateLimit(opts.Limiter))
	}
	{
		// 医薬品画像の真贋判定
		v1.POST("/detect", detection.Detect)
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "HEAD", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", detectionhandler.CredentialHeader, middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader, "Retry-After", "X-RateLimit-Remaining"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
