// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medicine_backend/internal/api"
)

// BackendReporter はレート制限のバックエンド名を返します。
type BackendReporter interface {
	Backend() string
}

// HealthHandler はサービスヘルスチェック用の /healthz エンドポイントを処理します。
type HealthHandler struct {
	limiter BackendReporter
}

// NewHealthHandler は HealthHandler を生成します。limiter が nil の場合はレート制限無効として扱います。
func NewHealthHandler(limiter BackendReporter) *HealthHandler {
	return &HealthHandler{limiter: limiter}
}

// Health はHTTPメソッドに応じて適切にレスポンスし、キャッシュを防止します。
func (h *HealthHandler) Health(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	switch c.Request.Method {
	case http.MethodHead:
		c.Status(http.StatusOK)
	case http.MethodOptions:
		c.Status(http.StatusNoContent)
	default:
		rl := "disabled"
		if h.limiter != nil {
			rl = h.limiter.Backend()
		}
		c.JSON(http.StatusOK, api.HealthResponse{Status: "ok", RateLimit: rl})
	}
}
