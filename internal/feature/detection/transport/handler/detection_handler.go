// Package handler はdetectionフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"medicine_backend/internal/api"
	"medicine_backend/internal/feature/detection/domain"
	"medicine_backend/internal/feature/detection/domain/entity"
	"medicine_backend/internal/feature/detection/transport/http/dto"
	"medicine_backend/internal/feature/detection/usecase"
)

const (
	// CredentialHeader はリクエストごとのAPIキーを渡すヘッダーです。
	CredentialHeader = "X-Gemini-Api-Key"
	// credentialField はヘッダーの代わりに使えるマルチパートのフィールド名です。
	credentialField = "api_key"
	// imageField は画像ファイルのフィールド名です。
	imageField = "image"
	// maxRequestBytes はマルチパートのオーバーヘッドを見込んだリクエスト全体の上限です。
	maxRequestBytes = usecase.MaxImageSize + 1024*1024
)

// DetectionUsecase は医薬品画像の真贋判定ユースケースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type DetectionUsecase interface {
	Detect(ctx context.Context, image entity.Image, credential string) (*entity.DetectionResult, error)
}

// DetectionHandler は真贋判定のHTTPリクエストを処理します。
type DetectionHandler struct {
	uc DetectionUsecase
}

// NewDetectionHandler はDetectionHandlerの新しいインスタンスを生成します。
func NewDetectionHandler(uc DetectionUsecase) *DetectionHandler {
	return &DetectionHandler{uc: uc}
}

// Detect は画像をアップロードして真贋判定を行います。
//
// エンドポイント: POST /v1/detect
// Content-Type: multipart/form-data
// フィールド: image（画像ファイル、最大5MB）、api_key（任意）
// ヘッダー: X-Gemini-Api-Key（任意、api_keyより優先）
func (h *DetectionHandler) Detect(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestBytes)

	file, err := c.FormFile(imageField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			slog.Warn("リクエストサイズが上限を超過", "limit", tooLarge.Limit, "remote_addr", c.ClientIP())
			c.JSON(http.StatusRequestEntityTooLarge, api.ErrorResponse{Error: "画像サイズが大きすぎます"})
			return
		}
		slog.Warn("画像ファイルの取得に失敗", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "画像ファイルが必要です"})
		return
	}

	f, err := file.Open()
	if err != nil {
		slog.Error("画像ファイルのオープンに失敗", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "画像の読み込みに失敗しました"})
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("画像ファイルのクローズに失敗", "error", err)
		}
	}()

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("画像データの読み取りに失敗", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "画像の読み込みに失敗しました"})
		return
	}

	image := entity.Image{Data: data, MIMEType: file.Header.Get("Content-Type")}

	result, err := h.uc.Detect(c.Request.Context(), image, credentialFrom(c))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromEntity(result))
}

// writeError はユースケースのエラーをHTTPステータスに変換します。
// 外部APIのエラーはメッセージをそのままUIに返します。
func (h *DetectionHandler) writeError(c *gin.Context, err error) {
	if errors.Is(err, usecase.ErrInvalidImage) {
		slog.Warn("画像の検証に失敗", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	if kind := domain.Kind(err); kind != "" {
		slog.Error("外部APIでの判定に失敗", "error", err, "kind", kind)
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: err.Error(), Kind: kind})
		return
	}

	if errors.Is(err, context.DeadlineExceeded) {
		slog.Error("判定がタイムアウト", "error", err)
		c.JSON(http.StatusGatewayTimeout, api.ErrorResponse{Error: "判定がタイムアウトしました"})
		return
	}

	slog.Error("判定に失敗", "error", err)
	c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "判定に失敗しました"})
}

// credentialFrom はヘッダー、次にフォームフィールドから認証情報を取得します。
func credentialFrom(c *gin.Context) string {
	if v := strings.TrimSpace(c.GetHeader(CredentialHeader)); v != "" {
		return v
	}
	return strings.TrimSpace(c.PostForm(credentialField))
}
