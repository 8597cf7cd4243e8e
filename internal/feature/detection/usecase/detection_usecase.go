// Package usecase はdetectionフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"medicine_backend/internal/feature/detection/domain/entity"
)

const (
	// MaxImageSize は画像アップロードの最大サイズ（5MB）です。
	MaxImageSize = 5 * 1024 * 1024
	// imageMIMEPrefix は受け付けるMIMEタイプの接頭辞です。
	imageMIMEPrefix = "image/"
)

// ErrInvalidImage はアップロード画像が検証に失敗したことを表します。
var ErrInvalidImage = errors.New("invalid image")

// Detector は画像から判定結果を生成する検出器インターフェースです。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type Detector interface {
	// Detect は画像を判定し、完全に埋まった結果かエラーのどちらかを返します。
	Detect(ctx context.Context, image entity.Image) (*entity.DetectionResult, error)
}

// DetectorFactory は認証情報に紐づく外部検出器を生成します。
type DetectorFactory func(credential string) Detector

// detectionUsecase は認証情報の有無に応じて検出器を選択します。
type detectionUsecase struct {
	external   DetectorFactory
	mock       Detector
	defaultKey string
}

// NewDetectionUsecase はdetectionUsecaseの新しいインスタンスを生成します。
// defaultKey はリクエストに認証情報がない場合に使うオペレーター既定のキーで、空でも構いません。
func NewDetectionUsecase(external DetectorFactory, mock Detector, defaultKey string) *detectionUsecase {
	return &detectionUsecase{
		external:   external,
		mock:       mock,
		defaultKey: strings.TrimSpace(defaultKey),
	}
}

// Detect は画像を検証し、認証情報があれば外部検出器、なければモック検出器で判定します。
// 外部検出器の失敗はそのまま返し、モックへのフォールバックは行いません。
func (u *detectionUsecase) Detect(ctx context.Context, image entity.Image, credential string) (*entity.DetectionResult, error) {
	img, err := validateImage(image)
	if err != nil {
		return nil, err
	}

	detector, mode := u.selectDetector(credential)

	start := time.Now()
	result, err := detector.Detect(ctx, img)
	if err != nil {
		slog.Warn("detection failed", "mode", mode, "error", err, "elapsed", time.Since(start))
		return nil, fmt.Errorf("%s detection: %w", mode, err)
	}
	result.Mode = mode

	slog.Info("detection completed",
		"mode", mode,
		"medicine_type", result.MedicineType,
		"confidence", result.Confidence,
		"image_bytes", len(img.Data),
		"elapsed", time.Since(start),
	)
	return result, nil
}

// selectDetector は認証情報の有無で検出器を選択します。
func (u *detectionUsecase) selectDetector(credential string) (Detector, entity.DetectionMode) {
	key := strings.TrimSpace(credential)
	if key == "" {
		key = u.defaultKey
	}
	if key != "" && u.external != nil {
		return u.external(key), entity.ModeExternal
	}
	return u.mock, entity.ModeMock
}

// validateImage は画像のサイズとMIMEタイプを検証します。
// MIMEタイプが未指定の場合はバイト列から判定します。
func validateImage(image entity.Image) (entity.Image, error) {
	if len(image.Data) == 0 {
		return image, fmt.Errorf("%w: image data is empty", ErrInvalidImage)
	}
	if len(image.Data) > MaxImageSize {
		return image, fmt.Errorf("%w: image size exceeds maximum of %d bytes", ErrInvalidImage, MaxImageSize)
	}

	mime := strings.TrimSpace(image.MIMEType)
	if mime == "" || mime == "application/octet-stream" {
		mime = http.DetectContentType(image.Data)
	}
	// "image/jpeg; charset=..." のようなパラメータは除去する
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	if !strings.HasPrefix(mime, imageMIMEPrefix) {
		return image, fmt.Errorf("%w: unsupported content type %q", ErrInvalidImage, mime)
	}

	image.MIMEType = mime
	return image, nil
}
