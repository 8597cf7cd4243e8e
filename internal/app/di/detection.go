// Package di provides dependency injection factories for creating application components.
package di

import (
	"medicine_backend/internal/config"
	"medicine_backend/internal/feature/detection/adapters/gemini"
	"medicine_backend/internal/feature/detection/adapters/mock"
	"medicine_backend/internal/feature/detection/transport/handler"
	"medicine_backend/internal/feature/detection/usecase"
	infrahttp "medicine_backend/internal/platform/http"
)

// NewDetectorFactory returns the external detector factory for the configured backend.
func NewDetectorFactory(cfg config.GeminiConfig) usecase.DetectorFactory {
	gcfg := gemini.Config{
		BaseURL:    cfg.BaseURL,
		APIVersion: cfg.APIVersion,
		Model:      cfg.Model,
	}
	httpClient := infrahttp.NewHTTPClient(cfg.Timeout)

	if cfg.Backend == "sdk" {
		return gemini.NewSDKDetectorFactory(gcfg, httpClient)
	}
	return gemini.NewRESTDetectorFactory(gcfg, httpClient)
}

// NewDetectionHandler wires the detection feature from config.
func NewDetectionHandler(cfg *config.Config) *handler.DetectionHandler {
	mockDetector := mock.NewMockDetector(mock.WithLatency(cfg.Mock.Latency))
	uc := usecase.NewDetectionUsecase(NewDetectorFactory(cfg.Gemini), mockDetector, cfg.Gemini.APIKey)
	return handler.NewDetectionHandler(uc)
}
