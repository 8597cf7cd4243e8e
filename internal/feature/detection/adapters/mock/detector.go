// Package mock は認証情報がない場合に使う乱数ベースの検出器を提供します。
package mock

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"medicine_backend/internal/feature/detection/domain/entity"
	"medicine_backend/internal/feature/detection/usecase"
)

const (
	// DefaultLatency は擬似的な推論待ち時間です。
	DefaultLatency = 1400 * time.Millisecond
	// FakeProbability は偽造品と判定する確率です。
	FakeProbability = 0.32
	// MinConfidence は生成する信頼度の下限です。
	MinConfidence = 0.78
	// MaxConfidence は生成する信頼度の上限です。
	MaxConfidence = 1.0
)

const (
	// FakeSummary は偽造品と判定した場合の説明文です。
	FakeSummary = "Warning: This medicine image has suspicious visual patterns typically found in counterfeit products. Please consult with a professional."
	// GenuineSummary は正規品と判定した場合の説明文です。
	GenuineSummary = "This medicine image appears authentic based on our latest deep learning analysis."
)

// MockDetector は画像内容を見ずに乱数で判定結果を生成します。失敗することはありません。
type MockDetector struct {
	latency time.Duration

	mu  sync.Mutex // rand.Rand はゴルーチンセーフではない
	rng *rand.Rand
}

// MockDetectorがDetectorを実装していることをコンパイル時に検証します。
var _ usecase.Detector = (*MockDetector)(nil)

// Option はMockDetectorの設定を変更します。
type Option func(*MockDetector)

// WithLatency は擬似待ち時間を変更します。0以下なら待ちません。
func WithLatency(d time.Duration) Option {
	return func(m *MockDetector) { m.latency = d }
}

// WithRand は乱数源を差し替えます（テスト用）。
func WithRand(rng *rand.Rand) Option {
	return func(m *MockDetector) { m.rng = rng }
}

// NewMockDetector はMockDetectorの新しいインスタンスを生成します。
func NewMockDetector(opts ...Option) *MockDetector {
	m := &MockDetector{
		latency: DefaultLatency,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Detect は擬似待ち時間の後、乱数で判定結果を生成します。
// コンテキストがキャンセルされた場合は待機を打ち切りますが、結果は必ず返します。
func (m *MockDetector) Detect(ctx context.Context, _ entity.Image) (*entity.DetectionResult, error) {
	if m.latency > 0 {
		timer := time.NewTimer(m.latency)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	clusters := entity.RandomClusters(m.rng)
	isFake := m.rng.Float64() < FakeProbability
	confidence := MinConfidence + m.rng.Float64()*(MaxConfidence-MinConfidence)

	result := &entity.DetectionResult{
		Clusters:     clusters,
		MedicineType: entity.MedicineGenuine,
		Confidence:   entity.ClampConfidence(confidence),
		Summary:      GenuineSummary,
	}
	if isFake {
		result.MedicineType = entity.MedicineFake
		result.Summary = FakeSummary
	}
	return result, nil
}
