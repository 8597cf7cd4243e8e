// Package entity はdetectionフィーチャーのドメインモデルを定義します。
package entity

// MedicineType は医薬品の真贋判定結果を表します。
type MedicineType string

const (
	// MedicineGenuine は正規品と判定されたことを表します。
	MedicineGenuine MedicineType = "Genuine"
	// MedicineFake は偽造品と判定されたことを表します。
	MedicineFake MedicineType = "Fake"
)

// DetectionMode は判定結果を生成した検出器の種別です。
type DetectionMode string

const (
	// ModeExternal は外部のVision APIで判定したことを表します。
	ModeExternal DetectionMode = "external"
	// ModeMock は乱数によるフォールバックで生成したことを表します。
	ModeMock DetectionMode = "mock"
)

// ParseMedicineType は上流から返された文字列を正規化します。
// 完全一致で "Fake" の場合のみ MedicineFake、それ以外はすべて MedicineGenuine です。
func ParseMedicineType(s string) MedicineType {
	if s == string(MedicineFake) {
		return MedicineFake
	}
	return MedicineGenuine
}

// ClampConfidence は信頼度を [0, 1] に収めます。
func ClampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

// DetectionResult は1回の画像送信に対する判定結果です。
// 永続化はされず、リクエストごとに新しく生成されます。
type DetectionResult struct {
	Clusters     []ClusterPoint // 表示用の擬似クラスタ座標（画像内容とは無関係）
	MedicineType MedicineType   // 判定結果
	Confidence   float64        // 信頼度（0.0 ~ 1.0）
	Summary      string         // 判定の説明文
	Mode         DetectionMode  // 結果を生成した検出器
}

// IsFake は偽造品と判定されたかどうかを返します。
func (r *DetectionResult) IsFake() bool {
	return r.MedicineType == MedicineFake
}
