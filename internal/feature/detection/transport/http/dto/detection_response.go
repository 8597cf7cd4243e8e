// Package dto defines HTTP response bodies for the detection feature.
package dto

import "medicine_backend/internal/feature/detection/domain/entity"

// ClusterPointResponse は散布図の1点です。
type ClusterPointResponse struct {
	ID int     `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// DetectionResponse は判定結果のレスポンスDTOです。
type DetectionResponse struct {
	Clusters     []ClusterPointResponse `json:"clusters"`     // 表示用クラスタ
	MedicineType string                 `json:"medicineType"` // "Genuine" | "Fake"
	Confidence   float64                `json:"confidence"`   // 0.0 ~ 1.0
	Summary      string                 `json:"summary"`      // 説明文
	Mode         string                 `json:"mode"`         // "external" | "mock"
}

// FromEntity はドメインの判定結果をレスポンスDTOに変換します。
func FromEntity(r *entity.DetectionResult) DetectionResponse {
	clusters := make([]ClusterPointResponse, 0, len(r.Clusters))
	for _, p := range r.Clusters {
		clusters = append(clusters, ClusterPointResponse{ID: p.ID, X: p.X, Y: p.Y})
	}
	return DetectionResponse{
		Clusters:     clusters,
		MedicineType: string(r.MedicineType),
		Confidence:   r.Confidence,
		Summary:      r.Summary,
		Mode:         string(r.Mode),
	}
}
