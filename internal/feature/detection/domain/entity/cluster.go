package entity

import "math/rand"

const (
	// ClusterCount は生成する擬似クラスタ点の数です。
	ClusterCount = 10
	// ClusterAxisMax は各座標軸の上限値です（下限は0）。
	ClusterAxisMax = 10.0
)

// ClusterPoint は散布図に描画するクラスタ点です。
type ClusterPoint struct {
	ID int     // 1 から ClusterCount までの連番
	X  float64 // [0, ClusterAxisMax]
	Y  float64 // [0, ClusterAxisMax]
}

// RandomClusters は一様乱数で ClusterCount 個のクラスタ点を生成します。
// 座標は画像や判定結果から導出されるものではなく、表示専用です。
func RandomClusters(rng *rand.Rand) []ClusterPoint {
	points := make([]ClusterPoint, 0, ClusterCount)
	for i := 1; i <= ClusterCount; i++ {
		points = append(points, ClusterPoint{
			ID: i,
			X:  rng.Float64() * ClusterAxisMax,
			Y:  rng.Float64() * ClusterAxisMax,
		})
	}
	return points
}
