// internal/services/analytics_service.go
// Layanan analitik: deteksi residual fitting yang menyimpang (z-score)

package services

import (
	"math"
)

type Anomaly struct {
	Date   string  `json:"date"`
	Value  float64 `json:"value"`
	ZScore float64 `json:"z_score"`
}

// ResidualOutliers menandai residual dengan |z| >= minZ (mean & stddev populasi).
// Deret kosong atau stddev nol -> tidak ada anomali.
func ResidualOutliers(vs []Variance, minZ float64) []Anomaly {
	out := []Anomaly{}
	if len(vs) == 0 {
		return out
	}
	var sum float64
	for _, v := range vs {
		sum += v.Value
	}
	mean := sum / float64(len(vs))

	var ss float64
	for _, v := range vs {
		d := v.Value - mean
		ss += d * d
	}
	std := math.Sqrt(ss / float64(len(vs)))
	if std == 0 {
		return out
	}

	for _, v := range vs {
		z := (v.Value - mean) / std
		if math.Abs(z) >= minZ {
			out = append(out, Anomaly{Date: v.Date, Value: v.Value, ZScore: z})
		}
	}
	return out
}
