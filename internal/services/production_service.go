// internal/services/production_service.go
// Layanan produksi: perbandingan aktual vs kurva decline hasil fitting

package services

import (
	"dca-reserves/internal/decline"
)

type Variance struct {
	Date    string  `json:"date"`
	Actual  float64 `json:"actual"`
	Modeled float64 `json:"modeled"`
	Value   float64 `json:"value"`   // actual - modeled
	DeltaP  float64 `json:"delta_p"` // % variance
}

// FitVariance menghitung residual tiap observasi terhadap keluarga model yang dipilih b
// (di dan time index sama seperti saat fitting).
func FitVariance(s decline.RateSeries, fit decline.DeclineFit, b float64) ([]Variance, error) {
	di, err := fit.DiFor(b)
	if err != nil {
		return nil, err
	}
	t := s.TimeIndex()
	out := make([]Variance, 0, s.Len())
	for i, o := range s.Observations {
		m, err := decline.Rate(fit.InitialRate, di, b, t[i])
		if err != nil {
			return nil, err
		}
		d := o.Rate - m
		var p float64
		if m != 0 {
			p = d / m * 100.0
		}
		out = append(out, Variance{
			Date:    o.Date.Format("2006-01-02"),
			Actual:  o.Rate,
			Modeled: m,
			Value:   d,
			DeltaP:  p,
		})
	}
	return out, nil
}
