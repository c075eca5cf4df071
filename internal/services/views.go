// internal/services/views.go
// Bentuk JSON untuk hasil engine. NaN/Inf tidak bisa di-encode encoding/json -> null.

package services

import (
	"math"

	"dca-reserves/internal/decline"
)

// Num mengembalikan nil untuk NaN/±Inf.
func Num(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

type CandidateView struct {
	B        float64  `json:"b"`
	Di       *float64 `json:"di"`
	RSquared *float64 `json:"r_squared"`
}

type FitView struct {
	WellID        string                `json:"well_id"`
	InitialRate   float64               `json:"initial_rate"`
	FinalRate     float64               `json:"final_rate"`
	BestB         float64               `json:"best_b"`
	DiExponential *float64              `json:"di_exponential"`
	DiHarmonic    *float64              `json:"di_harmonic"`
	DiHyperbolic  *float64              `json:"di_hyperbolic"`
	Points        int                   `json:"points"`
	Candidates    []CandidateView       `json:"candidates"`
	Curves        []decline.FittedPoint `json:"curves,omitempty"`
	Variance      []Variance            `json:"variance,omitempty"`
	Anomalies     []Anomaly             `json:"anomalies,omitempty"`
}

func NewFitView(f decline.DeclineFit) FitView {
	v := FitView{
		WellID:        f.WellID,
		InitialRate:   f.InitialRate,
		FinalRate:     f.FinalRate,
		BestB:         f.BestB,
		DiExponential: Num(f.DiExponential),
		DiHarmonic:    Num(f.DiHarmonic),
		DiHyperbolic:  Num(f.DiHyperbolic),
		Points:        f.Points,
		Candidates:    make([]CandidateView, 0, len(f.Candidates)),
	}
	for _, c := range f.Candidates {
		v.Candidates = append(v.Candidates, CandidateView{B: c.B, Di: Num(c.Di), RSquared: Num(c.RSquared)})
	}
	return v
}

type PointView struct {
	Date            string   `json:"date"`
	TimeOffset      int      `json:"time_offset"`
	RateExponential *float64 `json:"rate_exponential"`
	RateHarmonic    *float64 `json:"rate_harmonic"`
	RateHyperbolic  *float64 `json:"rate_hyperbolic"`
	CumExponential  *float64 `json:"cum_exponential"`
	CumHarmonic     *float64 `json:"cum_harmonic"`
	CumHyperbolic   *float64 `json:"cum_hyperbolic"`
	Rate            *float64 `json:"rate"` // keluarga terpilih
	Cumulative      *float64 `json:"cumulative"`
}

type ForecastView struct {
	WellID   string        `json:"well_id"`
	Start    string        `json:"start"`
	Horizon  int           `json:"horizon_months"`
	B        float64       `json:"b"`
	Di       *float64      `json:"di"`
	Model    decline.Model `json:"model"`
	Qi       float64       `json:"qi"`
	Baseline float64       `json:"baseline_cumulative"`
	Points   []PointView   `json:"points"`
}

func NewForecastView(fc decline.ForecastSeries) ForecastView {
	v := ForecastView{
		WellID:   fc.WellID,
		Start:    fc.Start.Format("2006-01-02"),
		Horizon:  fc.Horizon,
		B:        fc.B,
		Di:       Num(fc.Di),
		Model:    fc.Model,
		Qi:       fc.Qi,
		Baseline: fc.Baseline,
		Points:   make([]PointView, 0, len(fc.Points)),
	}
	for i, p := range fc.Points {
		rate, cum := fc.Selected(i)
		v.Points = append(v.Points, PointView{
			Date:            p.Date.Format("2006-01-02"),
			TimeOffset:      p.TimeOffset,
			RateExponential: Num(p.RateExponential),
			RateHarmonic:    Num(p.RateHarmonic),
			RateHyperbolic:  Num(p.RateHyperbolic),
			CumExponential:  Num(p.CumExponential),
			CumHarmonic:     Num(p.CumHarmonic),
			CumHyperbolic:   Num(p.CumHyperbolic),
			Rate:            Num(rate),
			Cumulative:      Num(cum),
		})
	}
	return v
}
