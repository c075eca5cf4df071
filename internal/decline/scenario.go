// internal/decline/scenario.go
// Pipeline eksplisit: RateSeries -> Fit -> Forecast -> Evaluate.

package decline

import (
	"fmt"
	"math"
	"time"
)

// ScenarioParams parameter user untuk satu evaluasi sumur.
// UseBestB mengabaikan B dan memakai best_b hasil fitting.
// Baseline override kumulatif historis; nil = hitung dari Basis.
type ScenarioParams struct {
	WindowStart   time.Time       `json:"window_start"`
	WindowEnd     time.Time       `json:"window_end"`
	ForecastStart time.Time       `json:"forecast_start"`
	HorizonMonths int             `json:"horizon_months"`
	Intervention  float64         `json:"intervention"`
	B             float64         `json:"b"`
	UseBestB      bool            `json:"use_best_b,omitempty"`
	EconomicLimit float64         `json:"economic_limit"`
	Basis         CumulativeBasis `json:"cumulative_basis"`
	Baseline      *float64        `json:"baseline_cumulative,omitempty"`
}

// Validate cek parameter yang tidak butuh data.
func (p ScenarioParams) Validate() error {
	switch {
	case p.HorizonMonths <= 0:
		return fmt.Errorf("%w: horizon must be > 0 months", ErrInvalidScenario)
	case math.IsNaN(p.EconomicLimit) || p.EconomicLimit < 0:
		return fmt.Errorf("%w: economic limit must be >= 0", ErrInvalidScenario)
	case p.ForecastStart.IsZero():
		return fmt.Errorf("%w: forecast start is required", ErrInvalidScenario)
	case !p.WindowStart.IsZero() && !p.WindowEnd.IsZero() && p.WindowEnd.Before(p.WindowStart):
		return fmt.Errorf("%w: window end before start", ErrInvalidScenario)
	}
	if !p.UseBestB {
		if _, err := ModelFor(p.B); err != nil {
			return err
		}
	}
	if _, err := ParseCumulativeBasis(string(p.Basis)); err != nil {
		return err
	}
	return nil
}

// ScenarioResult menyimpan semua tahap pipeline.
type ScenarioResult struct {
	Fit      DeclineFit      `json:"fit"`
	Forecast ForecastSeries  `json:"forecast"`
	Estimate ReserveEstimate `json:"estimate"`
}

// RunScenario menjalankan seluruh pipeline atas observasi mentah satu sumur.
func RunScenario(wellID string, obs []RateObservation, p ScenarioParams) (ScenarioResult, error) {
	if err := p.Validate(); err != nil {
		return ScenarioResult{}, err
	}
	series, err := NewRateSeries(wellID, obs, p.WindowStart, p.WindowEnd)
	if err != nil {
		return ScenarioResult{}, err
	}
	fit, err := Fit(series)
	if err != nil {
		return ScenarioResult{}, err
	}

	if p.UseBestB {
		p.B = fit.BestB
	}

	var baseline float64
	if p.Baseline != nil {
		baseline = *p.Baseline
	} else {
		baseline, err = series.BaselineCumulative(p.Basis)
		if err != nil {
			return ScenarioResult{}, err
		}
	}

	fc, err := Forecast(fit, ForecastParams{
		Start:              p.ForecastStart,
		HorizonMonths:      p.HorizonMonths,
		Intervention:       p.Intervention,
		B:                  p.B,
		BaselineCumulative: baseline,
	})
	if err != nil {
		return ScenarioResult{}, err
	}
	est, err := Evaluate(fc, p.EconomicLimit)
	if err != nil {
		return ScenarioResult{}, err
	}
	return ScenarioResult{Fit: fit, Forecast: fc, Estimate: est}, nil
}

// EvaluateScenario seperti RunScenario tapi hanya mengembalikan ReserveEstimate.
func EvaluateScenario(wellID string, obs []RateObservation, p ScenarioParams) (ReserveEstimate, error) {
	res, err := RunScenario(wellID, obs, p)
	if err != nil {
		return ReserveEstimate{}, err
	}
	return res.Estimate, nil
}
