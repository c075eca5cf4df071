// internal/decline/forecast.go
// ForecastEngine: proyeksi rate bulanan + kumulatif total (baseline + Q(t)).

package decline

import (
	"fmt"
	"math"
	"time"
)

// ForecastParams parameter skenario forecast.
type ForecastParams struct {
	Start         time.Time `json:"start"`
	HorizonMonths int       `json:"horizon_months"`
	// Intervention ditambahkan ke last observed rate (boleh negatif).
	Intervention float64 `json:"intervention"`
	// B pilihan user, independen dari best_b hasil fitting.
	B float64 `json:"b"`
	// BaselineCumulative kumulatif historis di titik terakhir window.
	BaselineCumulative float64 `json:"baseline_cumulative"`
}

// ForecastPoint satu langkah bulanan. Cum* adalah kumulatif total.
// Kolom hiperbolik NaN kalau B bukan (0,1).
type ForecastPoint struct {
	Date            time.Time `json:"date"`
	TimeOffset      int       `json:"time_offset"`
	RateExponential float64   `json:"rate_exponential"`
	RateHarmonic    float64   `json:"rate_harmonic"`
	RateHyperbolic  float64   `json:"rate_hyperbolic"`
	CumExponential  float64   `json:"cum_exponential"`
	CumHarmonic     float64   `json:"cum_harmonic"`
	CumHyperbolic   float64   `json:"cum_hyperbolic"`
}

// ForecastSeries hasil Forecast. Model adalah keluarga yang dipilih oleh B.
type ForecastSeries struct {
	WellID   string          `json:"well_id"`
	Start    time.Time       `json:"start"`
	Horizon  int             `json:"horizon_months"`
	B        float64         `json:"b"`
	Di       float64         `json:"di"`
	Model    Model           `json:"model"`
	Qi       float64         `json:"qi"`
	Baseline float64         `json:"baseline_cumulative"`
	Points   []ForecastPoint `json:"points"`
}

// MonthStart membulatkan t ke hari pertama bulannya (UTC).
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// Forecast memproyeksikan HorizonMonths+1 titik bulanan mulai dari awal bulan Start.
func Forecast(fit DeclineFit, p ForecastParams) (ForecastSeries, error) {
	if p.HorizonMonths <= 0 {
		return ForecastSeries{}, fmt.Errorf("%w: horizon must be > 0 months, got %d", ErrInvalidScenario, p.HorizonMonths)
	}
	if p.Start.IsZero() {
		return ForecastSeries{}, fmt.Errorf("%w: forecast start is required", ErrInvalidScenario)
	}
	if math.IsNaN(p.Intervention) || math.IsInf(p.Intervention, 0) ||
		math.IsNaN(p.BaselineCumulative) || math.IsInf(p.BaselineCumulative, 0) {
		return ForecastSeries{}, fmt.Errorf("%w: intervention and baseline must be finite", ErrInvalidScenario)
	}
	model, err := ModelFor(p.B)
	if err != nil {
		return ForecastSeries{}, err
	}
	di, err := fit.DiFor(p.B)
	if err != nil {
		return ForecastSeries{}, err
	}

	qi := fit.FinalRate + p.Intervention
	if !(qi > 0) {
		return ForecastSeries{}, fmt.Errorf("%w: well %s last rate %v + intervention %v = %v",
			ErrNonPositiveForecastRate, fit.WellID, fit.FinalRate, p.Intervention, qi)
	}

	start := MonthStart(p.Start)
	hyper := p.B > 0 && p.B < 1

	fc := ForecastSeries{
		WellID:   fit.WellID,
		Start:    start,
		Horizon:  p.HorizonMonths,
		B:        p.B,
		Di:       di,
		Model:    model,
		Qi:       qi,
		Baseline: p.BaselineCumulative,
		Points:   make([]ForecastPoint, 0, p.HorizonMonths+1),
	}

	for m := 0; m <= p.HorizonMonths; m++ {
		t := float64(m)
		pt := ForecastPoint{
			Date:            start.AddDate(0, m, 0),
			TimeOffset:      m,
			RateExponential: ExponentialRate(qi, fit.DiExponential, t),
			RateHarmonic:    HarmonicRate(qi, fit.DiHarmonic, t),
			RateHyperbolic:  math.NaN(),
			CumExponential:  p.BaselineCumulative + ExponentialCum(qi, fit.DiExponential, t),
			CumHarmonic:     p.BaselineCumulative + HarmonicCum(qi, fit.DiHarmonic, t),
			CumHyperbolic:   math.NaN(),
		}
		if hyper {
			pt.RateHyperbolic = HyperbolicRate(qi, fit.DiHyperbolic, p.B, t)
			q, err := HyperbolicCum(qi, fit.DiHyperbolic, p.B, t)
			if err != nil {
				return ForecastSeries{}, err
			}
			pt.CumHyperbolic = p.BaselineCumulative + q
		}

		rate, cum := pt.selected(model)
		if math.IsNaN(rate) || math.IsInf(rate, 0) || math.IsNaN(cum) || math.IsInf(cum, 0) {
			return ForecastSeries{}, fmt.Errorf("%w: non-finite %s forecast at month %d (di=%v)",
				ErrInvalidModelParameter, model, m, di)
		}
		fc.Points = append(fc.Points, pt)
	}
	return fc, nil
}

func (p ForecastPoint) selected(m Model) (rate, cum float64) {
	switch m {
	case ModelExponential:
		return p.RateExponential, p.CumExponential
	case ModelHarmonic:
		return p.RateHarmonic, p.CumHarmonic
	default:
		return p.RateHyperbolic, p.CumHyperbolic
	}
}

// Selected mengembalikan (rate, kumulatif total) titik ke-i untuk model terpilih.
func (f ForecastSeries) Selected(i int) (rate, cum float64) {
	return f.Points[i].selected(f.Model)
}
