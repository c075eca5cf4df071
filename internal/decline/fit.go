// internal/decline/fit.go
// ModelFitter: regresi linear (lewat origin) untuk exp/harmonic + grid search b hiperbolik.

package decline

import (
	"fmt"
	"math"
)

// BGrid adalah kandidat exponent hiperbolik {0.1, 0.2, …, 1.0}.
var BGrid = func() []float64 {
	out := make([]float64, 10)
	for i := range out {
		out[i] = float64(i+1) / 10
	}
	return out
}()

// BCandidate menyimpan skor satu kandidat b.
type BCandidate struct {
	B        float64 `json:"b"`
	Di       float64 `json:"di"`
	RSquared float64 `json:"r_squared"`
}

// DeclineFit adalah hasil fitting satu window. Immutable setelah dibuat.
type DeclineFit struct {
	WellID        string       `json:"well_id"`
	InitialRate   float64      `json:"initial_rate"`
	FinalRate     float64      `json:"final_rate"`
	BestB         float64      `json:"best_b"`
	DiExponential float64      `json:"di_exponential"`
	DiHarmonic    float64      `json:"di_harmonic"`
	DiHyperbolic  float64      `json:"di_hyperbolic"`
	Points        int          `json:"points"`
	Candidates    []BCandidate `json:"candidates"`
}

// Fit menghitung parameter decline dari RateSeries.
//
// di_exp = Σ(t·ln(qi/r)) / Σt²
// di_har = (Σ(t·qi/r) − Σt) / Σt²
// best_b = argmin_b |R²(b) − 1| atas BGrid (minimum pertama yang menang).
func Fit(s RateSeries) (DeclineFit, error) {
	n := s.Len()
	if n < 2 {
		return DeclineFit{}, fmt.Errorf("%w: well %s has %d usable observations, need at least 2",
			ErrInsufficientData, s.WellID, n)
	}

	t := s.TimeIndex()
	r := s.Rates()
	qi := r[0]
	qf := r[n-1]

	var sumT, sumT2, sumTLn, sumTRatio float64
	for i := range t {
		sumT += t[i]
		sumT2 += t[i] * t[i]
		sumTLn += t[i] * math.Log(qi/r[i])
		sumTRatio += t[i] * qi / r[i]
	}
	if sumT2 == 0 {
		return DeclineFit{}, fmt.Errorf("%w: well %s", ErrDegenerateRegression, s.WellID)
	}

	fit := DeclineFit{
		WellID:        s.WellID,
		InitialRate:   qi,
		FinalRate:     qf,
		DiExponential: sumTLn / sumT2,
		DiHarmonic:    (sumTRatio - sumT) / sumT2,
		Points:        n,
		Candidates:    make([]BCandidate, 0, len(BGrid)),
	}

	tFinal := t[n-1]
	best := -1
	bestScore := math.Inf(1)
	for _, b := range BGrid {
		di, err := HyperbolicDeclineRate(qi, qf, b, tFinal)
		if err != nil {
			return DeclineFit{}, err
		}
		modeled := make([]float64, n)
		for i := range t {
			modeled[i] = HyperbolicRate(qi, di, b, t[i])
		}
		r2 := RSquared(r, modeled)
		fit.Candidates = append(fit.Candidates, BCandidate{B: b, Di: di, RSquared: r2})

		score := math.Abs(r2 - 1)
		if best < 0 || score < bestScore {
			// NaN tidak pernah lebih kecil; kandidat pertama tetap jadi default.
			if best < 0 || !math.IsNaN(score) {
				best = len(fit.Candidates) - 1
				if !math.IsNaN(score) {
					bestScore = score
				}
			}
		}
	}

	fit.BestB = fit.Candidates[best].B
	fit.DiHyperbolic = fit.Candidates[best].Di
	return fit, nil
}

// RSquared: 1 − SSE/SST, SST dari mean deret aktual sendiri.
func RSquared(actual, modeled []float64) float64 {
	if len(actual) == 0 || len(actual) != len(modeled) {
		return math.NaN()
	}
	var mean float64
	for _, v := range actual {
		mean += v
	}
	mean /= float64(len(actual))

	var sst, sse float64
	for i, v := range actual {
		d := v - mean
		sst += d * d
		e := v - modeled[i]
		sse += e * e
	}
	return 1 - sse/sst
}

// DiFor mengembalikan di untuk keluarga model yang dirutekan oleh b.
func (f DeclineFit) DiFor(b float64) (float64, error) {
	m, err := ModelFor(b)
	if err != nil {
		return math.NaN(), err
	}
	switch m {
	case ModelExponential:
		return f.DiExponential, nil
	case ModelHarmonic:
		return f.DiHarmonic, nil
	default:
		return f.DiHyperbolic, nil
	}
}

// FittedPoint adalah nilai model di satu observasi historis.
type FittedPoint struct {
	Date        string  `json:"date"`
	Actual      float64 `json:"actual"`
	Exponential float64 `json:"exponential"`
	Harmonic    float64 `json:"harmonic"`
	Hyperbolic  float64 `json:"hyperbolic"`
}

// Curves mengevaluasi ketiga model (hiperbolik pada best_b) di time index window.
func (f DeclineFit) Curves(s RateSeries) []FittedPoint {
	out := make([]FittedPoint, 0, s.Len())
	for i, o := range s.Observations {
		t := float64(i)
		out = append(out, FittedPoint{
			Date:        o.Date.Format("2006-01-02"),
			Actual:      o.Rate,
			Exponential: ExponentialRate(f.InitialRate, f.DiExponential, t),
			Harmonic:    HarmonicRate(f.InitialRate, f.DiHarmonic, t),
			Hyperbolic:  HyperbolicRate(f.InitialRate, f.DiHyperbolic, f.BestB, t),
		})
	}
	return out
}
