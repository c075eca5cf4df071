// internal/decline/series.go
// RateSeries: deret (tanggal, rate) satu sumur yang sudah dibersihkan & dibatasi window.

package decline

import (
	"fmt"
	"math"
	"slices"
	"time"
)

// RateObservation adalah satu titik historis. Cumulative berisi kumulatif
// yang tercatat di sumber data (NaN kalau sumber tidak punya).
type RateObservation struct {
	Date       time.Time `json:"date"`
	Rate       float64   `json:"rate"`
	Cumulative float64   `json:"cumulative"`
}

// RateSeries observasi satu sumur yang dipertahankan di dalam [Start, End].
// Rate nol (shut-in) dibuang; tanggal tidak pernah mundur.
type RateSeries struct {
	WellID       string
	Start        time.Time
	End          time.Time
	Observations []RateObservation
}

// NewRateSeries memfilter observasi ke window [start, end] (zero time = tanpa batas),
// membuang rate == 0, lalu mengurutkan stabil berdasarkan tanggal.
func NewRateSeries(wellID string, obs []RateObservation, start, end time.Time) (RateSeries, error) {
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return RateSeries{}, fmt.Errorf("%w: window end %s before start %s",
			ErrInvalidScenario, end.Format(time.DateOnly), start.Format(time.DateOnly))
	}

	kept := make([]RateObservation, 0, len(obs))
	for _, o := range obs {
		if !start.IsZero() && o.Date.Before(start) {
			continue
		}
		if !end.IsZero() && o.Date.After(end) {
			continue
		}
		if o.Rate == 0 {
			continue
		}
		if o.Rate < 0 || math.IsNaN(o.Rate) || math.IsInf(o.Rate, 0) {
			return RateSeries{}, fmt.Errorf("%w: well %s rate %v on %s",
				ErrInvalidObservation, wellID, o.Rate, o.Date.Format(time.DateOnly))
		}
		kept = append(kept, o)
	}
	slices.SortStableFunc(kept, func(a, b RateObservation) int {
		return a.Date.Compare(b.Date)
	})

	return RateSeries{WellID: wellID, Start: start, End: end, Observations: kept}, nil
}

// Len jumlah observasi yang dipertahankan.
func (s RateSeries) Len() int { return len(s.Observations) }

// TimeIndex mengembalikan 0,1,2,… per sampel yang dipertahankan. Ini indeks,
// bukan waktu kalender: celah bekas shut-in tidak memperlebar langkah.
func (s RateSeries) TimeIndex() []float64 {
	out := make([]float64, len(s.Observations))
	for i := range out {
		out[i] = float64(i)
	}
	return out
}

// Rates mengembalikan slice rate (urutan sama dengan Observations).
func (s RateSeries) Rates() []float64 {
	out := make([]float64, len(s.Observations))
	for i, o := range s.Observations {
		out[i] = o.Rate
	}
	return out
}

// Last observasi terakhir yang dipertahankan.
func (s RateSeries) Last() (RateObservation, bool) {
	if len(s.Observations) == 0 {
		return RateObservation{}, false
	}
	return s.Observations[len(s.Observations)-1], true
}

// CumulativeBasis menentukan bagaimana kumulatif historis (baseline forecast) dihitung.
type CumulativeBasis string

const (
	// BasisRecorded memakai kolom kumulatif dari sumber data.
	BasisRecorded CumulativeBasis = "recorded"
	// BasisRunningSum: Σ rate observasi sebelumnya (satu langkah = satu sampel).
	BasisRunningSum CumulativeBasis = "running_sum"
	// BasisCalendarDays: Σ (selisih hari × rate observasi sebelumnya).
	BasisCalendarDays CumulativeBasis = "calendar_days"
)

// ParseCumulativeBasis menerima "" sebagai BasisRecorded.
func ParseCumulativeBasis(s string) (CumulativeBasis, error) {
	switch CumulativeBasis(s) {
	case "", BasisRecorded:
		return BasisRecorded, nil
	case BasisRunningSum, BasisCalendarDays:
		return CumulativeBasis(s), nil
	}
	return "", fmt.Errorf("%w: unknown cumulative basis %q", ErrInvalidScenario, s)
}

// RunningCumulative menghitung kumulatif per observasi sesuai basis.
// Titik pertama selalu 0 untuk basis turunan (running_sum, calendar_days).
func (s RateSeries) RunningCumulative(basis CumulativeBasis) ([]float64, error) {
	out := make([]float64, len(s.Observations))
	switch basis {
	case "", BasisRecorded:
		for i, o := range s.Observations {
			if math.IsNaN(o.Cumulative) {
				return nil, fmt.Errorf("%w: well %s has no recorded cumulative on %s",
					ErrInvalidObservation, s.WellID, o.Date.Format(time.DateOnly))
			}
			out[i] = o.Cumulative
		}
	case BasisRunningSum:
		for i := 1; i < len(out); i++ {
			out[i] = out[i-1] + s.Observations[i-1].Rate
		}
	case BasisCalendarDays:
		for i := 1; i < len(out); i++ {
			days := s.Observations[i].Date.Sub(s.Observations[i-1].Date).Hours() / 24
			out[i] = out[i-1] + days*s.Observations[i-1].Rate
		}
	default:
		return nil, fmt.Errorf("%w: unknown cumulative basis %q", ErrInvalidScenario, basis)
	}
	return out, nil
}

// BaselineCumulative adalah kumulatif pada titik terakhir window (baseline forecast).
func (s RateSeries) BaselineCumulative(basis CumulativeBasis) (float64, error) {
	if len(s.Observations) == 0 {
		return 0, fmt.Errorf("%w: well %s has no observations in window", ErrInsufficientData, s.WellID)
	}
	cum, err := s.RunningCumulative(basis)
	if err != nil {
		return 0, err
	}
	return cum[len(cum)-1], nil
}
