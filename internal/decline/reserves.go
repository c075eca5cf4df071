// internal/decline/reserves.go
// ReserveEvaluator: cari cutoff economic limit, hitung EUR & reserves.

package decline

import (
	"fmt"
	"math"
	"time"
)

// Status hasil evaluasi reserves.
type Status string

const (
	StatusResolved         Status = "resolved"
	StatusUnresolvedCutoff Status = "unresolved_cutoff"
)

// ReserveEstimate hasil evaluasi satu forecast.
// Kalau Status unresolved_cutoff, EUR adalah lower bound di akhir horizon.
type ReserveEstimate struct {
	WellID            string     `json:"well_id"`
	Model             Model      `json:"model"`
	B                 float64    `json:"b"`
	Di                float64    `json:"di"`
	Qi                float64    `json:"qi"`
	EconomicLimit     float64    `json:"economic_limit"`
	ForecastStart     time.Time  `json:"forecast_start"`
	EUR               float64    `json:"eur"`
	Reserves          float64    `json:"reserves"`
	CumulativeAtStart float64    `json:"cumulative_at_start"`
	Cutoff            *time.Time `json:"cutoff_date"`
	FinalRate         float64    `json:"final_rate"`
	Status            Status     `json:"status"`
}

// Resolved true kalau forecast menyentuh economic limit dalam horizon.
func (e ReserveEstimate) Resolved() bool { return e.Status == StatusResolved }

// NegativeReserves: kumulatif awal forecast melebihi EUR.
func (e ReserveEstimate) NegativeReserves() bool { return e.Reserves < 0 }

// Err mengembalikan ErrUnresolvedCutoff untuk estimate yang belum resolved.
func (e ReserveEstimate) Err() error {
	if e.Status == StatusUnresolvedCutoff {
		return fmt.Errorf("%w: well %s stays above %v through %s",
			ErrUnresolvedCutoff, e.WellID, e.EconomicLimit, e.ForecastStart.Format(time.DateOnly))
	}
	return nil
}

// Evaluate memindai forecast untuk model terpilih. Titik pertama dengan
// rate <= limit adalah cutoff (sama dengan limit dihitung crossed).
func Evaluate(fc ForecastSeries, limit float64) (ReserveEstimate, error) {
	if math.IsNaN(limit) || limit < 0 {
		return ReserveEstimate{}, fmt.Errorf("%w: economic limit must be >= 0, got %v", ErrInvalidScenario, limit)
	}
	if len(fc.Points) == 0 {
		return ReserveEstimate{}, fmt.Errorf("%w: empty forecast for well %s", ErrInsufficientData, fc.WellID)
	}

	_, cumStart := fc.Selected(0)
	est := ReserveEstimate{
		WellID:            fc.WellID,
		Model:             fc.Model,
		B:                 fc.B,
		Di:                fc.Di,
		Qi:                fc.Qi,
		EconomicLimit:     limit,
		ForecastStart:     fc.Start,
		CumulativeAtStart: cumStart,
		Status:            StatusUnresolvedCutoff,
	}

	last := len(fc.Points) - 1
	idx := last
	for i := range fc.Points {
		rate, _ := fc.Selected(i)
		if rate <= limit {
			idx = i
			cutoff := fc.Points[i].Date
			est.Cutoff = &cutoff
			est.Status = StatusResolved
			break
		}
	}

	_, eur := fc.Selected(idx)
	est.EUR = eur
	est.Reserves = eur - cumStart
	est.FinalRate, _ = fc.Selected(last)
	return est, nil
}
