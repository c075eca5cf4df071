// internal/decline/errors.go
// Jenis error engine DCA. Semua bisa di-recover di boundary pemanggil.

package decline

import "errors"

var (
	// ErrInsufficientData: kurang dari 2 observasi (rate != 0) di window fitting.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrDegenerateRegression: variansi time offset nol (Σt² = 0).
	ErrDegenerateRegression = errors.New("degenerate regression")
	// ErrInvalidModelParameter: b di luar [0,1], atau formula hiperbolik dipanggil di b∈{0,1}.
	ErrInvalidModelParameter = errors.New("invalid model parameter")
	// ErrNonPositiveForecastRate: rate awal forecast (last rate + intervensi) <= 0.
	ErrNonPositiveForecastRate = errors.New("non-positive forecast rate")
	// ErrUnresolvedCutoff: forecast tidak menyentuh economic limit dalam horizon.
	// Dilaporkan lewat ReserveEstimate.Err(), bukan error fatal.
	ErrUnresolvedCutoff = errors.New("unresolved cutoff")
	// ErrInvalidObservation: rate negatif / NaN / Inf.
	ErrInvalidObservation = errors.New("invalid observation")
	// ErrInvalidScenario: horizon <= 0, limit negatif, window terbalik.
	ErrInvalidScenario = errors.New("invalid scenario")
)
