// internal/decline/model.go
// Persamaan Arps (exponential, harmonic, hyperbolic): rate & kumulatif closed-form.

package decline

import (
	"fmt"
	"math"
)

// Model adalah keluarga persamaan decline.
type Model string

const (
	ModelExponential Model = "exponential"
	ModelHarmonic    Model = "harmonic"
	ModelHyperbolic  Model = "hyperbolic"
)

// ModelFor merutekan exponent b ke keluarga model:
// b=0 -> exponential, b=1 -> harmonic, 0<b<1 -> hyperbolic.
func ModelFor(b float64) (Model, error) {
	switch {
	case math.IsNaN(b) || b < 0 || b > 1:
		return "", fmt.Errorf("%w: b=%v outside [0,1]", ErrInvalidModelParameter, b)
	case b == 0:
		return ModelExponential, nil
	case b == 1:
		return ModelHarmonic, nil
	default:
		return ModelHyperbolic, nil
	}
}

// ExponentialRate: q(t) = qi·e^(−di·t)
func ExponentialRate(qi, di, t float64) float64 {
	return qi * math.Exp(-di*t)
}

// HarmonicRate: q(t) = qi / (1 + di·t)
func HarmonicRate(qi, di, t float64) float64 {
	return qi / (1 + di*t)
}

// HyperbolicRate: q(t) = qi / (1 + b·di·t)^(1/b). Berlaku untuk b di (0,1];
// di b=1 hasilnya sama dengan HarmonicRate.
func HyperbolicRate(qi, di, b, t float64) float64 {
	return qi / math.Pow(1+b*di*t, 1/b)
}

// ExponentialCum: volume dari t=0 sampai t. di=0 berarti rate konstan,
// volume = qi·t.
func ExponentialCum(qi, di, t float64) float64 {
	if di == 0 {
		return qi * t
	}
	return (qi - ExponentialRate(qi, di, t)) / di
}

// HarmonicCum: Q(t) = (qi/di)·ln(qi/q(t)).
func HarmonicCum(qi, di, t float64) float64 {
	if di == 0 {
		return qi * t
	}
	return (qi / di) * math.Log(qi/HarmonicRate(qi, di, t))
}

// HyperbolicCum: Q(t) = qi/(di·(1−b)) · (1 − (q(t)/qi)^(1−b)), hanya b di (0,1).
func HyperbolicCum(qi, di, b, t float64) (float64, error) {
	if !(b > 0 && b < 1) {
		return math.NaN(), fmt.Errorf("%w: hyperbolic cumulative needs 0<b<1, got %v", ErrInvalidModelParameter, b)
	}
	if di == 0 {
		return qi * t, nil
	}
	q := HyperbolicRate(qi, di, b, t)
	return (qi / (di * (1 - b))) * (1 - math.Pow(q/qi, 1-b)), nil
}

// Rate menghitung q(t) dengan routing b ke formula yang benar.
func Rate(qi, di, b, t float64) (float64, error) {
	m, err := ModelFor(b)
	if err != nil {
		return math.NaN(), err
	}
	switch m {
	case ModelExponential:
		return ExponentialRate(qi, di, t), nil
	case ModelHarmonic:
		return HarmonicRate(qi, di, t), nil
	default:
		return HyperbolicRate(qi, di, b, t), nil
	}
}

// Cumulative menghitung Q(t) (volume sejak t=0) dengan routing yang sama seperti Rate.
func Cumulative(qi, di, b, t float64) (float64, error) {
	m, err := ModelFor(b)
	if err != nil {
		return math.NaN(), err
	}
	switch m {
	case ModelExponential:
		return ExponentialCum(qi, di, t), nil
	case ModelHarmonic:
		return HarmonicCum(qi, di, t), nil
	default:
		return HyperbolicCum(qi, di, b, t)
	}
}

// HyperbolicDeclineRate menghitung balik di hiperbolik dari rasio titik ujung:
// ((qi/qfinal)^b − 1) / (b·tFinal).
func HyperbolicDeclineRate(qi, qfinal, b, tFinal float64) (float64, error) {
	if b == 0 {
		return math.NaN(), fmt.Errorf("%w: hyperbolic decline rate undefined at b=0", ErrInvalidModelParameter)
	}
	if tFinal == 0 {
		return math.NaN(), fmt.Errorf("%w: hyperbolic decline rate needs t_final > 0", ErrInsufficientData)
	}
	if qfinal <= 0 || qi <= 0 {
		return math.NaN(), fmt.Errorf("%w: rates must be positive (qi=%v, qfinal=%v)", ErrInvalidObservation, qi, qfinal)
	}
	return (math.Pow(qi/qfinal, b) - 1) / (b * tFinal), nil
}
