// internal/decline/model_test.go

package decline_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dca-reserves/internal/decline"
)

// simpson integrasi numerik rate curve di [0, T].
func simpson(f func(t float64) float64, T float64, n int) float64 {
	h := T / float64(n)
	sum := f(0) + f(T)
	for i := 1; i < n; i++ {
		w := 2.0
		if i%2 == 1 {
			w = 4.0
		}
		sum += w * f(float64(i)*h)
	}
	return sum * h / 3
}

func TestRatesMonotonicNonIncreasing(t *testing.T) {
	qi, di := 1000.0, 0.05
	prevE, prevH, prevY := math.Inf(1), math.Inf(1), math.Inf(1)
	for i := 0; i <= 600; i++ {
		tt := float64(i) * 0.1
		e := decline.ExponentialRate(qi, di, tt)
		h := decline.HarmonicRate(qi, di, tt)
		y := decline.HyperbolicRate(qi, di, 0.5, tt)
		require.LessOrEqual(t, e, prevE, "exponential at t=%v", tt)
		require.LessOrEqual(t, h, prevH, "harmonic at t=%v", tt)
		require.LessOrEqual(t, y, prevY, "hyperbolic at t=%v", tt)
		prevE, prevH, prevY = e, h, y
	}
}

func TestCumulativeMatchesNumericalIntegration(t *testing.T) {
	qi, di := 1000.0, 0.05
	for _, T := range []float64{1, 6, 12, 36, 120} {
		gotE := decline.ExponentialCum(qi, di, T)
		wantE := simpson(func(x float64) float64 { return decline.ExponentialRate(qi, di, x) }, T, 4000)
		assert.InDelta(t, wantE, gotE, 1e-6, "exponential T=%v", T)

		gotH := decline.HarmonicCum(qi, di, T)
		wantH := simpson(func(x float64) float64 { return decline.HarmonicRate(qi, di, x) }, T, 4000)
		assert.InDelta(t, wantH, gotH, 1e-6, "harmonic T=%v", T)

		for _, b := range []float64{0.1, 0.5, 0.9} {
			gotY, err := decline.HyperbolicCum(qi, di, b, T)
			require.NoError(t, err)
			wantY := simpson(func(x float64) float64 { return decline.HyperbolicRate(qi, di, b, x) }, T, 4000)
			assert.InDelta(t, wantY, gotY, 1e-6, "hyperbolic b=%v T=%v", b, T)
		}
	}
}

func TestExponentialCumIdentity(t *testing.T) {
	qi, di, T := 500.0, 0.08, 10.0
	q := decline.ExponentialRate(qi, di, T)
	assert.InDelta(t, (qi-q)/di, decline.ExponentialCum(qi, di, T), 1e-9)
}

func TestZeroDeclineCumulativeIsConstantRate(t *testing.T) {
	assert.Equal(t, 1200.0, decline.ExponentialCum(100, 0, 12))
	assert.Equal(t, 1200.0, decline.HarmonicCum(100, 0, 12))
	q, err := decline.HyperbolicCum(100, 0, 0.4, 12)
	require.NoError(t, err)
	assert.Equal(t, 1200.0, q)
}

func TestModelRouting(t *testing.T) {
	cases := []struct {
		b    float64
		want decline.Model
	}{
		{0, decline.ModelExponential},
		{1, decline.ModelHarmonic},
		{0.001, decline.ModelHyperbolic},
		{0.5, decline.ModelHyperbolic},
	}
	for _, c := range cases {
		m, err := decline.ModelFor(c.b)
		require.NoError(t, err)
		assert.Equal(t, c.want, m, "b=%v", c.b)
	}

	for _, b := range []float64{-0.1, 1.01, math.NaN()} {
		_, err := decline.ModelFor(b)
		assert.ErrorIs(t, err, decline.ErrInvalidModelParameter, "b=%v", b)
		_, err = decline.Rate(100, 0.1, b, 1)
		assert.ErrorIs(t, err, decline.ErrInvalidModelParameter)
	}
}

func TestDispatchMatchesLimitingCases(t *testing.T) {
	r, err := decline.Rate(100, 0.1, 1, 5)
	require.NoError(t, err)
	assert.InDelta(t, decline.HarmonicRate(100, 0.1, 5), r, 1e-12)
	// hiperbolik di b=1 identik dengan harmonic
	assert.InDelta(t, decline.HarmonicRate(100, 0.1, 5), decline.HyperbolicRate(100, 0.1, 1, 5), 1e-12)

	q, err := decline.Cumulative(100, 0.1, 0, 5)
	require.NoError(t, err)
	assert.InDelta(t, decline.ExponentialCum(100, 0.1, 5), q, 1e-12)
}

func TestHyperbolicCumRejectsLimits(t *testing.T) {
	for _, b := range []float64{0, 1} {
		_, err := decline.HyperbolicCum(100, 0.1, b, 3)
		assert.ErrorIs(t, err, decline.ErrInvalidModelParameter, "b=%v", b)
	}
}

func TestHyperbolicDeclineRate(t *testing.T) {
	qi, di, b := 1000.0, 0.05, 0.5
	qf := decline.HyperbolicRate(qi, di, b, 10)
	got, err := decline.HyperbolicDeclineRate(qi, qf, b, 10)
	require.NoError(t, err)
	assert.InDelta(t, di, got, 1e-12)

	_, err = decline.HyperbolicDeclineRate(qi, qf, 0, 10)
	assert.ErrorIs(t, err, decline.ErrInvalidModelParameter)
	_, err = decline.HyperbolicDeclineRate(qi, qf, b, 0)
	assert.ErrorIs(t, err, decline.ErrInsufficientData)
	_, err = decline.HyperbolicDeclineRate(qi, 0, b, 10)
	assert.ErrorIs(t, err, decline.ErrInvalidObservation)
}
