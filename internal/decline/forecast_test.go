// internal/decline/forecast_test.go

package decline_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dca-reserves/internal/decline"
)

func sampleFit() decline.DeclineFit {
	return decline.DeclineFit{
		WellID:        "W-1",
		InitialRate:   100,
		FinalRate:     81,
		BestB:         0.5,
		DiExponential: math.Log(100.0/81.0) / 2,
		DiHarmonic:    0.11,
		DiHyperbolic:  0.108,
	}
}

func TestForecastShapeAndAnchor(t *testing.T) {
	fc, err := decline.Forecast(sampleFit(), decline.ForecastParams{
		Start:              day("2024-03-17"),
		HorizonMonths:      12,
		B:                  0.5,
		BaselineCumulative: 1000,
	})
	require.NoError(t, err)

	require.Len(t, fc.Points, 13)
	assert.Equal(t, day("2024-03-01"), fc.Start)
	assert.Equal(t, day("2024-03-01"), fc.Points[0].Date)
	assert.Equal(t, day("2025-03-01"), fc.Points[12].Date)
	assert.Equal(t, decline.ModelHyperbolic, fc.Model)
	assert.Equal(t, 0.108, fc.Di)

	for i, p := range fc.Points {
		assert.Equal(t, i, p.TimeOffset)
	}
	// kumulatif total: baseline di t=0
	p0 := fc.Points[0]
	assert.Equal(t, 81.0, p0.RateExponential)
	assert.Equal(t, 1000.0, p0.CumExponential)
	assert.Equal(t, 1000.0, p0.CumHarmonic)
	assert.Equal(t, 1000.0, p0.CumHyperbolic)
	assert.Greater(t, fc.Points[12].CumHyperbolic, fc.Points[11].CumHyperbolic)
}

func TestForecastHyperbolicColumnOnlyInsideOpenInterval(t *testing.T) {
	for _, b := range []float64{0, 1} {
		fc, err := decline.Forecast(sampleFit(), decline.ForecastParams{
			Start: day("2024-01-01"), HorizonMonths: 3, B: b,
		})
		require.NoError(t, err)
		assert.True(t, math.IsNaN(fc.Points[2].RateHyperbolic), "b=%v", b)
		assert.False(t, math.IsNaN(fc.Points[2].RateExponential))
		assert.False(t, math.IsNaN(fc.Points[2].RateHarmonic))
	}

	fc, err := decline.Forecast(sampleFit(), decline.ForecastParams{
		Start: day("2024-01-01"), HorizonMonths: 3, B: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, decline.ModelHarmonic, fc.Model)
	rate, cum := fc.Selected(1)
	assert.Equal(t, fc.Points[1].RateHarmonic, rate)
	assert.Equal(t, fc.Points[1].CumHarmonic, cum)
}

func TestForecastIntervention(t *testing.T) {
	fc, err := decline.Forecast(sampleFit(), decline.ForecastParams{
		Start: day("2024-01-01"), HorizonMonths: 2, Intervention: 19, B: 0,
	})
	require.NoError(t, err)
	assert.Equal(t, 100.0, fc.Qi)
	assert.Equal(t, 100.0, fc.Points[0].RateExponential)
}

func TestForecastRejectsNonPositiveRate(t *testing.T) {
	for _, iv := range []float64{-81, -100} {
		_, err := decline.Forecast(sampleFit(), decline.ForecastParams{
			Start: day("2024-01-01"), HorizonMonths: 2, Intervention: iv,
		})
		assert.ErrorIs(t, err, decline.ErrNonPositiveForecastRate, "intervention=%v", iv)
	}
}

func TestForecastRejectsBadParams(t *testing.T) {
	_, err := decline.Forecast(sampleFit(), decline.ForecastParams{Start: day("2024-01-01"), HorizonMonths: 0})
	assert.ErrorIs(t, err, decline.ErrInvalidScenario)

	_, err = decline.Forecast(sampleFit(), decline.ForecastParams{HorizonMonths: 3})
	assert.ErrorIs(t, err, decline.ErrInvalidScenario)

	_, err = decline.Forecast(sampleFit(), decline.ForecastParams{Start: day("2024-01-01"), HorizonMonths: 3, B: 1.5})
	assert.ErrorIs(t, err, decline.ErrInvalidModelParameter)
}

func TestForecastOneMonthExponential(t *testing.T) {
	fc, err := decline.Forecast(sampleFit(), decline.ForecastParams{
		Start: day("2020-04-01"), HorizonMonths: 1, B: 0,
	})
	require.NoError(t, err)
	assert.InDelta(t, 73.0, fc.Points[1].RateExponential, 0.15)
	assert.InDelta(t, 81*math.Exp(-0.1054), fc.Points[1].RateExponential, 0.01)
}
