// cmd/dca/evaluate_test.go
package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadObservations(t *testing.T) {
	in := `[{"date":"2024-01-01","rate":100,"cumulative":3000},{"date":"2024-02-01","rate":90}]`
	obs, err := readObservations(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, obs, 2)

	require.NotNil(t, obs[0].Cumulative)
	assert.Equal(t, 3000.0, *obs[0].Cumulative)
	assert.Nil(t, obs[1].Cumulative)
	assert.Equal(t, 90.0, obs[1].Rate)
}

func TestReadObservationsRejectsBadInput(t *testing.T) {
	_, err := readObservations(strings.NewReader(`[]`))
	assert.Error(t, err)

	_, err = readObservations(strings.NewReader(`[{"day":"2024-01-01","rate":1}]`))
	assert.ErrorContains(t, err, "decode observations")
}

func TestForecastFromStdin(t *testing.T) {
	t.Setenv("DB_DSN", "")
	t.Setenv("MYSQL_HOST", "")

	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(`[
		{"date":"2023-01-01","rate":100},
		{"date":"2023-02-01","rate":90},
		{"date":"2023-03-01","rate":81}]`))
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"forecast", "--obs", "-", "--b", "0", "--horizon", "6", "--limit", "10", "--basis", "running_sum"})
	require.NoError(t, rootCmd.Execute())

	var got struct {
		Forecast struct {
			Model  string            `json:"model"`
			Points []json.RawMessage `json:"points"`
		} `json:"forecast"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "exponential", got.Forecast.Model)
	assert.Len(t, got.Forecast.Points, 7)
}
