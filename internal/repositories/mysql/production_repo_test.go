// repositories/mysql/production_repo_test.go

package mysql_test

import (
	"context"
	"math"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mysqlrepo "dca-reserves/internal/repositories/mysql"
)

func date(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func TestListRatesScansPhaseColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	start := date("2024-01-01")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT date, gas_mmscfd, gas_cum_mmscf")).
		WithArgs("W-1", "2024-01-01").
		WillReturnRows(sqlmock.NewRows([]string{"date", "rate", "cum"}).
			AddRow(date("2024-01-01"), 12.5, 100.0).
			AddRow(date("2024-01-02"), nil, 112.5).
			AddRow(date("2024-01-03"), 11.0, nil))

	repo := &mysqlrepo.ProductionRepo{DB: db}
	obs, err := repo.ListRates(context.Background(), mysqlrepo.RateFilter{
		WellID: "W-1", Phase: mysqlrepo.PhaseGas, Start: &start,
	})
	require.NoError(t, err)
	require.Len(t, obs, 2)
	assert.Equal(t, 12.5, obs[0].Rate)
	assert.Equal(t, 100.0, obs[0].Cumulative)
	assert.True(t, math.IsNaN(obs[1].Cumulative))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListRatesValidatesInput(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := &mysqlrepo.ProductionRepo{DB: db}

	_, err = repo.ListRates(context.Background(), mysqlrepo.RateFilter{})
	assert.Error(t, err)

	_, err = repo.ListRates(context.Background(), mysqlrepo.RateFilter{WellID: "W-1", Phase: "condensate"})
	assert.ErrorIs(t, err, mysqlrepo.ErrUnknownPhase)
}

func TestListPlatformRatesUsesInClause(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE well_id IN (?,?,?)")).
		WithArgs("A", "B", "C").
		WillReturnRows(sqlmock.NewRows([]string{"date", "sum"}).
			AddRow(date("2024-01-01"), 300.0).
			AddRow(date("2024-01-02"), 280.0))

	repo := &mysqlrepo.ProductionRepo{DB: db}
	obs, err := repo.ListPlatformRates(context.Background(), []string{"A", "B", "C"}, mysqlrepo.PhaseOil, nil, nil)
	require.NoError(t, err)
	require.Len(t, obs, 2)
	assert.Equal(t, 280.0, obs[1].Rate)
	assert.True(t, math.IsNaN(obs[0].Cumulative))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListDailyDefaultsLimit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY date DESC LIMIT ? OFFSET ?")).
		WithArgs("%W-1%", 200, 0).
		WillReturnRows(sqlmock.NewRows([]string{"date", "well_id", "oil", "gas", "water"}).
			AddRow(date("2024-01-02"), "W-1", 90.0, 1.2, nil))

	repo := &mysqlrepo.ProductionRepo{DB: db}
	rows, err := repo.ListDaily(context.Background(), mysqlrepo.ProdFilter{WellID: "W-1"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].OilBOPD.Valid)
	assert.False(t, rows[0].WaterBWPD.Valid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListWells(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT well_id")).
		WillReturnRows(sqlmock.NewRows([]string{"well_id"}).AddRow("A").AddRow("B"))

	repo := &mysqlrepo.ProductionRepo{DB: db}
	wells, err := repo.ListWells(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, wells)
}

func TestParsePhase(t *testing.T) {
	p, err := mysqlrepo.ParsePhase("")
	require.NoError(t, err)
	assert.Equal(t, mysqlrepo.PhaseOil, p)

	p, err = mysqlrepo.ParsePhase(" Water ")
	require.NoError(t, err)
	assert.Equal(t, mysqlrepo.PhaseWater, p)

	_, err = mysqlrepo.ParsePhase("steam")
	assert.ErrorIs(t, err, mysqlrepo.ErrUnknownPhase)
}
