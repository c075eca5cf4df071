// tools/gen_dummy/load_to_mysql_test.go
package main

import (
	"bytes"
	"encoding/csv"
	"math/rand"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jan2020 = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

func TestGenerateDecliningHistory(t *testing.T) {
	rows := generate(2, 12, jan2020, rand.New(rand.NewSource(1)))
	require.Len(t, rows, 24)

	assert.Equal(t, "W-001", rows[0].WellID)
	assert.Equal(t, jan2020, rows[0].Date)
	assert.Equal(t, "W-002", rows[12].WellID)
	assert.Equal(t, jan2020.AddDate(0, 11, 0), rows[11].Date)

	// oil turun, kumulatif naik
	assert.Less(t, rows[11].Values[0], rows[0].Values[0])
	assert.Greater(t, rows[11].Values[3], rows[10].Values[3])
}

func TestArpsFamilies(t *testing.T) {
	assert.InDelta(t, 100.0, arps(100, 0.1, 0, 0), 1e-12)
	assert.InDelta(t, 100/(1+0.1*5), arps(100, 0.1, 1, 5), 1e-9)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeCSV(&buf, generate(1, 3, jan2020, rand.New(rand.NewSource(1)))))

	recs, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 4)
	assert.Equal(t, "date,well_id,oil_bopd,gas_mmscfd,water_bwpd,oil_cum_stb,gas_cum_mmscf,water_cum_bbl", strings.Join(recs[0], ","))
	assert.Equal(t, "2020-03-01", recs[3][0])
}

func TestLoadDailyBatches(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	old := *batchSize
	*batchSize = 2
	defer func() { *batchSize = old }()

	rows := generate(1, 3, jan2020, rand.New(rand.NewSource(1)))
	mock.ExpectExec(regexp.QuoteMeta(insertDailySQL(2))).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta(insertDailySQL(1))).WillReturnResult(sqlmock.NewResult(0, 1))

	loadDaily(db, rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
