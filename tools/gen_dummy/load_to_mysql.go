/*
Kompilasi manual:
  go build -o tools/gen_dummy/load_to_mysql ./tools/gen_dummy

Buat tabel + isi histori sintetis (decline Arps + noise):
  ./tools/gen_dummy/load_to_mysql -init-schema -wells 25 -months 36 \
    -dsn "root:password@tcp(127.0.0.1:3306)/dca?parseTime=true&multiStatements=true" \
    -batch 2000 -truncate

Hanya dump ke CSV (tanpa DB):
  ./tools/gen_dummy/load_to_mysql -wells 5 -dump tools/gen_dummy/sample_production.csv
*/

// [FILE] tools/gen_dummy/load_to_mysql.go
package main

import (
	"database/sql"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
)

var (
	dsn        = flag.String("dsn", "root:password@tcp(127.0.0.1:3306)/dca?parseTime=true&multiStatements=true", "MySQL DSN")
	batchSize  = flag.Int("batch", 1000, "Insert batch size")
	truncate   = flag.Bool("truncate", false, "TRUNCATE prod_allocation_daily first")
	initSchema = flag.Bool("init-schema", false, "CREATE TABLE IF NOT EXISTS untuk semua tabel")
	wells      = flag.Int("wells", 10, "jumlah sumur sintetis")
	months     = flag.Int("months", 36, "panjang histori per sumur (bulan)")
	startDate  = flag.String("start", "2020-01-01", "tanggal observasi pertama")
	seed       = flag.Int64("seed", 42, "seed generator")
	dumpPath   = flag.String("dump", "", "tulis CSV ke path ini dan lewati DB")
)

var log = logrus.New()

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

const schema = `
CREATE TABLE IF NOT EXISTS prod_allocation_daily (
	date          DATE        NOT NULL,
	well_id       VARCHAR(64) NOT NULL,
	oil_bopd      DOUBLE NULL,
	gas_mmscfd    DOUBLE NULL,
	water_bwpd    DOUBLE NULL,
	oil_cum_stb   DOUBLE NULL,
	gas_cum_mmscf DOUBLE NULL,
	water_cum_bbl DOUBLE NULL,
	PRIMARY KEY (well_id, date),
	KEY idx_date (date)
);
CREATE TABLE IF NOT EXISTS reserves_ledger (
	well_id        VARCHAR(64) PRIMARY KEY,
	window_start   DATE NULL,
	window_end     DATE NULL,
	forecast_start DATE NOT NULL,
	intervention   DOUBLE NOT NULL DEFAULT 0,
	model          VARCHAR(16) NOT NULL,
	b              DOUBLE NOT NULL,
	di             DOUBLE NOT NULL,
	qi             DOUBLE NOT NULL,
	economic_limit DOUBLE NOT NULL,
	eur            DOUBLE NOT NULL,
	reserves       DOUBLE NOT NULL,
	cum_at_start   DOUBLE NOT NULL,
	cutoff_date    DATE NULL,
	final_rate     DOUBLE NOT NULL,
	status         VARCHAR(32) NOT NULL,
	updated_at     DATETIME NOT NULL,
	KEY idx_reserves (reserves)
);`

var prodColumns = []string{"oil_bopd", "gas_mmscfd", "water_bwpd", "oil_cum_stb", "gas_cum_mmscf", "water_cum_bbl"}

// prodRow satu baris prod_allocation_daily (urutan Values = prodColumns).
type prodRow struct {
	Date   time.Time
	WellID string
	Values [6]float64
}

func main() {
	flag.Parse()

	start, err := time.Parse("2006-01-02", *startDate)
	must(err)
	rows := generate(*wells, *months, start, rand.New(rand.NewSource(*seed)))

	if *dumpPath != "" {
		f, err := os.Create(*dumpPath)
		must(err)
		must(writeCSV(f, rows))
		must(f.Close())
		log.Infof("[ok] wrote %d rows to %s", len(rows), *dumpPath)
		return
	}

	db, err := sql.Open("mysql", *dsn)
	must(err)
	defer db.Close()
	must(db.Ping())

	if *initSchema {
		_, err := db.Exec(schema)
		must(err)
		log.Info("[ok] schema ready")
	}
	if *truncate {
		_, err := db.Exec("TRUNCATE TABLE prod_allocation_daily")
		must(err)
		log.Info("[ok] truncated prod_allocation_daily")
	}
	loadDaily(db, rows)
}

/* ======================= Generator ======================= */

// generate histori bulanan hiperbolik per sumur (qi, di, b acak) + noise 3%.
// Kumulatif dicatat sebagai jumlah berjalan rate*hari.
func generate(wells, months int, start time.Time, rnd *rand.Rand) []prodRow {
	out := make([]prodRow, 0, wells*months)
	for i := 1; i <= wells; i++ {
		id := fmt.Sprintf("W-%03d", i)
		qi := 400 + rnd.Float64()*1600
		di := 0.02 + rnd.Float64()*0.08
		b := math.Round(rnd.Float64()*10) / 10
		gor := 0.5 + rnd.Float64()*2 // mmscf per 1000 bbl
		wcut := 0.1 + rnd.Float64()*0.4

		var oilCum, gasCum, waterCum float64
		for m := 0; m < months; m++ {
			d := start.AddDate(0, m, 0)
			oil := math.Max(0, arps(qi, di, b, float64(m))*(1+rnd.NormFloat64()*0.03))
			gas := oil * gor / 1000
			water := oil * wcut / (1 - wcut) * (1 + float64(m)/float64(months))
			days := d.AddDate(0, 1, 0).Sub(d).Hours() / 24
			oilCum += oil * days
			gasCum += gas * days
			waterCum += water * days

			out = append(out, prodRow{Date: d, WellID: id,
				Values: [6]float64{oil, gas, water, oilCum, gasCum, waterCum}})
		}
	}
	return out
}

func arps(qi, di, b, t float64) float64 {
	if b == 0 {
		return qi * math.Exp(-di*t)
	}
	return qi / math.Pow(1+b*di*t, 1/b)
}

func writeCSV(w io.Writer, rows []prodRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{"date", "well_id"}, prodColumns...)); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{r.Date.Format("2006-01-02"), r.WellID}
		for _, v := range r.Values {
			rec = append(rec, strconv.FormatFloat(v, 'f', 3, 64))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

/* ======================= prod_allocation_daily ======================= */

func loadDaily(db *sql.DB, rows []prodRow) {
	width := 2 + len(prodColumns)
	vals := make([]interface{}, 0, *batchSize*width)
	for i, r := range rows {
		vals = append(vals, r.Date.Format("2006-01-02"), r.WellID)
		for _, v := range r.Values {
			vals = append(vals, v)
		}
		if (i+1)%*batchSize == 0 {
			flushDaily(db, &vals, width)
		}
	}
	if len(vals) > 0 {
		flushDaily(db, &vals, width)
	}
	log.Infof("[ok] inserted prod_allocation_daily rows: ~%d", len(rows))
}

func flushDaily(db *sql.DB, vals *[]interface{}, width int) {
	if len(*vals) == 0 {
		return
	}
	_, err := db.Exec(insertDailySQL(len(*vals)/width), *vals...)
	must(err)
	*vals = (*vals)[:0]
}

func insertDailySQL(n int) string {
	one := "(" + strings.TrimRight(strings.Repeat("?, ", 2+len(prodColumns)), ", ") + "),"
	placeholders := strings.TrimRight(strings.Repeat(one, n), ",")

	updates := make([]string, 0, len(prodColumns))
	for _, c := range prodColumns {
		updates = append(updates, c+"=VALUES("+c+")")
	}
	return "INSERT INTO prod_allocation_daily(date, well_id, " + strings.Join(prodColumns, ", ") + ") VALUES " +
		placeholders + " ON DUPLICATE KEY UPDATE " + strings.Join(updates, ", ")
}
