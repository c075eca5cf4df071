// repositories/mysql/production_repo.go
// Repo untuk data produksi harian per sumur (rate + kumulatif tercatat)
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"dca-reserves/internal/decline"
)

type ProductionRepo struct{ DB *sql.DB }

// Phase fluida yang punya kolom rate & kumulatif sendiri.
type Phase string

const (
	PhaseOil   Phase = "oil"
	PhaseGas   Phase = "gas"
	PhaseWater Phase = "water"
)

// kolom per phase: (rate, kumulatif). Whitelist, jangan dibangun dari input user.
var phaseColumns = map[Phase][2]string{
	PhaseOil:   {"oil_bopd", "oil_cum_stb"},
	PhaseGas:   {"gas_mmscfd", "gas_cum_mmscf"},
	PhaseWater: {"water_bwpd", "water_cum_bbl"},
}

// ErrUnknownPhase: phase bukan oil/gas/water.
var ErrUnknownPhase = errors.New("unknown phase")

// ParsePhase menerima "" sebagai oil.
func ParsePhase(s string) (Phase, error) {
	p := Phase(strings.ToLower(strings.TrimSpace(s)))
	if p == "" {
		return PhaseOil, nil
	}
	if _, ok := phaseColumns[p]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownPhase, s)
	}
	return p, nil
}

type ProdRow struct {
	ProdDate  time.Time
	WellID    string
	OilBOPD   sql.NullFloat64
	GasMMSCFD sql.NullFloat64
	WaterBWPD sql.NullFloat64
}

type ProdFilter struct {
	WellID string
	Start  *time.Time // inclusive
	End    *time.Time // exclusive
	Limit  int
	Offset int
}

// Asumsi skema:
//   prod_allocation_daily(date DATE, well_id VARCHAR, oil_bopd DOUBLE, gas_mmscfd DOUBLE,
//     water_bwpd DOUBLE, oil_cum_stb DOUBLE, gas_cum_mmscf DOUBLE, water_cum_bbl DOUBLE)

func (r *ProductionRepo) ListDaily(ctx context.Context, f ProdFilter) ([]ProdRow, error) {
	if f.Limit <= 0 || f.Limit > 1000 {
		f.Limit = 200
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	const base = `
		SELECT date, well_id, oil_bopd, gas_mmscfd, water_bwpd
		FROM prod_allocation_daily
		WHERE 1=1`
	args := []any{}
	q := base

	if f.WellID != "" {
		q += ` AND well_id LIKE ?`
		args = append(args, "%"+f.WellID+"%")
	}
	if f.Start != nil {
		q += ` AND date >= ?`
		args = append(args, f.Start.Format("2006-01-02"))
	}
	if f.End != nil {
		q += ` AND date < ?`
		args = append(args, f.End.Format("2006-01-02"))
	}

	q += ` ORDER BY date DESC LIMIT ? OFFSET ?`
	args = append(args, f.Limit, f.Offset)

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query production daily: %w", err)
	}
	defer rows.Close()

	var out []ProdRow
	for rows.Next() {
		var rrow ProdRow
		if err := rows.Scan(&rrow.ProdDate, &rrow.WellID, &rrow.OilBOPD, &rrow.GasMMSCFD, &rrow.WaterBWPD); err != nil {
			return nil, err
		}
		out = append(out, rrow)
	}
	return out, rows.Err()
}

// RateFilter untuk histori satu sumur (urut tanggal naik, tanpa limit).
type RateFilter struct {
	WellID string
	Phase  Phase
	Start  *time.Time // inclusive
	End    *time.Time // inclusive
}

// ListRates mengembalikan observasi rate + kumulatif tercatat untuk satu phase.
// NULL rate dilewati; NULL kumulatif menjadi NaN.
func (r *ProductionRepo) ListRates(ctx context.Context, f RateFilter) ([]decline.RateObservation, error) {
	if strings.TrimSpace(f.WellID) == "" {
		return nil, errors.New("production repo: well_id required")
	}
	phase := f.Phase
	if phase == "" {
		phase = PhaseOil
	}
	cols, ok := phaseColumns[phase]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPhase, phase)
	}

	q := `SELECT date, ` + cols[0] + `, ` + cols[1] + `
		FROM prod_allocation_daily
		WHERE well_id = ?`
	args := []any{f.WellID}
	if f.Start != nil {
		q += ` AND date >= ?`
		args = append(args, f.Start.Format("2006-01-02"))
	}
	if f.End != nil {
		q += ` AND date <= ?`
		args = append(args, f.End.Format("2006-01-02"))
	}
	q += ` ORDER BY date ASC`

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query production rates: %w", err)
	}
	defer rows.Close()

	var out []decline.RateObservation
	for rows.Next() {
		var (
			d    time.Time
			rate sql.NullFloat64
			cum  sql.NullFloat64
		)
		if err := rows.Scan(&d, &rate, &cum); err != nil {
			return nil, err
		}
		if !rate.Valid {
			continue
		}
		o := decline.RateObservation{Date: d, Rate: rate.Float64, Cumulative: math.NaN()}
		if cum.Valid {
			o.Cumulative = cum.Float64
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// ListPlatformRates menjumlahkan rate semua sumur per tanggal (agregasi platform).
// Kumulatif tidak dijumlahkan (NaN); pemanggil memakai basis running_sum.
func (r *ProductionRepo) ListPlatformRates(ctx context.Context, wells []string, phase Phase, start, end *time.Time) ([]decline.RateObservation, error) {
	if len(wells) == 0 {
		return nil, errors.New("production repo: at least one well required")
	}
	if phase == "" {
		phase = PhaseOil
	}
	cols, ok := phaseColumns[phase]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPhase, phase)
	}

	q := `SELECT date, SUM(` + cols[0] + `)
		FROM prod_allocation_daily
		WHERE well_id IN (` + placeholders(len(wells)) + `)`
	args := make([]any, 0, len(wells)+2)
	for _, w := range wells {
		args = append(args, w)
	}
	if start != nil {
		q += ` AND date >= ?`
		args = append(args, start.Format("2006-01-02"))
	}
	if end != nil {
		q += ` AND date <= ?`
		args = append(args, end.Format("2006-01-02"))
	}
	q += ` GROUP BY date ORDER BY date ASC`

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query platform rates: %w", err)
	}
	defer rows.Close()

	var out []decline.RateObservation
	for rows.Next() {
		var (
			d   time.Time
			sum sql.NullFloat64
		)
		if err := rows.Scan(&d, &sum); err != nil {
			return nil, err
		}
		if !sum.Valid {
			continue
		}
		out = append(out, decline.RateObservation{Date: d, Rate: sum.Float64, Cumulative: math.NaN()})
	}
	return out, rows.Err()
}

// ListWells daftar well_id unik (untuk batch worker).
func (r *ProductionRepo) ListWells(ctx context.Context) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT DISTINCT well_id FROM prod_allocation_daily ORDER BY well_id`)
	if err != nil {
		return nil, fmt.Errorf("query wells: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}
