// repositories/mysql/reserves_repo.go
// Persistensi ledger reserves (satu baris per well_id)
package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"dca-reserves/internal/decline"
	"dca-reserves/internal/ledger"
)

type ReservesRepo struct{ DB *sql.DB }

// Asumsi skema:
//   reserves_ledger(well_id VARCHAR PRIMARY KEY, window_start DATE NULL, window_end DATE NULL,
//     forecast_start DATE, intervention DOUBLE, model VARCHAR, b DOUBLE, di DOUBLE, qi DOUBLE,
//     economic_limit DOUBLE, eur DOUBLE, reserves DOUBLE, cum_at_start DOUBLE,
//     cutoff_date DATE NULL, final_rate DOUBLE, status VARCHAR, updated_at DATETIME)

const reservesColumns = `well_id, window_start, window_end, forecast_start, intervention,
	model, b, di, qi, economic_limit, eur, reserves, cum_at_start, cutoff_date,
	final_rate, status, updated_at`

// Upsert INSERT … ON DUPLICATE KEY UPDATE (kunci: well_id).
func (r *ReservesRepo) Upsert(ctx context.Context, e ledger.Entry) error {
	const q = `INSERT INTO reserves_ledger (` + reservesColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			window_start = VALUES(window_start), window_end = VALUES(window_end),
			forecast_start = VALUES(forecast_start), intervention = VALUES(intervention),
			model = VALUES(model), b = VALUES(b), di = VALUES(di), qi = VALUES(qi),
			economic_limit = VALUES(economic_limit), eur = VALUES(eur), reserves = VALUES(reserves),
			cum_at_start = VALUES(cum_at_start), cutoff_date = VALUES(cutoff_date),
			final_rate = VALUES(final_rate), status = VALUES(status), updated_at = VALUES(updated_at)`

	est := e.Estimate
	_, err := r.DB.ExecContext(ctx, q,
		e.WellID, nullTime(e.WindowStart), nullTime(e.WindowEnd), e.ForecastStart, e.Intervention,
		string(est.Model), est.B, est.Di, est.Qi, est.EconomicLimit, est.EUR, est.Reserves,
		est.CumulativeAtStart, nullTimePtr(est.Cutoff), est.FinalRate, string(est.Status), e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert reserves %s: %w", e.WellID, err)
	}
	return nil
}

// Delete true kalau ada baris yang terhapus.
func (r *ReservesRepo) Delete(ctx context.Context, wellID string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM reserves_ledger WHERE well_id = ?`, wellID)
	if err != nil {
		return false, fmt.Errorf("delete reserves %s: %w", wellID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// List semua baris, urut reserves menurun.
func (r *ReservesRepo) List(ctx context.Context) ([]ledger.Entry, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+reservesColumns+` FROM reserves_ledger ORDER BY reserves DESC`)
	if err != nil {
		return nil, fmt.Errorf("query reserves ledger: %w", err)
	}
	defer rows.Close()

	var out []ledger.Entry
	for rows.Next() {
		var (
			e                 ledger.Entry
			wStart, wEnd, cut sql.NullTime
			model, status     string
		)
		est := &e.Estimate
		if err := rows.Scan(&e.WellID, &wStart, &wEnd, &e.ForecastStart, &e.Intervention,
			&model, &est.B, &est.Di, &est.Qi, &est.EconomicLimit, &est.EUR, &est.Reserves,
			&est.CumulativeAtStart, &cut, &est.FinalRate, &status, &e.UpdatedAt); err != nil {
			return nil, err
		}
		e.WindowStart = timeOrZero(wStart)
		e.WindowEnd = timeOrZero(wEnd)
		est.WellID = e.WellID
		est.Model = decline.Model(model)
		est.Status = decline.Status(status)
		est.ForecastStart = e.ForecastStart
		est.Cutoff = timePtr(cut)
		out = append(out, e)
	}
	return out, rows.Err()
}
