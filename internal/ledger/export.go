// internal/ledger/export.go
// Export tabular + CSV download.

package ledger

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// NotReached ditulis di kolom cutoff kalau forecast tidak menyentuh limit.
const NotReached = "not reached"

// Header kolom CSV, urutan sama dengan ExportRow.Record.
var Header = []string{
	"well_id", "window_start", "window_end", "forecast_start",
	"reserves", "eur", "cumulative_at_start", "intervention",
	"b", "di", "qi", "final_rate", "model", "status", "cutoff_date",
}

// ExportRow baris siap tampil (angka sudah diformat).
type ExportRow struct {
	WellID        string `json:"well_id"`
	WindowStart   string `json:"window_start"`
	WindowEnd     string `json:"window_end"`
	ForecastStart string `json:"forecast_start"`
	Reserves      string `json:"reserves"`
	EUR           string `json:"eur"`
	CumAtStart    string `json:"cumulative_at_start"`
	Intervention  string `json:"intervention"`
	B             string `json:"b"`
	Di            string `json:"di"`
	Qi            string `json:"qi"`
	FinalRate     string `json:"final_rate"`
	Model         string `json:"model"`
	Status        string `json:"status"`
	CutoffDate    string `json:"cutoff_date"`
}

// Record urutan field mengikuti Header.
func (r ExportRow) Record() []string {
	return []string{
		r.WellID, r.WindowStart, r.WindowEnd, r.ForecastStart,
		r.Reserves, r.EUR, r.CumAtStart, r.Intervention,
		r.B, r.Di, r.Qi, r.FinalRate, r.Model, r.Status, r.CutoffDate,
	}
}

// Export baris ledger dalam urutan reserves menurun.
func (l *Ledger) Export() []ExportRow {
	rows := l.Rows()
	out := make([]ExportRow, 0, len(rows))
	for _, e := range rows {
		out = append(out, toExportRow(e))
	}
	return out
}

// WriteCSV menulis Header + semua baris Export ke w.
func (l *Ledger) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range l.Export() {
		if err := cw.Write(r.Record()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func toExportRow(e Entry) ExportRow {
	cutoff := NotReached
	if e.Estimate.Cutoff != nil {
		cutoff = e.Estimate.Cutoff.Format(time.DateOnly)
	}
	return ExportRow{
		WellID:        e.WellID,
		WindowStart:   formatDate(e.WindowStart),
		WindowEnd:     formatDate(e.WindowEnd),
		ForecastStart: formatDate(e.ForecastStart),
		Reserves:      fixed(e.Estimate.Reserves, 5),
		EUR:           fixed(e.Estimate.EUR, 5),
		CumAtStart:    fixed(e.Estimate.CumulativeAtStart, 5),
		Intervention:  fixed(e.Intervention, 3),
		B:             fixed(e.Estimate.B, 3),
		Di:            fixed(e.Estimate.Di, 6),
		Qi:            fixed(e.Estimate.Qi, 5),
		FinalRate:     fixed(e.Estimate.FinalRate, 5),
		Model:         string(e.Estimate.Model),
		Status:        string(e.Estimate.Status),
		CutoffDate:    cutoff,
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}

func fixed(v float64, places int32) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return decimal.NewFromFloat(v).StringFixed(places)
}
