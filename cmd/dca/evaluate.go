// cmd/dca/evaluate.go
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"dca-reserves/internal/services"
)

// scenarioFlags flag bersama fit/forecast/evaluate.
type scenarioFlags struct {
	well, phase, start, end, forecastStart, basis, obsPath string
	horizon                                                int
	intervention, b, limit                                 float64
}

func (f *scenarioFlags) bind(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.well, "well", "", "well_id")
	fl.StringVar(&f.phase, "phase", "", "oil|gas|water (default dari config)")
	fl.StringVar(&f.start, "start", "", "awal window histori (YYYY-MM-DD)")
	fl.StringVar(&f.end, "end", "", "akhir window histori (YYYY-MM-DD)")
	fl.StringVar(&f.forecastStart, "forecast-start", "", "awal forecast (default: bulan setelah observasi terakhir)")
	fl.StringVar(&f.basis, "basis", "", "recorded|running_sum|calendar_days")
	fl.StringVar(&f.obsPath, "obs", "", "file JSON observasi (tanpa DB); '-' = stdin")
	fl.IntVar(&f.horizon, "horizon", 0, "horizon forecast (bulan)")
	fl.Float64Var(&f.intervention, "intervention", 0, "tambahan rate awal forecast")
	fl.Float64Var(&f.b, "b", 0, "b-factor (default: best_b hasil fitting)")
	fl.Float64Var(&f.limit, "limit", 0, "economic limit (default dari config)")
}

func (f *scenarioFlags) request(cmd *cobra.Command) (services.EvaluateRequest, error) {
	req := services.EvaluateRequest{
		WellID:        strings.TrimSpace(f.well),
		Phase:         f.phase,
		Start:         f.start,
		End:           f.end,
		ForecastStart: f.forecastStart,
		HorizonMonths: f.horizon,
		Intervention:  f.intervention,
		Basis:         f.basis,
	}
	if cmd.Flags().Changed("b") {
		b := f.b
		req.B = &b
	}
	if cmd.Flags().Changed("limit") {
		l := f.limit
		req.EconomicLimit = &l
	}
	if f.obsPath != "" {
		var r io.Reader = cmd.InOrStdin()
		if f.obsPath != "-" {
			file, err := os.Open(f.obsPath)
			if err != nil {
				return req, err
			}
			defer file.Close()
			r = file
		}
		obs, err := readObservations(r)
		if err != nil {
			return req, err
		}
		req.Observations = obs
		if req.WellID == "" {
			req.WellID = "INLINE"
		}
	}
	return req, nil
}

// readObservations membaca array JSON [{"date":"YYYY-MM-DD","rate":..,"cumulative":..}].
func readObservations(r io.Reader) ([]services.ObservationIn, error) {
	var out []services.ObservationIn
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode observations: %w", err)
	}
	if len(out) == 0 {
		return nil, errors.New("observations file is empty")
	}
	return out, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func fitCmd() *cobra.Command {
	var f scenarioFlags
	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Fit model Arps ke histori satu sumur",
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := f.request(cmd)
			if err != nil {
				return err
			}
			a := newApp(cmd.Context())
			defer a.Close()

			fit, series, err := a.Reserves.Fit(cmd.Context(), req)
			if err != nil {
				return err
			}
			view := services.NewFitView(fit)
			b := fit.BestB
			if req.B != nil {
				b = *req.B
			}
			if vs, err := services.FitVariance(series, fit, b); err == nil {
				view.Variance = vs
				view.Anomalies = services.ResidualOutliers(vs, 2.5)
			}
			return printJSON(cmd.OutOrStdout(), view)
		},
	}
	f.bind(cmd)
	return cmd
}

func forecastCmd() *cobra.Command {
	var f scenarioFlags
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Forecast bulanan tanpa menyentuh ledger",
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := f.request(cmd)
			if err != nil {
				return err
			}
			a := newApp(cmd.Context())
			defer a.Close()

			res, err := a.Reserves.Run(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"fit":      services.NewFitView(res.Fit),
				"forecast": services.NewForecastView(res.Forecast),
				"estimate": res.Estimate,
			})
		},
	}
	f.bind(cmd)
	return cmd
}

func evaluateCmd() *cobra.Command {
	var (
		f     scenarioFlags
		all   bool
		wells []string
	)
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluasi reserves dan simpan ke ledger",
		Long: `Evaluasi satu sumur (--well atau --obs), beberapa sumur (--wells), atau semua
sumur di DB (--all). Hasil di-upsert ke ledger.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := f.request(cmd)
			if err != nil {
				return err
			}
			a := newApp(cmd.Context())
			defer a.Close()

			if all || len(wells) > 0 {
				results, err := a.Reserves.EvaluateAll(cmd.Context(), wells, req)
				if err != nil {
					return err
				}
				failed := 0
				for _, r := range results {
					if r.Err != nil {
						failed++
					}
				}
				cliLog(a).WithField("failed", failed).Info("batch done")
				return printJSON(cmd.OutOrStdout(), results)
			}

			_, entry, err := a.Reserves.Evaluate(cmd.Context(), req)
			if err != nil && entry.WellID == "" {
				return err
			}
			if err != nil {
				cliLog(a).WithError(err).Warn("ledger not persisted")
			}
			return printJSON(cmd.OutOrStdout(), entry)
		},
	}
	f.bind(cmd)
	cmd.Flags().BoolVar(&all, "all", false, "evaluasi semua sumur di DB")
	cmd.Flags().StringSliceVar(&wells, "wells", nil, "daftar well_id (dipisah koma)")
	return cmd
}
