// internal/services/reserves_service.go
// Layanan reserves: ambil histori dari repo -> pipeline DCA -> ledger (+ persistensi)

package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"dca-reserves/internal/decline"
	"dca-reserves/internal/ledger"
	mysqlrepo "dca-reserves/internal/repositories/mysql"
	"dca-reserves/internal/util"
)

// RateSource sumber histori produksi (ProductionRepo di produksi).
type RateSource interface {
	ListRates(ctx context.Context, f mysqlrepo.RateFilter) ([]decline.RateObservation, error)
	ListPlatformRates(ctx context.Context, wells []string, phase mysqlrepo.Phase, start, end *time.Time) ([]decline.RateObservation, error)
	ListWells(ctx context.Context) ([]string, error)
}

// LedgerStore persistensi ledger (ReservesRepo di produksi).
type LedgerStore interface {
	Upsert(ctx context.Context, e ledger.Entry) error
	Delete(ctx context.Context, wellID string) (bool, error)
	List(ctx context.Context) ([]ledger.Entry, error)
}

// Defaults dipakai kalau request tidak mengisi field terkait.
type Defaults struct {
	HorizonMonths int
	EconomicLimit float64
	Phase         mysqlrepo.Phase
	Basis         decline.CumulativeBasis
	Concurrency   int
}

// ObservationIn observasi inline (tanpa DB). Cumulative nil = tidak tercatat.
type ObservationIn struct {
	Date       string   `json:"date"`
	Rate       float64  `json:"rate"`
	Cumulative *float64 `json:"cumulative,omitempty"`
}

// EvaluateRequest input umum fit/forecast/evaluate (HTTP, MCP, CLI, worker).
type EvaluateRequest struct {
	WellID        string          `json:"well_id"`
	Phase         string          `json:"phase,omitempty"`
	Start         string          `json:"start,omitempty"` // window, YYYY-MM-DD
	End           string          `json:"end,omitempty"`
	ForecastStart string          `json:"forecast_start,omitempty"`
	HorizonMonths int             `json:"horizon_months,omitempty"`
	Intervention  float64         `json:"intervention,omitempty"`
	B             *float64        `json:"b,omitempty"` // nil = best_b
	EconomicLimit *float64        `json:"economic_limit,omitempty"`
	Basis         string          `json:"cumulative_basis,omitempty"`
	Baseline      *float64        `json:"baseline_cumulative,omitempty"`
	Observations  []ObservationIn `json:"observations,omitempty"`
}

// BatchResult hasil per sumur dari EvaluateAll. Err tidak membatalkan batch.
type BatchResult struct {
	WellID   string                   `json:"well_id"`
	Estimate *decline.ReserveEstimate `json:"estimate,omitempty"`
	Err      error                    `json:"-"`
	Error    string                   `json:"error,omitempty"`
}

type ReservesService struct {
	Rates    RateSource  // nil = hanya observasi inline
	Store    LedgerStore // nil = ledger in-memory saja
	Ledger   *ledger.Ledger
	Defaults Defaults
	Log      *logrus.Logger

	// commitMu: upsert ledger + persist store satu unit, urutan store = urutan ledger.
	commitMu sync.Mutex
}

func NewReservesService(rates RateSource, store LedgerStore, l *ledger.Ledger, d Defaults, log *logrus.Logger) *ReservesService {
	if l == nil {
		l = ledger.New(nil)
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	if d.HorizonMonths <= 0 {
		d.HorizonMonths = 120
	}
	if d.Phase == "" {
		d.Phase = mysqlrepo.PhaseOil
	}
	if d.Concurrency <= 0 {
		d.Concurrency = 4
	}
	return &ReservesService{Rates: rates, Store: store, Ledger: l, Defaults: d, Log: log}
}

// LoadObservations: inline kalau ada, kalau tidak dari repo.
func (s *ReservesService) LoadObservations(ctx context.Context, req EvaluateRequest) ([]decline.RateObservation, error) {
	if len(req.Observations) > 0 {
		out := make([]decline.RateObservation, 0, len(req.Observations))
		for i, o := range req.Observations {
			d, err := parseDay(o.Date)
			if err != nil || d.IsZero() {
				return nil, util.BadInput(fmt.Sprintf("observations[%d].date must be YYYY-MM-DD", i))
			}
			ob := decline.RateObservation{Date: d, Rate: o.Rate, Cumulative: math.NaN()}
			if o.Cumulative != nil {
				ob.Cumulative = *o.Cumulative
			}
			out = append(out, ob)
		}
		return out, nil
	}

	if strings.TrimSpace(req.WellID) == "" {
		return nil, util.BadInput("well_id is required")
	}
	if s.Rates == nil {
		return nil, util.Unavailable("production repo not configured")
	}
	phase, err := s.phase(req.Phase)
	if err != nil {
		return nil, err
	}
	start, end, err := window(req)
	if err != nil {
		return nil, err
	}
	return s.Rates.ListRates(ctx, mysqlrepo.RateFilter{
		WellID: req.WellID, Phase: phase, Start: ptrTime(start), End: ptrTime(end),
	})
}

// Fit hanya tahap fitting (untuk tool fit_decline).
func (s *ReservesService) Fit(ctx context.Context, req EvaluateRequest) (decline.DeclineFit, decline.RateSeries, error) {
	obs, err := s.LoadObservations(ctx, req)
	if err != nil {
		return decline.DeclineFit{}, decline.RateSeries{}, err
	}
	start, end, err := window(req)
	if err != nil {
		return decline.DeclineFit{}, decline.RateSeries{}, err
	}
	series, err := decline.NewRateSeries(req.WellID, obs, start, end)
	if err != nil {
		return decline.DeclineFit{}, decline.RateSeries{}, err
	}
	fit, err := decline.Fit(series)
	return fit, series, err
}

// Run pipeline penuh tanpa menyentuh ledger.
func (s *ReservesService) Run(ctx context.Context, req EvaluateRequest) (decline.ScenarioResult, error) {
	obs, err := s.LoadObservations(ctx, req)
	if err != nil {
		return decline.ScenarioResult{}, err
	}
	if len(obs) == 0 {
		return decline.ScenarioResult{}, fmt.Errorf("%w: well %s has no production history", decline.ErrInsufficientData, req.WellID)
	}
	p, err := s.params(req, obs)
	if err != nil {
		return decline.ScenarioResult{}, err
	}
	return decline.RunScenario(req.WellID, obs, p)
}

// Evaluate = Run + upsert ledger + persist (kalau Store ada).
func (s *ReservesService) Evaluate(ctx context.Context, req EvaluateRequest) (decline.ScenarioResult, ledger.Entry, error) {
	if strings.TrimSpace(req.WellID) == "" {
		return decline.ScenarioResult{}, ledger.Entry{}, util.BadInput("well_id is required")
	}
	res, err := s.Run(ctx, req)
	if err != nil {
		s.Log.WithError(err).WithField("well_id", req.WellID).Warn("reserves evaluation failed")
		return decline.ScenarioResult{}, ledger.Entry{}, err
	}
	e, err := s.commit(ctx, req, res)
	return res, e, err
}

// EvaluatePlatform menjumlahkan rate semua sumur per tanggal lalu mengevaluasinya
// sebagai satu pseudo-well bernama platform. Baseline default: running_sum.
func (s *ReservesService) EvaluatePlatform(ctx context.Context, platform string, wells []string, req EvaluateRequest) (decline.ScenarioResult, ledger.Entry, error) {
	if strings.TrimSpace(platform) == "" {
		return decline.ScenarioResult{}, ledger.Entry{}, util.BadInput("platform is required")
	}
	if len(wells) == 0 {
		return decline.ScenarioResult{}, ledger.Entry{}, util.BadInput("wells is required")
	}
	if s.Rates == nil {
		return decline.ScenarioResult{}, ledger.Entry{}, util.Unavailable("production repo not configured")
	}
	phase, err := s.phase(req.Phase)
	if err != nil {
		return decline.ScenarioResult{}, ledger.Entry{}, err
	}
	start, end, err := window(req)
	if err != nil {
		return decline.ScenarioResult{}, ledger.Entry{}, err
	}
	obs, err := s.Rates.ListPlatformRates(ctx, wells, phase, ptrTime(start), ptrTime(end))
	if err != nil {
		return decline.ScenarioResult{}, ledger.Entry{}, err
	}
	if len(obs) == 0 {
		return decline.ScenarioResult{}, ledger.Entry{}, fmt.Errorf("%w: platform %s has no production history", decline.ErrInsufficientData, platform)
	}

	req.WellID = platform
	if req.Basis == "" {
		req.Basis = string(decline.BasisRunningSum)
	}
	p, err := s.params(req, obs)
	if err != nil {
		return decline.ScenarioResult{}, ledger.Entry{}, err
	}
	res, err := decline.RunScenario(platform, obs, p)
	if err != nil {
		return decline.ScenarioResult{}, ledger.Entry{}, err
	}
	e, err := s.commit(ctx, req, res)
	return res, e, err
}

// EvaluateAll mengevaluasi tiap sumur secara paralel (dibatasi Defaults.Concurrency).
// wells kosong = semua sumur dari repo.
func (s *ReservesService) EvaluateAll(ctx context.Context, wells []string, tmpl EvaluateRequest) ([]BatchResult, error) {
	if len(wells) == 0 {
		if s.Rates == nil {
			return nil, util.Unavailable("production repo not configured")
		}
		var err error
		if wells, err = s.Rates.ListWells(ctx); err != nil {
			return nil, err
		}
	}

	results := make([]BatchResult, len(wells))
	var g errgroup.Group
	g.SetLimit(s.Defaults.Concurrency)
	for i, w := range wells {
		g.Go(func() error {
			br := BatchResult{WellID: w}
			if err := ctx.Err(); err != nil {
				br.Err = err
			} else {
				req := tmpl
				req.WellID = w
				req.Observations = nil
				if _, e, err := s.Evaluate(ctx, req); err != nil {
					br.Err = err
				} else {
					est := e.Estimate
					br.Estimate = &est
				}
			}
			if br.Err != nil {
				br.Error = br.Err.Error()
			}
			results[i] = br
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	s.Log.WithFields(logrus.Fields{"wells": len(wells), "failed": failed}).Info("batch evaluation done")
	return results, ctx.Err()
}

// Remove dari ledger (dan store). false kalau tidak ada di keduanya.
func (s *ReservesService) Remove(ctx context.Context, wellID string) (bool, error) {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()
	removed := s.Ledger.Remove(wellID)
	if s.Store != nil {
		ok, err := s.Store.Delete(ctx, wellID)
		if err != nil {
			return removed, err
		}
		removed = removed || ok
	}
	return removed, nil
}

// Restore mengisi ledger dari store saat startup.
func (s *ReservesService) Restore(ctx context.Context) (int, error) {
	if s.Store == nil {
		return 0, nil
	}
	s.commitMu.Lock()
	defer s.commitMu.Unlock()
	rows, err := s.Store.List(ctx)
	if err != nil {
		return 0, err
	}
	s.Ledger.Replace(rows)
	s.Log.WithField("rows", len(rows)).Info("reserves ledger restored")
	return len(rows), nil
}

func (s *ReservesService) commit(ctx context.Context, req EvaluateRequest, res decline.ScenarioResult) (ledger.Entry, error) {
	start, end, _ := window(req)

	s.commitMu.Lock()
	defer s.commitMu.Unlock()
	e := s.Ledger.Upsert(ledger.Entry{
		WellID:        res.Estimate.WellID,
		WindowStart:   start,
		WindowEnd:     end,
		ForecastStart: res.Forecast.Start,
		Intervention:  req.Intervention,
		Estimate:      res.Estimate,
	})

	s.Log.WithFields(logrus.Fields{
		"well_id":  e.WellID,
		"model":    res.Estimate.Model,
		"b":        res.Estimate.B,
		"reserves": res.Estimate.Reserves,
		"status":   res.Estimate.Status,
	}).Info("reserves evaluated")

	if s.Store != nil {
		if err := s.Store.Upsert(ctx, e); err != nil {
			s.Log.WithError(err).WithField("well_id", e.WellID).Error("persist reserves failed")
			return e, err
		}
	}
	return e, nil
}

// params menerjemahkan request + default menjadi ScenarioParams.
func (s *ReservesService) params(req EvaluateRequest, obs []decline.RateObservation) (decline.ScenarioParams, error) {
	start, end, err := window(req)
	if err != nil {
		return decline.ScenarioParams{}, err
	}
	p := decline.ScenarioParams{
		WindowStart:   start,
		WindowEnd:     end,
		HorizonMonths: req.HorizonMonths,
		Intervention:  req.Intervention,
		EconomicLimit: s.Defaults.EconomicLimit,
		Basis:         s.Defaults.Basis,
		Baseline:      req.Baseline,
	}
	if p.HorizonMonths == 0 {
		p.HorizonMonths = s.Defaults.HorizonMonths
	}
	if req.EconomicLimit != nil {
		p.EconomicLimit = *req.EconomicLimit
	}
	if req.Basis != "" {
		p.Basis = decline.CumulativeBasis(req.Basis)
	}
	if req.B != nil {
		p.B = *req.B
	} else {
		p.UseBestB = true
	}

	if req.ForecastStart != "" {
		fs, err := parseDay(req.ForecastStart)
		if err != nil {
			return decline.ScenarioParams{}, util.BadInput("forecast_start must be YYYY-MM-DD")
		}
		p.ForecastStart = fs
	} else {
		p.ForecastStart = defaultForecastStart(obs, end)
	}
	return p, nil
}

// defaultForecastStart: awal bulan setelah observasi terakhir di window.
func defaultForecastStart(obs []decline.RateObservation, end time.Time) time.Time {
	var last time.Time
	for _, o := range obs {
		if !end.IsZero() && o.Date.After(end) {
			continue
		}
		if o.Date.After(last) {
			last = o.Date
		}
	}
	if last.IsZero() {
		return time.Time{}
	}
	return decline.MonthStart(last).AddDate(0, 1, 0)
}

func (s *ReservesService) phase(v string) (mysqlrepo.Phase, error) {
	if strings.TrimSpace(v) == "" {
		return s.Defaults.Phase, nil
	}
	p, err := mysqlrepo.ParsePhase(v)
	if err != nil {
		return "", util.BadInput(err.Error())
	}
	return p, nil
}

func window(req EvaluateRequest) (time.Time, time.Time, error) {
	start, err := parseDay(req.Start)
	if err != nil {
		return time.Time{}, time.Time{}, util.BadInput("start must be YYYY-MM-DD")
	}
	end, err := parseDay(req.End)
	if err != nil {
		return time.Time{}, time.Time{}, util.BadInput("end must be YYYY-MM-DD")
	}
	return start, end, nil
}

// parseDay "" -> zero time.
func parseDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", s)
}

func ptrTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
