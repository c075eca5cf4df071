// internal/app/app.go
package app

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"dca-reserves/internal/config"
	"dca-reserves/internal/decline"
	hh "dca-reserves/internal/handlers/http"
	mcphandlers "dca-reserves/internal/handlers/mcp"
	"dca-reserves/internal/ledger"
	"dca-reserves/internal/mcp"
	"dca-reserves/internal/mcp/llm"
	mysqlrepo "dca-reserves/internal/repositories/mysql"
	"dca-reserves/internal/services"
	"dca-reserves/pkg/db"
)

// App menampung router utama + dependency yang dipakai cmd/*.
type App struct {
	Router   *mux.Router
	DB       *sql.DB // nil = mode tanpa DB (observasi inline saja)
	Reserves *services.ReservesService
	Log      *logrus.Logger
	Config   *config.Config
}

// New membuat App: koneksi DB (kalau dikonfigurasi), service reserves, registrasi
// semua routes (HTTP & MCP). DB yang gagal di-ping tidak fatal.
func New(cfg *config.Config, log *logrus.Logger) *App {
	if cfg == nil {
		cfg = config.Load()
	}
	if log == nil {
		log = config.Logger()
	}
	a := &App{Router: mux.NewRouter(), Log: log, Config: cfg}

	// === init DB ===
	opts := DBOptions(cfg)
	if opts.Configured() {
		conn, err := db.NewMySQL(opts)
		if err != nil {
			log.WithError(err).Warn("open mysql failed")
		} else {
			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			err = db.WaitReady(ctx, conn, 20, 3*time.Second)
			cancel()
			if err != nil {
				log.WithError(err).Error("mysql not ready")
				_ = conn.Close()
			} else {
				a.DB = conn
			}
		}
	} else {
		log.Warn("DB_DSN/MYSQL_HOST empty; skipping DB init")
	}

	// === service reserves ===
	var (
		rates services.RateSource
		store services.LedgerStore
	)
	if a.DB != nil {
		prod := &mysqlrepo.ProductionRepo{DB: a.DB}
		rates = prod
		store = &mysqlrepo.ReservesRepo{DB: a.DB}
		mcphandlers.SetProductionRepo(prod)
		hh.SetReadyCheck(a.DB.PingContext)
	}
	a.Reserves = services.NewReservesService(rates, store, ledger.New(nil), ServiceDefaults(cfg), log)
	mcphandlers.SetReservesService(a.Reserves)
	hh.SetLedgerGauge(a.Reserves.Ledger.Len)

	// === router MCP ===
	mcp.SetLogger(log)
	if c, err := llm.New(cfg.LLM); err == nil {
		mcp.SetLLM(c)
		mcphandlers.SetLLMReady(true)
	} else {
		mcphandlers.SetLLMReady(false)
	}
	RegisterMCPTools()

	RegisterRoutes(a.Router, cfg)
	return a
}

// Restore memuat ledger tersimpan ke memori (no-op tanpa DB).
func (a *App) Restore(ctx context.Context) {
	if n, err := a.Reserves.Restore(ctx); err != nil {
		a.Log.WithError(err).Warn("restore reserves ledger failed")
	} else if n > 0 {
		a.Log.WithField("rows", n).Info("ledger ready")
	}
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

// DBOptions memetakan config.MySQL ke pkg/db.
func DBOptions(cfg *config.Config) db.Options {
	return db.Options{
		DSN:      cfg.MySQL.DSN,
		Host:     cfg.MySQL.Host,
		Port:     cfg.MySQL.Port,
		DB:       cfg.MySQL.DB,
		User:     cfg.MySQL.User,
		Password: cfg.MySQL.Password,
		MaxOpen:  cfg.MySQL.MaxOpen,
		MaxIdle:  cfg.MySQL.MaxIdle,
	}
}

// ServiceDefaults skenario default dari config; nilai invalid jatuh ke default layanan.
func ServiceDefaults(cfg *config.Config) services.Defaults {
	d := services.Defaults{
		HorizonMonths: cfg.DCA.HorizonMonths,
		EconomicLimit: cfg.DCA.EconomicLimit,
		Concurrency:   cfg.Worker.Concurrency,
	}
	if p, err := mysqlrepo.ParsePhase(cfg.DCA.Phase); err == nil {
		d.Phase = p
	}
	if b, err := decline.ParseCumulativeBasis(cfg.DCA.CumulativeBasis); err == nil {
		d.Basis = b
	}
	return d
}

// ----------------- MCP Wiring -----------------

// RegisterMCPTools mendaftarkan semua tool MCP ke registry default.
func RegisterMCPTools() {
	mcp.Register("get_production", http.HandlerFunc(mcphandlers.GetProductionHandler))
	mcp.Register("fit_decline", http.HandlerFunc(mcphandlers.FitDeclineHandler))
	mcp.Register("forecast_decline", http.HandlerFunc(mcphandlers.ForecastDeclineHandler))
	mcp.Register("evaluate_reserves", http.HandlerFunc(mcphandlers.EvaluateReservesHandler))
	mcp.Register("reserves_ledger", http.HandlerFunc(mcphandlers.ReservesLedgerHandler))
	mcp.Register("remove_reserves", http.HandlerFunc(mcphandlers.RemoveReservesHandler))
}
